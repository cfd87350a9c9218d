package execshell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	commandPOSIXShellStringConstant           = "sh"
	commandWindowsShellStringConstant         = "cmd"
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	executionErrorTemplateConstant            = "%s could not be started: %v"
	logFieldCommandNameConstant               = "command_name"
	logFieldCommandArgumentsConstant          = "command_arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldSignalConstant                    = "signal"
	logFieldStandardOutputBytesConstant       = "stdout_bytes"
	logFieldStandardErrorBytesConstant        = "stderr_bytes"
)

// CommandName identifies a shell binary the executor can invoke.
type CommandName string

// Supported shell binaries.
const (
	CommandPOSIXShell   CommandName = CommandName(commandPOSIXShellStringConstant)
	CommandWindowsShell CommandName = CommandName(commandWindowsShellStringConstant)
)

// CommandDetails describes how a shell is invoked. EnvironmentVariables are
// added to the inherited environment and win over inherited values.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand pairs a shell binary with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// CommandRunner runs a ShellCommand to completion and captures its result.
// Implementations return an error only when the process could not be started
// or awaited; a non-zero exit code is reported through ExecutionResult.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates that NewShellExecutor received a nil logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates that NewShellExecutor received a nil runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandExecutionError reports that the operating system could not create the child process.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the spawn failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(executionErrorTemplateConstant, executionError.Command.Name, executionError.Cause)
}

// Unwrap exposes the underlying os/exec failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs shell commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger           *zap.Logger
	commandRunner    CommandRunner
	eventObserver    CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor. Optional observers receive every lifecycle event.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, eventObservers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:           logger,
		commandRunner:    commandRunner,
		eventObserver:    newCommandEventObserver(eventObservers),
		messageFormatter: CommandMessageFormatter{},
	}, nil
}

// Execute runs the command and blocks until the child exits. The child's exit
// code is never treated as an error; only spawn failures are.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Info(executor.messageFormatter.BuildStartedMessage(command), commandFields...)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(executor.messageFormatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	resultFields := append(commandFields,
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.Int(logFieldStandardOutputBytesConstant, len(executionResult.StandardOutput)),
		zap.Int(logFieldStandardErrorBytesConstant, len(executionResult.StandardError)),
	)
	if len(executionResult.Signal) > 0 {
		resultFields = append(resultFields, zap.String(logFieldSignalConstant, executionResult.Signal))
	}

	if executionResult.Succeeded() {
		executor.logger.Info(executor.messageFormatter.BuildSuccessMessage(command), resultFields...)
	} else {
		executor.logger.Warn(executor.messageFormatter.BuildFailureMessage(command, executionResult), resultFields...)
	}
	executor.eventObserver.CommandCompleted(command, executionResult)

	return executionResult, nil
}
