package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/tulaunch/internal/execshell"
	pathutils "github.com/temirov/tulaunch/internal/utils/path"
)

const (
	loggerNotConfiguredMessageConstant   = "launcher logger not configured"
	executorNotConfiguredMessageConstant = "launcher executor not configured"
	outputNotConfiguredMessageConstant   = "launcher output writer not configured"
	launchFailedTemplateConstant         = "failed to launch %s: %w"
	resultEncodingErrorTemplateConstant  = "unable to encode launch result: %w"
	resultWriteErrorTemplateConstant     = "unable to write launch result: %w"
	childExitErrorTemplateConstant       = "launched process exited with status %d"
	childSignalErrorTemplateConstant     = "launched process was terminated (%s)"
	launchStartedMessageConstant         = "launching entry point"
	launchCompletedMessageConstant       = "entry point finished"
	logFieldCommandLineConstant          = "command_line"
	logFieldOperatingSystemConstant      = "operating_system"
	logFieldOutputFormatConstant         = "output_format"
	logFieldChildExitCodeConstant        = "child_exit_code"
	logFieldPropagateExitCodeConstant    = "propagate_exit_code"
	logFieldEnvironmentEntriesConstant   = "environment_entries"
	resultLineTerminatorConstant         = "\n"
	signalTerminationExitStatusConstant  = 1
)

var (
	// ErrLoggerNotConfigured indicates that NewService received a nil logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrExecutorNotConfigured indicates that NewService received a nil executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrOutputNotConfigured indicates that NewService received a nil output writer.
	ErrOutputNotConfigured = errors.New(outputNotConfiguredMessageConstant)
)

// ShellCommandExecutor runs a shell command to completion.
type ShellCommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// ChildExitError carries a non-successful child status when exit code propagation is enabled.
type ChildExitError struct {
	Result execshell.ExecutionResult
}

// Error describes the child status.
func (exitError ChildExitError) Error() string {
	if exitError.Result.TerminatedBySignal() {
		return fmt.Sprintf(childSignalErrorTemplateConstant, exitError.Result.Signal)
	}
	return fmt.Sprintf(childExitErrorTemplateConstant, exitError.Result.ExitCode)
}

// ExitStatus returns the status the launcher should exit with.
func (exitError ChildExitError) ExitStatus() int {
	if exitError.Result.ExitCode <= 0 {
		return signalTerminationExitStatusConstant
	}
	return exitError.Result.ExitCode
}

// Service launches the configured entry point and reports its captured result.
type Service struct {
	logger          *zap.Logger
	executor        ShellCommandExecutor
	output          io.Writer
	operatingSystem string
	homeExpander    *pathutils.HomeExpander
}

// NewService constructs a Service that selects its shell for operatingSystem.
func NewService(logger *zap.Logger, executor ShellCommandExecutor, output io.Writer, operatingSystem string) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if output == nil {
		return nil, ErrOutputNotConfigured
	}
	if len(operatingSystem) == 0 {
		operatingSystem = HostOperatingSystem()
	}

	return &Service{
		logger:          logger,
		executor:        executor,
		output:          output,
		operatingSystem: operatingSystem,
		homeExpander:    pathutils.NewHomeExpander(),
	}, nil
}

// Launch runs the entry point once, blocks until it exits, and writes the captured
// result. Nothing is written when the environment entries are invalid or the
// shell cannot be started.
func (service *Service) Launch(executionContext context.Context, configuration Configuration) (execshell.ExecutionResult, error) {
	sanitizedConfiguration := configuration.sanitize()
	environmentVariables, environmentError := sanitizedConfiguration.EnvironmentVariables()
	if environmentError != nil {
		return execshell.ExecutionResult{}, environmentError
	}

	sanitizedConfiguration.Script = service.homeExpander.Expand(sanitizedConfiguration.Script)
	commandLine := sanitizedConfiguration.CommandLine(service.operatingSystem)
	workingDirectory := service.homeExpander.Expand(sanitizedConfiguration.WorkingDirectory)
	shellCommand := BuildShellCommand(service.operatingSystem, commandLine, workingDirectory, environmentVariables)

	service.logger.Debug(
		launchStartedMessageConstant,
		zap.String(logFieldCommandLineConstant, commandLine),
		zap.String(logFieldOperatingSystemConstant, service.operatingSystem),
		zap.String(logFieldOutputFormatConstant, string(sanitizedConfiguration.OutputFormat)),
		zap.Int(logFieldEnvironmentEntriesConstant, len(environmentVariables)),
	)

	executionResult, executionError := service.executor.Execute(executionContext, shellCommand)
	if executionError != nil {
		return execshell.ExecutionResult{}, fmt.Errorf(launchFailedTemplateConstant, commandLine, executionError)
	}

	renderedResult, renderError := renderResult(executionResult, sanitizedConfiguration.OutputFormat)
	if renderError != nil {
		return executionResult, renderError
	}
	if _, writeError := io.WriteString(service.output, renderedResult); writeError != nil {
		return executionResult, fmt.Errorf(resultWriteErrorTemplateConstant, writeError)
	}

	service.logger.Debug(
		launchCompletedMessageConstant,
		zap.Int(logFieldChildExitCodeConstant, executionResult.ExitCode),
		zap.Bool(logFieldPropagateExitCodeConstant, sanitizedConfiguration.PropagateExitCode),
	)

	if sanitizedConfiguration.PropagateExitCode && !executionResult.Succeeded() {
		return executionResult, ChildExitError{Result: executionResult}
	}

	return executionResult, nil
}

func renderResult(executionResult execshell.ExecutionResult, outputFormat OutputFormat) (string, error) {
	if outputFormat != OutputFormatYAML {
		return executionResult.String() + resultLineTerminatorConstant, nil
	}

	encodedResult, encodingError := yaml.Marshal(executionResult)
	if encodingError != nil {
		return "", fmt.Errorf(resultEncodingErrorTemplateConstant, encodingError)
	}
	return string(encodedResult), nil
}
