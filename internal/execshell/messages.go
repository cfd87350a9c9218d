package execshell

import (
	"fmt"
	"strings"
)

const (
	startedTemplateConstant                = "Running %s"
	completedTemplateConstant              = "Completed %s"
	exitCodeFailureTemplateConstant        = "%s exited with code %d%s"
	signalFailureTemplateConstant          = "%s was terminated (%s)%s"
	executionFailureTemplateConstant       = "%s could not be started: %s"
	shellCommandLabelTemplateConstant      = "%q via %s"
	commandLabelTemplateConstant           = "%s%s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	standardErrorSuffixTemplateConstant    = ": %s"
	commandArgumentsJoinSeparatorConstant  = " "
	posixShellCommandFlagConstant          = "-c"
	windowsShellCommandFlagConstant        = "/C"
	unknownFailureMessageConstant          = "unknown error"
	emptyStringConstant                    = ""
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage formats the message describing a child that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(completedTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildFailureMessage formats the message describing a child that exited non-zero or by signal.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)
	if result.TerminatedBySignal() {
		return fmt.Sprintf(signalFailureTemplateConstant, formatter.formatCommandLabel(command), result.Signal, standardErrorSuffix)
	}
	return fmt.Sprintf(exitCodeFailureTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode, standardErrorSuffix)
}

// BuildExecutionFailureMessage formats the message describing a spawn failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(executionFailureTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := formatter.formatShellLabel(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

// formatShellLabel prefers the wrapped command line over the raw shell arguments.
func (formatter CommandMessageFormatter) formatShellLabel(command ShellCommand) string {
	arguments := command.Details.Arguments
	if len(arguments) == 2 && isShellCommandFlag(command.Name, arguments[0]) {
		return fmt.Sprintf(shellCommandLabelTemplateConstant, arguments[1], command.Name)
	}

	commandParts := []string{string(command.Name)}
	if len(arguments) > 0 {
		commandParts = append(commandParts, strings.Join(arguments, commandArgumentsJoinSeparatorConstant))
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func isShellCommandFlag(commandName CommandName, argument string) bool {
	switch commandName {
	case CommandPOSIXShell:
		return argument == posixShellCommandFlagConstant
	case CommandWindowsShell:
		return strings.EqualFold(argument, windowsShellCommandFlagConstant)
	default:
		return false
	}
}
