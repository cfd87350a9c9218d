package launcher

import (
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tulaunch/internal/execshell"
	"github.com/temirov/tulaunch/internal/ui"
	"github.com/temirov/tulaunch/internal/utils"
)

const (
	unexpectedArgumentsMessageConstant = "the launcher does not accept positional arguments"
	logFieldRunIdentifierConstant      = "run_id"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved launcher configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder wires the launcher into a Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	CommandRunner                execshell.CommandRunner
	OperatingSystem              string
}

// Run launches the entry point; it is suitable as a cobra RunE.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := builder.resolveLogger().With(zap.String(logFieldRunIdentifierConstant, uuid.NewString()))

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(logger, executor, builder.resolveOutput(command), builder.OperatingSystem)
	if serviceError != nil {
		return serviceError
	}

	_, launchError := service.Launch(command.Context(), builder.resolveConfiguration())
	return launchError
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	var eventObservers []execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObservers = append(eventObservers, ui.NewConsoleCommandEventLogger(logger))
		logger = zap.NewNop()
	}

	return execshell.NewShellExecutor(logger, commandRunner, eventObservers...)
}

func (builder *CommandBuilder) resolveOutput(command *cobra.Command) io.Writer {
	return utils.NewFlushingWriter(command.OutOrStdout())
}
