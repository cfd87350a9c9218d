package launcher

import (
	"errors"
	"fmt"
	"strings"
)

const (
	defaultInterpreterConstant        = "python"
	defaultScriptPathConstant         = "../main.py"
	outputFormatDebugStringConstant   = "debug"
	outputFormatYAMLStringConstant    = "yaml"
	unsupportedOutputFormatTemplate   = "unsupported output format %q (expected debug or yaml)"
	configurationKeySeparatorConstant = "."
	interpreterConfigurationKey       = "interpreter"
	scriptConfigurationKey            = "script"
	workingDirectoryConfigurationKey  = "working_directory"
	outputFormatConfigurationKey      = "output_format"
	propagateExitCodeConfigurationKey = "propagate_exit_code"
	environmentConfigurationKey       = "environment"
	environmentAssignmentSeparator    = "="
	invalidEnvironmentEntryTemplate   = "%w: %q (expected KEY=VALUE)"
	invalidEnvironmentEntryMessage    = "invalid launcher environment entry"
)

// ErrInvalidEnvironmentEntry indicates a launcher.environment entry that is not KEY=VALUE.
var ErrInvalidEnvironmentEntry = errors.New(invalidEnvironmentEntryMessage)

// OutputFormat selects how the captured result is written to standard output.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatDebug OutputFormat = OutputFormat(outputFormatDebugStringConstant)
	OutputFormatYAML  OutputFormat = OutputFormat(outputFormatYAMLStringConstant)
)

// UnmarshalText validates configuration values decoded into an OutputFormat.
func (outputFormat *OutputFormat) UnmarshalText(text []byte) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(string(text)))
	switch OutputFormat(normalizedValue) {
	case "":
		*outputFormat = OutputFormatDebug
	case OutputFormatDebug, OutputFormatYAML:
		*outputFormat = OutputFormat(normalizedValue)
	default:
		return fmt.Errorf(unsupportedOutputFormatTemplate, string(text))
	}
	return nil
}

// Configuration captures the launch target and reporting options.
type Configuration struct {
	Interpreter       string       `mapstructure:"interpreter"`
	Script            string       `mapstructure:"script"`
	WorkingDirectory  string       `mapstructure:"working_directory"`
	OutputFormat      OutputFormat `mapstructure:"output_format"`
	PropagateExitCode bool         `mapstructure:"propagate_exit_code"`
	Environment       []string     `mapstructure:"environment"`
}

// DefaultConfiguration reproduces the historical launcher: python ../main.py from the current directory.
func DefaultConfiguration() Configuration {
	return Configuration{
		Interpreter:       defaultInterpreterConstant,
		Script:            defaultScriptPathConstant,
		WorkingDirectory:  "",
		OutputFormat:      OutputFormatDebug,
		PropagateExitCode: false,
		Environment:       []string{},
	}
}

// DefaultConfigurationValues returns viper defaults rooted at keyPrefix.
func DefaultConfigurationValues(keyPrefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		qualifyKey(keyPrefix, interpreterConfigurationKey):       defaults.Interpreter,
		qualifyKey(keyPrefix, scriptConfigurationKey):            defaults.Script,
		qualifyKey(keyPrefix, workingDirectoryConfigurationKey):  defaults.WorkingDirectory,
		qualifyKey(keyPrefix, outputFormatConfigurationKey):      string(defaults.OutputFormat),
		qualifyKey(keyPrefix, propagateExitCodeConfigurationKey): defaults.PropagateExitCode,
		qualifyKey(keyPrefix, environmentConfigurationKey):       defaults.Environment,
	}
}

// CommandLine renders the string handed to the native shell of operatingSystem.
func (configuration Configuration) CommandLine(operatingSystem string) string {
	sanitized := configuration.sanitize()
	return BuildCommandLine(operatingSystem, sanitized.Interpreter, sanitized.Script)
}

// EnvironmentVariables parses the KEY=VALUE entries added to the child's environment.
// Blank entries are skipped; a later entry overrides an earlier one with the same key.
func (configuration Configuration) EnvironmentVariables() (map[string]string, error) {
	environmentVariables := make(map[string]string, len(configuration.Environment))
	for _, environmentEntry := range configuration.Environment {
		trimmedEntry := strings.TrimSpace(environmentEntry)
		if len(trimmedEntry) == 0 {
			continue
		}
		environmentKey, environmentValue, separatorFound := strings.Cut(trimmedEntry, environmentAssignmentSeparator)
		environmentKey = strings.TrimSpace(environmentKey)
		if !separatorFound || len(environmentKey) == 0 {
			return nil, fmt.Errorf(invalidEnvironmentEntryTemplate, ErrInvalidEnvironmentEntry, environmentEntry)
		}
		environmentVariables[environmentKey] = environmentValue
	}
	return environmentVariables, nil
}

// sanitize trims values and restores defaults for blank launch targets.
func (configuration Configuration) sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.Interpreter = strings.TrimSpace(configuration.Interpreter)
	if len(sanitized.Interpreter) == 0 {
		sanitized.Interpreter = defaults.Interpreter
	}

	sanitized.Script = strings.TrimSpace(configuration.Script)
	if len(sanitized.Script) == 0 {
		sanitized.Script = defaults.Script
	}

	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)

	if len(sanitized.OutputFormat) == 0 {
		sanitized.OutputFormat = defaults.OutputFormat
	}

	return sanitized
}

func qualifyKey(keyPrefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(keyPrefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
