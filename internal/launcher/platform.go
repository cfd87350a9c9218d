package launcher

import (
	"runtime"
	"strings"

	"github.com/temirov/tulaunch/internal/execshell"
)

const (
	windowsOperatingSystemConstant     = "windows"
	posixShellCommandFlagConstant      = "-c"
	windowsShellCommandFlagConstant    = "/C"
	commandLineSeparatorConstant       = " "
	posixSingleQuoteConstant           = "'"
	posixEscapedSingleQuoteConstant    = `'\''`
	windowsDoubleQuoteConstant         = `"`
	posixPlainArgumentCharacters       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-./:+=@%,"
	windowsArgumentSpecialCharacters   = " \t&|<>^(),;="
	windowsArgumentPlaceholderConstant = `""`
)

// HostOperatingSystem reports the GOOS value used for shell selection.
func HostOperatingSystem() string {
	return runtime.GOOS
}

// QuoteShellArgument makes argument a single word for the native shell of operatingSystem.
// Values that are already a plain word are returned unchanged.
func QuoteShellArgument(operatingSystem string, argument string) string {
	if operatingSystem == windowsOperatingSystemConstant {
		if len(argument) == 0 {
			return windowsArgumentPlaceholderConstant
		}
		if !strings.ContainsAny(argument, windowsArgumentSpecialCharacters) {
			return argument
		}
		return windowsDoubleQuoteConstant + argument + windowsDoubleQuoteConstant
	}

	if len(argument) > 0 && len(strings.Trim(argument, posixPlainArgumentCharacters)) == 0 {
		return argument
	}
	return posixSingleQuoteConstant + strings.ReplaceAll(argument, posixSingleQuoteConstant, posixEscapedSingleQuoteConstant) + posixSingleQuoteConstant
}

// BuildCommandLine joins the interpreter and the quoted script. The interpreter is
// passed through as written so it may carry its own flags.
func BuildCommandLine(operatingSystem string, interpreter string, script string) string {
	return interpreter + commandLineSeparatorConstant + QuoteShellArgument(operatingSystem, script)
}

// BuildShellCommand wraps commandLine in the native shell for operatingSystem:
// cmd /C on Windows and sh -c everywhere else.
func BuildShellCommand(operatingSystem string, commandLine string, workingDirectory string, environmentVariables map[string]string) execshell.ShellCommand {
	shellName := execshell.CommandPOSIXShell
	shellFlag := posixShellCommandFlagConstant
	if operatingSystem == windowsOperatingSystemConstant {
		shellName = execshell.CommandWindowsShell
		shellFlag = windowsShellCommandFlagConstant
	}

	return execshell.ShellCommand{
		Name: shellName,
		Details: execshell.CommandDetails{
			Arguments:            []string{shellFlag, commandLine},
			WorkingDirectory:     workingDirectory,
			EnvironmentVariables: environmentVariables,
		},
	}
}
