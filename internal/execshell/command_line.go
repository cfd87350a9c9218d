package execshell

import "strings"

const (
	commandLineSeparatorConstant = " "
	commandLineQuoteConstant     = `"`
)

// windowsShellCommandLine renders the raw cmd.exe command line. The wrapped
// command is enclosed in one pair of quotes that cmd strips, so quotes inside
// it reach cmd untouched instead of being backslash-escaped.
func windowsShellCommandLine(command ShellCommand) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return string(command.Name)
	}

	commandLineParts := make([]string, 0, len(arguments)+1)
	commandLineParts = append(commandLineParts, string(command.Name))
	commandLineParts = append(commandLineParts, arguments[:len(arguments)-1]...)
	commandLineParts = append(commandLineParts, commandLineQuoteConstant+arguments[len(arguments)-1]+commandLineQuoteConstant)

	return strings.Join(commandLineParts, commandLineSeparatorConstant)
}
