//go:build windows

package execshell

import (
	"os/exec"
	"syscall"
)

func configurePlatformCommandLine(executable *exec.Cmd, command ShellCommand) {
	if command.Name != CommandWindowsShell {
		return
	}
	executable.SysProcAttr = &syscall.SysProcAttr{CmdLine: windowsShellCommandLine(command)}
}
