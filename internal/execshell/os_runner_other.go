//go:build !windows

package execshell

import "os/exec"

func configurePlatformCommandLine(*exec.Cmd, ShellCommand) {}
