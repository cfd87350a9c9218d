// Package execshell provides structured helpers for invoking external shells.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions the launcher uses to
// run a POSIX or Windows command shell in a testable manner.
package execshell
