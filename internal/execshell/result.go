package execshell

import "fmt"

const (
	executionResultDebugTemplateConstant = "ExecutionResult{ExitCode: %d, Signal: %q, StandardOutput: %q, StandardError: %q}"
	signalExitCodeConstant               = -1
)

// ExecutionResult captures what a child process produced.
type ExecutionResult struct {
	ExitCode       int    `yaml:"exit_code"`
	Signal         string `yaml:"signal,omitempty"`
	StandardOutput string `yaml:"stdout"`
	StandardError  string `yaml:"stderr"`
}

// Succeeded reports whether the child exited normally with code zero.
func (result ExecutionResult) Succeeded() bool {
	return result.ExitCode == 0 && len(result.Signal) == 0
}

// TerminatedBySignal reports whether the child was stopped by a signal instead of exiting.
func (result ExecutionResult) TerminatedBySignal() bool {
	return result.ExitCode == signalExitCodeConstant && len(result.Signal) > 0
}

// String renders the debug representation; captured streams are quoted byte for byte.
func (result ExecutionResult) String() string {
	return fmt.Sprintf(executionResultDebugTemplateConstant, result.ExitCode, result.Signal, result.StandardOutput, result.StandardError)
}
