package execshell_test

import (
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tulaunch/internal/execshell"
)

func requirePOSIXShell(testInstance *testing.T) {
	testInstance.Helper()
	if runtime.GOOS == "windows" {
		testInstance.Skip("POSIX shell scenarios")
	}
	if _, lookupError := exec.LookPath(string(execshell.CommandPOSIXShell)); lookupError != nil {
		testInstance.Skip("sh not available")
	}
}

func TestOSCommandRunnerCapturesChildResult(testInstance *testing.T) {
	requirePOSIXShell(testInstance)

	testCases := []struct {
		name           string
		commandLine    string
		environment    map[string]string
		expectedResult execshell.ExecutionResult
	}{
		{
			name:           "standard_output",
			commandLine:    "printf hello",
			expectedResult: execshell.ExecutionResult{StandardOutput: "hello"},
		},
		{
			name:           "standard_error_and_exit_code",
			commandLine:    "printf oops >&2; exit 3",
			expectedResult: execshell.ExecutionResult{StandardError: "oops", ExitCode: 3},
		},
		{
			name:           "environment_variables",
			commandLine:    "printf %s \"$TULAUNCH_TEST_VALUE\"",
			environment:    map[string]string{"TULAUNCH_TEST_VALUE": "inventory"},
			expectedResult: execshell.ExecutionResult{StandardOutput: "inventory"},
		},
		{
			name:           "environment_overrides_inherited_value",
			commandLine:    "printf %s \"$HOME\"",
			environment:    map[string]string{"HOME": "/srv/inventory"},
			expectedResult: execshell.ExecutionResult{StandardOutput: "/srv/inventory"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			runner := execshell.NewOSCommandRunner()
			command := execshell.ShellCommand{
				Name: execshell.CommandPOSIXShell,
				Details: execshell.CommandDetails{
					Arguments:            []string{"-c", testCase.commandLine},
					WorkingDirectory:     testInstance.TempDir(),
					EnvironmentVariables: testCase.environment,
				},
			}

			executionResult, runError := runner.Run(context.Background(), command)
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedResult, executionResult)
		})
	}
}

func TestOSCommandRunnerReportsSignalTermination(testInstance *testing.T) {
	requirePOSIXShell(testInstance)

	runner := execshell.NewOSCommandRunner()
	command := execshell.ShellCommand{
		Name:    execshell.CommandPOSIXShell,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "kill -KILL $$"}},
	}

	executionResult, runError := runner.Run(context.Background(), command)
	require.NoError(testInstance, runError)
	require.True(testInstance, executionResult.TerminatedBySignal())
	require.Equal(testInstance, -1, executionResult.ExitCode)
	require.Contains(testInstance, executionResult.Signal, "killed")
}

func TestOSCommandRunnerReturnsSpawnFailure(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	command := execshell.ShellCommand{
		Name:    execshell.CommandName("tulaunch-missing-shell"),
		Details: execshell.CommandDetails{Arguments: []string{"-c", "true"}},
	}

	executionResult, runError := runner.Run(context.Background(), command)
	require.Error(testInstance, runError)
	require.ErrorIs(testInstance, runError, exec.ErrNotFound)
	require.Equal(testInstance, execshell.ExecutionResult{}, executionResult)
}
