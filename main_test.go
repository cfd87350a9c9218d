package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	binaryNameConstant              = "tulaunch"
	buildTimeoutConstant            = 2 * time.Minute
	runTimeoutConstant              = 30 * time.Second
	entryPointFileNameConstant      = "main.py"
	launcherDirectoryNameConstant   = "launcher"
	configurationFileNameConstant   = "config.yaml"
	configurationTemplateConstant   = "launcher:\n  interpreter: sh\n  working_directory: %s\n"
	propagateExitCodeVariableName   = "TULAUNCH_LAUNCHER_PROPAGATE_EXIT_CODE"
	configurationHomeVariableName   = "XDG_CONFIG_HOME"
	pathVariableName                = "PATH"
	debugResultTemplateConstant     = "ExecutionResult{ExitCode: %d, Signal: \"\", StandardOutput: %q, StandardError: %q}\n"
	binaryBuildFailureMessageFormat = "unable to build %s: %v\n%s"
	environmentListVariableName     = "TULAUNCH_LAUNCHER_ENVIRONMENT"
	spawnFailureMarkerConstant      = "could not be started"
	stacktraceMarkerConstant        = "stacktrace"
)

var builtBinaryPath string

func TestMain(m *testing.M) {
	if runtime.GOOS == "windows" {
		os.Exit(m.Run())
	}

	buildDirectory, directoryError := os.MkdirTemp("", binaryNameConstant+"-build-*")
	if directoryError != nil {
		fmt.Fprintln(os.Stderr, directoryError)
		os.Exit(1)
	}

	builtBinaryPath = filepath.Join(buildDirectory, binaryNameConstant)
	buildContext, cancel := context.WithTimeout(context.Background(), buildTimeoutConstant)
	buildOutput, buildError := exec.CommandContext(buildContext, "go", "build", "-o", builtBinaryPath, ".").CombinedOutput()
	cancel()
	if buildError != nil {
		fmt.Fprintf(os.Stderr, binaryBuildFailureMessageFormat, binaryNameConstant, buildError, buildOutput)
		_ = os.RemoveAll(buildDirectory)
		os.Exit(1)
	}

	exitCode := m.Run()
	_ = os.RemoveAll(buildDirectory)
	os.Exit(exitCode)
}

type binaryRun struct {
	standardOutput string
	standardError  string
	exitStatus     int
}

func writeEntryPoint(testInstance *testing.T, scriptContent string) string {
	testInstance.Helper()

	rootDirectory := testInstance.TempDir()
	launcherDirectory := filepath.Join(rootDirectory, launcherDirectoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(launcherDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootDirectory, entryPointFileNameConstant), []byte(scriptContent), 0o600))

	configurationPath := filepath.Join(rootDirectory, configurationFileNameConstant)
	configurationContent := fmt.Sprintf(configurationTemplateConstant, launcherDirectory)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))

	return configurationPath
}

func runBinary(testInstance *testing.T, environment []string, arguments ...string) binaryRun {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), runTimeoutConstant)
	defer cancel()

	command := exec.CommandContext(executionContext, builtBinaryPath, arguments...)
	command.Dir = testInstance.TempDir()
	command.Env = append(append([]string{}, os.Environ()...), configurationHomeVariableName+"="+testInstance.TempDir())
	command.Env = append(command.Env, environment...)

	var standardOutput, standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError

	runError := command.Run()
	exitStatus := 0
	if runError != nil {
		var exitError *exec.ExitError
		require.True(testInstance, errors.As(runError, &exitError), "unexpected run failure: %v", runError)
		exitStatus = exitError.ExitCode()
	}

	return binaryRun{
		standardOutput: standardOutput.String(),
		standardError:  standardError.String(),
		exitStatus:     exitStatus,
	}
}

func requireBuiltBinary(testInstance *testing.T) {
	testInstance.Helper()
	if len(builtBinaryPath) == 0 {
		testInstance.Skip("binary scenarios use a POSIX shell")
	}
	if _, lookupError := exec.LookPath("sh"); lookupError != nil {
		testInstance.Skip("sh not available")
	}
}

func TestBinaryReportsEntryPointResult(testInstance *testing.T) {
	requireBuiltBinary(testInstance)

	testCases := []struct {
		name               string
		scriptContent      string
		environment        []string
		expectedOutput     string
		expectedExitStatus int
	}{
		{
			name:               "successful_entry_point",
			scriptContent:      "echo hello\n",
			expectedOutput:     fmt.Sprintf(debugResultTemplateConstant, 0, "hello\n", ""),
			expectedExitStatus: 0,
		},
		{
			name:               "failing_entry_point_absorbed",
			scriptContent:      "echo broken >&2\nexit 2\n",
			expectedOutput:     fmt.Sprintf(debugResultTemplateConstant, 2, "", "broken\n"),
			expectedExitStatus: 0,
		},
		{
			name:               "failing_entry_point_propagated",
			scriptContent:      "exit 4\n",
			environment:        []string{propagateExitCodeVariableName + "=true"},
			expectedOutput:     fmt.Sprintf(debugResultTemplateConstant, 4, "", ""),
			expectedExitStatus: 4,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationPath := writeEntryPoint(testInstance, testCase.scriptContent)

			run := runBinary(testInstance, testCase.environment, "--config", configurationPath, "--log-level", "error")

			require.Equal(testInstance, testCase.expectedExitStatus, run.exitStatus, run.standardError)
			require.Equal(testInstance, testCase.expectedOutput, run.standardOutput)
		})
	}
}

func TestBinaryFailsWhenShellCannotStart(testInstance *testing.T) {
	requireBuiltBinary(testInstance)

	configurationPath := writeEntryPoint(testInstance, "echo unreachable\n")
	emptyPathDirectory := testInstance.TempDir()

	run := runBinary(testInstance, []string{pathVariableName + "=" + emptyPathDirectory}, "--config", configurationPath)

	require.Equal(testInstance, 1, run.exitStatus)
	require.Empty(testInstance, run.standardOutput)
	require.Equal(testInstance, 1, strings.Count(run.standardError, spawnFailureMarkerConstant), run.standardError)
	require.NotContains(testInstance, run.standardError, stacktraceMarkerConstant)
}

func TestBinaryReportsConfigurationErrorOnce(testInstance *testing.T) {
	requireBuiltBinary(testInstance)

	configurationPath := writeEntryPoint(testInstance, "echo unreachable\n")

	run := runBinary(testInstance, []string{environmentListVariableName + "=PYTHONUNBUFFERED"}, "--config", configurationPath)

	require.Equal(testInstance, 1, run.exitStatus)
	require.Empty(testInstance, run.standardOutput)
	require.Equal(testInstance, 1, strings.Count(run.standardError, "invalid launcher environment entry"), run.standardError)
}

func TestBinaryRunsScriptPathWithSpaces(testInstance *testing.T) {
	requireBuiltBinary(testInstance)

	rootDirectory := testInstance.TempDir()
	launcherDirectory := filepath.Join(rootDirectory, launcherDirectoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(launcherDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootDirectory, "my main.py"), []byte("printf hello\n"), 0o600))

	configurationPath := filepath.Join(rootDirectory, configurationFileNameConstant)
	configurationContent := fmt.Sprintf(configurationTemplateConstant, launcherDirectory) + "  script: \"../my main.py\"\n"
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))

	run := runBinary(testInstance, nil, "--config", configurationPath)

	require.Equal(testInstance, 0, run.exitStatus, run.standardError)
	require.Equal(testInstance, fmt.Sprintf(debugResultTemplateConstant, 0, "hello", ""), run.standardOutput)
}
