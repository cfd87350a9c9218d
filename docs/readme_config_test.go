package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/tulaunch/cmd/cli"
	"github.com/temirov/tulaunch/internal/utils"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	readmeSnippetTestNameConstant    = "readme_launcher_configuration"
	readmeSnippetTemporaryPattern    = "readme-config-*.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	defaultTempDirectoryRootConstant = ""
	readmeConfigurationNameConstant  = "config"
	readmeConfigurationTypeConstant  = "yaml"
	readmeEnvironmentPrefixConstant  = "TULAUNCHREADME"
)

func TestReadmeConfigurationMatchesEmbeddedDefaults(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	embeddedContent, _ := cli.EmbeddedDefaultConfiguration()
	var embeddedConfiguration map[string]any
	require.NoError(testInstance, yaml.Unmarshal(embeddedContent, &embeddedConfiguration))

	testCases := []struct {
		name          string
		configuration string
	}{
		{
			name:          readmeSnippetTestNameConstant,
			configuration: snippetContent,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			tempFile, tempFileError := os.CreateTemp(defaultTempDirectoryRootConstant, readmeSnippetTemporaryPattern)
			require.NoError(subtest, tempFileError)
			subtest.Cleanup(func() {
				require.NoError(subtest, os.Remove(tempFile.Name()))
			})

			_, writeError := tempFile.WriteString(testCase.configuration)
			require.NoError(subtest, writeError)
			require.NoError(subtest, tempFile.Close())

			configurationLoader := utils.NewConfigurationLoader(readmeConfigurationNameConstant, readmeConfigurationTypeConstant, readmeEnvironmentPrefixConstant, nil)
			var applicationConfiguration cli.ApplicationConfiguration
			_, loadError := configurationLoader.LoadConfiguration(tempFile.Name(), nil, &applicationConfiguration)
			require.NoError(subtest, loadError)

			var readmeConfiguration map[string]any
			require.NoError(subtest, yaml.Unmarshal([]byte(testCase.configuration), &readmeConfiguration))

			require.Equal(subtest, embeddedConfiguration, readmeConfiguration)
		})
	}
}
