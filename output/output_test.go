package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/output/mocks"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
	"github.com/bitrise-steplib/steps-browser-conformance-test/testaddon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	browserTestResultKey = "BITRISE_BROWSER_TEST_RESULT"
	browserReportPathKey = "BITRISE_BROWSER_TEST_REPORT_PATH"
	browserRunLogPathKey = "BITRISE_BROWSER_TEST_LOG_PATH"
)

type testingMocks struct {
	envRepository     *mocks.Repository
	commandFactory    *mocks.Factory
	testAddonExporter *mocks.Exporter
}

func Test_GivenSuccessfulTest_WhenExportingTestRunResults_ThenSetsEnvVariableToSuccess(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTestRunResult(false)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", browserTestResultKey, "succeeded")
}

func Test_GivenFailedTest_WhenExportingTestRunResults_ThenSetsEnvVariableToFailure(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTestRunResult(true)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", browserTestResultKey, "failed")
}

func Test_GivenTestReport_WhenExporting_ThenDeploysItAndSetsEnvVariable(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	reportPath := filepath.Join(tempDir, "browser_conformance_report.json")

	exporter, mocks := createSutAndMocks()
	mocks.envRepository.On("Get", mock.Anything).Return("")

	// When
	err := exporter.ExportTestReport(tempDir, "conformance-suite", sampleReport())

	// Then
	require.NoError(t, err)
	assert.True(t, isPathExists(reportPath))
	mocks.commandFactory.AssertCalled(t, "Create", "envman", []string{"add", "--key", browserReportPathKey, "--value", reportPath}, mock.Anything)
	mocks.testAddonExporter.AssertNotCalled(t, "CopyAndSaveMetadata", mock.Anything)

	bytes, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var deployed results.Report
	require.NoError(t, json.Unmarshal(bytes, &deployed))
	assert.Equal(t, "https://suite.example.com/conformance/", deployed.SuiteURL)
	assert.Equal(t, 1, deployed.Summary.Passed)
	require.Len(t, deployed.Results, 1)
	assert.Equal(t, "audio-context", deployed.Results[0].Name)
}

func Test_GivenTestAddonDirConfigured_WhenExportingReport_ThenHandsTheReportOver(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	addonDir := filepath.Join(tempDir, "addon")

	exporter, mocks := createSutAndMocks()
	mocks.envRepository.On("Get", mock.Anything).Return(addonDir)
	mocks.testAddonExporter.On("CopyAndSaveMetadata", mock.Anything).Return(nil)

	// When
	err := exporter.ExportTestReport(tempDir, "conformance-suite", sampleReport())

	// Then
	require.NoError(t, err)
	mocks.testAddonExporter.AssertCalled(t, "CopyAndSaveMetadata", mock.MatchedBy(func(info testaddon.AddonCopy) bool {
		return info.TargetAddonPath == addonDir && info.TargetAddonBundleName == "conformance-suite"
	}))
}

func Test_GivenRunLog_WhenExporting_ThenCopiesItAndSetsEnvVariable(t *testing.T) {
	// Given
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "browser_test_run.log")

	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportRunLog(tempDir, "browser test run log")

	// Then
	require.NoError(t, err)
	assert.True(t, isPathExists(logPath))
	mocks.commandFactory.AssertCalled(t, "Create", "envman", []string{"add", "--key", browserRunLogPathKey, "--value", logPath}, mock.Anything)
}

func Test_GivenSessionDiagnostics_WhenExporting_ThenCompressesThemIntoTheDeployDir(t *testing.T) {
	// Given
	name := "BrowserSessionDiagnostics"
	tempDir := t.TempDir()

	diagnosticsDir := filepath.Join(tempDir, "diagnostics")

	diagnosticsFile := filepath.Join(diagnosticsDir, "session-events.log")
	err := fileutil.NewFileManager().Write(diagnosticsFile, "relaunched after critical failure", 0777)

	require.NoError(t, err)
	require.FileExists(t, diagnosticsFile)

	exporter, _ := createSutAndMocks()

	// When
	err = exporter.ExportSessionDiagnostics(tempDir, diagnosticsDir, name)

	// Then
	assert.NoError(t, err)
	assert.True(t, isPathExists(filepath.Join(tempDir, name+".zip")))
}

// Helpers

func createSutAndMocks() (Exporter, testingMocks) {
	envRepository := new(mocks.Repository)
	envRepository.On("Set", mock.Anything, mock.Anything).Return(nil)

	envmanCommand := new(mocks.Command)
	envmanCommand.On("RunAndReturnTrimmedCombinedOutput").Return("", nil)

	commandFactory := new(mocks.Factory)
	commandFactory.On("Create", "envman", mock.Anything, mock.Anything).Return(envmanCommand)

	testAddonExporter := new(mocks.Exporter)

	exporter := NewExporter(envRepository, log.NewLogger(), export.NewExporter(commandFactory), testAddonExporter)

	return exporter, testingMocks{
		envRepository:     envRepository,
		commandFactory:    commandFactory,
		testAddonExporter: testAddonExporter,
	}
}

func sampleReport() results.Report {
	return results.NewReport("https://suite.example.com/conformance/", "124.0.6367.118", []results.Result{
		{
			Name:      "audio-context",
			TargetURL: "https://suite.example.com/conformance/audio-context.html",
			Verdict:   classify.VerdictPass,
			Subcases:  classify.Subcases{Total: 3, Passed: 3},
		},
	})
}

func isPathExists(path string) bool {
	isExist, _ := pathutil.NewPathChecker().IsPathExists(path)
	return isExist
}
