package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/ziputil"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
	"github.com/bitrise-steplib/steps-browser-conformance-test/testaddon"
)

const (
	testResultEnvKey = "BITRISE_BROWSER_TEST_RESULT"
	reportPathEnvKey = "BITRISE_BROWSER_TEST_REPORT_PATH"
	runLogPathEnvKey = "BITRISE_BROWSER_TEST_LOG_PATH"

	reportFileName = "browser_conformance_report.json"
	runLogFileName = "browser_test_run.log"
)

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportTestReport(deployDir, suiteName string, report results.Report) error
	ExportRunLog(deployDir, runLog string) error
	ExportSessionDiagnostics(deployDir, pth, name string) error
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	outputExporter    export.Exporter
	testAddonExporter testaddon.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter export.Exporter, testAddonExporter testaddon.Exporter) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(testResultEnvKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", testResultEnvKey, err)
	}
}

func (e exporter) ExportTestReport(deployDir, suiteName string, report results.Report) error {
	reportDir, err := saveReportToFile(report)
	if err != nil {
		return fmt.Errorf("failed to save the test report: %w", err)
	}

	deployPth := filepath.Join(deployDir, reportFileName)
	if err := e.outputExporter.ExportOutputFile(reportPathEnvKey, filepath.Join(reportDir, reportFileName), deployPth); err != nil {
		return fmt.Errorf("failed to export %s: %w", reportPathEnvKey, err)
	}

	// hand the report over to the testing addon
	if addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey); len(addonResultPath) > 0 {
		e.logger.Println()
		e.logger.Infof("Exporting test results")

		if err := e.testAddonExporter.CopyAndSaveMetadata(testaddon.AddonCopy{
			SourceTestOutputDir:   reportDir,
			TargetAddonPath:       addonResultPath,
			TargetAddonBundleName: suiteName,
		}); err != nil {
			e.logger.Warnf("Failed to export test results: %s", err)
		}
	}

	return nil
}

func (e exporter) ExportRunLog(deployDir, runLog string) error {
	pth, err := saveRawOutputToLogFile(runLog)
	if err != nil {
		e.logger.Warnf("Failed to save the Raw Output: %s", err)
	}

	deployPth := filepath.Join(deployDir, runLogFileName)
	if err := e.outputExporter.ExportOutputFile(runLogPathEnvKey, pth, deployPth); err != nil {
		return fmt.Errorf("failed to export %s: %w", runLogPathEnvKey, err)
	}

	return nil
}

func (e exporter) ExportSessionDiagnostics(deployDir, pth, name string) error {
	outputPath := filepath.Join(deployDir, name)
	if err := ziputil.ZipDir(pth, outputPath, true); err != nil {
		return fmt.Errorf("failed to compress browser session diagnostics: %w", err)
	}

	return nil
}
