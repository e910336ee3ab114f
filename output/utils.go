package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
)

func saveReportToFile(report results.Report) (string, error) {
	tmpDir, err := pathutil.NormalizedOSTempDirPath("browser-test-report")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir, error: %s", err)
	}
	bytes, err := json.MarshalIndent(report, "", "\t")
	if err != nil {
		return "", fmt.Errorf("failed to encode the test report, error: %s", err)
	}
	if err := fileutil.WriteBytesToFile(filepath.Join(tmpDir, reportFileName), bytes); err != nil {
		return "", fmt.Errorf("failed to write the test report to file, error: %s", err)
	}

	return tmpDir, nil
}

func saveRawOutputToLogFile(rawRunOutput string) (string, error) {
	tmpDir, err := pathutil.NormalizedOSTempDirPath("browser-test-output")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir, error: %s", err)
	}
	logFileName := "raw-run-output.log"
	logPth := filepath.Join(tmpDir, logFileName)
	if err := fileutil.WriteStringToFile(logPth, rawRunOutput); err != nil {
		return "", fmt.Errorf("failed to write run output to file, error: %s", err)
	}

	return logPth, nil
}
