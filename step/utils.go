package step

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
)

// splitTestCases parses the comma or newline separated test case list input.
func splitTestCases(list string) []string {
	split := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	var testCases []string
	for _, testCase := range split {
		testCase = strings.TrimSpace(testCase)
		if testCase != "" {
			testCases = append(testCases, testCase)
		}
	}
	return testCases
}

// selectUnits applies the configured unit selection to the discovered list.
// The two selection inputs are mutually exclusive, config parsing enforces
// that before this runs.
func selectUnits(units []discovery.Unit, testCases []string, testRange string) ([]discovery.Unit, error) {
	if len(testCases) > 0 {
		return discovery.FilterByNames(units, testCases)
	}
	return discovery.FilterByRange(units, testRange)
}

// buildRunLog renders the plain text run log deployed next to the JSON
// report. It carries what the JSON keeps structured: verdict lines, the
// attempt history of retried units and the diagnostics of failing ones.
func buildRunLog(suiteResults, scenarioResults []results.Result) string {
	var b strings.Builder
	writeRunLogSection(&b, "Conformance suite", suiteResults)
	writeRunLogSection(&b, "Benchmark scenarios", scenarioResults)
	return b.String()
}

func writeRunLogSection(b *strings.Builder, title string, sectionResults []results.Result) {
	if len(sectionResults) == 0 {
		return
	}

	fmt.Fprintf(b, "=== %s ===\n", title)
	for _, result := range sectionResults {
		fmt.Fprintf(b, "%s: %s (%d/%d subcases passed, %s)\n",
			result.Name, result.Verdict, result.Subcases.Passed, result.Subcases.Total, result.ExecutionTime.Round(time.Millisecond))

		if result.Retried() {
			for _, attempt := range result.RetryHistory {
				fmt.Fprintf(b, "  attempt %d: %s (%d/%d subcases passed)\n", attempt.Number, attempt.Verdict, attempt.Passed, attempt.Total)
			}
		}

		if result.Verdict != classify.VerdictPass && result.Diagnostics != "" {
			b.WriteString("  diagnostics:\n")
			for _, line := range strings.Split(result.Diagnostics, "\n") {
				b.WriteString("    " + line + "\n")
			}
		}
	}
}

func printSummary(logger log.Logger, result Result) {
	summary := results.Summarize(result.SuiteResults)

	logger.Println()
	logger.Infof("Test summary for %s", result.SuiteName)
	logger.Printf("- total: %d, passed: %d, failed: %d, errored: %d, unknown: %d",
		summary.Total, summary.Passed, summary.Failed, summary.Errored, summary.Unknown)

	for _, unitResult := range result.SuiteResults {
		if unitResult.Verdict == classify.VerdictPass {
			continue
		}

		logger.Warnf("- %s: %s (%d/%d subcases passed)",
			unitResult.Name, unitResult.Verdict, unitResult.Subcases.Passed, unitResult.Subcases.Total)
		if unitResult.Retried() {
			logger.Printf("  retried %d times, the verdict is the last attempt's", len(unitResult.RetryHistory)-1)
		}
		for _, subtest := range unitResult.FailingSubtests {
			logger.Printf("  failing subtest: %s", subtest.Name)
		}
	}

	if len(result.ScenarioResults) > 0 {
		logger.Println()
		logger.Infof("Benchmark scenarios")
		for _, scenarioResult := range result.ScenarioResults {
			if scenarioResult.Verdict == classify.VerdictPass {
				logger.Printf("- %s: %s", scenarioResult.Name, scenarioResult.Verdict)
			} else {
				logger.Warnf("- %s: %s", scenarioResult.Name, scenarioResult.Verdict)
			}
		}
	}
}
