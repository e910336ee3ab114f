package results

import (
	"sort"
	"time"

	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
)

// Result is the terminal outcome of one test unit. Created by the executor,
// mutated only by the retry orchestrator, frozen afterwards.
type Result struct {
	Name            string             `json:"name"`
	TargetURL       string             `json:"target_url"`
	Verdict         classify.Verdict   `json:"verdict"`
	Subcases        classify.Subcases  `json:"subcases"`
	Diagnostics     string             `json:"diagnostics,omitempty"`
	FailingSubtests []classify.Subtest `json:"failing_subtests,omitempty"`
	ExecutionTime   time.Duration      `json:"execution_time_ns"`
	RetryHistory    []Attempt          `json:"retry_history"`
}

// Attempt is one retry-history snapshot. Attempt 0 is the first pass; a
// single-entry history means the unit was never retried.
type Attempt struct {
	Number  int              `json:"attempt"`
	Verdict classify.Verdict `json:"verdict"`
	Passed  int              `json:"passed"`
	Failed  int              `json:"failed"`
	Total   int              `json:"total"`
}

// AttemptOf ...
func AttemptOf(number int, result Result) Attempt {
	return Attempt{
		Number:  number,
		Verdict: result.Verdict,
		Passed:  result.Subcases.Passed,
		Failed:  result.Subcases.Failed,
		Total:   result.Subcases.Total,
	}
}

// Retried reports whether the unit went through at least one retry attempt.
func (r Result) Retried() bool {
	return len(r.RetryHistory) > 1
}

// Summary ...
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Unknown int `json:"unknown"`
}

// Summarize counts results per verdict.
func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}
	for _, result := range results {
		switch result.Verdict {
		case classify.VerdictPass:
			summary.Passed++
		case classify.VerdictFail:
			summary.Failed++
		case classify.VerdictError:
			summary.Errored++
		default:
			summary.Unknown++
		}
	}
	return summary
}

// AllPassed reports whether every unit ended with a PASS verdict. An empty
// run never counts as passing.
func (s Summary) AllPassed() bool {
	return s.Total > 0 && s.Passed == s.Total
}

// SortByName orders results by unit name in place. Batch output order is
// unspecified above concurrency 1, so exported collections are sorted first.
func SortByName(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
}

// Report is the JSON document the step deploys next to the build artifacts.
type Report struct {
	SuiteURL       string    `json:"suite_url"`
	BrowserVersion string    `json:"browser_version"`
	GeneratedAt    time.Time `json:"generated_at"`
	Summary        Summary   `json:"summary"`
	Results        []Result  `json:"results"`
}

// NewReport ...
func NewReport(suiteURL, browserVersion string, results []Result) Report {
	return Report{
		SuiteURL:       suiteURL,
		BrowserVersion: browserVersion,
		GeneratedAt:    time.Now(),
		Summary:        Summarize(results),
		Results:        results,
	}
}
