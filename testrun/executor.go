package testrun

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/browser"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
	"github.com/bitrise-steplib/steps-browser-conformance-test/scenario"
)

const (
	// DefaultUnitTimeout bounds one attempt of one unit end to end.
	DefaultUnitTimeout = 60 * time.Second

	completionPollInterval = 500 * time.Millisecond
	maxFailingSubtests     = 25
	maxDiagnosticsLength   = 2000
	maxConsoleLines        = 20
)

// defaultCompletionProbe detects that a conformance page finished rendering
// its verdict: either a populated status marker element or recognizable
// result text.
const defaultCompletionProbe = `() => {
	const marker = document.querySelector('#results, .results, #summary, .summary');
	if (marker && marker.textContent.trim().length > 0) {
		return true;
	}
	const text = document.body ? document.body.innerText : '';
	return /\b(Pass|Fail|Found \d+ tests?|tests? (passed|complete))\b/i.test(text);
}`

// ExecOptions parameterize a single unit attempt.
type ExecOptions struct {
	UnitTimeout time.Duration
	Scenario    *scenario.Scenario
}

// Executor runs one test unit end to end on a borrowed session. A returned
// error is always session-critical; every ordinary failure is folded into the
// returned Result instead.
type Executor interface {
	ExecuteUnit(session browser.Session, unit discovery.Unit, attempt int, opts ExecOptions) (results.Result, error)
}

type executor struct {
	logger log.Logger
}

// NewExecutor ...
func NewExecutor(logger log.Logger) Executor {
	return executor{logger: logger}
}

func (e executor) ExecuteUnit(session browser.Session, unit discovery.Unit, attempt int, opts ExecOptions) (results.Result, error) {
	startTime := time.Now()
	timeout := opts.UnitTimeout
	if timeout <= 0 {
		timeout = DefaultUnitTimeout
	}

	// The console subscription must not outlive this attempt, stop is
	// idempotent and the defer covers the critical-error exits.
	stopConsole := session.CaptureConsole()
	defer stopConsole()

	if err := session.Navigate(unit.TargetURL, timeout); err != nil {
		if critical := asSessionError(err); critical != nil {
			return results.Result{}, critical
		}
		return e.errorResult(unit, attempt, startTime, stopConsole(), fmt.Errorf("navigation failed: %w", err)), nil
	}

	earlyText, err := session.PageText()
	if err != nil {
		if critical := asSessionError(err); critical != nil {
			return results.Result{}, critical
		}
		return e.errorResult(unit, attempt, startTime, stopConsole(), fmt.Errorf("failed to read page: %w", err)), nil
	}
	if pattern, found := findHarnessError(earlyText); found {
		return results.Result{}, &SessionError{Reason: fmt.Sprintf("page declared a harness failure (%s)", pattern)}
	}

	if opts.Scenario != nil {
		for selector, value := range opts.Scenario.SelectOptions {
			if err := session.SelectOption(selector, value); err != nil {
				if critical := asSessionError(err); critical != nil {
					return results.Result{}, critical
				}
				return e.errorResult(unit, attempt, startTime, stopConsole(), fmt.Errorf("scenario setup failed: %w", err)), nil
			}
		}
	}

	probe := defaultCompletionProbe
	if opts.Scenario != nil && opts.Scenario.CompletionProbe != "" {
		probe = opts.Scenario.CompletionProbe
	}
	if remaining := timeout - time.Since(startTime); remaining > 0 {
		completed, err := session.WaitForCondition(probe, remaining, completionPollInterval)
		if err != nil {
			if critical := asSessionError(err); critical != nil {
				return results.Result{}, critical
			}
			return e.errorResult(unit, attempt, startTime, stopConsole(), fmt.Errorf("completion wait failed: %w", err)), nil
		}
		if !completed {
			// Best effort: classify whatever state the page reached.
			e.logger.Debugf("No completion marker on %s within the unit budget", unit.Name)
		}
	}

	pageText, err := session.PageText()
	if err != nil {
		if critical := asSessionError(err); critical != nil {
			return results.Result{}, critical
		}
		return e.errorResult(unit, attempt, startTime, stopConsole(), fmt.Errorf("failed to read page: %w", err)), nil
	}
	pageHTML, err := session.PageHTML()
	if err != nil {
		if critical := asSessionError(err); critical != nil {
			return results.Result{}, critical
		}
		return e.errorResult(unit, attempt, startTime, stopConsole(), fmt.Errorf("failed to read page: %w", err)), nil
	}

	var classification classify.Classification
	handled := false
	if opts.Scenario != nil && opts.Scenario.Extract != nil {
		classification, handled = opts.Scenario.Extract(pageText, pageHTML)
	}
	if !handled {
		classification = classify.Classify(pageText, pageHTML)
	}

	result := results.Result{
		Name:          unit.Name,
		TargetURL:     unit.TargetURL,
		Verdict:       classification.Verdict,
		Subcases:      classification.Subcases,
		Diagnostics:   buildDiagnostics(pageText, stopConsole()),
		ExecutionTime: time.Since(startTime),
	}
	if classification.Subcases.Failed > 0 {
		result.FailingSubtests = classify.FailingSubtests(pageHTML, maxFailingSubtests)
	}
	result.RetryHistory = []results.Attempt{results.AttemptOf(attempt, result)}

	e.logger.Printf("%s attempt %d: %s (%d/%d subcases passed, %s)",
		unit.Name, attempt, result.Verdict, result.Subcases.Passed, result.Subcases.Total, result.ExecutionTime.Round(time.Millisecond))

	return result, nil
}

func (e executor) errorResult(unit discovery.Unit, attempt int, startTime time.Time, console []string, cause error) results.Result {
	e.logger.Warnf("%s attempt %d errored: %s", unit.Name, attempt, cause)

	result := results.Result{
		Name:          unit.Name,
		TargetURL:     unit.TargetURL,
		Verdict:       classify.VerdictError,
		Subcases:      classify.Subcases{Total: 1},
		Diagnostics:   buildDiagnostics(cause.Error(), console),
		ExecutionTime: time.Since(startTime),
	}
	result.RetryHistory = []results.Attempt{results.AttemptOf(attempt, result)}
	return result
}

func buildDiagnostics(pageText string, console []string) string {
	diagnostics := strings.TrimSpace(pageText)
	if len(diagnostics) > maxDiagnosticsLength {
		diagnostics = diagnostics[:maxDiagnosticsLength]
	}
	if len(console) > maxConsoleLines {
		console = console[len(console)-maxConsoleLines:]
	}
	if len(console) > 0 {
		diagnostics += "\n--- console ---\n" + strings.Join(console, "\n")
	}
	return diagnostics
}
