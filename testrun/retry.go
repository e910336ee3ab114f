package testrun

import (
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/browser"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
)

// StabilityPolicy decides when a retried unit's result is final. The two
// call sites of the step use different policies on purpose, see the
// constructors below.
type StabilityPolicy struct {
	// MinConsecutiveMatches is the number of consecutive identical attempts
	// needed to accept a PASS. With 1 a single PASS is accepted outright.
	MinConsecutiveMatches int
	// MaxRetries caps the retries per unit, the first pass not included.
	MaxRetries int
}

// AcceptFirstPass accepts the first PASS immediately. Used for benchmark
// scenario runs, where a completed run is trustworthy on its own.
func AcceptFirstPass() StabilityPolicy {
	return StabilityPolicy{MinConsecutiveMatches: 1, MaxRetries: 3}
}

// RequireStablePair accepts a result only once two consecutive attempts
// agree on verdict and subcase counts. Used for the conformance suite run,
// where a lone flaky PASS would hide a real regression.
func RequireStablePair() StabilityPolicy {
	return StabilityPolicy{MinConsecutiveMatches: 2, MaxRetries: 20}
}

// ShouldStop evaluates the stopping rule over the attempt history, the first
// pass included. retriesTaken counts the retry attempts already executed.
func (p StabilityPolicy) ShouldStop(history []results.Attempt, retriesTaken int) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	if last.Verdict == classify.VerdictPass && p.MinConsecutiveMatches <= 1 {
		return true
	}
	if len(history) >= 2 && attemptsEquivalent(last, history[len(history)-2]) {
		return true
	}
	return retriesTaken >= p.MaxRetries
}

func attemptsEquivalent(a, b results.Attempt) bool {
	return a.Verdict == b.Verdict &&
		a.Passed == b.Passed &&
		a.Failed == b.Failed &&
		a.Total == b.Total
}

// RetryOptions parameterize the retry phase.
type RetryOptions struct {
	LaunchSpec  browser.LaunchSpec
	ExecOptions ExecOptions
	Policy      StabilityPolicy
}

// RetryRunner re-attempts every non-PASS unit of a finished batch,
// sequentially, each attempt on a brand-new single-use session.
type RetryRunner interface {
	RunRetries(allResults []results.Result, opts RetryOptions) []results.Result
}

type retryRunner struct {
	executor Executor
	manager  browser.Manager
	logger   log.Logger
}

// NewRetryRunner ...
func NewRetryRunner(executor Executor, manager browser.Manager, logger log.Logger) RetryRunner {
	return retryRunner{
		executor: executor,
		manager:  manager,
		logger:   logger,
	}
}

// RunRetries mutates the non-PASS entries of allResults in place: verdict and
// subcases reflect the last attempt, the retry history accumulates every
// attempt including the first pass. Retries run strictly one unit at a time,
// the isolation is the point of the phase.
func (r retryRunner) RunRetries(allResults []results.Result, opts RetryOptions) []results.Result {
	for i := range allResults {
		if allResults[i].Verdict == classify.VerdictPass {
			continue
		}
		r.retryUnit(&allResults[i], opts)
	}
	return allResults
}

func (r retryRunner) retryUnit(result *results.Result, opts RetryOptions) {
	unit := discovery.Unit{Name: result.Name, TargetURL: result.TargetURL}

	history := result.RetryHistory
	if len(history) == 0 {
		history = []results.Attempt{results.AttemptOf(0, *result)}
	}

	retries := 0
	for !opts.Policy.ShouldStop(history, retries) {
		retries++
		attemptNumber := len(history)

		session, err := r.manager.Relaunch(opts.LaunchSpec, nil)
		if err != nil {
			r.logger.Warnf("Abandoning retries for %s, browser relaunch failed: %s", unit.Name, err)
			break
		}

		attemptResult, execErr := r.executor.ExecuteUnit(session, unit, attemptNumber, opts.ExecOptions)
		if execErr != nil {
			// The session is single-use and about to be discarded anyway, a
			// crash here is just another failing attempt for this unit.
			r.logger.Warnf("Retry %d of %s crashed the session: %s", retries, unit.Name, execErr)
			r.manager.RecordEvent("retry session crashed on unit %s: %s", unit.Name, execErr)
			attemptResult = syntheticCrashResult(unit, execErr)
			attemptResult.RetryHistory = []results.Attempt{results.AttemptOf(attemptNumber, attemptResult)}
		}

		if err := session.Close(); err != nil {
			r.logger.Debugf("Failed to close retry session: %s", err)
		}

		history = append(history, results.AttemptOf(attemptNumber, attemptResult))

		result.Verdict = attemptResult.Verdict
		result.Subcases = attemptResult.Subcases
		result.Diagnostics = attemptResult.Diagnostics
		result.FailingSubtests = attemptResult.FailingSubtests
		result.ExecutionTime = attemptResult.ExecutionTime

		r.logger.Printf("%s retry %d: %s (%d/%d subcases passed)",
			unit.Name, retries, attemptResult.Verdict, attemptResult.Subcases.Passed, attemptResult.Subcases.Total)
	}

	result.RetryHistory = history
}
