package testrun

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
	"github.com/bitrise-steplib/steps-browser-conformance-test/testrun/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func failedResult(name string, passed, failed int) results.Result {
	return results.Result{
		Name:      name,
		TargetURL: "https://suite.example.com/" + name,
		Verdict:   classify.VerdictFail,
		Subcases:  classify.Subcases{Total: passed + failed, Passed: passed, Failed: failed},
	}
}

func attemptOutcome(verdict classify.Verdict, passed, failed, total int) results.Result {
	return results.Result{
		Verdict:  verdict,
		Subcases: classify.Subcases{Total: total, Passed: passed, Failed: failed},
	}
}

// sequencedExecutor returns the scripted outcome for each attempt number.
func sequencedExecutor(t *testing.T, outcomes map[int]results.Result) *stubExecutor {
	return &stubExecutor{execute: func(unit discovery.Unit, attempt int) (results.Result, error) {
		outcome, ok := outcomes[attempt]
		require.True(t, ok, fmt.Sprintf("unexpected attempt number %d for unit %s", attempt, unit.Name))
		outcome.Name = unit.Name
		outcome.TargetURL = unit.TargetURL
		return outcome, nil
	}}
}

func retryManager(session *mocks.Session) *mocks.Manager {
	manager := new(mocks.Manager)
	manager.On("Relaunch", mock.Anything, nil).Return(session, nil)
	return manager
}

func Test_GivenFailReproducesIdentically_WhenRunRetries_ThenStopsAfterOneRetry(t *testing.T) {
	// Given
	batch := []results.Result{failedResult("webgl-textures", 8, 2)}
	executor := sequencedExecutor(t, map[int]results.Result{
		1: attemptOutcome(classify.VerdictFail, 8, 2, 10),
	})

	session := new(mocks.Session)
	session.On("Close").Return(nil)
	manager := retryManager(session)

	// When
	final := NewRetryRunner(executor, manager, log.NewLogger()).RunRetries(batch, RetryOptions{Policy: RequireStablePair()})

	// Then
	require.Len(t, final, 1)
	assert.Equal(t, classify.VerdictFail, final[0].Verdict)
	assert.Equal(t, classify.Subcases{Total: 10, Passed: 8, Failed: 2}, final[0].Subcases)
	require.Len(t, final[0].RetryHistory, 2)
	assert.Equal(t, 0, final[0].RetryHistory[0].Number)
	assert.Equal(t, 1, final[0].RetryHistory[1].Number)
	manager.AssertNumberOfCalls(t, "Relaunch", 1)
	session.AssertNumberOfCalls(t, "Close", 1)
}

func Test_GivenErrorTurnsIntoPass_WhenRunRetriesAcceptingFirstPass_ThenStopsImmediately(t *testing.T) {
	// Given
	errored := results.Result{
		Name:      "offscreen-canvas",
		TargetURL: "https://suite.example.com/offscreen-canvas",
		Verdict:   classify.VerdictError,
		Subcases:  classify.Subcases{Total: 1},
	}
	executor := sequencedExecutor(t, map[int]results.Result{
		1: attemptOutcome(classify.VerdictPass, 1, 0, 1),
	})

	session := new(mocks.Session)
	session.On("Close").Return(nil)
	manager := retryManager(session)

	// When
	final := NewRetryRunner(executor, manager, log.NewLogger()).RunRetries([]results.Result{errored}, RetryOptions{Policy: AcceptFirstPass()})

	// Then
	assert.Equal(t, classify.VerdictPass, final[0].Verdict)
	require.Len(t, final[0].RetryHistory, 2)
	assert.Equal(t, classify.VerdictError, final[0].RetryHistory[0].Verdict)
	assert.Equal(t, classify.VerdictPass, final[0].RetryHistory[1].Verdict)
	manager.AssertNumberOfCalls(t, "Relaunch", 1)
}

func Test_GivenSinglePassUnderStablePairPolicy_WhenRunRetries_ThenRetriesUntilPassRepeats(t *testing.T) {
	// Given
	batch := []results.Result{failedResult("audio-worklet", 0, 1)}
	executor := sequencedExecutor(t, map[int]results.Result{
		1: attemptOutcome(classify.VerdictPass, 1, 0, 1),
		2: attemptOutcome(classify.VerdictPass, 1, 0, 1),
	})

	session := new(mocks.Session)
	session.On("Close").Return(nil)
	manager := retryManager(session)

	// When
	final := NewRetryRunner(executor, manager, log.NewLogger()).RunRetries(batch, RetryOptions{Policy: RequireStablePair()})

	// Then
	assert.Equal(t, classify.VerdictPass, final[0].Verdict)
	require.Len(t, final[0].RetryHistory, 3)
	manager.AssertNumberOfCalls(t, "Relaunch", 2)
}

func Test_GivenOutcomesNeverStabilize_WhenRunRetries_ThenRetryCapEndsTheLoop(t *testing.T) {
	// Given
	batch := []results.Result{failedResult("flaky-unit", 0, 1)}
	executor := sequencedExecutor(t, map[int]results.Result{
		1: attemptOutcome(classify.VerdictError, 0, 0, 1),
		2: attemptOutcome(classify.VerdictFail, 0, 1, 1),
		3: attemptOutcome(classify.VerdictError, 0, 0, 1),
	})

	session := new(mocks.Session)
	session.On("Close").Return(nil)
	manager := retryManager(session)
	policy := StabilityPolicy{MinConsecutiveMatches: 2, MaxRetries: 3}

	// When
	final := NewRetryRunner(executor, manager, log.NewLogger()).RunRetries(batch, RetryOptions{Policy: policy})

	// Then
	assert.Equal(t, classify.VerdictError, final[0].Verdict)
	require.Len(t, final[0].RetryHistory, 4)
	manager.AssertNumberOfCalls(t, "Relaunch", 3)
	session.AssertNumberOfCalls(t, "Close", 3)
}

func Test_GivenPassedUnits_WhenRunRetries_ThenTheyAreLeftUntouched(t *testing.T) {
	// Given
	passed := results.Result{
		Name:     "already-green",
		Verdict:  classify.VerdictPass,
		Subcases: classify.Subcases{Total: 4, Passed: 4},
	}

	manager := new(mocks.Manager)

	// When
	final := NewRetryRunner(&stubExecutor{}, manager, log.NewLogger()).RunRetries([]results.Result{passed}, RetryOptions{Policy: RequireStablePair()})

	// Then
	assert.Equal(t, passed, final[0])
	manager.AssertNotCalled(t, "Relaunch", mock.Anything, mock.Anything)
}

func Test_GivenRelaunchKeepsFailing_WhenRunRetries_ThenUnitIsAbandonedAndNextOneStillRuns(t *testing.T) {
	// Given
	batch := []results.Result{
		failedResult("first-broken", 0, 1),
		failedResult("second-broken", 1, 1),
	}

	manager := new(mocks.Manager)
	manager.On("Relaunch", mock.Anything, nil).Return(nil, errors.New("browser binary vanished"))

	// When
	final := NewRetryRunner(&stubExecutor{}, manager, log.NewLogger()).RunRetries(batch, RetryOptions{Policy: RequireStablePair()})

	// Then
	assert.Equal(t, classify.VerdictFail, final[0].Verdict)
	assert.Equal(t, classify.VerdictFail, final[1].Verdict)
	require.Len(t, final[0].RetryHistory, 1)
	require.Len(t, final[1].RetryHistory, 1)
	manager.AssertNumberOfCalls(t, "Relaunch", 2)
}

func Test_GivenRetryCrashesTheSession_WhenRunRetries_ThenCrashCountsAsAnAttempt(t *testing.T) {
	// Given
	batch := []results.Result{failedResult("gpu-hungry", 0, 1)}
	executor := &stubExecutor{execute: func(unit discovery.Unit, attempt int) (results.Result, error) {
		return results.Result{}, &SessionError{Reason: "browser session failure", Err: errors.New("target closed")}
	}}

	session := new(mocks.Session)
	session.On("Close").Return(nil)
	manager := retryManager(session)
	manager.On("RecordEvent", mock.Anything, mock.Anything, mock.Anything)

	// When
	final := NewRetryRunner(executor, manager, log.NewLogger()).RunRetries(batch, RetryOptions{Policy: AcceptFirstPass()})

	// Then
	// The synthetic crash attempt matches the seeded FAIL, the stable pair rule ends the loop.
	assert.Equal(t, classify.VerdictFail, final[0].Verdict)
	assert.Contains(t, final[0].Diagnostics, "target closed")
	require.Len(t, final[0].RetryHistory, 2)
	manager.AssertCalled(t, "RecordEvent", mock.Anything, mock.Anything, mock.Anything)
	session.AssertNumberOfCalls(t, "Close", 1)
}

func Test_GivenAttemptHistories_WhenShouldStop_ThenStoppingRuleMatches(t *testing.T) {
	pass := results.Attempt{Verdict: classify.VerdictPass, Passed: 1, Total: 1}
	fail := results.Attempt{Verdict: classify.VerdictFail, Failed: 2, Passed: 8, Total: 10}
	otherFail := results.Attempt{Verdict: classify.VerdictFail, Failed: 1, Passed: 9, Total: 10}
	errored := results.Attempt{Verdict: classify.VerdictError, Total: 1}

	tests := []struct {
		name         string
		policy       StabilityPolicy
		history      []results.Attempt
		retriesTaken int
		want         bool
	}{
		{
			name:    "empty history never stops",
			policy:  RequireStablePair(),
			history: nil,
			want:    false,
		},
		{
			name:    "first pass accepted outright",
			policy:  AcceptFirstPass(),
			history: []results.Attempt{pass},
			want:    true,
		},
		{
			name:    "single pass is not enough for a stable pair",
			policy:  RequireStablePair(),
			history: []results.Attempt{pass},
			want:    false,
		},
		{
			name:    "identical consecutive failures stop",
			policy:  RequireStablePair(),
			history: []results.Attempt{fail, fail},
			want:    true,
		},
		{
			name:    "failures with different counts keep retrying",
			policy:  RequireStablePair(),
			history: []results.Attempt{fail, otherFail},
			want:    false,
		},
		{
			name:    "pass pair stops",
			policy:  RequireStablePair(),
			history: []results.Attempt{fail, pass, pass},
			want:    true,
		},
		{
			name:         "retry cap stops even without agreement",
			policy:       StabilityPolicy{MinConsecutiveMatches: 2, MaxRetries: 2},
			history:      []results.Attempt{fail, errored, otherFail},
			retriesTaken: 2,
			want:         true,
		},
		{
			name:    "single error below the cap keeps retrying",
			policy:  RequireStablePair(),
			history: []results.Attempt{errored},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.ShouldStop(tt.history, tt.retriesTaken))
		})
	}
}
