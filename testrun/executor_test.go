package testrun

import (
	"errors"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/scenario"
	"github.com/bitrise-steplib/steps-browser-conformance-test/testrun/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testUnit = discovery.Unit{
	Name:      "audio-context",
	TargetURL: "https://suite.example.com/conformance/audio-context.html",
}

func reportingSession(pageText, pageHTML string) *mocks.Session {
	session := new(mocks.Session)
	session.On("CaptureConsole").Return(func() []string { return []string{"[log] suite loaded"} })
	session.On("Navigate", testUnit.TargetURL, mock.Anything).Return(nil)
	session.On("PageText").Return(pageText, nil)
	session.On("WaitForCondition", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	session.On("PageHTML").Return(pageHTML, nil)
	return session
}

func Test_GivenPageReportsSummary_WhenExecuteUnit_ThenResultIsClassified(t *testing.T) {
	// Given
	session := reportingSession("Found 5 tests 5 Pass", "<html></html>")
	executor := NewExecutor(log.NewLogger())

	// When
	result, err := executor.ExecuteUnit(session, testUnit, 0, ExecOptions{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, testUnit.Name, result.Name)
	assert.Equal(t, testUnit.TargetURL, result.TargetURL)
	assert.Equal(t, classify.VerdictPass, result.Verdict)
	assert.Equal(t, classify.Subcases{Total: 5, Passed: 5}, result.Subcases)
	assert.Contains(t, result.Diagnostics, "Found 5 tests 5 Pass")
	assert.Contains(t, result.Diagnostics, "[log] suite loaded")
	require.Len(t, result.RetryHistory, 1)
	assert.Equal(t, 0, result.RetryHistory[0].Number)
	assert.Equal(t, classify.VerdictPass, result.RetryHistory[0].Verdict)
}

func Test_GivenFailingSubcases_WhenExecuteUnit_ThenFailingSubtestsAreScraped(t *testing.T) {
	// Given
	html := `<html><body>
		<table>
			<tr class="fail"><td>FAIL</td><td>decode-mp3</td><td>expected 2 channels</td></tr>
		</table>
	</body></html>`
	session := reportingSession("3 passed, 1 failed", html)
	executor := NewExecutor(log.NewLogger())

	// When
	result, err := executor.ExecuteUnit(session, testUnit, 0, ExecOptions{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, classify.VerdictFail, result.Verdict)
	assert.Equal(t, classify.Subcases{Total: 4, Passed: 3, Failed: 1}, result.Subcases)
	require.NotEmpty(t, result.FailingSubtests)
	assert.Equal(t, "decode-mp3", result.FailingSubtests[0].Name)
}

func Test_GivenNavigationHitsCriticalFailure_WhenExecuteUnit_ThenErrorPropagates(t *testing.T) {
	// Given
	session := new(mocks.Session)
	session.On("CaptureConsole").Return(func() []string { return nil })
	session.On("Navigate", testUnit.TargetURL, mock.Anything).Return(errors.New("context deadline exceeded"))

	executor := NewExecutor(log.NewLogger())

	// When
	_, err := executor.ExecuteUnit(session, testUnit, 0, ExecOptions{})

	// Then
	require.Error(t, err)
	assert.True(t, IsSessionError(err))
}

func Test_GivenNavigationFailsOrdinarily_WhenExecuteUnit_ThenErrorVerdictResult(t *testing.T) {
	// Given
	session := new(mocks.Session)
	session.On("CaptureConsole").Return(func() []string { return []string{"[error] net::ERR_NAME_NOT_RESOLVED"} })
	session.On("Navigate", testUnit.TargetURL, mock.Anything).Return(errors.New("net::ERR_NAME_NOT_RESOLVED"))

	executor := NewExecutor(log.NewLogger())

	// When
	result, err := executor.ExecuteUnit(session, testUnit, 2, ExecOptions{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, classify.VerdictError, result.Verdict)
	assert.Equal(t, classify.Subcases{Total: 1}, result.Subcases)
	assert.Contains(t, result.Diagnostics, "ERR_NAME_NOT_RESOLVED")
	require.Len(t, result.RetryHistory, 1)
	assert.Equal(t, 2, result.RetryHistory[0].Number)
}

func Test_GivenPageDeclaresHarnessFailure_WhenExecuteUnit_ThenSessionErrorPropagates(t *testing.T) {
	// Given
	session := new(mocks.Session)
	session.On("CaptureConsole").Return(func() []string { return nil })
	session.On("Navigate", testUnit.TargetURL, mock.Anything).Return(nil)
	session.On("PageText").Return("Context Creation Error: WebGL unavailable on this host", nil)

	executor := NewExecutor(log.NewLogger())

	// When
	_, err := executor.ExecuteUnit(session, testUnit, 0, ExecOptions{})

	// Then
	require.Error(t, err)
	assert.True(t, IsSessionError(err))
	assert.Contains(t, err.Error(), "harness failure")
}

func Test_GivenSessionDiesDuringCompletionWait_WhenExecuteUnit_ThenSessionErrorPropagates(t *testing.T) {
	// Given
	session := new(mocks.Session)
	session.On("CaptureConsole").Return(func() []string { return nil })
	session.On("Navigate", testUnit.TargetURL, mock.Anything).Return(nil)
	session.On("PageText").Return("loading tests", nil)
	session.On("WaitForCondition", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("rod: Target closed"))

	executor := NewExecutor(log.NewLogger())

	// When
	_, err := executor.ExecuteUnit(session, testUnit, 0, ExecOptions{})

	// Then
	require.Error(t, err)
	assert.True(t, IsSessionError(err))
}

func Test_GivenCompletionMarkerNeverAppears_WhenExecuteUnit_ThenPageIsClassifiedAnyway(t *testing.T) {
	// Given
	session := new(mocks.Session)
	session.On("CaptureConsole").Return(func() []string { return nil })
	session.On("Navigate", testUnit.TargetURL, mock.Anything).Return(nil)
	session.On("PageText").Return("tests are still running", nil)
	session.On("WaitForCondition", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	session.On("PageHTML").Return("<html></html>", nil)

	executor := NewExecutor(log.NewLogger())

	// When
	result, err := executor.ExecuteUnit(session, testUnit, 0, ExecOptions{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, classify.VerdictUnknown, result.Verdict)
}

func Test_GivenScenario_WhenExecuteUnit_ThenSetupRunsAndExtractorWins(t *testing.T) {
	// Given
	session := reportingSession("Inference Time: 12.4 ms", "<html></html>")
	session.On("SelectOption", "#backendSelect", "webgl").Return(nil)

	benchmark := scenario.Scenario{
		Name:            "image-classification",
		SelectOptions:   map[string]string{"#backendSelect": "webgl"},
		CompletionProbe: `() => true`,
		Extract: func(pageText, _ string) (classify.Classification, bool) {
			return classify.Classification{
				Verdict:  classify.VerdictPass,
				Subcases: classify.Subcases{Total: 1, Passed: 1},
				Strategy: "scenario-metric",
			}, true
		},
	}

	executor := NewExecutor(log.NewLogger())

	// When
	result, err := executor.ExecuteUnit(session, testUnit, 0, ExecOptions{Scenario: &benchmark})

	// Then
	require.NoError(t, err)
	assert.Equal(t, classify.VerdictPass, result.Verdict)
	assert.Equal(t, classify.Subcases{Total: 1, Passed: 1}, result.Subcases)
	session.AssertCalled(t, "SelectOption", "#backendSelect", "webgl")
}
