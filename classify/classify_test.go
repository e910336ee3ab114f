package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenSummaryLineFormats_WhenClassified_ThenStructuredParseWins(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		html     string
		expected Classification
	}{
		{
			name: "Found tests with pass and fail counts",
			text: "Found 12 tests 10 Pass 2 Fail",
			expected: Classification{
				Verdict:  VerdictFail,
				Subcases: Subcases{Total: 12, Passed: 10, Failed: 2},
				Strategy: StrategyFoundTestsPassFail,
			},
		},
		{
			name: "Found tests with pass count only",
			text: "Found 5 tests 5 Pass",
			expected: Classification{
				Verdict:  VerdictPass,
				Subcases: Subcases{Total: 5, Passed: 5},
				Strategy: StrategyFoundTestsPass,
			},
		},
		{
			name: "Ratio of passed tests",
			text: "8/10 tests passed",
			expected: Classification{
				Verdict:  VerdictFail,
				Subcases: Subcases{Total: 10, Passed: 8, Failed: 2},
				Strategy: StrategyPassedRatio,
			},
		},
		{
			name: "Separate passed and failed phrases",
			text: "3 passed, 1 failed",
			expected: Classification{
				Verdict:  VerdictFail,
				Subcases: Subcases{Total: 4, Passed: 3, Failed: 1},
				Strategy: StrategyPassedFailedCounts,
			},
		},
		{
			name: "Standalone status tokens",
			text: "PASS PASS PASS FAIL",
			expected: Classification{
				Verdict:  VerdictFail,
				Subcases: Subcases{Total: 4, Passed: 3, Failed: 1},
				Strategy: StrategyStatusTokens,
			},
		},
		{
			name: "Status classes in the DOM",
			html: `<table><tr class="pass"><td>a</td></tr><tr class="pass"><td>b</td></tr><tr class="fail"><td>c</td></tr></table>`,
			expected: Classification{
				Verdict:  VerdictFail,
				Subcases: Subcases{Total: 3, Passed: 2, Failed: 1},
				Strategy: StrategyDOMClasses,
			},
		},
		{
			name: "Largest number near the word test with an all-pass claim",
			text: "Ran 250 tests in total, all of them pass.",
			expected: Classification{
				Verdict:  VerdictPass,
				Subcases: Subcases{Total: 250, Passed: 250},
				Strategy: StrategyNumericGuess,
			},
		},
		{
			name: "Largest number near the word test without an all-pass claim",
			text: "Executed 42 tests.",
			expected: Classification{
				Verdict:  VerdictUnknown,
				Subcases: Subcases{Total: 42},
				Strategy: StrategyNumericGuess,
			},
		},
		{
			name: "Completion marker fallback",
			text: "Benchmark run is now complete.",
			expected: Classification{
				Verdict:  VerdictPass,
				Subcases: Subcases{Total: 1, Passed: 1},
				Strategy: StrategyTextFallback,
			},
		},
		{
			name: "Error marker fallback",
			text: "Uncaught exception while rendering",
			expected: Classification{
				Verdict:  VerdictFail,
				Subcases: Subcases{Total: 1, Failed: 1},
				Strategy: StrategyTextFallback,
			},
		},
		{
			name: "No signal at all",
			text: "still waiting for something to happen",
			expected: Classification{
				Verdict:  VerdictUnknown,
				Subcases: Subcases{Total: 1},
				Strategy: StrategyTextFallback,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := Classify(test.text, test.html)

			require.Equal(t, test.expected, actual)
		})
	}
}

func Test_GivenTextMatchingMultipleStrategies_WhenClassified_ThenEarlierStrategyWins(t *testing.T) {
	// Given: the summary line is followed by per-subcase status tokens that
	// would also satisfy the token-count strategy.
	text := "Found 12 tests 10 Pass 2 Fail\nPASS\nPASS\nFAIL"

	// When
	actual := Classify(text, "")

	// Then
	require.Equal(t, StrategyFoundTestsPassFail, actual.Strategy)
	require.Equal(t, Subcases{Total: 12, Passed: 10, Failed: 2}, actual.Subcases)
	require.Equal(t, VerdictFail, actual.Verdict)
}

func Test_GivenAnySubcaseCounters_WhenVerdictDerived_ThenPassAndFailAreExclusive(t *testing.T) {
	tests := []struct {
		name     string
		subcases Subcases
		expected Verdict
	}{
		{name: "All passed", subcases: Subcases{Total: 4, Passed: 4}, expected: VerdictPass},
		{name: "Some failed", subcases: Subcases{Total: 4, Passed: 3, Failed: 1}, expected: VerdictFail},
		{name: "Only failures", subcases: Subcases{Total: 2, Failed: 2}, expected: VerdictFail},
		{name: "Nothing ran", subcases: Subcases{}, expected: VerdictUnknown},
		{name: "Total without outcomes", subcases: Subcases{Total: 9}, expected: VerdictUnknown},
		{name: "Failed wins over passed", subcases: Subcases{Total: 3, Passed: 2, Failed: 1}, expected: VerdictFail},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := VerdictFor(test.subcases)

			require.Equal(t, test.expected, actual)
			if actual == VerdictPass {
				require.Zero(t, test.subcases.Failed)
				require.Positive(t, test.subcases.Passed)
			}
		})
	}
}

func Test_GivenIdenticalInput_WhenClassifiedTwice_ThenOutputIsIdentical(t *testing.T) {
	// Given
	text := "Found 7 tests 6 Pass 1 Fail"
	html := `<div class="pass">ok</div>`

	// When
	first := Classify(text, html)
	second := Classify(text, html)

	// Then
	require.Equal(t, first, second)
}

func Test_GivenLowercaseStatusWords_WhenClassified_ThenTokenCountIgnoresThem(t *testing.T) {
	// Given
	text := "pass fail pass"

	// When
	actual := Classify(text, "")

	// Then
	assert.Equal(t, StrategyTextFallback, actual.Strategy)
	assert.Equal(t, VerdictUnknown, actual.Verdict)
}

func Test_GivenFoundLineWithoutPassCount_WhenClassified_ThenFallsThroughToNumericGuess(t *testing.T) {
	// Given
	text := "Found 3 tests"

	// When
	actual := Classify(text, "")

	// Then
	require.Equal(t, StrategyNumericGuess, actual.Strategy)
	require.Equal(t, Subcases{Total: 3}, actual.Subcases)
	require.Equal(t, VerdictUnknown, actual.Verdict)
}
