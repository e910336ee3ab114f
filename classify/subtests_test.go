package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_GivenStatusFirstRows_WhenScraped_ThenStatusNameAndMessageAreSplit(t *testing.T) {
	// Given
	html := `<table>
		<tr class="pass"><td>Pass</td><td>canvas fill</td></tr>
		<tr class="fail"><td>Fail</td><td>canvas stroke</td><td>expected 4 got 5</td></tr>
		<tr class="error"><td>Error</td><td>canvas clip</td><td>TypeError: x is undefined</td></tr>
	</table>`

	// When
	subtests := FailingSubtests(html, 10)

	// Then
	require.Len(t, subtests, 2)
	require.Equal(t, Subtest{Name: "canvas stroke", Status: "FAIL", Message: "expected 4 got 5"}, subtests[0])
	require.Equal(t, Subtest{Name: "canvas clip", Status: "ERROR", Message: "TypeError: x is undefined"}, subtests[1])
}

func Test_GivenNameFirstRows_WhenScraped_ThenNameAndMessageAreKept(t *testing.T) {
	// Given
	html := `<table><tr class="fail"><td>text-shadow blur</td><td>assert_equals failed</td></tr></table>`

	// When
	subtests := FailingSubtests(html, 10)

	// Then
	require.Len(t, subtests, 1)
	require.Equal(t, Subtest{Name: "text-shadow blur", Status: "FAIL", Message: "assert_equals failed"}, subtests[0])
}

func Test_GivenPlainFailElements_WhenNoFailingRowsExist_ThenElementsAreScraped(t *testing.T) {
	// Given
	html := `<ul><li class="fail">gradient interpolation</li><li class="pass">gradient endpoints</li></ul>`

	// When
	subtests := FailingSubtests(html, 10)

	// Then
	require.Len(t, subtests, 1)
	require.Equal(t, Subtest{Name: "gradient interpolation", Status: "FAIL"}, subtests[0])
}

func Test_GivenMoreFailuresThanTheLimit_WhenScraped_ThenResultIsCapped(t *testing.T) {
	// Given
	html := `<table>
		<tr class="fail"><td>a</td></tr>
		<tr class="fail"><td>b</td></tr>
		<tr class="fail"><td>c</td></tr>
	</table>`

	// When
	subtests := FailingSubtests(html, 2)

	// Then
	require.Len(t, subtests, 2)
}

func Test_GivenEmptyHTML_WhenScraped_ThenNoSubtestsAreReturned(t *testing.T) {
	require.Empty(t, FailingSubtests("", 10))
	require.Empty(t, FailingSubtests("   ", 10))
}
