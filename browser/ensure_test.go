package browser

import (
	"errors"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/browser/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenExplicitBrowserPathExists_WhenEnsureBrowser_ThenReturnsIt(t *testing.T) {
	// Given
	pathChecker := new(mocks.PathChecker)
	pathChecker.On("IsPathExists", "/opt/chromium/chrome").Return(true, nil)

	ensurer := NewEnsurer(pathChecker, log.NewLogger())

	// When
	binPath, err := ensurer.EnsureBrowser("/opt/chromium/chrome")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "/opt/chromium/chrome", binPath)
	pathChecker.AssertExpectations(t)
}

func Test_GivenExplicitBrowserPathMissing_WhenEnsureBrowser_ThenFails(t *testing.T) {
	// Given
	pathChecker := new(mocks.PathChecker)
	pathChecker.On("IsPathExists", "/opt/chromium/chrome").Return(false, nil)

	ensurer := NewEnsurer(pathChecker, log.NewLogger())

	// When
	_, err := ensurer.EnsureBrowser("/opt/chromium/chrome")

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/opt/chromium/chrome")
}

func Test_GivenBrowserPathCheckFails_WhenEnsureBrowser_ThenFails(t *testing.T) {
	// Given
	pathChecker := new(mocks.PathChecker)
	pathChecker.On("IsPathExists", "/opt/chromium/chrome").Return(false, errors.New("permission denied"))

	ensurer := NewEnsurer(pathChecker, log.NewLogger())

	// When
	_, err := ensurer.EnsureBrowser("/opt/chromium/chrome")

	// Then
	require.Error(t, err)
}
