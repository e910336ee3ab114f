package testrun

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenErrorMessages_WhenMatchedAgainstSessionPatterns_ThenOnlyCriticalOnesWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		critical bool
	}{
		{name: "target closed", err: errors.New("rod: Target closed"), critical: true},
		{name: "session closed", err: errors.New("Session closed. Most likely the page has been closed"), critical: true},
		{name: "websocket disconnect", err: errors.New("websocket: close 1006 (abnormal closure)"), critical: true},
		{name: "closed network connection", err: errors.New("read tcp 127.0.0.1:9222: use of closed network connection"), critical: true},
		{name: "unit budget exceeded", err: errors.New("context deadline exceeded"), critical: true},
		{name: "unreachable page", err: errors.New("net::ERR_NAME_NOT_RESOLVED"), critical: false},
		{name: "missing element", err: errors.New("no element matches selector #results"), critical: false},
		{name: "plain evaluation failure", err: errors.New("eval: ReferenceError: runTests is not defined"), critical: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := asSessionError(tt.err)

			if tt.critical {
				require.Error(t, wrapped)
				assert.True(t, IsSessionError(wrapped))
				assert.ErrorIs(t, wrapped, tt.err)
			} else {
				assert.Nil(t, wrapped)
			}
		})
	}
}

func Test_GivenAlreadyWrappedError_WhenWrappedAgain_ThenKeptAsIs(t *testing.T) {
	critical := &SessionError{Reason: "browser session failure", Err: errors.New("target closed")}
	decorated := fmt.Errorf("unit xyz: %w", critical)

	wrapped := asSessionError(decorated)

	require.Error(t, wrapped)
	assert.Same(t, decorated, wrapped)
	assert.True(t, IsSessionError(wrapped))
}

func Test_GivenPageText_WhenSearchedForHarnessErrors_ThenDeclaredFailuresAreFound(t *testing.T) {
	tests := []struct {
		name     string
		pageText string
		found    bool
	}{
		{name: "context creation banner", pageText: "WebGL Conformance Tests\nContext Creation Error: no GPU available", found: true},
		{name: "generic harness banner", pageText: "HARNESS ERROR: suite script missing", found: true},
		{name: "init failure", pageText: "Initialization failed, see console", found: true},
		{name: "healthy page", pageText: "Found 5 tests 5 Pass", found: false},
		{name: "failure wording inside a subcase", pageText: "test 3: expected 4 got 5", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, found := findHarnessError(tt.pageText)

			assert.Equal(t, tt.found, found)
		})
	}
}
