package browser

import (
	"errors"
	"testing"

	"github.com/bitrise-steplib/steps-browser-conformance-test/browser/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_GivenVersionCommandSucceeds_WhenReadVersion_ThenReturnsParsedVersion(t *testing.T) {
	// Given
	cmd := new(mocks.Command)
	cmd.On("RunAndReturnTrimmedCombinedOutput").Return("Chromium 124.0.6367.78 built on Debian 12", nil)

	factory := new(mocks.Factory)
	factory.On("Create", "/usr/bin/chromium", []string{"--version"}, mock.Anything).Return(cmd)

	reader := NewVersionReader(factory)

	// When
	ver, err := reader.ReadVersion("/usr/bin/chromium")

	// Then
	require.NoError(t, err)
	assert.Equal(t, 124, ver.Major)
	assert.Equal(t, "Chromium 124.0.6367.78 built on Debian 12", ver.Raw)
	factory.AssertExpectations(t)
	cmd.AssertExpectations(t)
}

func Test_GivenVersionCommandFails_WhenReadVersion_ThenReturnsError(t *testing.T) {
	// Given
	cmd := new(mocks.Command)
	cmd.On("RunAndReturnTrimmedCombinedOutput").Return("", errors.New("exec format error"))

	factory := new(mocks.Factory)
	factory.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(cmd)

	reader := NewVersionReader(factory)

	// When
	_, err := reader.ReadVersion("/usr/bin/chromium")

	// Then
	require.Error(t, err)
}

func Test_GivenVersionOutputVariants_WhenParsed_ThenMajorVersionIsExtracted(t *testing.T) {
	tests := []struct {
		name          string
		output        string
		wantMajor     int
		wantParseFail bool
	}{
		{
			name:      "Chrome style output",
			output:    "Google Chrome 103.0.5060.53",
			wantMajor: 103,
		},
		{
			name:      "Headless build string",
			output:    "HeadlessChrome/118.0.5993.70",
			wantMajor: 118,
		},
		{
			name:      "two segment version",
			output:    "Brave Browser 1.52",
			wantMajor: 1,
		},
		{
			name:          "no version number",
			output:        "command not found",
			wantParseFail: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ver, err := parseVersionOutput(tt.output)

			if tt.wantParseFail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMajor, ver.Major)
		})
	}
}
