package browser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/hashicorp/go-version"
)

// MinSupportedMajorVersion is the oldest browser major version the suite
// pages are known to work with.
const MinSupportedMajorVersion = 100

var versionNumberRegexp = regexp.MustCompile(`\d+(?:\.\d+)+`)

// Version is the parsed version of a browser executable.
type Version struct {
	Raw    string
	Semver *version.Version
	Major  int
}

// VersionReader ...
type VersionReader interface {
	ReadVersion(binaryPath string) (Version, error)
}

type versionReader struct {
	commandFactory command.Factory
}

// NewVersionReader ...
func NewVersionReader(commandFactory command.Factory) VersionReader {
	return versionReader{commandFactory: commandFactory}
}

func (r versionReader) ReadVersion(binaryPath string) (Version, error) {
	cmd := r.commandFactory.Create(binaryPath, []string{"--version"}, nil)
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		return Version{}, fmt.Errorf("failed to read browser version: %w", err)
	}

	return parseVersionOutput(out)
}

func parseVersionOutput(out string) (Version, error) {
	numbers := versionNumberRegexp.FindString(out)
	if numbers == "" {
		return Version{}, fmt.Errorf("no version number found in browser version output: %s", out)
	}

	semver, err := version.NewVersion(numbers)
	if err != nil {
		return Version{}, fmt.Errorf("failed to parse browser version (%s): %w", numbers, err)
	}

	return Version{
		Raw:    strings.TrimSpace(out),
		Semver: semver,
		Major:  semver.Segments()[0],
	}, nil
}
