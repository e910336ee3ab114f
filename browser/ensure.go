package browser

import (
	"fmt"

	"github.com/bitrise-io/go-utils/progress"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/go-rod/rod/lib/launcher"
)

// Ensurer resolves the browser binary the suite runs on.
type Ensurer interface {
	EnsureBrowser(preferredPath string) (string, error)
}

type ensurer struct {
	pathChecker pathutil.PathChecker
	logger      log.Logger
}

// NewEnsurer ...
func NewEnsurer(pathChecker pathutil.PathChecker, logger log.Logger) Ensurer {
	return ensurer{
		pathChecker: pathChecker,
		logger:      logger,
	}
}

// EnsureBrowser returns the path of the browser executable to use. An explicit
// path wins, otherwise the system browser is looked up, and as a last resort a
// managed browser build is downloaded.
func (e ensurer) EnsureBrowser(preferredPath string) (string, error) {
	if preferredPath != "" {
		exists, err := e.pathChecker.IsPathExists(preferredPath)
		if err != nil {
			return "", fmt.Errorf("failed to check browser path (%s): %w", preferredPath, err)
		}
		if !exists {
			return "", fmt.Errorf("browser executable not found at: %s", preferredPath)
		}
		return preferredPath, nil
	}

	if binPath, found := launcher.LookPath(); found {
		e.logger.Printf("Using system browser: %s", binPath)
		return binPath, nil
	}

	e.logger.Infof("No system browser found, downloading a managed build")

	var binPath string
	var downloadErr error
	progress.NewDefaultWrapper("Downloading browser").WrapAction(func() {
		binPath, downloadErr = launcher.NewBrowser().Get()
	})
	if downloadErr != nil {
		return "", fmt.Errorf("failed to download browser: %w", downloadErr)
	}
	e.logger.Donef("Browser downloaded to: %s", binPath)

	return binPath, nil
}
