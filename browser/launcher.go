package browser

import (
	"fmt"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

// LaunchSpec describes how a browser session should be started.
type LaunchSpec struct {
	// BinaryPath is the resolved browser executable.
	BinaryPath string
	// Headless controls whether the browser runs without a visible window.
	Headless bool
	// LaunchOptions are additional command line switches, one per element,
	// in either "--name" or "--name=value" form.
	LaunchOptions []string
}

// Launcher starts a browser process and connects a control session to it.
type Launcher interface {
	Launch(spec LaunchSpec) (Session, error)
}

type rodLauncher struct {
	logger log.Logger
}

// NewLauncher ...
func NewLauncher(logger log.Logger) Launcher {
	return rodLauncher{logger: logger}
}

func (l rodLauncher) Launch(spec LaunchSpec) (Session, error) {
	launch := launcher.New().Headless(spec.Headless)
	if spec.BinaryPath != "" {
		launch = launch.Bin(spec.BinaryPath)
	}
	for _, rawFlag := range spec.LaunchOptions {
		flagStr := strings.TrimLeft(rawFlag, "-")
		if flagStr == "" {
			continue
		}
		name, val, hasVal := strings.Cut(flagStr, "=")
		if hasVal {
			launch = launch.Set(flags.Flag(name), val)
		} else {
			launch = launch.Set(flags.Flag(name))
		}
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to start browser process: %w", err)
	}

	client := rod.New().ControlURL(controlURL)
	if err := client.Connect(); err != nil {
		launch.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser debug endpoint: %w", err)
	}

	// Each session gets a fresh incognito context so cached state from a
	// previous run cannot leak into classification.
	pageHost := client
	if incognito, err := client.Incognito(); err != nil {
		l.logger.Warnf("Failed to create incognito context, using default profile: %s", err)
	} else {
		pageHost = incognito
	}

	page, err := pageHost.Page(proto.TargetCreateTarget{})
	if err != nil {
		if closeErr := client.Close(); closeErr != nil {
			l.logger.Debugf("Browser close after failed page creation: %s", closeErr)
		}
		launch.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &rodSession{
		id:       uuid.NewString(),
		browser:  client,
		page:     page,
		launcher: launch,
		logger:   l.logger,
	}, nil
}
