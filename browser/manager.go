package browser

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/errorutil"
	"github.com/bitrise-io/go-utils/progress"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

const relaunchSettleDelay = 2 * time.Second

// Manager owns the lifecycle of browser sessions. It launches them, replaces
// crashed ones and keeps a journal of session events for diagnostics.
type Manager interface {
	Launch(spec LaunchSpec) (Session, error)
	Relaunch(spec LaunchSpec, old Session) (Session, error)
	RecordEvent(format string, args ...interface{})
	CollectDiagnostics() (string, error)
	DiagnosticsName() (string, error)
}

type manager struct {
	launcher       Launcher
	commandFactory command.Factory
	pathProvider   pathutil.PathProvider
	fileManager    fileutil.FileManager
	logger         log.Logger
	settleDelay    time.Duration

	mu     sync.Mutex
	events []string
}

// NewManager ...
func NewManager(launcher Launcher, commandFactory command.Factory, pathProvider pathutil.PathProvider, fileManager fileutil.FileManager, logger log.Logger) Manager {
	return &manager{
		launcher:       launcher,
		commandFactory: commandFactory,
		pathProvider:   pathProvider,
		fileManager:    fileManager,
		logger:         logger,
		settleDelay:    relaunchSettleDelay,
	}
}

func (m *manager) Launch(spec LaunchSpec) (Session, error) {
	session, err := m.launcher.Launch(spec)
	if err != nil {
		m.RecordEvent("launch failed: %s", err)
		return nil, fmt.Errorf("failed to launch browser session: %w", err)
	}

	m.RecordEvent("session %s launched", session.ID())
	m.logger.Debugf("Browser session %s launched", session.ID())

	return session, nil
}

// Relaunch tears down the old session and starts a fresh one with the same
// spec. Closing a crashed session regularly fails, that error is only logged.
// A failure to start the replacement is returned to the caller, there is no
// browser left to run anything on at that point.
func (m *manager) Relaunch(spec LaunchSpec, old Session) (Session, error) {
	if old != nil {
		if err := old.Close(); err != nil {
			m.logger.Warnf("Failed to close previous browser session: %s", err)
		}
		m.forceKillBrowser(spec)
		m.RecordEvent("session %s torn down for relaunch", old.ID())

		progress.NewDefaultWrapper("Waiting for browser teardown to settle").WrapAction(func() {
			time.Sleep(m.settleDelay)
		})
	}

	return m.Launch(spec)
}

// RecordEvent appends a timestamped entry to the session event journal.
func (m *manager) RecordEvent(format string, args ...interface{}) {
	entry := fmt.Sprintf("%s %s", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, entry)
}

// CollectDiagnostics writes the session event journal into a temporary
// directory and returns its path.
func (m *manager) CollectDiagnostics() (string, error) {
	diagnosticsName, err := m.DiagnosticsName()
	if err != nil {
		return "", err
	}

	diagnosticsOutDir, err := m.pathProvider.CreateTempDir(diagnosticsName)
	if err != nil {
		return "", fmt.Errorf("failed to collect session diagnostics, could not create temporary directory: %w", err)
	}

	m.mu.Lock()
	journal := strings.Join(m.events, "\n")
	m.mu.Unlock()

	logPth := filepath.Join(diagnosticsOutDir, "session-events.log")
	if err := m.fileManager.Write(logPth, journal+"\n", 0644); err != nil {
		return "", fmt.Errorf("failed to write session event journal: %w", err)
	}

	return diagnosticsOutDir, nil
}

func (m *manager) DiagnosticsName() (string, error) {
	timestamp, err := time.Now().MarshalText()
	if err != nil {
		return "", fmt.Errorf("failed to collect session diagnostics, failed to marshal timestamp: %w", err)
	}

	return fmt.Sprintf("browser_session_diagnostics_%s", strings.ReplaceAll(string(timestamp), ":", "-")), nil
}

// forceKillBrowser reaps browser processes that survived a session close. A
// crashed browser can leave its process tree behind and a half dead browser
// holding the profile lock makes the relaunch fail.
func (m *manager) forceKillBrowser(spec LaunchSpec) {
	processName := filepath.Base(spec.BinaryPath)
	if processName == "" || processName == "." {
		return
	}

	cmd := m.commandFactory.Create("pkill", []string{"-f", processName}, nil)
	exitCode, err := cmd.RunAndReturnExitCode()
	if err != nil {
		if errorutil.IsExitStatusError(err) {
			// Exit code 1 means no process matched, which is the usual case.
			if exitCode != 1 {
				m.logger.Warnf("Force kill of leftover browser processes exited with code %d", exitCode)
			}
			return
		}
		m.logger.Warnf("Failed to force kill leftover browser processes, command execution failed: %s", err)
	}
}
