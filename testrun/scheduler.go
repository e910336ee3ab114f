package testrun

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-browser-conformance-test/browser"
	"github.com/bitrise-steplib/steps-browser-conformance-test/classify"
	"github.com/bitrise-steplib/steps-browser-conformance-test/discovery"
	"github.com/bitrise-steplib/steps-browser-conformance-test/results"
)

const defaultRelaunchPollInterval = 100 * time.Millisecond

// BatchOptions parameterize a full first pass over the unit list.
type BatchOptions struct {
	Concurrency int
	LaunchSpec  browser.LaunchSpec
	ExecOptions ExecOptions
}

// Scheduler runs the whole unit list against one shared session with bounded
// concurrency, replacing the session when it crashes.
type Scheduler interface {
	RunBatch(units []discovery.Unit, opts BatchOptions) ([]results.Result, error)
}

type scheduler struct {
	executor             Executor
	manager              browser.Manager
	logger               log.Logger
	relaunchPollInterval time.Duration
}

// NewScheduler ...
func NewScheduler(executor Executor, manager browser.Manager, logger log.Logger) Scheduler {
	return &scheduler{
		executor:             executor,
		manager:              manager,
		logger:               logger,
		relaunchPollInterval: defaultRelaunchPollInterval,
	}
}

// batchState is the shared state of one batch run. Everything the workers
// touch concurrently lives here behind one mutex: the unit cursor, the active
// session with its generation counter, the relaunch barrier and the result
// list. There is deliberately no package-level state, two batches must not
// see each other.
type batchState struct {
	mu          sync.Mutex
	cursor      int
	session     browser.Session
	generation  int
	relaunching bool
	fatalErr    error
	results     []results.Result
}

func (s *batchState) claimUnit(total int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fatalErr != nil || s.cursor >= total {
		return 0, false
	}
	index := s.cursor
	s.cursor++
	return index, true
}

// beginRelaunch is the restart barrier's check-and-set. It succeeds for
// exactly one caller per session generation: the winner relaunches, everyone
// else observing a crash of the same generation loses and just waits.
func (s *batchState) beginRelaunch(generation int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relaunching || s.generation != generation || s.fatalErr != nil {
		return false
	}
	s.relaunching = true
	return true
}

func (s *batchState) completeRelaunch(replacement browser.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = replacement
	s.generation++
	s.relaunching = false
}

func (s *batchState) failRelaunch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.fatalErr = err
	s.relaunching = false
}

func (s *batchState) appendResult(result results.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

// RunBatch launches the shared session, spawns min(concurrency, len(units))
// workers over a shared cursor and collects one Result per executed unit.
// Result order follows completion, not discovery; callers needing stable
// order sort afterward. The returned error is non-nil only when the batch
// could not finish because no usable session could be obtained anymore.
func (s *scheduler) RunBatch(units []discovery.Unit, opts BatchOptions) ([]results.Result, error) {
	if len(units) == 0 {
		return nil, nil
	}

	initial, err := s.manager.Launch(opts.LaunchSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to start the batch session: %w", err)
	}

	state := &batchState{session: initial, generation: 1}

	workerCount := opts.Concurrency
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(units) {
		workerCount = len(units)
	}

	s.logger.Infof("Running %d test units on %d workers", len(units), workerCount)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runWorker(units, opts, state)
		}()
	}
	wg.Wait()

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.session != nil && !state.session.IsClosed() {
		if err := state.session.Close(); err != nil {
			s.logger.Warnf("Failed to close the batch session: %s", err)
		}
	}
	if state.fatalErr != nil {
		return state.results, fmt.Errorf("batch aborted, no usable browser session: %w", state.fatalErr)
	}
	return state.results, nil
}

func (s *scheduler) runWorker(units []discovery.Unit, opts BatchOptions, state *batchState) {
	for {
		index, ok := state.claimUnit(len(units))
		if !ok {
			return
		}

		result, err := s.runUnit(units[index], opts, state)
		if err != nil {
			// Fatal, the state already carries the reason. Unclaimed units
			// stay unexecuted, RunBatch reports the abort.
			return
		}
		state.appendResult(result)
	}
}

// runUnit executes one unit on the currently active session. A critical
// failure turns into a synthetic failing Result so the unit stays counted,
// and triggers at most one relaunch through the barrier.
func (s *scheduler) runUnit(unit discovery.Unit, opts BatchOptions, state *batchState) (results.Result, error) {
	session, generation, err := s.awaitUsableSession(state)
	if err != nil {
		return results.Result{}, err
	}

	result, execErr := s.executor.ExecuteUnit(session, unit, 0, opts.ExecOptions)
	if execErr == nil {
		return result, nil
	}

	s.logger.Warnf("Critical session failure on %s: %s", unit.Name, execErr)
	s.manager.RecordEvent("critical failure on unit %s: %s", unit.Name, execErr)

	if state.beginRelaunch(generation) {
		s.logger.Infof("Relaunching the browser session")
		replacement, launchErr := s.manager.Relaunch(opts.LaunchSpec, session)
		if launchErr != nil {
			s.logger.Errorf("Failed to relaunch the browser session: %s", launchErr)
			state.failRelaunch(launchErr)
		} else {
			state.completeRelaunch(replacement)
		}
	}

	return syntheticCrashResult(unit, execErr), nil
}

// awaitUsableSession returns the active session once no relaunch is in
// progress. Workers poll rather than queue, the barrier window is short.
func (s *scheduler) awaitUsableSession(state *batchState) (browser.Session, int, error) {
	for {
		state.mu.Lock()
		if state.fatalErr != nil {
			err := state.fatalErr
			state.mu.Unlock()
			return nil, 0, err
		}
		if !state.relaunching {
			session, generation := state.session, state.generation
			state.mu.Unlock()
			return session, generation, nil
		}
		state.mu.Unlock()

		time.Sleep(s.relaunchPollInterval)
	}
}

// syntheticCrashResult keeps a unit counted when its execution took the
// session down. The diagnostics carry the original failure message.
func syntheticCrashResult(unit discovery.Unit, cause error) results.Result {
	result := results.Result{
		Name:        unit.Name,
		TargetURL:   unit.TargetURL,
		Verdict:     classify.VerdictFail,
		Subcases:    classify.Subcases{Total: 1, Failed: 1},
		Diagnostics: cause.Error(),
	}
	result.RetryHistory = []results.Attempt{results.AttemptOf(0, result)}
	return result
}
