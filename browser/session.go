package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Session is a live browser with a single page under control. All test units
// of a batch share one Session, so implementations have to be safe for use
// from multiple goroutines.
type Session interface {
	ID() string
	Navigate(url string, timeout time.Duration) error
	EvalString(js string) (string, error)
	EvalBool(js string) (bool, error)
	WaitForCondition(js string, timeout, interval time.Duration) (bool, error)
	SelectOption(selector, value string) error
	PageText() (string, error)
	PageHTML() (string, error)
	CaptureConsole() func() []string
	IsClosed() bool
	Close() error
}

type rodSession struct {
	id       string
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	logger   log.Logger

	evalMu    sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (s *rodSession) ID() string {
	return s.id
}

func (s *rodSession) Navigate(url string, timeout time.Duration) error {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	page := s.page.Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (s *rodSession) EvalString(js string) (string, error) {
	res, err := s.eval(js, nil)
	if err != nil {
		return "", err
	}
	if res == nil || res.Value.Nil() {
		return "", nil
	}
	return res.Value.Str(), nil
}

func (s *rodSession) EvalBool(js string) (bool, error) {
	res, err := s.eval(js, nil)
	if err != nil {
		return false, err
	}
	if res == nil || res.Value.Nil() {
		return false, nil
	}
	return res.Value.Bool(), nil
}

// WaitForCondition polls the given predicate script until it reports true or
// the timeout elapses. A timeout is not an error, the caller gets (false, nil)
// and decides what a missing condition means.
func (s *rodSession) WaitForCondition(js string, timeout, interval time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := s.EvalBool(js)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(interval)
	}
}

func (s *rodSession) SelectOption(selector, value string) error {
	js := `(selector, value) => {
		const el = document.querySelector(selector);
		if (!el) {
			return false;
		}
		el.value = value;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`
	res, err := s.eval(js, []interface{}{selector, value})
	if err != nil {
		return fmt.Errorf("failed to select %s on %s: %w", value, selector, err)
	}
	if res == nil || !res.Value.Bool() {
		return fmt.Errorf("no element matches selector %s", selector)
	}
	return nil
}

func (s *rodSession) PageText() (string, error) {
	return s.EvalString(`() => document.body ? document.body.innerText : ""`)
}

func (s *rodSession) PageHTML() (string, error) {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// CaptureConsole subscribes to console output of the page and returns a stop
// function. Calling stop detaches the subscription and returns the messages
// captured so far. The subscription is scoped to this call, stop never affects
// other captures on the same session.
func (s *rodSession) CaptureConsole() func() []string {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var messages []string

	wait := s.page.Context(ctx).EachEvent(func(ev *proto.RuntimeConsoleAPICalled) {
		mu.Lock()
		messages = append(messages, fmt.Sprintf("[%s] %s", ev.Type, stringifyConsoleArgs(ev.Args)))
		mu.Unlock()
	})
	go wait()

	var stopOnce sync.Once
	return func() []string {
		stopOnce.Do(cancel)
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), messages...)
	}
}

func (s *rodSession) IsClosed() bool {
	return s.closed.Load()
}

func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if err := s.browser.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
		s.launcher.Cleanup()
	})
	return s.closeErr
}

func (s *rodSession) eval(js string, args []interface{}) (*proto.RuntimeRemoteObject, error) {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	return s.page.Evaluate(&rod.EvalOptions{
		JS:           js,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
}

func stringifyConsoleArgs(args []*proto.RuntimeRemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		if !arg.Value.Nil() {
			parts = append(parts, arg.Value.String())
			continue
		}
		if arg.Description != "" {
			parts = append(parts, arg.Description)
		}
	}
	return strings.Join(parts, " ")
}
