package testrun

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// The automation endpoint reports this when the page behind the session died.
	targetClosedMessage = "target closed"
	// Reported when the whole browser process went away.
	sessionClosedMessage  = "session closed"
	browserClosedMessage  = "browser has been closed"
	invalidSessionMessage = "invalid session"
	// Protocol-level disconnects surface as websocket failures on the control connection.
	websocketBrokenMessage  = "websocket"
	connectionClosedMessage = "use of closed network connection"
	// A unit exceeding its time budget surfaces as an expired navigation/eval context.
	unitDeadlineExceededMessage = "context deadline exceeded"
	contextCanceledMessage      = "context canceled"
)

// sessionErrorPatterns mark failures after which the shared session cannot be
// trusted anymore. Matched case insensitively against error messages.
var sessionErrorPatterns = []string{
	targetClosedMessage,
	sessionClosedMessage,
	browserClosedMessage,
	invalidSessionMessage,
	websocketBrokenMessage,
	connectionClosedMessage,
	unitDeadlineExceededMessage,
	contextCanceledMessage,
}

// harnessErrorPatterns are failure banners test pages render when their own
// setup failed before any subcase could run. A page declaring one of these is
// treated like a session crash, the browser state behind it is suspect.
var harnessErrorPatterns = []string{
	"context creation error",
	"failed to create context",
	"unable to create.*context",
	"harness error",
	"initialization failed",
	"gpu process crashed",
}

// SessionError is a critical infrastructure failure. It must reach the batch
// scheduler so the session gets replaced, ordinary unit failures never carry
// this type.
type SessionError struct {
	Reason string
	Err    error
}

// Error ...
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Err)
	}
	return e.Reason
}

// Unwrap ...
func (e *SessionError) Unwrap() error {
	return e.Err
}

// IsSessionError ...
func IsSessionError(err error) bool {
	var sessionErr *SessionError
	return errors.As(err, &sessionErr)
}

// asSessionError returns err wrapped as a SessionError when its message
// matches a known critical pattern, and nil for ordinary failures.
func asSessionError(err error) error {
	if err == nil {
		return nil
	}
	if IsSessionError(err) {
		return err
	}
	for _, pattern := range sessionErrorPatterns {
		if isStringFoundInOutput(pattern, err.Error()) {
			return &SessionError{Reason: "browser session failure", Err: err}
		}
	}
	return nil
}

// findHarnessError reports the first declared harness failure in the page
// text, if any.
func findHarnessError(pageText string) (string, bool) {
	for _, pattern := range harnessErrorPatterns {
		if isStringFoundInOutput(pattern, pageText) {
			return pattern, true
		}
	}
	return "", false
}

func isStringFoundInOutput(searchStr, outputToSearchIn string) bool {
	r, err := regexp.Compile("(?i)" + searchStr)
	if err != nil {
		return false
	}
	return r.MatchString(outputToSearchIn)
}
