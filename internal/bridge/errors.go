package bridge

import "errors"

// Transport-level failure classes. Callers branch with errors.Is; the wrapped
// cause remains reachable through Unwrap.
var (
	// ErrConnection marks a transport that could not be established or broke
	// mid-exchange. The connection is discarded; the next call reconnects.
	ErrConnection = errors.New("editor connection unavailable")

	// ErrTimeout marks a call that produced no full response within the
	// configured budget. The connection is discarded as desynchronized.
	ErrTimeout = errors.New("timed out waiting for editor response")

	// ErrProtocol marks a malformed wire payload, fatal to the current
	// connection. It indicates a framing or encoding bug, not a flaky link.
	ErrProtocol = errors.New("malformed editor protocol payload")
)

// RemoteError is a command-level failure reported by the editor itself. The
// connection remains usable; only the one command failed.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// classified tags an underlying error with one of the failure classes above
// so that errors.Is matches the class and Unwrap yields the cause.
type classified struct {
	class error
	cause error
}

func classify(class, cause error) error {
	return &classified{class: class, cause: cause}
}

func (e *classified) Error() string { return e.class.Error() + ": " + e.cause.Error() }

func (e *classified) Is(target error) bool { return target == e.class }

func (e *classified) Unwrap() error { return e.cause }
