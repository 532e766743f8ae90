// Package receiver implements the editor-side half of the command bridge: a
// TCP listener that frames incoming requests and a dispatcher that routes
// each command identifier to its registered handler.
package receiver

import (
	"context"
	"errors"
	"fmt"

	"gdbridge/internal/bridge"
)

// Handler implements one command's effect. It receives the request params and
// returns a result mapping, or an error. Handlers know nothing about the wire
// format or connection lifecycle.
type Handler func(ctx context.Context, params map[string]any) (map[string]any, error)

// CommandError is a domain-level handler failure with a stable machine
// readable code alongside the human message.
type CommandError struct {
	Code    string
	Message string
}

func (e *CommandError) Error() string { return e.Code + ": " + e.Message }

// Errorf builds a CommandError with a formatted message.
func Errorf(code, format string, args ...any) *CommandError {
	return &CommandError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Registry maps command identifiers to handlers. It is populated once before
// serving and read-only afterwards; duplicate registration is a configuration
// error caught here, not at dispatch time.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register binds a command identifier to its handler.
func (r *Registry) Register(commandType string, h Handler) error {
	if commandType == "" {
		return errors.New("command type must not be empty")
	}
	if h == nil {
		return fmt.Errorf("nil handler for command %q", commandType)
	}
	if _, exists := r.handlers[commandType]; exists {
		return fmt.Errorf("duplicate handler for command %q", commandType)
	}
	r.handlers[commandType] = h
	return nil
}

// Lookup returns the handler for a command identifier.
func (r *Registry) Lookup(commandType string) (Handler, bool) {
	h, ok := r.handlers[commandType]
	return h, ok
}

// Commands returns the number of registered command identifiers.
func (r *Registry) Commands() int { return len(r.handlers) }

// Dispatch routes one request to its handler and shapes the response. It
// never fails: unknown commands, handler errors, and handler panics all
// degrade to an error response so a single bad command cannot take the
// listener down or leave the connection without a reply.
func Dispatch(ctx context.Context, registry *Registry, req bridge.Request) bridge.Response {
	handler, ok := registry.Lookup(req.Type)
	if !ok {
		return errorResponse("unknown_command", fmt.Sprintf("unknown command: %s", req.Type))
	}

	result, err := invoke(ctx, handler, req.Params)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return errorResponse(cmdErr.Code, cmdErr.Message)
		}
		// Unexpected failure: still an error response, but marked internal so
		// callers can tell it apart from validation refusals.
		return errorResponse("internal", "internal error: "+err.Error())
	}
	if result == nil {
		result = map[string]any{}
	}
	return bridge.Response{Status: bridge.StatusSuccess, Result: result}
}

// invoke runs the handler, converting a panic into an error.
func invoke(ctx context.Context, handler Handler, params map[string]any) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	if params == nil {
		params = map[string]any{}
	}
	return handler(ctx, params)
}

func errorResponse(code, message string) bridge.Response {
	return bridge.Response{Status: bridge.StatusError, Code: code, Message: message}
}
