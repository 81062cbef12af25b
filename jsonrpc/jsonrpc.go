// Package jsonrpc is a JSON-RPC 2.0 client over HTTP and websockets, as described in
// https://www.jsonrpc.org/specification
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"syscall"
)

const (
	InvalidJSON    = -32700 // Invalid JSON was received by the server.
	InvalidRequest = -32600 // The JSON sent is not a valid Request object.
	MethodNotFound = -32601 // The method does not exist / is not available.
	InvalidParams  = -32602 // Invalid method parameter(s).
	InternalError  = -32603 // Internal JSON-RPC error.
)

var (
	ErrCancelled = fmt.Errorf("request cancelled: %w", context.Canceled)
	ErrTimeout   = fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	ErrClosed    = errors.New("connection closed")
)

// Named passed as the only param sends the params by name instead of by position.
type Named map[string]any

type request struct {
	Version string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      uint64 `json:"id"`
}

func newRequest(id uint64, method string, params []any) request {
	req := request{Version: "2.0", Method: method, Params: params, ID: id}
	if len(params) == 1 {
		if named, ok := params[0].(Named); ok {
			req.Params = map[string]any(named)
		}
	}
	if params == nil {
		req.Params = []any{}
	}
	return req
}

type response struct {
	Version string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      *uint64         `json:"id"`
}

// Error is an error object returned by the node. Two errors are the same under errors.Is
// when their codes match.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("%d %s: %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// DecodeData unmarshals the data member into v.
func (e *Error) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return errors.New("error carries no data")
	}
	return json.Unmarshal(e.Data, v)
}

type TransportKind uint8

const (
	KindTimeout TransportKind = iota + 1
	KindConnection
	KindHTTP
)

func (k TransportKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// TransportError is a failure to get any response out of the node.
type TransportError struct {
	Kind   TransportKind
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("http status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether sending the same request again may succeed.
func (e *TransportError) Retryable() bool {
	switch e.Kind {
	case KindTimeout:
		return true
	case KindHTTP:
		return e.Status >= 500
	case KindConnection:
		return errors.Is(e.Err, syscall.ECONNRESET) || errors.Is(e.Err, syscall.ECONNREFUSED)
	}
	return false
}

func contextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return ErrCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}
	return err
}
