package jsonrpc

import "time"

// EventListener observes the requests of a Client. Implementations must be safe for
// concurrent use.
type EventListener interface {
	OnRequest(method string)
	OnRequestDone(method string, took time.Duration)
	OnRequestFailed(method string, err error)
	OnRetry(method string, attempt int)
}

type SelectiveListener struct {
	OnRequestCb       func(method string)
	OnRequestDoneCb   func(method string, took time.Duration)
	OnRequestFailedCb func(method string, err error)
	OnRetryCb         func(method string, attempt int)
}

func (l *SelectiveListener) OnRequest(method string) {
	if l.OnRequestCb != nil {
		l.OnRequestCb(method)
	}
}

func (l *SelectiveListener) OnRequestDone(method string, took time.Duration) {
	if l.OnRequestDoneCb != nil {
		l.OnRequestDoneCb(method, took)
	}
}

func (l *SelectiveListener) OnRequestFailed(method string, err error) {
	if l.OnRequestFailedCb != nil {
		l.OnRequestFailedCb(method, err)
	}
}

func (l *SelectiveListener) OnRetry(method string, attempt int) {
	if l.OnRetryCb != nil {
		l.OnRetryCb(method, attempt)
	}
}
