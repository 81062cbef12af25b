package jsonrpc_test

import (
	"sync"
	"time"

	"github.com/NethermindEth/starkclient/jsonrpc"
)

type CountingEventListener struct {
	mu            sync.Mutex
	Requests      []string
	Done          []string
	Failures      []error
	RetryAttempts []int
}

var _ jsonrpc.EventListener = (*CountingEventListener)(nil)

func (l *CountingEventListener) OnRequest(method string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Requests = append(l.Requests, method)
}

func (l *CountingEventListener) OnRequestDone(method string, _ time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Done = append(l.Done, method)
}

func (l *CountingEventListener) OnRequestFailed(_ string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Failures = append(l.Failures, err)
}

func (l *CountingEventListener) OnRetry(_ string, attempt int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.RetryAttempts = append(l.RetryAttempts, attempt)
}
