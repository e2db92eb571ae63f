// Package testing provides test doubles for the gather package.
package testing

import (
	"context"
	"sync"
	"time"
)

// HostResponse defines what a fake machine answers with.
type HostResponse struct {
	Output []byte
	Err    error
	// Delay is waited before answering, for deadline and concurrency tests.
	Delay time.Duration
}

// FakeExecutor implements gather.RemoteExecutor with canned per-host
// responses. Hosts without a response fail with ErrUnknownHost.
type FakeExecutor struct {
	Responses map[string]HostResponse

	mu    sync.Mutex
	calls []string
}

// ErrUnknownHost is returned for hosts without a canned response.
var ErrUnknownHost = unknownHostError{}

type unknownHostError struct{}

func (unknownHostError) Error() string { return "no such host" }

// NewFakeExecutor creates an empty fake executor.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{Responses: make(map[string]HostResponse)}
}

// Respond registers the answer for a host.
func (f *FakeExecutor) Respond(host string, resp HostResponse) {
	f.Responses[host] = resp
}

// Sample answers with the canned response for the host, honoring Delay
// and ctx expiry.
func (f *FakeExecutor) Sample(ctx context.Context, hostname string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, hostname)
	f.mu.Unlock()

	resp, ok := f.Responses[hostname]
	if !ok {
		return nil, ErrUnknownHost
	}
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return resp.Output, resp.Err
}

// Calls returns the hosts sampled so far, in call order.
func (f *FakeExecutor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
