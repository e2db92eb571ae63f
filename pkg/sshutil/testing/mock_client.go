// Package testing provides test doubles for the sshutil package.
package testing

import (
	"fmt"
	"strings"
	"sync"
)

// CommandResponse defines a canned response for a specific command prefix.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Err      error
}

// MockClient implements sshutil.SSHClient with canned responses.
type MockClient struct {
	Host      string
	Responses map[string]CommandResponse // keyed by command prefix

	mu       sync.Mutex
	Commands []string // commands seen, in order
	Closed   bool
}

// NewMockClient creates a mock client for the given host.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		Host:      host,
		Responses: make(map[string]CommandResponse),
	}
}

// Respond registers a canned response for commands starting with prefix.
func (m *MockClient) Respond(prefix string, resp CommandResponse) {
	m.Responses[prefix] = resp
}

// Exec returns the canned response whose prefix matches the command.
// Unknown commands fail with exit code 127, like a missing binary would.
func (m *MockClient) Exec(cmd string) ([]byte, []byte, int, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	m.mu.Unlock()

	for prefix, resp := range m.Responses {
		if strings.HasPrefix(cmd, prefix) {
			return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Err
		}
	}
	return nil, []byte(fmt.Sprintf("%s: command not found\n", cmd)), 127, nil
}

func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockClient) GetHost() string {
	return m.Host
}
