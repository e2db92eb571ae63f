// Package sshutil provides the SSH plumbing the orchestrator uses to run
// the sampler on remote machines: connection setup resolved from
// ~/.ssh/config, agent and key-file authentication, known_hosts
// verification, and captured command execution.
package sshutil

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/ma3ke/mu/internal/errors"
)

// Client wraps an SSH connection with additional metadata.
type Client struct {
	*ssh.Client
	Host    string // The original host/alias used to connect
	Address string // The resolved address (host:port)
}

// StrictHostKeyChecking controls host key verification behavior.
// When true (default), host keys are verified against ~/.ssh/known_hosts.
// When false, host key verification is skipped (insecure, for CI/automation).
var StrictHostKeyChecking = true

// Dial establishes an SSH connection to the specified host.
// The host can be an SSH config alias, a hostname, a user@hostname, or a
// hostname:port. Connection settings are resolved from ~/.ssh/config when
// available.
func Dial(host string, timeout time.Duration) (*Client, error) {
	settings := resolveSettings(host)

	config, err := buildClientConfig(settings)
	if err != nil {
		return nil, err
	}

	address := settings.address()
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			"Make sure the host is up and reachable: ping "+settings.hostname)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			"Check your keys are loaded (ssh-add -l) and try: ssh "+host)
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// GetHost returns the original host/alias used to connect.
func (c *Client) GetHost() string {
	return c.Host
}

// settings holds resolved SSH connection parameters.
type settings struct {
	hostname     string
	port         string
	user         string
	identityFile string
}

func (s *settings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// resolveSettings parses the host string and resolves the remainder from
// ~/.ssh/config.
func resolveSettings(host string) *settings {
	s := &settings{
		port: "22",
		user: currentUser(),
	}

	// Explicit user@host takes precedence over everything.
	if at := strings.Index(host, "@"); at != -1 {
		s.user = host[:at]
		host = host[at+1:]
	}

	// Explicit host:port, if the part after the colon is all digits.
	if colon := strings.LastIndex(host, ":"); colon != -1 {
		port := host[colon+1:]
		if port != "" && strings.Trim(port, "0123456789") == "" {
			s.port = port
			host = host[:colon]
		}
	}
	s.hostname = host

	if hostname := ssh_config.Get(host, "HostName"); hostname != "" {
		s.hostname = hostname
	}
	if port := ssh_config.Get(host, "Port"); port != "" {
		s.port = port
	}
	if user := ssh_config.Get(host, "User"); user != "" {
		s.user = user
	}
	if identity := ssh_config.Get(host, "IdentityFile"); identity != "" {
		s.identityFile = expandPath(identity)
	}

	return s
}

// buildClientConfig assembles auth methods and host key checking.
func buildClientConfig(s *settings) (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	// Agent first: most common and it handles encrypted keys.
	if agentAuth := sshAgentAuth(); agentAuth != nil {
		authMethods = append(authMethods, agentAuth)
	}

	tryKeyFile := func(keyPath string) {
		if auth, err := keyFileAuth(keyPath); err == nil {
			authMethods = append(authMethods, auth)
		}
	}
	if s.identityFile != "" {
		tryKeyFile(s.identityFile)
	}
	for _, keyPath := range []string{
		filepath.Join(homeDir(), ".ssh", "id_ed25519"),
		filepath.Join(homeDir(), ".ssh", "id_rsa"),
		filepath.Join(homeDir(), ".ssh", "id_ecdsa"),
	} {
		if keyPath != s.identityFile {
			tryKeyFile(keyPath)
		}
	}

	if len(authMethods) == 0 {
		return nil, errors.New(errors.ErrSSH,
			"No SSH auth methods available",
			"Check your keys are loaded: ssh-add -l")
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // Explicitly disabled by the caller.
	if StrictHostKeyChecking {
		knownHostsPath := filepath.Join(homeDir(), ".ssh", "known_hosts")
		callback, err := knownhosts.New(knownHostsPath)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSSH,
				"Can't load known_hosts",
				"Connect once manually so the host key gets recorded: ssh <host>")
		}
		hostKeyCallback = callback
	}

	return &ssh.ClientConfig{
		User:            s.user,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}, nil
}

// agentConn holds the reusable SSH agent connection.
var (
	agentConn     net.Conn
	agentClient   agent.ExtendedAgent
	agentConnOnce sync.Once
)

// sshAgentAuth returns an auth method using the SSH agent if available.
// The agent connection is reused across connections. Returns nil when the
// agent is absent or has no keys loaded.
func sshAgentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}

	agentConnOnce.Do(func() {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return
		}
		agentConn = conn
		agentClient = agent.NewClient(conn)
	})

	if agentClient == nil {
		return nil
	}
	signers, err := agentClient.Signers()
	if err != nil || len(signers) == 0 {
		return nil
	}
	return ssh.PublicKeysCallback(agentClient.Signers)
}

// CloseAgent closes the SSH agent connection if one is open.
func CloseAgent() {
	if agentConn != nil {
		agentConn.Close()
	}
}

func keyFileAuth(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
