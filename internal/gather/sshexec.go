package gather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ma3ke/mu/internal/errors"
	"github.com/ma3ke/mu/pkg/sshutil"
)

// DefaultSamplerCmd is where the sampler binary is expected on the
// machines, unless overridden with --sampler.
const DefaultSamplerCmd = "mu sample"

// SSHExecutor runs the sampler over SSH. Connection settings come from
// ~/.ssh/config the same way plain ssh would resolve them.
type SSHExecutor struct {
	// SamplerCmd is the remote command that prints a snapshot on stdout.
	SamplerCmd string
	// DialTimeout bounds the TCP dial. The overall per-machine deadline
	// is enforced by the caller's context.
	DialTimeout time.Duration

	// dial is swapped out in tests.
	dial func(host string, timeout time.Duration) (sshutil.SSHClient, error)
}

// NewSSHExecutor creates an executor running samplerCmd on each machine.
// An empty samplerCmd means DefaultSamplerCmd.
func NewSSHExecutor(samplerCmd string) *SSHExecutor {
	if samplerCmd == "" {
		samplerCmd = DefaultSamplerCmd
	}
	return &SSHExecutor{
		SamplerCmd:  samplerCmd,
		DialTimeout: 10 * time.Second,
		dial: func(host string, timeout time.Duration) (sshutil.SSHClient, error) {
			return sshutil.Dial(host, timeout)
		},
	}
}

type execResult struct {
	stdout []byte
	err    error
}

// Sample dials the machine, runs the sampler, and returns its stdout.
// The dial and run happen in a goroutine so an unresponsive machine can't
// hold up the gather past ctx's deadline; on expiry the goroutine is
// abandoned and its connection closed when it eventually returns.
func (e *SSHExecutor) Sample(ctx context.Context, hostname string) ([]byte, error) {
	done := make(chan execResult, 1)
	go func() {
		done <- e.run(hostname)
	}()

	select {
	case res := <-done:
		return res.stdout, res.err
	case <-ctx.Done():
		return nil, errors.WrapWithCode(ctx.Err(), errors.ErrSSH,
			fmt.Sprintf("'%s' didn't answer in time", hostname),
			"The machine may be overloaded or unreachable. Try: ssh "+hostname)
	}
}

func (e *SSHExecutor) run(hostname string) execResult {
	client, err := e.dial(hostname, e.DialTimeout)
	if err != nil {
		return execResult{err: err}
	}
	defer client.Close()

	stdout, stderr, exitCode, err := client.Exec(e.SamplerCmd)
	if err != nil {
		return execResult{err: err}
	}
	if exitCode != 0 {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = fmt.Sprintf("exit code %d", exitCode)
		}
		return execResult{err: errors.New(errors.ErrExec,
			fmt.Sprintf("Sampler failed on '%s': %s", hostname, detail),
			fmt.Sprintf("Run it there by hand to see what's wrong: ssh %s %s", hostname, e.SamplerCmd))}
	}
	return execResult{stdout: stdout}
}
