package cli

import (
	"fmt"
	"io"

	"github.com/ma3ke/mu/internal/errors"
	"github.com/ma3ke/mu/internal/policy"
	"github.com/ma3ke/mu/internal/probe"
	"github.com/ma3ke/mu/internal/sampler"
)

// sampleCommand probes the local machine and writes the snapshot to out.
// An absent or unreadable policy file means no filtering; a failing
// probe is fatal.
func sampleCommand(out io.Writer, policyPath string) error {
	pol := policy.Empty()
	if policyPath != "" {
		pol = policy.Load(policyPath)
	}

	snap, err := sampler.New(probe.NewSystem()).Sample(pol)
	if err != nil {
		return err
	}

	data, err := snap.Encode()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			"Snapshot doesn't serialize", "")
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
