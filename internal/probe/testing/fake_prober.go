// Package testing provides test doubles for the probe package.
package testing

import (
	"errors"
	"time"

	"github.com/ma3ke/mu/internal/probe"
)

// FakeProber replays a canned reading and records the call order so tests
// can assert the warm-up contract.
type FakeProber struct {
	Reading *probe.Reading
	WarmErr error
	ReadErr error

	Warmed    bool
	ReadCount int
}

// NewFakeProber wraps a canned reading.
func NewFakeProber(reading *probe.Reading) *FakeProber {
	return &FakeProber{Reading: reading}
}

func (f *FakeProber) Warm() error {
	if f.WarmErr != nil {
		return f.WarmErr
	}
	f.Warmed = true
	return nil
}

// WarmupInterval is zero so tests don't sleep.
func (f *FakeProber) WarmupInterval() time.Duration {
	return 0
}

func (f *FakeProber) Read() (*probe.Reading, error) {
	if !f.Warmed {
		return nil, errors.New("Read called before Warm")
	}
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	f.ReadCount++
	return f.Reading, nil
}
