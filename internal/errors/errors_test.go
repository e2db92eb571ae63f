package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSSH,
		ErrExec,
		ErrDecode,
		ErrPersist,
		ErrView,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Bad roster line", "Check the roster file syntax")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Contains(t, err.Error(), "Bad roster line")
	assert.Contains(t, err.Error(), "Check the roster file syntax")
	assert.True(t, strings.HasPrefix(err.Error(), "✗"))
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapWithCode(cause, ErrSSH, "Can't reach 'm1'", "Is sshd running?")

	assert.Equal(t, ErrSSH, err.Code)
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestWrapDefaultsToSSH(t *testing.T) {
	err := Wrap(errors.New("boom"), "something broke")
	assert.Equal(t, ErrSSH, err.Code)
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"nil error", nil, ErrConfig, false},
		{"matching code", New(ErrPersist, "write failed", ""), ErrPersist, true},
		{"different code", New(ErrPersist, "write failed", ""), ErrConfig, false},
		{"plain error", errors.New("plain"), ErrConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	inner := New(ErrDecode, "bad snapshot", "")
	outer := WrapWithCode(inner, ErrExec, "sampler failed on m1", "")

	// errors.As finds the outermost structured error first.
	require.True(t, IsCode(outer, ErrExec))
	assert.ErrorIs(t, outer, inner)
}
