// Package policy holds the sampler's filtering and renaming rules.
//
// A policy file is line oriented with three keywords:
//
//	ignore-user: sshuser
//	ignore-proc: kworker
//	rename-proc: python3.11 -> python
//
// "#" starts a comment and blank lines are skipped. The policy is loaded
// once at sampler start and read-only afterwards.
package policy

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ma3ke/mu/internal/errors"
)

// Policy decides which process observations are kept and how their names
// are canonicalized.
type Policy struct {
	ignoredUsers     map[string]struct{}
	ignoredProcesses map[string]struct{}
	rename           map[string]string
}

// Empty returns a policy that ignores nothing and renames nothing.
func Empty() *Policy {
	return &Policy{
		ignoredUsers:     map[string]struct{}{},
		ignoredProcesses: map[string]struct{}{},
		rename:           map[string]string{},
	}
}

// IsIgnoredUser reports whether processes owned by user are dropped.
func (p *Policy) IsIgnoredUser(user string) bool {
	_, ok := p.ignoredUsers[user]
	return ok
}

// IsIgnoredProcess reports whether processes with this (original) name are
// dropped.
func (p *Policy) IsIgnoredProcess(name string) bool {
	_, ok := p.ignoredProcesses[name]
	return ok
}

// CanonicalName returns the canonical name for a process, or the name
// unchanged when no rename rule matches. Renaming applies after the
// ignore checks, which match on the original name.
func (p *Policy) CanonicalName(name string) string {
	if renamed, ok := p.rename[name]; ok {
		return renamed
	}
	return name
}

// Load reads a policy file. A missing or unreadable file yields the empty
// policy: the sampler should keep working on machines that never got a
// policy installed.
func Load(path string) *Policy {
	data, err := os.ReadFile(path)
	if err != nil {
		return Empty()
	}
	p, err := Parse(string(data))
	if err != nil {
		return Empty()
	}
	return p
}

// Parse parses policy file content. Unlike Load it reports malformed
// lines, for callers that want to validate a policy file explicitly.
func Parse(content string) (*Policy, error) {
	p := Empty()

	scanner := bufio.NewScanner(strings.NewReader(content))
	ln := 0
	for scanner.Scan() {
		ln++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keyword, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, parseError(ln, "expected a colon after the keyword", line)
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return nil, parseError(ln, "expected a value after the keyword", line)
		}

		switch strings.TrimSpace(keyword) {
		case "ignore-user":
			p.ignoredUsers[rest] = struct{}{}
		case "ignore-proc":
			p.ignoredProcesses[rest] = struct{}{}
		case "rename-proc":
			from, to, ok := strings.Cut(rest, "->")
			if !ok {
				return nil, parseError(ln, "expected a rename arrow (->)", line)
			}
			from = strings.TrimSpace(from)
			to = strings.TrimSpace(to)
			if from == "" || to == "" {
				return nil, parseError(ln, "rename needs a name on both sides of ->", line)
			}
			p.rename[from] = to
		default:
			return nil, parseError(ln, fmt.Sprintf("unknown keyword %q", strings.TrimSpace(keyword)), line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

func parseError(ln int, msg, line string) error {
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Policy line %d: %s", ln, msg),
		fmt.Sprintf("Offending line: %q", line))
}
