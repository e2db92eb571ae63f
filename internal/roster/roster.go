// Package roster loads the static list of machines the orchestrator
// gathers from. The roster file is line oriented: "[room]" headers open a
// room, and each "hostname: note" line below a header registers one
// machine in that room. "#" starts a comment (inline comments included)
// and blank lines are skipped. Machines listed before any header land in
// the implicit "orphan" room.
package roster

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ma3ke/mu/internal/errors"
)

// OrphanRoom is the room assigned to machines listed before any header.
const OrphanRoom = "orphan"

// Machine is the identity of a single machine: where it lives and who it
// belongs to. Immutable once parsed.
type Machine struct {
	Hostname string `json:"hostname"`
	Room     string `json:"room"`
	Owner    Owner  `json:"owner"`
}

// Load reads and parses the roster file at path.
func Load(path string) ([]Machine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't open roster file %s", path),
			"Check the path passed via --roster")
	}
	defer f.Close()

	machines, err := parse(f)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Malformed roster file %s", path),
			"Each line is either a [room] header or 'hostname: owner note'")
	}
	return machines, nil
}

// Parse parses roster content from a string. Exposed for callers that
// already hold the file contents (and for tests).
func Parse(content string) ([]Machine, error) {
	return parse(strings.NewReader(content))
}

func parse(r interface{ Read([]byte) (int, error) }) ([]Machine, error) {
	var machines []Machine
	room := ""

	scanner := bufio.NewScanner(r)
	ln := 0
	for scanner.Scan() {
		ln++
		line := scanner.Text()

		// Strip inline comments before anything else.
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			header, ok := strings.CutSuffix(strings.TrimPrefix(line, "["), "]")
			if !ok {
				return nil, fmt.Errorf("line %d: unterminated room header %q", ln, line)
			}
			room = strings.TrimSpace(header)
			continue
		}

		hostname, note, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected 'hostname: note', got %q", ln, line)
		}
		hostname = strings.TrimSpace(hostname)
		if hostname == "" {
			return nil, fmt.Errorf("line %d: empty hostname in %q", ln, line)
		}

		machineRoom := room
		if machineRoom == "" {
			machineRoom = OrphanRoom
		}
		machines = append(machines, Machine{
			Hostname: hostname,
			Room:     machineRoom,
			Owner:    ParseOwner(note),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return machines, nil
}
