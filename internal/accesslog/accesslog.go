// Package accesslog appends a best-effort audit line whenever a viewer
// starts up. Logging failures are tolerated silently; viewers only
// surface whether the line made it.
package accesslog

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// DefaultLogPath is where access lines go unless MU_LOG_PATH overrides it.
const DefaultLogPath = "/martini/sshuser/mu/usage.log"

// EnvLogPath is the environment variable overriding the log path.
const EnvLogPath = "MU_LOG_PATH"

// Identity describes who is running a viewer and where. Fields degrade
// to "?" when they can't be determined; identity lookup never fails.
type Identity struct {
	User      string
	Hostname  string
	OS        string
	OSVersion string
}

// CurrentIdentity collects the local user, hostname, and platform.
func CurrentIdentity() Identity {
	id := Identity{User: "?", Hostname: "?", OS: "?", OSVersion: "?"}

	if u, err := user.Current(); err == nil && u.Username != "" {
		id.User = u.Username
	} else if name := os.Getenv("USER"); name != "" {
		id.User = name
	}
	if hostname, err := os.Hostname(); err == nil {
		id.Hostname = hostname
	}
	if info, err := host.Info(); err == nil {
		if info.Platform != "" {
			id.OS = info.Platform
		}
		if info.PlatformVersion != "" {
			id.OSVersion = info.PlatformVersion
		}
	}
	return id
}

// Path returns the access log path, honoring the environment override.
func Path() string {
	if path := os.Getenv(EnvLogPath); path != "" {
		return path
	}
	return DefaultLogPath
}

// Append writes one audit line for the identity. The log file must
// already exist; a missing or unwritable file is an error for the caller
// to shrug at.
func Append(id Identity) error {
	return appendTo(Path(), id, time.Now())
}

func appendTo(path string, id Identity, now time.Time) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s\tfrom %s@%s\t(%s %s)\n",
		now.Format(time.RFC3339), id.User, id.Hostname, id.OS, id.OSVersion)
	return err
}

// Log records the current identity and reports whether it worked.
func Log() (Identity, bool) {
	id := CurrentIdentity()
	return id, Append(id) == nil
}
