// Package buildinfo carries the calculator's release stamp. The release build sets the
// variables with -ldflags "-X sparkcalc/internal/buildinfo.Version=...".
package buildinfo

import "strings"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func set(s, unset string) bool { return s != "" && s != unset }

// Short names the build in the window title and the boot log line: the release version,
// else the commit, else "dev".
func Short() string {
	switch {
	case set(Version, "dev"):
		return Version
	case set(Commit, "unknown"):
		return Commit
	}
	return "dev"
}

// String is the -version output: "sparkcalc <version> (<commit>, <date>)", omitting
// fields that were not stamped.
func String() string {
	var extra []string
	if set(Commit, "unknown") && Commit != Short() {
		extra = append(extra, Commit)
	}
	if set(Date, "unknown") {
		extra = append(extra, Date)
	}
	s := "sparkcalc " + Short()
	if len(extra) > 0 {
		s += " (" + strings.Join(extra, ", ") + ")"
	}
	return s
}
