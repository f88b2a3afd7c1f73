// Package normalize strips the toolchain-version suffix that environment
// decoration adds to collected test identifiers, so downstream consumers
// (IDE integrations in particular) see stable, environment-independent names.
package normalize

import (
	"runtime"
	"strings"
)

// Item is one collected test identifier: the human-readable display name and
// the unique node id the runner reports for the test.
type Item struct {
	Name string
	ID   string
}

// Tag returns the running toolchain's major.minor version tag, e.g. "go1.24".
// Development toolchains without a release version are returned verbatim.
func Tag() string {
	return tagOf(runtime.Version())
}

// Suffix returns the decoration suffix for the running toolchain, e.g. "[go1.24]".
func Suffix() string { return "[" + Tag() + "]" }

// Strip removes suffix from the end of s. Non-matching input is returned
// unchanged; occurrences of suffix anywhere but the very end are preserved.
func Strip(s, suffix string) string {
	if suffix != "" && strings.HasSuffix(s, suffix) {
		return s[:len(s)-len(suffix)]
	}
	return s
}

// Items rewrites a collected batch in place, stripping suffix from both the
// display name and the node id of every item.
func Items(items []Item, suffix string) {
	for i := range items {
		items[i].Name = Strip(items[i].Name, suffix)
		items[i].ID = Strip(items[i].ID, suffix)
	}
}

func tagOf(version string) string {
	rest, ok := strings.CutPrefix(version, "go")
	if !ok {
		return version
	}
	parts := strings.SplitN(rest, ".", 3)
	if len(parts) < 2 {
		return version
	}
	for _, p := range parts[:2] {
		if p == "" {
			return version
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return version
			}
		}
	}
	return "go" + parts[0] + "." + parts[1]
}
