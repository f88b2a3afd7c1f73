// Package service infers a best-guess service name from a command line, the
// way telemetry agents name a test run after the program that launched it.
package service

import (
	"path/filepath"
	"strings"
)

// interpreters whose first positional argument, not the binary itself, names
// the program being run. Keys are unversioned ("python3.11" matches "python").
var interpreters = map[string]bool{
	"python": true,
	"node":   true,
	"nodejs": true,
	"ruby":   true,
	"sh":     true,
	"bash":   true,
	"zsh":    true,
}

// Detect returns the inferred service name for argv, or "" when argv carries
// nothing usable. It is total: unknown shapes yield "", never an error.
func Detect(argv []string) string {
	args := argv
	// leading K=V assignments belong to the environment, not the command
	for len(args) > 0 && isAssignment(args[0]) {
		args = args[1:]
	}
	if len(args) == 0 {
		return ""
	}

	prog := base(args[0])
	if !interpreters[unversioned(prog)] {
		return prog
	}

	// Interpreter: the service is the module or script it runs.
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		switch {
		case a == "-m" || a == "--module":
			if i+1 < len(rest) {
				return rest[i+1]
			}
			return prog
		case a == "-c" || a == "-e":
			// inline script, nothing better to name it after
			return prog
		case strings.HasPrefix(a, "-"):
			continue
		default:
			return base(a)
		}
	}
	return prog
}

func isAssignment(s string) bool {
	i := strings.IndexByte(s, '=')
	return i > 0 && !strings.ContainsAny(s[:i], "/\\ ")
}

func base(s string) string {
	if s == "" {
		return ""
	}
	b := filepath.Base(s)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

func unversioned(name string) string {
	return strings.TrimRight(name, "0123456789.")
}
