// Package telemetry holds the process-wide inferred service identity that
// downstream reporters read. Test launchers (IDE integrations in particular)
// can make the inferred name point at themselves; the session coordinator
// overwrites the guess when the original command line is known.
package telemetry

import (
	"sync"

	"github.com/google/uuid"
)

var (
	mu          sync.RWMutex
	serviceName string
	runID       = uuid.NewString()
)

// RunID identifies this process's session run.
func RunID() string { return runID }

// ServiceName returns the current inferred service name, or "" when no
// inference has been made.
func ServiceName() string {
	mu.RLock()
	defer mu.RUnlock()
	return serviceName
}

// SetServiceName overwrites the inferred service name. Empty values are
// ignored so a failed inference cannot clobber a good one.
func SetServiceName(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	serviceName = name
	mu.Unlock()
}
