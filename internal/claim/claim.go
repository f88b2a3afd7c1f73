// Package claim decides which one of several cooperating test processes owns
// the session and is therefore responsible for shared-service lifecycle.
package claim

import (
	"os"
	"strconv"
	"sync"

	"github.com/gofrs/flock"
)

// DefaultEnvKey is the environment variable used as the ownership marker slot.
const DefaultEnvKey = "RT_ENTRYPOINT_PID"

// Claimer reports whether the calling process owns the current session.
// The answer is computed once and is stable for the life of the process.
type Claimer interface {
	Owned() bool
}

// EnvClaimer records ownership in an inherited environment variable.
//
// The first process to observe the slot unset writes its own identity and
// becomes the owner; processes spawned afterwards inherit the slot already
// set and report non-ownership. Two processes launched concurrently before
// either writes can both claim ownership; the intended topology (a single
// entrypoint claiming before fanning out workers) avoids that interleaving.
type EnvClaimer struct {
	// Key overrides DefaultEnvKey when non-empty.
	Key string
	// Self is this process's identity. Defaults to the current pid.
	Self string

	once  sync.Once
	owned bool
}

// Owned claims the marker slot if unset and reports ownership. Repeated
// calls return the cached answer without touching the slot again.
func (c *EnvClaimer) Owned() bool {
	c.once.Do(func() {
		key := c.Key
		if key == "" {
			key = DefaultEnvKey
		}
		self := c.Self
		if self == "" {
			self = strconv.Itoa(os.Getpid())
		}
		cur := os.Getenv(key)
		if cur == "" {
			_ = os.Setenv(key, self)
			c.owned = true
			return
		}
		c.owned = cur == self
	})
	return c.owned
}

// FileClaimer records ownership with an exclusive lock file, for deployments
// where sibling processes are not guaranteed to share a parent that has
// already claimed. The lock is held until Release.
type FileClaimer struct {
	Path string

	once  sync.Once
	lock  *flock.Flock
	owned bool
}

// Owned takes the lock on the first call and reports whether it was won.
func (c *FileClaimer) Owned() bool {
	c.once.Do(func() {
		c.lock = flock.New(c.Path)
		ok, err := c.lock.TryLock()
		c.owned = err == nil && ok
	})
	return c.owned
}

// Release drops the lock if this process holds it. Safe to call on
// non-owners and before any Owned call.
func (c *FileClaimer) Release() error {
	if c.lock != nil && c.owned {
		return c.lock.Unlock()
	}
	return nil
}
