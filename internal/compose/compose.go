// Package compose drives the external service manager (docker compose) that
// brings a session's backing services up and down.
package compose

import (
	"os"
	"os/exec"
	"time"
)

// DefaultSettle is how long to wait after bringing services up before
// assuming they are usable. Slow starters (postgres in particular) need the
// head start. This is a fixed heuristic, not a readiness check.
const DefaultSettle = 5 * time.Second

// Runner executes one external service-manager invocation in a working
// directory. The command's output and exit status belong to the command
// itself; callers do not parse either.
type Runner interface {
	Run(dir string, args ...string) error
}

// ExecRunner invokes docker with the given arguments, passing the command's
// output through to the current process.
type ExecRunner struct{}

func (ExecRunner) Run(dir string, args ...string) error {
	// ok: intentional execution of the configured service manager
	// #nosec G204
	cmd := exec.Command("docker", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Manager issues up/down commands for a session's service set.
type Manager struct {
	Runner Runner        // defaults to ExecRunner
	Settle time.Duration // defaults to DefaultSettle

	sleep func(time.Duration) // test seam
}

// Up brings services up detached in root and then waits the settle interval.
// Empty service sets are a no-op. The wait happens whether or not the
// invocation succeeded; the invocation error is returned for the caller to
// report.
func (m *Manager) Up(root string, services []string) error {
	if len(services) == 0 {
		return nil
	}
	args := append([]string{"compose", "up", "-d"}, services...)
	err := m.runner().Run(root, args...)
	m.wait(m.settle())
	return err
}

// Down brings services down. Empty service sets are a no-op.
func (m *Manager) Down(root string, services []string) error {
	if len(services) == 0 {
		return nil
	}
	args := append([]string{"compose", "down"}, services...)
	return m.runner().Run(root, args...)
}

func (m *Manager) runner() Runner {
	if m.Runner != nil {
		return m.Runner
	}
	return ExecRunner{}
}

func (m *Manager) settle() time.Duration {
	if m.Settle > 0 {
		return m.Settle
	}
	return DefaultSettle
}

func (m *Manager) wait(d time.Duration) {
	if m.sleep != nil {
		m.sleep(d)
		return
	}
	time.Sleep(d)
}
