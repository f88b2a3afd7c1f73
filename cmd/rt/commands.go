package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/florentinl/rt"
	"github.com/florentinl/rt/internal/normalize"
)

// GlobalFlags holds persistent flags shared by all commands.
type GlobalFlags struct {
	ConfigPath string
	Services   string
	Root       string
	Settle     time.Duration
}

// exitError carries the wrapped command's exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func buildRoot() *cobra.Command {
	flags := &GlobalFlags{}
	root := &cobra.Command{
		Use:           "rt",
		Short:         "Coordinate shared backing services for a test session",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "path to rt.toml (default: environment only)")
	pf.StringVar(&flags.Services, "services", "", "comma-separated service set (overrides RT_SERVICES)")
	pf.StringVar(&flags.Root, "root", "", "service manager working directory (overrides RT_PROJECT_ROOT)")
	pf.DurationVar(&flags.Settle, "settle", 0, "post-start settle interval (overrides RT_SETTLE)")

	root.AddCommand(
		newRunCommand(flags),
		newUpCommand(flags),
		newDownCommand(flags),
		newNormalizeCommand(),
	)
	return root
}

func newRunCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command with the session's services up around it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrapped(flags, args)
		},
	}
}

func newUpCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Claim the session and bring its services up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(flags)
			if err != nil {
				return err
			}
			sess.Start()
			return nil
		},
	}
}

func newDownCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Bring the session's services down (owner only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(flags)
			if err != nil {
				return err
			}
			sess.Finish(0)
			return nil
		},
	}
}

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Strip the toolchain version suffix from identifiers on stdin",
		Long: "Reads lines from stdin and removes the trailing " + rt.VersionSuffix() +
			" suffix from each, writing the result to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return normalizeStream(cmd.InOrStdin(), cmd.OutOrStdout(), rt.VersionSuffix())
		},
	}
}

// runWrapped starts the session around argv. A session that fails to
// initialize disables coordination but still runs the command; the wrapped
// command's exit code is always propagated.
func runWrapped(flags *GlobalFlags, argv []string) error {
	sess, err := openSession(flags)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "rt: coordination disabled:", err)
		sess = nil
	}
	return runWrappedWith(sess, argv)
}

func runWrappedWith(sess *rt.Session, argv []string) error {
	if sess != nil {
		sess.Start()
	}

	// Children inherit the marker slot already set, so they report
	// non-ownership and leave the services alone.
	// #nosec G204 -- running the user's own command is the point
	child := exec.Command(argv[0], argv[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Env = os.Environ()
	runErr := child.Run()

	if sess != nil {
		sess.Finish(exitCode(runErr))
	}

	if runErr != nil {
		var ee *exec.ExitError
		if errors.As(runErr, &ee) {
			return &exitError{code: ee.ExitCode(), err: runErr}
		}
		return runErr
	}
	return nil
}

func openSession(flags *GlobalFlags) (*rt.Session, error) {
	cfg, err := rt.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if flags.Services != "" {
		cfg.Services = rt.SplitServices(flags.Services)
	}
	if flags.Root != "" {
		cfg.ProjectRoot = flags.Root
	}
	if flags.Settle > 0 {
		cfg.Settle = flags.Settle
	}
	return rt.NewSession(cfg)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}

func normalizeStream(r io.Reader, w io.Writer, suffix string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if _, err := fmt.Fprintln(w, normalize.Strip(sc.Text(), suffix)); err != nil {
			return err
		}
	}
	return sc.Err()
}
