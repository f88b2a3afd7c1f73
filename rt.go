// Package rt attaches to a test session's lifecycle to normalize
// version-tagged test identifiers and to start and stop the session's shared
// backing services exactly once across concurrent sibling processes.
package rt

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/florentinl/rt/internal/compose"
	"github.com/florentinl/rt/internal/config"
	"github.com/florentinl/rt/internal/journal"
	"github.com/florentinl/rt/internal/metrics"
	"github.com/florentinl/rt/internal/normalize"
	"github.com/florentinl/rt/internal/session"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = config.Config

type Session = session.Session

type Option = session.Option

type Item = normalize.Item

type ItemHook = session.ItemHook

type Runner = compose.Runner

type Sink = journal.Sink

type Event = journal.Event

// Session options re-exported for embedders.

func WithRunner(r Runner) Option { return session.WithRunner(r) }

func WithSink(j Sink) Option { return session.WithSink(j) }

func WithLogger(l *slog.Logger) Option { return session.WithLogger(l) }

// NewSession builds a session coordinator from cfg. Callers that want the
// degrade-to-noop behavior check the error and skip the hooks.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	return session.New(cfg, opts...)
}

// LoadConfig resolves configuration from an optional TOML file plus RT_*
// environment variables.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// SplitServices parses a comma-separated service list, preserving order.
func SplitServices(s string) []string { return config.SplitServices(s) }

// VersionSuffix returns the identifier suffix for the running toolchain,
// e.g. "[go1.24]".
func VersionSuffix() string { return normalize.Suffix() }

// StripSuffix removes the running toolchain's version suffix from s.
func StripSuffix(s string) string { return normalize.Strip(s, normalize.Suffix()) }

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the
// default registry. It returns any immediate listen error; otherwise it runs
// the server in the caller goroutine.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
