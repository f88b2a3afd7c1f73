// Package session wires the ownership claim, the service manager, the
// journal and the telemetry restore into the two lifecycle hooks a test
// session has: start and finish. Exactly one process in a cooperating tree
// performs the service work; everyone else no-ops.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/shlex"

	"github.com/florentinl/rt/internal/claim"
	"github.com/florentinl/rt/internal/compose"
	"github.com/florentinl/rt/internal/config"
	"github.com/florentinl/rt/internal/journal"
	sqlitejournal "github.com/florentinl/rt/internal/journal/sqlite"
	"github.com/florentinl/rt/internal/logger"
	"github.com/florentinl/rt/internal/metrics"
	"github.com/florentinl/rt/internal/normalize"
	"github.com/florentinl/rt/internal/service"
	"github.com/florentinl/rt/internal/telemetry"
)

// ItemHook mutates a collected batch before normalization runs.
type ItemHook func([]normalize.Item)

// Session coordinates shared-service lifecycle for one test session.
type Session struct {
	cfg     config.Config
	claimer claim.Claimer
	svc     *compose.Manager
	sink    journal.Sink
	log     *slog.Logger
	suffix  string
	hooks   []ItemHook
}

// Option adjusts a Session at construction time.
type Option func(*Session)

// WithClaimer overrides the ownership claimer.
func WithClaimer(c claim.Claimer) Option { return func(s *Session) { s.claimer = c } }

// WithRunner overrides the external service-manager runner.
func WithRunner(r compose.Runner) Option { return func(s *Session) { s.svc.Runner = r } }

// WithSink overrides the journal sink.
func WithSink(j journal.Sink) Option { return func(s *Session) { s.sink = j } }

// WithLogger overrides the session logger.
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

// WithSuffix overrides the identifier suffix to strip.
func WithSuffix(suffix string) Option { return func(s *Session) { s.suffix = suffix } }

// New builds a session from cfg. Initialization failures are returned, not
// swallowed: a caller that wants degrade-to-noop behavior checks the error
// and skips the hooks.
func New(cfg config.Config, opts ...Option) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		svc:    &compose.Manager{Settle: cfg.Settle},
		sink:   journal.Nop{},
		log:    logger.New(cfg.Log),
		suffix: normalize.Suffix(),
	}
	if cfg.LockFile != "" {
		s.claimer = &claim.FileClaimer{Path: cfg.LockFile}
	} else {
		s.claimer = &claim.EnvClaimer{Key: cfg.MarkerKey}
	}
	for _, o := range opts {
		o(s)
	}
	// open the configured journal only when no sink was injected
	if _, nop := s.sink.(journal.Nop); nop && cfg.JournalDSN != "" {
		sink, err := sqlitejournal.New(cfg.JournalDSN)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		s.sink = sink
	}
	return s, nil
}

// Owner reports whether this process owns the session, claiming on first use.
func (s *Session) Owner() bool { return s.claimer.Owned() }

// Start claims ownership and, if owning, brings the configured services up
// and restores the inferred service identity. External failures are logged
// and absorbed; nothing escapes the hook.
func (s *Session) Start() {
	owned := s.claimer.Owned()
	metrics.SetOwner(owned)
	if !owned {
		return
	}
	if len(s.cfg.Services) > 0 {
		s.log.Info("starting services", "services", s.cfg.Services, "root", s.root())
		err := s.svc.Up(s.root(), s.cfg.Services)
		if err != nil {
			metrics.IncFailure("up")
			s.log.Warn("service bring-up failed", "error", err)
		}
		for _, name := range s.cfg.Services {
			metrics.IncUp(name)
		}
		s.record(journal.EventUp, err)
	}
	s.restoreServiceIdentity()
}

// Finish tears services down if this process owns the session, then releases
// any held claim. The exit status is accepted for hook parity and ignored.
func (s *Session) Finish(exitStatus int) {
	_ = exitStatus
	owned := s.claimer.Owned()
	defer s.release()
	if !owned {
		return
	}
	if len(s.cfg.Services) > 0 {
		s.log.Info("stopping services", "services", s.cfg.Services, "root", s.root())
		err := s.svc.Down(s.root(), s.cfg.Services)
		if err != nil {
			metrics.IncFailure("down")
			s.log.Warn("service teardown failed", "error", err)
		}
		for _, name := range s.cfg.Services {
			metrics.IncDown(name)
		}
		s.record(journal.EventDown, err)
	}
}

// OnItems registers a hook to run over collected items before normalization.
func (s *Session) OnItems(h ItemHook) { s.hooks = append(s.hooks, h) }

// NormalizeItems runs registered item hooks and then strips the version
// suffix from every display name and node id. Normalization runs last so it
// sees whatever decoration the other hooks added.
func (s *Session) NormalizeItems(items []normalize.Item) {
	for _, h := range s.hooks {
		h(items)
	}
	normalize.Items(items, s.suffix)
}

// restoreServiceIdentity recomputes the inferred service name from the
// original command line, undoing wrappers that would otherwise name the
// session after themselves. Best effort only: every failure, panics
// included, is swallowed.
func (s *Session) restoreServiceIdentity() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Debug("service identity restore panicked", "cause", r)
		}
	}()
	line := s.cfg.OriginalCommand
	if line == "" {
		return
	}
	argv, err := shlex.Split(line)
	if err != nil || len(argv) == 0 {
		return
	}
	telemetry.SetServiceName(service.Detect(argv))
}

func (s *Session) record(t journal.EventType, cmdErr error) {
	e := journal.Event{
		Type:       t,
		OccurredAt: time.Now(),
		Session:    telemetry.RunID(),
		PID:        os.Getpid(),
		Root:       s.root(),
		Services:   s.cfg.Services,
	}
	if cmdErr != nil {
		e.Detail = cmdErr.Error()
	}
	if err := s.sink.Send(context.Background(), e); err != nil {
		s.log.Debug("journal write failed", "error", err)
	}
}

func (s *Session) release() {
	if fc, ok := s.claimer.(*claim.FileClaimer); ok {
		if err := fc.Release(); err != nil {
			s.log.Warn("releasing session lock failed", "error", err)
		}
	}
	if err := s.sink.Close(); err != nil {
		s.log.Debug("closing journal failed", "error", err)
	}
}

func (s *Session) root() string {
	if s.cfg.ProjectRoot != "" {
		return s.cfg.ProjectRoot
	}
	return "."
}
