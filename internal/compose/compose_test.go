package compose

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type call struct {
	dir  string
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(dir string, args ...string) error {
	f.calls = append(f.calls, call{dir: dir, args: args})
	return f.err
}

func newTestManager(r Runner) (*Manager, *[]time.Duration) {
	var slept []time.Duration
	m := &Manager{
		Runner: r,
		sleep:  func(d time.Duration) { slept = append(slept, d) },
	}
	return m, &slept
}

func TestUpEmptySetIsNoop(t *testing.T) {
	fr := &fakeRunner{}
	m, slept := newTestManager(fr)
	if err := m.Up("/proj", nil); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if len(fr.calls) != 0 || len(*slept) != 0 {
		t.Fatalf("empty set must not invoke or wait: calls=%v slept=%v", fr.calls, *slept)
	}
}

func TestDownEmptySetIsNoop(t *testing.T) {
	fr := &fakeRunner{}
	m, _ := newTestManager(fr)
	if err := m.Down("/proj", []string{}); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if len(fr.calls) != 0 {
		t.Fatalf("empty set must not invoke: %v", fr.calls)
	}
}

func TestUpArgsAndSettle(t *testing.T) {
	fr := &fakeRunner{}
	m, slept := newTestManager(fr)
	m.Settle = 2 * time.Second

	if err := m.Up("/proj", []string{"db", "cache"}); err != nil {
		t.Fatalf("Up: %v", err)
	}
	want := call{dir: "/proj", args: []string{"compose", "up", "-d", "db", "cache"}}
	if len(fr.calls) != 1 || !reflect.DeepEqual(fr.calls[0], want) {
		t.Fatalf("unexpected invocation: %+v", fr.calls)
	}
	if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
		t.Fatalf("settle wait not applied: %v", *slept)
	}
}

func TestUpDefaultSettle(t *testing.T) {
	m, slept := newTestManager(&fakeRunner{})
	_ = m.Up(".", []string{"db"})
	if len(*slept) != 1 || (*slept)[0] != DefaultSettle {
		t.Fatalf("expected default settle %v, got %v", DefaultSettle, *slept)
	}
}

func TestUpWaitsAndReturnsErrorOnFailure(t *testing.T) {
	fr := &fakeRunner{err: errors.New("compose exploded")}
	m, slept := newTestManager(fr)

	err := m.Up("/proj", []string{"db"})
	if err == nil {
		t.Fatal("invocation error must be returned")
	}
	if len(*slept) != 1 {
		t.Fatal("settle wait must run even when the invocation fails")
	}
}

func TestDownArgs(t *testing.T) {
	fr := &fakeRunner{}
	m, slept := newTestManager(fr)

	if err := m.Down("/proj", []string{"db", "cache"}); err != nil {
		t.Fatalf("Down: %v", err)
	}
	want := call{dir: "/proj", args: []string{"compose", "down", "db", "cache"}}
	if len(fr.calls) != 1 || !reflect.DeepEqual(fr.calls[0], want) {
		t.Fatalf("unexpected invocation: %+v", fr.calls)
	}
	if len(*slept) != 0 {
		t.Fatalf("Down must not settle: %v", *slept)
	}
}
