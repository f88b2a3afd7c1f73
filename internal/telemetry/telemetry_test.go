package telemetry

import "testing"

func TestSetServiceNameIgnoresEmpty(t *testing.T) {
	SetServiceName("pytest")
	SetServiceName("")
	if got := ServiceName(); got != "pytest" {
		t.Fatalf("empty set clobbered the name: %q", got)
	}
}

func TestRunIDStable(t *testing.T) {
	if RunID() == "" {
		t.Fatal("empty run id")
	}
	if RunID() != RunID() {
		t.Fatal("run id changed between calls")
	}
}
