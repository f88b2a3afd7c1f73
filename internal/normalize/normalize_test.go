package normalize

import (
	"strings"
	"testing"
)

func TestStripRemovesExactTrailingSuffix(t *testing.T) {
	got := Strip("TestParse[go1.24]", "[go1.24]")
	if got != "TestParse" {
		t.Fatalf("Strip: got %q", got)
	}
}

func TestStripLeavesNonMatchingInput(t *testing.T) {
	cases := []string{
		"TestParse",
		"TestParse[go1.23]",
		"TestParse[go1.24] ",
		"[go1.24]TestParse",
		"",
	}
	for _, s := range cases {
		if got := Strip(s, "[go1.24]"); got != s {
			t.Fatalf("Strip(%q): got %q, want input unchanged", s, got)
		}
	}
}

func TestStripIsIdempotent(t *testing.T) {
	// The runner decorates each identifier at most once, so idempotence is
	// asserted over singly-decorated and undecorated inputs.
	suffix := "[go1.24]"
	for _, s := range []string{"TestParse[go1.24]", "TestParse", "a[go1.24]b", ""} {
		once := Strip(s, suffix)
		twice := Strip(once, suffix)
		if once != twice {
			t.Fatalf("Strip(%q) not idempotent: %q then %q", s, once, twice)
		}
	}
}

func TestStripRemovesOneLayerPerPass(t *testing.T) {
	// Exactly the trailing suffix comes off; a stacked decoration loses one
	// layer per pass rather than collapsing to nothing.
	if got := Strip("[go1.24][go1.24]", "[go1.24]"); got != "[go1.24]" {
		t.Fatalf("Strip removed more than the trailing suffix: %q", got)
	}
}

func TestStripPreservesEarlierOccurrences(t *testing.T) {
	got := Strip("a[go1.24]b[go1.24]", "[go1.24]")
	if got != "a[go1.24]b" {
		t.Fatalf("Strip stripped more than the trailing suffix: %q", got)
	}
}

func TestStripEmptySuffixIsIdentity(t *testing.T) {
	if got := Strip("TestParse", ""); got != "TestParse" {
		t.Fatalf("Strip with empty suffix: got %q", got)
	}
}

func TestItemsRewritesBothFieldsInPlace(t *testing.T) {
	items := []Item{
		{Name: "TestParse[go1.24]", ID: "pkg/foo.TestParse[go1.24]"},
		{Name: "TestOther", ID: "pkg/foo.TestOther"},
	}
	Items(items, "[go1.24]")
	if items[0].Name != "TestParse" || items[0].ID != "pkg/foo.TestParse" {
		t.Fatalf("first item not normalized: %+v", items[0])
	}
	if items[1].Name != "TestOther" || items[1].ID != "pkg/foo.TestOther" {
		t.Fatalf("second item changed: %+v", items[1])
	}
}

func TestTagOf(t *testing.T) {
	cases := map[string]string{
		"go1.24.0":      "go1.24",
		"go1.24":        "go1.24",
		"go1.24.5":      "go1.24",
		"go1":           "go1",
		"devel +abcdef": "devel +abcdef",
		"go1.x.0":       "go1.x.0",
		"gotip":         "gotip",
		"go1.25rc1":     "go1.25rc1",
	}
	for in, want := range cases {
		if got := tagOf(in); got != want {
			t.Fatalf("tagOf(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestSuffixShape(t *testing.T) {
	s := Suffix()
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		t.Fatalf("suffix not bracketed: %q", s)
	}
	if Strip("X"+s, s) != "X" {
		t.Fatalf("suffix does not round-trip through Strip: %q", s)
	}
}
