package patterns

import (
	"regexp"
	"testing"
)

func setOf(t *testing.T, rules ...Pattern) *Set {
	t.Helper()
	r := &Registry{}
	if _, err := r.AddCustom(rules); err != nil {
		t.Fatal(err)
	}
	return r.Snapshot()
}

func TestEarliestRegisteredWins(t *testing.T) {
	set := setOf(t,
		Pattern{Source: `ERROR|FAIL`, Category: "GENERIC_ERROR"},
		Pattern{Source: `Timeout`, Category: "TIMEOUT"},
	)
	cat, src, ok := set.Match("2024-01-01 FAIL: connect Timeout")
	if !ok {
		t.Fatal("expected a match")
	}
	if cat != "GENERIC_ERROR" {
		t.Fatalf("category = %q, want GENERIC_ERROR", cat)
	}
	if src != `ERROR|FAIL` {
		t.Fatalf("source = %q", src)
	}
}

func TestEarlierRuleWinsEvenWhenItMatchesLater(t *testing.T) {
	// the second rule matches earlier in the line; registration order must
	// still decide
	set := setOf(t,
		Pattern{Source: `Timeout`, Category: "TIMEOUT"},
		Pattern{Source: `FAIL`, Category: "GENERIC_ERROR"},
	)
	cat, _, ok := set.Match("FAIL then a Timeout")
	if !ok || cat != "TIMEOUT" {
		t.Fatalf("cat=%q ok=%v, want TIMEOUT", cat, ok)
	}
}

func TestCaseInsensitive(t *testing.T) {
	set := setOf(t, Pattern{Source: `kernel panic`, Category: "KERNEL_PANIC"})
	if _, _, ok := set.Match("KERNEL PANIC - not syncing"); !ok {
		t.Fatal("matching must be case-insensitive")
	}
}

func TestNoMatch(t *testing.T) {
	set := setOf(t, Pattern{Source: `ERROR`, Category: "E"})
	if _, _, ok := set.Match("everything is fine"); ok {
		t.Fatal("unexpected match")
	}
}

func TestEmptySetMatchesNothing(t *testing.T) {
	set := newSet(nil)
	for _, line := range []string{"", "ERROR", "Kernel panic", "anything at all"} {
		if _, _, ok := set.Match(line); ok {
			t.Fatalf("empty set matched %q", line)
		}
	}
}

func TestNestedCaptureGroupsDoNotConfuseAttribution(t *testing.T) {
	set := setOf(t,
		Pattern{Source: `(foo|bar) crashed`, Category: "CRASH"},
		Pattern{Source: `restart(ed)? (now|later)`, Category: "RESTART"},
		Pattern{Source: `plain`, Category: "PLAIN"},
	)
	cases := []struct {
		line, want string
	}{
		{"service foo crashed hard", "CRASH"},
		{"will restart now", "RESTART"},
		{"restarted later by admin", "RESTART"},
		{"just a plain line", "PLAIN"},
	}
	for _, tc := range cases {
		cat, _, ok := set.Match(tc.line)
		if !ok || cat != tc.want {
			t.Fatalf("Match(%q) = %q/%v, want %q", tc.line, cat, ok, tc.want)
		}
	}
}

// TestCombinedEquivalentToSequentialScan is the equivalence property: the
// combined matcher must classify exactly like evaluating each rule
// individually in registration order and taking the first that matches.
func TestCombinedEquivalentToSequentialScan(t *testing.T) {
	rules := []Pattern{
		{Source: `ERROR|FAIL`, Category: "GENERIC_ERROR"},
		{Source: `Timeout`, Category: "TIMEOUT"},
		{Source: `Out of memory`, Category: "OUT_OF_MEMORY"},
		{Source: `CPU:\d+ WARNING`, Category: "CPU_WARNING"},
		{Source: `(link|carrier) (is )?down`, Category: "INTERFACE_DOWN"},
	}
	set := setOf(t, rules...)
	singles := make([]*regexp.Regexp, len(rules))
	for i, p := range rules {
		singles[i] = regexp.MustCompile("(?i)" + p.Source)
	}
	sequential := func(line string) (string, bool) {
		for i, re := range singles {
			if re.MatchString(line) {
				return rules[i].Category, true
			}
		}
		return "", false
	}

	lines := []string{
		"2024-01-01 FAIL: connect Timeout",
		"request Timeout after 30s",
		"Out of memory: Kill process 1234",
		"CPU:3 WARNING at foo.c:42",
		"eth0: link is down",
		"carrier down on wlan1",
		"Timeout before ERROR appears",
		"nothing interesting here",
		"error lowercased still counts",
		"",
	}
	for _, line := range lines {
		wantCat, wantOK := sequential(line)
		gotCat, _, gotOK := set.Match(line)
		if gotOK != wantOK || gotCat != wantCat {
			t.Errorf("Match(%q) = %q/%v, sequential = %q/%v", line, gotCat, gotOK, wantCat, wantOK)
		}
	}
}

func TestFingerprintStable(t *testing.T) {
	a := setOf(t, Pattern{Source: `x`, Category: "X"}, Pattern{Source: `y`, Category: "Y"})
	b := setOf(t, Pattern{Source: `x`, Category: "X"}, Pattern{Source: `y`, Category: "Y"})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("identical rule tables must share a fingerprint")
	}
	c := setOf(t, Pattern{Source: `y`, Category: "Y"}, Pattern{Source: `x`, Category: "X"})
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("order must be part of the fingerprint")
	}
}

func TestCategories(t *testing.T) {
	set := setOf(t,
		Pattern{Source: `a1`, Category: "A"},
		Pattern{Source: `b1`, Category: "B"},
		Pattern{Source: `a2`, Category: "A"},
	)
	got := set.Categories()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("Categories() = %v", got)
	}
}
