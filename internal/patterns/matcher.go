package patterns

import (
	"fmt"
	"regexp"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
)

// Set is an immutable snapshot of the merged rule table plus its compiled
// matcher. Once published it is never mutated, so any number of concurrent
// scanners can share one Set without synchronization.
type Set struct {
	patterns []Pattern
	combined *regexp.Regexp
	groupIdx []int
	singles  []*regexp.Regexp
	fp       string
}

// newSet compiles the combined alternation for the given rules. Each rule is
// wrapped in its own capture group so a hit can be traced back to the rule
// that produced it; nested capture groups inside rule sources shift the group
// numbering, which groupIdx accounts for.
func newSet(rules []Pattern) *Set {
	s := &Set{patterns: rules}
	s.fp = fingerprint(rules)
	if len(rules) == 0 {
		return s
	}
	var b strings.Builder
	b.WriteString("(?i)")
	s.groupIdx = make([]int, len(rules))
	s.singles = make([]*regexp.Regexp, len(rules))
	next := 1
	for i, p := range rules {
		// Rules are pre-validated at load time; default rules are covered
		// by tests, so Compile cannot fail here.
		s.singles[i] = regexp.MustCompile("(?i)" + p.Source)
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteByte('(')
		b.WriteString(p.Source)
		b.WriteByte(')')
		s.groupIdx[i] = next
		next += 1 + s.singles[i].NumSubexp()
	}
	s.combined = regexp.MustCompile(b.String())
	return s
}

// Patterns returns the snapshot's rule table in registration order.
func (s *Set) Patterns() []Pattern {
	out := make([]Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Len reports the number of rules in the snapshot.
func (s *Set) Len() int { return len(s.patterns) }

// Categories returns the distinct categories present, in registration order.
func (s *Set) Categories() []string {
	seen := make(map[string]bool, len(s.patterns))
	var out []string
	for _, p := range s.patterns {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Match classifies one line. The combined alternation gives a single-pass
// fast path for the common non-matching line; on a hit, rules registered
// earlier than the winning alternative are re-checked so the earliest
// registered rule always wins, no matter where in the line its match starts.
func (s *Set) Match(line string) (category, source string, ok bool) {
	if s.combined == nil {
		return "", "", false
	}
	loc := s.combined.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", "", false
	}
	k := -1
	for i, g := range s.groupIdx {
		if 2*g+1 < len(loc) && loc[2*g] >= 0 {
			k = i
			break
		}
	}
	if k < 0 {
		return "", "", false
	}
	for i := 0; i < k; i++ {
		if s.singles[i].MatchString(line) {
			k = i
			break
		}
	}
	return s.patterns[k].Category, s.patterns[k].Source, true
}

// Fingerprint is a stable hash of the ordered (source, category) pairs. It
// keys the incremental scan cache: any rule change invalidates prior entries.
func (s *Set) Fingerprint() string { return s.fp }

func fingerprint(rules []Pattern) string {
	h := xxhash.New()
	for _, p := range rules {
		_, _ = h.WriteString(p.Source)
		_, _ = h.WriteString("\x1f")
		_, _ = h.WriteString(p.Category)
		_, _ = h.WriteString("\x1e")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
