package patterns

import (
	"fmt"
	"regexp"
	"sync"
)

// Origin records where a pattern came from.
type Origin string

const (
	OriginDefault Origin = "default"
	OriginCustom  Origin = "custom"
)

// Pattern is one classification rule: a regex source and the category it maps to.
type Pattern struct {
	Source   string `json:"source"`
	Category string `json:"category"`
	Origin   Origin `json:"origin"`
}

// LoadError reports a rejected custom pattern load. The whole load is atomic:
// if any entry fails, nothing is merged and Entry identifies the bad rule.
type LoadError struct {
	Entry  string
	Reason error
}

func (e *LoadError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("pattern load: %v", e.Reason)
	}
	return fmt.Sprintf("invalid pattern %q: %v", e.Entry, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Reason }

// Registry owns the mutable rule table. Every mutation publishes a fresh
// immutable Set; readers hold their own snapshot so a scan started before a
// mutation keeps classifying with the rules it began with.
type Registry struct {
	mu       sync.Mutex
	defaults []Pattern
	custom   []Pattern
	snapshot *Set
}

// NewRegistry returns a registry preloaded with the built-in rule table.
func NewRegistry() *Registry {
	r := &Registry{}
	r.LoadDefaults()
	return r
}

// LoadDefaults installs the built-in pattern table. Idempotent: calling it
// again resets defaults to the same table and keeps custom rules.
func (r *Registry) LoadDefaults() {
	r.mu.Lock()
	defer r.mu.Unlock()
	defs := make([]Pattern, 0, len(defaultRules))
	for _, d := range defaultRules {
		defs = append(defs, Pattern{Source: d.Source, Category: d.Category, Origin: OriginDefault})
	}
	r.defaults = defs
	r.snapshot = nil
}

// AddCustom validates and merges the given custom rules atomically. On any
// invalid regex the registry is left untouched and the returned error names
// the failing entry. Returns the number of rules accepted.
func (r *Registry) AddCustom(rules []Pattern) (int, error) {
	for _, p := range rules {
		if p.Source == "" {
			return 0, &LoadError{Entry: p.Source, Reason: fmt.Errorf("empty pattern source")}
		}
		if p.Category == "" {
			return 0, &LoadError{Entry: p.Source, Reason: fmt.Errorf("empty category")}
		}
		if _, err := regexp.Compile("(?i)" + p.Source); err != nil {
			return 0, &LoadError{Entry: p.Source, Reason: err}
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range rules {
		p.Origin = OriginCustom
		r.custom = upsert(r.custom, p)
	}
	r.snapshot = nil
	return len(rules), nil
}

// Remove drops the rule with the given source from both default and custom
// tables. Returns true if anything was removed.
func (r *Registry) Remove(source string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := false
	r.defaults, removed = deleteBySource(r.defaults, source, removed)
	r.custom, removed = deleteBySource(r.custom, source, removed)
	if removed {
		r.snapshot = nil
	}
	return removed
}

// List returns the merged rule table in registration order: defaults first
// (minus any overridden by custom), then custom rules. Custom wins on a
// source collision.
func (r *Registry) List() []Pattern {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mergedLocked()
}

// Snapshot returns the current immutable Set, compiling it if a mutation has
// invalidated the previous one. The Set is safe to share across goroutines.
func (r *Registry) Snapshot() *Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot == nil {
		r.snapshot = newSet(r.mergedLocked())
	}
	return r.snapshot
}

// mergedLocked unions defaults and custom rules. A custom rule that collides
// with a default source replaces it in place, so the rule keeps its original
// registration position and only the category (and origin) change. New custom
// sources append after the defaults in their own registration order.
func (r *Registry) mergedLocked() []Pattern {
	bySource := make(map[string]Pattern, len(r.custom))
	for _, p := range r.custom {
		bySource[p.Source] = p
	}
	out := make([]Pattern, 0, len(r.defaults)+len(r.custom))
	seen := make(map[string]bool, len(r.defaults))
	for _, p := range r.defaults {
		if c, ok := bySource[p.Source]; ok {
			out = append(out, c)
		} else {
			out = append(out, p)
		}
		seen[p.Source] = true
	}
	for _, p := range r.custom {
		if !seen[p.Source] {
			out = append(out, p)
		}
	}
	return out
}

func upsert(list []Pattern, p Pattern) []Pattern {
	for i := range list {
		if list[i].Source == p.Source {
			list[i] = p
			return list
		}
	}
	return append(list, p)
}

func deleteBySource(list []Pattern, source string, already bool) ([]Pattern, bool) {
	out := list[:0]
	removed := already
	for _, p := range list {
		if p.Source == source {
			removed = true
			continue
		}
		out = append(out, p)
	}
	return out, removed
}
