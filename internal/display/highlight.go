package display

import (
	"sort"
	"time"
)

// Highlights tracks which strings are lit after a pluck. Entries expire
// after a fixed duration; a new pluck of the same string extends it.
type Highlights struct {
	ttl     time.Duration
	expires map[string]time.Time
}

// NewHighlights returns an empty set with the given lifetime.
func NewHighlights(ttl time.Duration) *Highlights {
	return &Highlights{ttl: ttl, expires: make(map[string]time.Time)}
}

// Mark lights name from at until at+ttl.
func (h *Highlights) Mark(name string, at time.Time) {
	h.expires[name] = at.Add(h.ttl)
}

// Lit reports whether name is still lit at now.
func (h *Highlights) Lit(name string, now time.Time) bool {
	exp, ok := h.expires[name]
	return ok && now.Before(exp)
}

// Expire removes entries that are no longer lit and returns the ones
// that remain, sorted by name.
func (h *Highlights) Expire(now time.Time) []string {
	lit := make([]string, 0, len(h.expires))
	for name, exp := range h.expires {
		if !now.Before(exp) {
			delete(h.expires, name)
			continue
		}
		lit = append(lit, name)
	}
	sort.Strings(lit)
	return lit
}
