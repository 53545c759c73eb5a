// Package warning is the process-wide registry of background-subsystem
// failures: LSP transport hiccups, plugin panics, config migration
// issues. Spec §4.13/§7 requires these never open a buffer or steal
// focus; they aggregate into typed domains surfaced through a
// status-bar indicator instead.
//
// Grounded on the teacher's preference for typed result values over
// ambient log.Printf calls (internal/plugin reports failures back to
// its caller rather than logging them directly); this package is the
// sink those typed failures land in.
package warning

import (
	"sync"
	"time"

	"github.com/freshkit/fresh/internal/clock"
)

// Domain groups warnings by the subsystem that raised them, per spec
// §4.13's "LSP, plugins, general" partition.
type Domain string

const (
	DomainLSP     Domain = "lsp"
	DomainPlugins Domain = "plugins"
	DomainGeneral Domain = "general"
)

// Entry is one distinct warning string within a domain, with the
// bookkeeping needed to dedupe repeats.
type Entry struct {
	Domain     Domain
	Message    string
	Count      int
	FirstSeen  time.Time
	LastSeen   time.Time
	Suppressed bool
}

// Registry aggregates warnings by (domain, message), suppressing an
// identical string after it has fired DedupeAfter times within
// DedupeWindow — spec's resolved Open Question (a): a pure time bound
// risks flooding during a burst of identical retries that all land in
// one window, so the bound is on repeat count instead.
type Registry struct {
	mu          sync.Mutex
	clock       clock.Source
	dedupeAfter int
	window      time.Duration
	entries     map[Domain]map[string]*Entry
}

// DefaultDedupeAfter and DefaultDedupeWindow are the values New uses
// for a non-positive dedupeAfter or window; cmd/fresh passes them in
// directly.
const (
	DefaultDedupeAfter  = 3
	DefaultDedupeWindow = 30 * time.Second
)

// New creates an empty Registry.
func New(src clock.Source, dedupeAfter int, window time.Duration) *Registry {
	if dedupeAfter <= 0 {
		dedupeAfter = DefaultDedupeAfter
	}
	if window <= 0 {
		window = DefaultDedupeWindow
	}
	return &Registry{
		clock:       src,
		dedupeAfter: dedupeAfter,
		window:      window,
		entries:     make(map[Domain]map[string]*Entry),
	}
}

// Register records a warning in domain. Satisfies pluginhost.WarningSink
// by taking plain strings rather than a typed Domain, so callers outside
// this package (plugin sandboxes) don't need to import it just to
// report a failure; unrecognized domain strings fall back to general.
func (r *Registry) Register(domain, message string) {
	r.record(Domain(domain), message)
}

// RegisterDomain is Register's typed counterpart, for callers inside
// the module that already hold a Domain constant.
func (r *Registry) RegisterDomain(domain Domain, message string) {
	r.record(domain, message)
}

func (r *Registry) record(domain Domain, message string) {
	switch domain {
	case DomainLSP, DomainPlugins, DomainGeneral:
	default:
		domain = DomainGeneral
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byMessage, ok := r.entries[domain]
	if !ok {
		byMessage = make(map[string]*Entry)
		r.entries[domain] = byMessage
	}

	now := r.clock.Now()
	e, ok := byMessage[message]
	if !ok {
		byMessage[message] = &Entry{Domain: domain, Message: message, Count: 1, FirstSeen: now, LastSeen: now}
		return
	}

	if now.Sub(e.FirstSeen) > r.window {
		e.FirstSeen = now
		e.Count = 0
		e.Suppressed = false
	}
	e.Count++
	e.LastSeen = now
	if e.Count > r.dedupeAfter {
		e.Suppressed = true
	}
}

// Active returns every entry not currently suppressed, across all
// domains, for a status-bar indicator to render.
func (r *Registry) Active() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, byMessage := range r.entries {
		for _, e := range byMessage {
			if !e.Suppressed {
				out = append(out, *e)
			}
		}
	}
	return out
}

// ForDomain returns every entry (suppressed or not) in domain, for the
// indicator's click-through popup.
func (r *Registry) ForDomain(domain Domain) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	byMessage, ok := r.entries[domain]
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(byMessage))
	for _, e := range byMessage {
		out = append(out, *e)
	}
	return out
}

// HasActive reports whether any domain currently has a non-suppressed
// warning, for the status bar to decide whether to paint the badge.
func (r *Registry) HasActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, byMessage := range r.entries {
		for _, e := range byMessage {
			if !e.Suppressed {
				return true
			}
		}
	}
	return false
}
