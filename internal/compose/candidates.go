package compose

import (
	"log/slog"

	"lipika/internal/suggest"
)

// DefaultMaxCandidates is the lookup table cap applied when no explicit
// limit is configured.
const DefaultMaxCandidates = 10

// Provider wraps backend prefix queries and normalizes the response into
// a clean ordered candidate list. Backend failures never surface past it;
// they degrade to an empty list so composition stays responsive.
type Provider struct {
	backend suggest.Backend
	max     int
	log     *slog.Logger
}

// NewProvider creates a Provider capped at max candidates per query.
// A max of zero or less falls back to DefaultMaxCandidates.
func NewProvider(backend suggest.Backend, max int, log *slog.Logger) *Provider {
	if max <= 0 {
		max = DefaultMaxCandidates
	}
	if log == nil {
		log = slog.Default()
	}
	return &Provider{backend: backend, max: max, log: log}
}

// SetMax adjusts the candidate cap for subsequent queries.
func (p *Provider) SetMax(max int) {
	if max <= 0 {
		max = DefaultMaxCandidates
	}
	p.max = max
}

// Fetch queries the backend for prefix and returns at most max candidates
// in backend order. An empty prefix issues no query. Backend errors are
// logged and yield an empty list.
func (p *Provider) Fetch(prefix string) []string {
	if prefix == "" {
		return nil
	}

	cands, err := p.backend.GetSuggestions(prefix)
	if err != nil {
		p.log.Debug("suggestion query failed", "prefix_len", len(prefix), "error", err)
		return nil
	}
	if len(cands) > p.max {
		cands = cands[:p.max]
	}
	return cands
}
