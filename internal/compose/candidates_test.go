package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderEmptyPrefixSkipsQuery(t *testing.T) {
	backend := newFakeBackend()
	p := NewProvider(backend, 0, nil)

	assert.Nil(t, p.Fetch(""))
	assert.Empty(t, backend.queries, "no query for an empty buffer")
}

func TestProviderCapsPreservingOrder(t *testing.T) {
	backend := newFakeBackend()
	backend.suggestions["a"] = []string{"१", "२", "३", "४", "५"}
	p := NewProvider(backend, 3, nil)

	assert.Equal(t, []string{"१", "२", "३"}, p.Fetch("a"))
}

func TestProviderErrorYieldsEmpty(t *testing.T) {
	backend := newFakeBackend()
	backend.queryErr = errBackendDown
	p := NewProvider(backend, 0, nil)

	assert.Empty(t, p.Fetch("a"))
}

func TestProviderSetMax(t *testing.T) {
	backend := newFakeBackend()
	backend.suggestions["a"] = []string{"क", "ख", "ग"}
	p := NewProvider(backend, 0, nil)

	assert.Len(t, p.Fetch("a"), 3)

	p.SetMax(2)
	assert.Len(t, p.Fetch("a"), 2)

	// Non-positive falls back to the default cap.
	p.SetMax(0)
	assert.Len(t, p.Fetch("a"), 3)
}
