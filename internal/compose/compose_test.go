package compose

import (
	"errors"
	"log/slog"
	"testing"
)

// Test doubles shared by the package tests.

// fakeBackend serves canned suggestions and records every call.
type fakeBackend struct {
	suggestions map[string][]string
	queryErr    error
	confirmErr  error

	initCalls    int
	destroyCalls int
	initErr      error

	queries  []string
	confirms [][2]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{suggestions: make(map[string][]string)}
}

func (f *fakeBackend) Init() error {
	f.initCalls++
	return f.initErr
}

func (f *fakeBackend) Destroy() error {
	f.destroyCalls++
	return nil
}

func (f *fakeBackend) GetSuggestions(prefix string) ([]string, error) {
	f.queries = append(f.queries, prefix)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.suggestions[prefix], nil
}

func (f *fakeBackend) ConfirmWord(original, chosen string) error {
	f.confirms = append(f.confirms, [2]string{original, chosen})
	return f.confirmErr
}

// recordingHost captures the outbound UI effects of composition.
type recordingHost struct {
	preedit         string
	preeditShown    bool
	candidates      []string
	cursor          int
	candidatesShown bool
	commits         []string
}

func (h *recordingHost) UpdatePreedit(text string) {
	h.preedit = text
	h.preeditShown = true
}

func (h *recordingHost) HidePreedit() {
	h.preedit = ""
	h.preeditShown = false
}

func (h *recordingHost) UpdateCandidates(candidates []string, cursor int) {
	h.candidates = candidates
	h.cursor = cursor
	h.candidatesShown = true
}

func (h *recordingHost) HideCandidates() {
	h.candidates = nil
	h.cursor = 0
	h.candidatesShown = false
}

func (h *recordingHost) CommitText(text string) {
	h.commits = append(h.commits, text)
}

func newTestController(t *testing.T) (*Controller, *fakeBackend, *recordingHost) {
	t.Helper()
	backend := newFakeBackend()
	host := &recordingHost{}
	ctrl := NewController(backend, host, Options{
		TabCommits: true,
		Log:        slog.Default(),
	})
	return ctrl, backend, host
}

// typeWord feeds each character of word as a key press.
func typeWord(t *testing.T, ctrl *Controller, word string) {
	t.Helper()
	for _, ch := range word {
		if !ctrl.ProcessKey(uint32(ch), 0, 0) {
			t.Fatalf("key %q was not consumed", ch)
		}
	}
}

var errBackendDown = errors.New("backend down")
