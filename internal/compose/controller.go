package compose

import (
	"log/slog"

	"lipika/internal/suggest"
)

// Handler is the host-facing callback surface of one composition session.
// The transport layer (IBus glue, simulator) depends only on this.
type Handler interface {
	// ProcessKey routes one key event. It reports whether the event was
	// consumed; unconsumed events must be handled by the host.
	ProcessKey(keyval, keycode, state uint32) bool

	// CandidateClicked selects the candidate at index and commits it.
	CandidateClicked(index int)

	// Teardown discards any in-progress composition without committing.
	Teardown()
}

// HostNotifier receives the outbound UI effects of composition. The host
// framework renders preedit text and the candidate lookup table on the
// controller's behalf.
type HostNotifier interface {
	UpdatePreedit(text string)
	HidePreedit()
	UpdateCandidates(candidates []string, cursor int)
	HideCandidates()
	CommitText(text string)
}

// Options configures a Controller.
type Options struct {
	// MaxCandidates caps the lookup table size (default 10).
	MaxCandidates int

	// TabCommits includes Tab among the commit trigger keys.
	TabCommits bool

	// Log receives dispatch diagnostics; nil uses slog.Default.
	Log *slog.Logger
}

// Controller is the composition state machine: it owns the preedit
// buffer, the live candidate list and its cursor, and decides per key
// event whether to mutate, commit, cancel, or pass through.
type Controller struct {
	buf      *Buffer
	provider *Provider
	backend  suggest.Backend
	host     HostNotifier
	log      *slog.Logger

	candidates []string
	cursor     int
	tabCommits bool
}

// NewController creates a Controller for one composition session.
func NewController(backend suggest.Backend, host HostNotifier, opts Options) *Controller {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		buf:        NewBuffer(),
		provider:   NewProvider(backend, opts.MaxCandidates, log),
		backend:    backend,
		host:       host,
		log:        log,
		tabCommits: opts.TabCommits,
	}
}

// SetPolicy re-applies tunable dispatch policy, typically after a config
// reload. It does not disturb an in-progress composition.
func (c *Controller) SetPolicy(maxCandidates int, tabCommits bool) {
	c.provider.SetMax(maxCandidates)
	c.tabCommits = tabCommits
}

// Composing reports whether a composition is in progress.
func (c *Controller) Composing() bool {
	return !c.buf.IsEmpty()
}

// Preedit returns the current raw composition text.
func (c *Controller) Preedit() string {
	return c.buf.String()
}

// Candidates returns the live candidate list and cursor position.
func (c *Controller) Candidates() ([]string, int) {
	return c.candidates, c.cursor
}

// ProcessKey implements Handler. Dispatch priority, first match wins:
// modifier filter, immediate-commit punctuation/digits, candidate
// navigation, commit triggers, cancel, backspace, printable append.
func (c *Controller) ProcessKey(keyval, keycode, state uint32) bool {
	// Key releases and control/alt chords always pass through so the
	// application keeps its shortcuts.
	if state&ReleaseMask != 0 || state&(ControlMask|Mod1Mask) != 0 {
		return false
	}

	// Sentence punctuation and digits end the current word, then are
	// transliterated and committed on their own.
	if immediateCommitKey(keyval) {
		if c.Composing() {
			c.commitBest()
		}
		c.commitSymbol(string(rune(keyval)))
		return true
	}

	// Candidate navigation, only while the lookup table is shown.
	// The cursor clamps at both ends; it does not wrap.
	if len(c.candidates) > 0 {
		switch keyval {
		case KeyUp:
			c.moveCursor(-1)
			return true
		case KeyDown:
			c.moveCursor(+1)
			return true
		}
	}

	switch keyval {
	case KeyReturn, KeySpace:
		if c.Composing() {
			c.commitBest()
			return true
		}
		return false

	case KeyTab:
		if c.tabCommits && c.Composing() {
			c.commitBest()
			return true
		}
		return false

	case KeyEscape:
		if c.Composing() {
			c.reset()
			return true
		}
		return false

	case KeyBackSpace:
		if !c.buf.Backspace() {
			return false
		}
		c.refresh()
		return true
	}

	if ch := KeyvalToRune(keyval); ch != 0 && c.buf.Append(ch) {
		c.refresh()
		return true
	}

	return false
}

// CandidateClicked implements Handler: pointer selection of a candidate
// moves the cursor there and commits through the same path as Enter.
func (c *Controller) CandidateClicked(index int) {
	if index < 0 || index >= len(c.candidates) {
		return
	}
	c.cursor = index
	c.commitBest()
}

// Teardown implements Handler: the session is going away, so discard
// composition state without committing or notifying the backend.
func (c *Controller) Teardown() {
	c.reset()
}

// moveCursor shifts the candidate cursor by delta, clamped to the list.
func (c *Controller) moveCursor(delta int) {
	next := c.cursor + delta
	if next < 0 || next >= len(c.candidates) {
		return
	}
	c.cursor = next
	c.host.UpdateCandidates(c.candidates, c.cursor)
}

// refresh re-queries candidates for the current buffer and pushes the
// preedit and lookup table state to the host.
func (c *Controller) refresh() {
	if c.buf.IsEmpty() {
		c.reset()
		return
	}

	text := c.buf.String()
	c.host.UpdatePreedit(text)

	c.candidates = c.provider.Fetch(text)
	c.cursor = 0
	if len(c.candidates) > 0 {
		c.host.UpdateCandidates(c.candidates, c.cursor)
	} else {
		c.host.HideCandidates()
	}
}

// commitBest resolves the text to commit for the current buffer, emits
// it, reports the confirmed word to the backend, and clears composition
// state. With no resolvable candidate the buffer is still cleared and
// nothing is emitted or confirmed.
func (c *Controller) commitBest() {
	if c.buf.IsEmpty() {
		return
	}

	// Capture the input before the clear: feedback must reference the
	// exact buffer that produced this commit.
	original := c.buf.String()

	var text string
	if len(c.candidates) > 0 {
		text = c.candidates[c.cursor]
	} else if cands := c.provider.Fetch(original); len(cands) > 0 {
		text = cands[0]
	}

	if text != "" {
		c.host.CommitText(text)
		if err := c.backend.ConfirmWord(original, text); err != nil {
			c.log.Warn("word confirmation failed", "error", err)
		}
	}

	c.reset()
}

// commitSymbol transliterates a single punctuation or digit character
// through a one-shot backend query and commits the top result. A symbol
// the backend cannot transliterate commits nothing.
func (c *Controller) commitSymbol(symbol string) {
	if cands := c.provider.Fetch(symbol); len(cands) > 0 {
		c.host.CommitText(cands[0])
	}
}

// reset clears the buffer and candidates and hides both UI surfaces in
// the same step.
func (c *Controller) reset() {
	c.buf.Clear()
	c.candidates = nil
	c.cursor = 0
	c.host.HidePreedit()
	c.host.HideCandidates()
}
