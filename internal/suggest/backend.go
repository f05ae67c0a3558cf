// Package suggest defines the suggestion backend contract consumed by
// the composition engine, plus the two shipped implementations: a Unix
// socket client for an external suggestion daemon and a local SQLite
// dictionary store.
package suggest

// Backend maps a romanized prefix to ranked target-script candidates and
// accepts confirmed-word feedback for learning. Implementations are
// queried synchronously from the composition dispatch path, so a slow
// backend makes the whole composition step slow.
type Backend interface {
	// Init prepares the backend. Called once when the first composition
	// session opens.
	Init() error

	// Destroy releases the backend. Called once when the last session
	// closes.
	Destroy() error

	// GetSuggestions returns ordered candidates for prefix. The prefix
	// is never empty when called from the engine. An error means "no
	// candidates"; the caller degrades, it never crashes dispatch.
	GetSuggestions(prefix string) ([]string, error)

	// ConfirmWord reports that the user committed chosen for the raw
	// input original. Fire-and-forget; failures stay with the backend.
	ConfirmWord(original, chosen string) error
}
