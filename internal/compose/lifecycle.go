package compose

import (
	"log/slog"
	"sync"

	"lipika/internal/suggest"
)

// Lifecycle reference-counts concurrently open composition sessions and
// owns the single shared backend handle: the backend is initialized when
// the first session opens and torn down when the last one closes.
//
// The counter is mutex-guarded because the D-Bus dispatcher may deliver
// session boundaries from more than one goroutine; increments are not
// implicitly atomic.
type Lifecycle struct {
	mu      sync.Mutex
	open    int
	backend suggest.Backend
	log     *slog.Logger
}

// NewLifecycle creates a Lifecycle owning backend.
func NewLifecycle(backend suggest.Backend, log *slog.Logger) *Lifecycle {
	if log == nil {
		log = slog.Default()
	}
	return &Lifecycle{backend: backend, log: log}
}

// SessionStart registers a newly opened composition session. On the 0→1
// transition the shared backend is initialized; the init error is
// returned but the session still counts as open, so a later retry happens
// naturally once all sessions close and reopen.
func (l *Lifecycle) SessionStart() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.open++
	if l.open == 1 {
		l.log.Info("first session opened, initializing backend")
		if err := l.backend.Init(); err != nil {
			l.log.Error("backend init failed", "error", err)
			return err
		}
	}
	return nil
}

// SessionEnd registers a session teardown. On the 1→0 transition the
// shared backend is destroyed. An end without a matching start is a
// no-op; the counter never goes negative.
func (l *Lifecycle) SessionEnd() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.open == 0 {
		l.log.Warn("session end without matching start")
		return nil
	}

	l.open--
	if l.open == 0 {
		l.log.Info("last session closed, destroying backend")
		if err := l.backend.Destroy(); err != nil {
			l.log.Error("backend teardown failed", "error", err)
			return err
		}
	}
	return nil
}

// Open returns the number of currently open sessions.
func (l *Lifecycle) Open() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}
