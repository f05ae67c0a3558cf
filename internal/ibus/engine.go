//go:build linux

// Package ibus connects the composition controller to the IBus daemon
// over D-Bus. It exports the Factory and Engine objects, translates
// inbound key and candidate events onto compose.Handler, and renders
// outbound composition state by emitting the Engine interface signals.
package ibus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"lipika/internal/compose"
)

// IBus D-Bus constants.
const (
	IBusService   = "org.freedesktop.IBus"
	IBusPath      = "/org/freedesktop/IBus"
	IBusInterface = "org.freedesktop.IBus"

	FactoryInterface = "org.freedesktop.IBus.Factory"
	EngineInterface  = "org.freedesktop.IBus.Engine"

	BusName    = "org.freedesktop.IBus.Lipika"
	EngineName = "lipika"

	factoryPath    = "/org/freedesktop/IBus/Factory"
	enginePathBase = "/org/freedesktop/IBus/Engine/Lipika"
)

// Options configures the engine service.
type Options struct {
	// RequestName claims BusName on the session bus. Set when the
	// process is spawned by the IBus daemon from the component XML.
	RequestName bool

	// RegisterComponent registers the component with the running IBus
	// daemon directly. Used in standalone mode so a development build
	// can be enabled without installing the component XML.
	RegisterComponent bool

	// MaxCandidates and TabCommits seed the composition policy of new
	// sessions; SetPolicy adjusts live sessions later.
	MaxCandidates int
	TabCommits    bool

	// Lifecycle owns the shared suggestion backend across sessions.
	Lifecycle *compose.Lifecycle

	// NewHandler builds the composition handler for one session,
	// wired to the given host surface.
	NewHandler func(host compose.HostNotifier, maxCandidates int, tabCommits bool) compose.Handler

	// Log receives transport diagnostics; nil uses slog.Default.
	Log *slog.Logger
}

// policySetter is implemented by handlers that accept live policy
// updates on config reload.
type policySetter interface {
	SetPolicy(maxCandidates int, tabCommits bool)
}

// Service is the process-wide IBus engine service: one per process,
// creating one engine object per input context the daemon opens.
type Service struct {
	conn *dbus.Conn
	opts Options
	log  *slog.Logger

	mu            sync.Mutex
	maxCandidates int
	tabCommits    bool
	nextID        uint32
	engines       map[dbus.ObjectPath]*engineObject
}

// Start connects to the session bus and exports the engine factory.
// A bus connection failure is the caller's fatal startup error.
func Start(opts Options) (*Service, error) {
	if opts.Lifecycle == nil || opts.NewHandler == nil {
		return nil, errors.New("ibus: Lifecycle and NewHandler are required")
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	s := &Service{
		conn:          conn,
		opts:          opts,
		log:           log,
		maxCandidates: opts.MaxCandidates,
		tabCommits:    opts.TabCommits,
		engines:       make(map[dbus.ObjectPath]*engineObject),
	}

	if err := conn.Export(&factory{svc: s}, factoryPath, FactoryInterface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export factory: %w", err)
	}

	if opts.RequestName {
		reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("request bus name: %w", err)
		}
		if reply != dbus.RequestNameReplyPrimaryOwner {
			conn.Close()
			return nil, fmt.Errorf("bus name %s already taken", BusName)
		}
	}

	if opts.RegisterComponent {
		if err := s.registerComponent(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("register component: %w", err)
		}
	}

	log.Info("engine service started", "bus_name", BusName, "request_name", opts.RequestName)
	return s, nil
}

// Stop tears down all open sessions and closes the bus connection.
func (s *Service) Stop() error {
	s.mu.Lock()
	engines := make([]*engineObject, 0, len(s.engines))
	for _, e := range s.engines {
		engines = append(engines, e)
	}
	s.engines = make(map[dbus.ObjectPath]*engineObject)
	s.mu.Unlock()

	for _, e := range engines {
		e.shutdown()
	}
	return s.conn.Close()
}

// SetPolicy re-applies composition policy across live sessions,
// typically after a config reload.
func (s *Service) SetPolicy(maxCandidates int, tabCommits bool) {
	s.mu.Lock()
	s.maxCandidates = maxCandidates
	s.tabCommits = tabCommits
	engines := make([]*engineObject, 0, len(s.engines))
	for _, e := range s.engines {
		engines = append(engines, e)
	}
	s.mu.Unlock()

	for _, e := range engines {
		e.applyPolicy(maxCandidates, tabCommits)
	}
}

// OpenSessions returns the number of live engine objects.
func (s *Service) OpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.engines)
}

// createEngine opens a new composition session and exports its engine
// object for the daemon.
func (s *Service) createEngine() (dbus.ObjectPath, error) {
	s.mu.Lock()
	s.nextID++
	path := dbus.ObjectPath(fmt.Sprintf("%s/%d", enginePathBase, s.nextID))
	maxCandidates, tabCommits := s.maxCandidates, s.tabCommits
	s.mu.Unlock()

	eng := &engineObject{
		svc:  s,
		path: path,
		log:  s.log.With("engine_path", string(path)),
	}
	eng.handler = s.opts.NewHandler(eng, maxCandidates, tabCommits)

	if err := s.opts.Lifecycle.SessionStart(); err != nil {
		// The session stays usable; the backend simply has no
		// suggestions until it recovers.
		eng.log.Warn("backend unavailable for new session", "error", err)
	}

	if err := s.conn.Export(eng, path, EngineInterface); err != nil {
		s.opts.Lifecycle.SessionEnd()
		return "", fmt.Errorf("export engine object: %w", err)
	}

	s.mu.Lock()
	s.engines[path] = eng
	s.mu.Unlock()

	eng.log.Info("input context opened")
	return path, nil
}

func (s *Service) removeEngine(path dbus.ObjectPath) {
	s.mu.Lock()
	delete(s.engines, path)
	s.mu.Unlock()
	s.conn.Export(nil, path, EngineInterface)
}

// factory implements the IBus Factory D-Bus interface.
type factory struct {
	svc *Service
}

// CreateEngine creates a new engine instance for IBus.
func (f *factory) CreateEngine(engineName string) (dbus.ObjectPath, *dbus.Error) {
	if engineName != EngineName {
		return "", dbus.NewError("org.freedesktop.IBus.NoEngine",
			[]interface{}{"unknown engine: " + engineName})
	}

	path, err := f.svc.createEngine()
	if err != nil {
		f.svc.log.Error("engine creation failed", "error", err)
		return "", dbus.MakeFailedError(err)
	}
	return path, nil
}

// engineObject is one composition session exported to the daemon. Its
// mutex serializes D-Bus dispatch onto the single-threaded controller.
type engineObject struct {
	svc  *Service
	path dbus.ObjectPath
	log  *slog.Logger

	mu      sync.Mutex
	handler compose.Handler
	closed  bool
}

// ProcessKeyEvent handles key press/release events from IBus. It
// reports true when the composition consumed the event and false to
// pass it through to the application.
func (o *engineObject) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false, nil
	}
	return o.handler.ProcessKey(keyval, keycode, state), nil
}

// CandidateClicked commits the candidate selected with the pointer.
func (o *engineObject) CandidateClicked(index, button, state uint32) *dbus.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.handler.CandidateClicked(int(index))
	}
	return nil
}

// FocusIn is called when the input context gains focus.
func (o *engineObject) FocusIn() *dbus.Error {
	o.log.Debug("focus in")
	return nil
}

// FocusOut cancels any in-progress composition; the text field losing
// focus must not receive a half-typed word later.
func (o *engineObject) FocusOut() *dbus.Error {
	o.log.Debug("focus out")
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.handler.Teardown()
	}
	return nil
}

// Enable is called when the engine is selected as the active input
// method.
func (o *engineObject) Enable() *dbus.Error {
	o.log.Debug("enabled")
	return nil
}

// Disable cancels composition when the user switches away.
func (o *engineObject) Disable() *dbus.Error {
	o.log.Debug("disabled")
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.handler.Teardown()
	}
	return nil
}

// Reset discards composition state at the daemon's request.
func (o *engineObject) Reset() *dbus.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.handler.Teardown()
	}
	return nil
}

// Destroy tears down the input context and its session.
func (o *engineObject) Destroy() *dbus.Error {
	o.shutdown()
	o.svc.removeEngine(o.path)
	return nil
}

// SetCapabilities informs about client capabilities.
func (o *engineObject) SetCapabilities(caps uint32) *dbus.Error {
	return nil
}

// SetCursorLocation informs about the caret rectangle, used by the
// daemon for popup placement.
func (o *engineObject) SetCursorLocation(x, y, w, h int32) *dbus.Error {
	return nil
}

// SetContentType informs about the type of content being edited.
func (o *engineObject) SetContentType(purpose, hints uint32) *dbus.Error {
	return nil
}

// SetSurroundingText provides context around the cursor.
func (o *engineObject) SetSurroundingText(text dbus.Variant, cursorPos, anchorPos uint32) *dbus.Error {
	return nil
}

// PageUp handles page up in the candidate list.
func (o *engineObject) PageUp() *dbus.Error {
	return nil
}

// PageDown handles page down in the candidate list.
func (o *engineObject) PageDown() *dbus.Error {
	return nil
}

// CursorUp moves the candidate cursor up, same as the Up key.
func (o *engineObject) CursorUp() *dbus.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.handler.ProcessKey(compose.KeyUp, 0, 0)
	}
	return nil
}

// CursorDown moves the candidate cursor down, same as the Down key.
func (o *engineObject) CursorDown() *dbus.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.handler.ProcessKey(compose.KeyDown, 0, 0)
	}
	return nil
}

// PropertyActivate handles property activations from the panel.
func (o *engineObject) PropertyActivate(propName string, state uint32) *dbus.Error {
	return nil
}

func (o *engineObject) applyPolicy(maxCandidates int, tabCommits bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ps, ok := o.handler.(policySetter); ok && !o.closed {
		ps.SetPolicy(maxCandidates, tabCommits)
	}
}

// shutdown cancels composition and closes the session exactly once.
func (o *engineObject) shutdown() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.handler.Teardown()
	o.mu.Unlock()

	o.svc.opts.Lifecycle.SessionEnd()
	o.log.Info("input context closed")
}
