package suggest

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDaemon is a minimal suggestion daemon speaking the framed JSON
// protocol over a Unix socket.
type fakeDaemon struct {
	ln       net.Listener
	payloads map[string]string // prefix -> raw candidates JSON
	confirms chan daemonRequest
}

func startFakeDaemon(t *testing.T) *fakeDaemon {
	t.Helper()

	path := filepath.Join(t.TempDir(), "suggestd.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)

	d := &fakeDaemon{
		ln:       ln,
		payloads: make(map[string]string),
		confirms: make(chan daemonRequest, 16),
	}
	t.Cleanup(func() { ln.Close() })

	go d.serve()
	return d
}

func (d *fakeDaemon) path() string {
	return d.ln.Addr().String()
}

func (d *fakeDaemon) serve() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *fakeDaemon) handle(conn net.Conn) {
	defer conn.Close()
	for {
		var lenBuf [4]byte
		if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
			return
		}
		data := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
		if _, err := io.ReadFull(conn, data); err != nil {
			return
		}

		var req daemonRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}

		switch req.Type {
		case "suggest":
			payload, ok := d.payloads[req.Prefix]
			if !ok {
				payload = `[]`
			}
			resp := []byte(`{"candidates":` + payload + `}`)
			binary.BigEndian.PutUint32(lenBuf[:], uint32(len(resp)))
			if _, err := conn.Write(lenBuf[:]); err != nil {
				return
			}
			if _, err := conn.Write(resp); err != nil {
				return
			}
		case "confirm":
			d.confirms <- req
		}
	}
}

func TestClientSuggestRoundTrip(t *testing.T) {
	daemon := startFakeDaemon(t)
	daemon.payloads["kam"] = `["काम","कम"]`

	c := NewClient(daemon.path())
	require.NoError(t, c.Init())
	defer c.Destroy()

	got, err := c.GetSuggestions("kam")
	require.NoError(t, err)
	assert.Equal(t, []string{"काम", "कम"}, got)

	got, err = c.GetSuggestions("zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClientSkipsNonStringCandidates(t *testing.T) {
	daemon := startFakeDaemon(t)
	daemon.payloads["k"] = `["क",17,null,"का"]`

	c := NewClient(daemon.path())
	require.NoError(t, c.Init())
	defer c.Destroy()

	got, err := c.GetSuggestions("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"क", "का"}, got)
}

func TestClientMalformedResponseYieldsNoCandidates(t *testing.T) {
	daemon := startFakeDaemon(t)
	daemon.payloads["k"] = `"not-a-list"`

	c := NewClient(daemon.path())
	require.NoError(t, c.Init())
	defer c.Destroy()

	got, err := c.GetSuggestions("k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClientConfirmWord(t *testing.T) {
	daemon := startFakeDaemon(t)

	c := NewClient(daemon.path())
	require.NoError(t, c.Init())
	defer c.Destroy()

	require.NoError(t, c.ConfirmWord("kam", "काम"))

	req := <-daemon.confirms
	assert.Equal(t, "kam", req.Original)
	assert.Equal(t, "काम", req.Chosen)
}

func TestClientDaemonUnavailable(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))

	assert.Error(t, c.Init())

	// Queries keep failing cleanly; the composition layer degrades to
	// an empty candidate list.
	_, err := c.GetSuggestions("ka")
	assert.Error(t, err)
}

func TestClientReconnectsAfterDaemonRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestd.sock")

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)

	c := NewClient(path)
	require.NoError(t, c.Init())

	// Daemon goes away mid-session.
	ln.Close()
	_, err = c.GetSuggestions("ka")
	assert.Error(t, err)

	// Daemon comes back at the same path; the next query reconnects.
	ln2, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln2.Close()
	d := &fakeDaemon{ln: ln2, payloads: map[string]string{"ka": `["का"]`}}
	go d.serve()

	got, err := c.GetSuggestions("ka")
	require.NoError(t, err)
	assert.Equal(t, []string{"का"}, got)
	c.Destroy()
}
