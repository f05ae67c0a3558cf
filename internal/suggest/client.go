package suggest

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// Frame limit for daemon responses.
const maxFrameSize = 1 << 20

// DefaultQueryTimeout bounds a single daemon round trip. The host
// protocol specifies no timeout, but a hung daemon should degrade to
// "no candidates" rather than freeze the input context forever.
const DefaultQueryTimeout = 2 * time.Second

// Client talks to an external suggestion daemon over a Unix domain
// socket using length-prefixed JSON frames. Transport failures mark the
// connection dead and surface as errors that the composition layer
// degrades to an empty candidate list; the next query reconnects.
type Client struct {
	mu        sync.Mutex
	path      string
	timeout   time.Duration
	conn      net.Conn
	connected bool
}

type daemonRequest struct {
	Type     string `json:"type"`
	Prefix   string `json:"prefix,omitempty"`
	Original string `json:"original,omitempty"`
	Chosen   string `json:"chosen,omitempty"`
}

type daemonResponse struct {
	Candidates json.RawMessage `json:"candidates"`
}

// NewClient creates a Client for the daemon socket at path. No
// connection is attempted until Init.
func NewClient(path string) *Client {
	return &Client{path: path, timeout: DefaultQueryTimeout}
}

// Init implements Backend by establishing the daemon connection.
func (c *Client) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

// Destroy implements Backend by closing the daemon connection.
func (c *Client) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// GetSuggestions implements Backend with a suggest round trip.
func (c *Client) GetSuggestions(prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := c.roundTripLocked(daemonRequest{Type: "suggest", Prefix: prefix})
	if err != nil {
		return nil, err
	}

	var resp daemonResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		// Malformed response, not a transport fault: no candidates.
		return nil, nil
	}
	return DecodeCandidates(resp.Candidates), nil
}

// ConfirmWord implements Backend with a one-way confirm frame.
func (c *Client) ConfirmWord(original, chosen string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnectedLocked(); err != nil {
		return err
	}
	return c.writeFrameLocked(daemonRequest{Type: "confirm", Original: original, Chosen: chosen})
}

func (c *Client) connectLocked() error {
	if c.connected {
		return nil
	}

	conn, err := net.DialTimeout("unix", c.path, c.timeout)
	if err != nil {
		return fmt.Errorf("connect suggestion daemon at %s: %w", c.path, err)
	}

	c.conn = conn
	c.connected = true
	return nil
}

func (c *Client) ensureConnectedLocked() error {
	if c.connected {
		return nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return c.connectLocked()
}

func (c *Client) roundTripLocked(req daemonRequest) ([]byte, error) {
	if err := c.ensureConnectedLocked(); err != nil {
		return nil, err
	}
	if err := c.writeFrameLocked(req); err != nil {
		return nil, err
	}
	return c.readFrameLocked()
}

func (c *Client) writeFrameLocked(req daemonRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if c.timeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := c.conn.Write(lenBuf[:]); err != nil {
		c.connected = false
		return err
	}
	if _, err := c.conn.Write(data); err != nil {
		c.connected = false
		return err
	}
	return nil
}

func (c *Client) readFrameLocked() ([]byte, error) {
	if c.timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(c.conn, lenBuf[:]); err != nil {
		c.connected = false
		return nil, err
	}

	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > maxFrameSize {
		c.connected = false
		return nil, errors.New("daemon frame too large")
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(c.conn, data); err != nil {
		c.connected = false
		return nil, err
	}
	return data, nil
}
