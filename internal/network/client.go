package network

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/amalg/go-robots/internal/game"
)

// Client plays a remote game: it sends actions and receives state updates.
type Client struct {
	conn      net.Conn
	sessionID string
	config    game.Config
	stateCh   chan game.Snapshot
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex // Serializes frames on conn
	mu        sync.Mutex // Protects lastErr
	lastErr   string
}

// NewClient connects to the server and starts a game. A nil cfg asks for
// the server's defaults.
func NewClient(addr, name string, cfg *game.Config) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return newClient(conn, name, cfg)
}

// newClient runs the join handshake on an open connection.
func newClient(conn net.Conn, name string, cfg *game.Config) (*Client, error) {
	c := &Client{
		conn:    conn,
		stateCh: make(chan game.Snapshot, 10),
		done:    make(chan struct{}),
	}

	if err := Encode(conn, MsgJoin, JoinMsg{Name: name, Config: cfg}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send join: %w", err)
	}

	env, err := Decode(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}

	if env.Type == MsgError {
		var errMsg ErrorMsg
		DecodePayload(env, &errMsg)
		conn.Close()
		return nil, fmt.Errorf("server error: %s", errMsg.Message)
	}

	if env.Type != MsgWelcome {
		conn.Close()
		return nil, fmt.Errorf("expected welcome, got %s", env.Type)
	}

	var welcome WelcomeMsg
	if err := DecodePayload(env, &welcome); err != nil {
		conn.Close()
		return nil, fmt.Errorf("decode welcome: %w", err)
	}

	c.sessionID = welcome.SessionID
	c.config = welcome.Config

	go c.receiveLoop()

	return c, nil
}

// SessionID returns the server-assigned session ID.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Config returns the game configuration the server is using.
func (c *Client) Config() game.Config {
	return c.config
}

// States returns a channel that yields state updates. It is closed when
// the connection ends.
func (c *Client) States() <-chan game.Snapshot {
	return c.stateCh
}

// Act sends one turn to the server.
func (c *Client) Act(a game.Action) error {
	select {
	case <-c.done:
		return errors.New("client closed")
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return Encode(c.conn, MsgAction, NewActionMsg(a))
}

// LastError returns the most recent error message sent by the server.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close disconnects from the server.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *Client) receiveLoop() {
	defer close(c.stateCh)

	for {
		env, err := Decode(c.conn)
		if err != nil {
			return
		}

		switch env.Type {
		case MsgState:
			var stateMsg StateMsg
			if err := DecodePayload(env, &stateMsg); err != nil {
				continue
			}
			// Non-blocking send to state channel
			select {
			case c.stateCh <- stateMsg.State:
			default:
				// Drop old state if consumer is slow — latest state matters most
				select {
				case <-c.stateCh:
				default:
				}
				c.stateCh <- stateMsg.State
			}
		case MsgError:
			var errMsg ErrorMsg
			if err := DecodePayload(env, &errMsg); err != nil {
				continue
			}
			c.mu.Lock()
			c.lastErr = errMsg.Message
			c.mu.Unlock()
		}
	}
}
