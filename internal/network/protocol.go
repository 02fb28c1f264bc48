package network

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/amalg/go-robots/internal/arena"
	"github.com/amalg/go-robots/internal/game"
)

// MsgType identifies the type of network message.
type MsgType string

const (
	MsgJoin    MsgType = "join"
	MsgWelcome MsgType = "welcome"
	MsgAction  MsgType = "action"
	MsgState   MsgType = "state"
	MsgError   MsgType = "error"
)

// maxFrame caps a single message body.
const maxFrame = 1 << 20

// Envelope wraps all messages with a type discriminator for deserialization.
type Envelope struct {
	Type    MsgType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// --- Client → Server Messages ---

// JoinMsg is sent by a client to start a game. A nil Config uses the
// server's defaults.
type JoinMsg struct {
	Name   string       `json:"name"`
	Config *game.Config `json:"config,omitempty"`
}

// ActionMsg is sent by a client to play one turn. Direction is a name
// such as "north" or "n" and is only read for moves.
type ActionMsg struct {
	ActionType game.ActionType `json:"action_type"`
	Direction  string          `json:"direction,omitempty"`
}

// NewActionMsg converts a game action to its wire form.
func NewActionMsg(a game.Action) ActionMsg {
	msg := ActionMsg{ActionType: a.Type}
	if a.Type == game.ActionMove {
		msg.Direction = a.Dir.String()
	}
	return msg
}

// Action converts the message back to a game action.
func (m ActionMsg) Action() (game.Action, error) {
	if m.ActionType != game.ActionMove {
		return game.Action{Type: m.ActionType}, nil
	}
	dir, err := arena.ParseDirection(m.Direction)
	if err != nil {
		return game.Action{}, err
	}
	return game.Move(dir), nil
}

// --- Server → Client Messages ---

// WelcomeMsg is sent to a client after its session is created.
type WelcomeMsg struct {
	SessionID string      `json:"session_id"`
	Config    game.Config `json:"config"`
}

// StateMsg carries the session state, plus the turn result when it answers
// an action.
type StateMsg struct {
	State  game.Snapshot    `json:"state"`
	Result *game.TurnResult `json:"result,omitempty"`
}

// ErrorMsg notifies a client of an error.
type ErrorMsg struct {
	Message string `json:"message"`
}

// Encode serializes a message and writes it to the writer.
// Format: [4-byte big-endian length][JSON body]
func Encode(w io.Writer, msgType MsgType, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	env := Envelope{
		Type:    msgType,
		Payload: json.RawMessage(payloadBytes),
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(body) > maxFrame {
		return fmt.Errorf("message too large: %d bytes", len(body))
	}

	// Header and body go out in one write so concurrent framing on a
	// shared conn cannot interleave.
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// Decode reads a length-prefixed JSON message from the reader.
func Decode(r io.Reader) (*Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}

	if length > maxFrame {
		return nil, fmt.Errorf("message too large: %d bytes", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	return &env, nil
}

// DecodePayload unmarshals the payload from an envelope into the target struct.
func DecodePayload(env *Envelope, target interface{}) error {
	if err := json.Unmarshal(env.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return nil
}
