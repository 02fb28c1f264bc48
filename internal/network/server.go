package network

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/amalg/go-robots/internal/game"
)

// Server hosts games over TCP. Every connection plays its own Session;
// arenas are never shared between clients.
type Server struct {
	addr     string
	defaults game.Config
	logger   *zap.Logger
	listener net.Listener
	clients  map[string]*clientConn
	mu       sync.RWMutex
	done     chan struct{}
	wg       sync.WaitGroup
}

// clientConn represents a connected client and the game it plays.
type clientConn struct {
	conn    net.Conn
	name    string
	session *game.Session
}

// NewServer creates a new game server. Clients that send no config of
// their own play with defaults.
func NewServer(addr string, defaults game.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:     addr,
		defaults: defaults,
		logger:   logger.Named("server"),
		clients:  make(map[string]*clientConn),
		done:     make(chan struct{}),
	}
}

// Start begins accepting connections.
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.logger.Info("listening", zap.String("addr", s.listener.Addr().String()))

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts down the server and disconnects every client.
func (s *Server) Stop() {
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.RLock()
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.mu.RUnlock()
	s.wg.Wait()
}

// SessionCount returns the number of games in progress.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logger.Warn("accept failed", zap.Error(err))
				continue
			}
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleClient(conn)
		}()
	}
}

func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()

	env, err := Decode(conn)
	if err != nil {
		s.logger.Warn("read join message", zap.Error(err))
		return
	}

	if env.Type != MsgJoin {
		s.logger.Warn("expected join message", zap.String("got", string(env.Type)))
		s.sendError(conn, "expected join message")
		return
	}

	var joinMsg JoinMsg
	if err := DecodePayload(env, &joinMsg); err != nil {
		s.logger.Warn("decode join message", zap.Error(err))
		return
	}

	cfg := s.defaults
	if joinMsg.Config != nil {
		cfg = *joinMsg.Config
	}

	session, err := game.NewSession(cfg, s.logger.With(zap.String("player", joinMsg.Name)))
	if err != nil {
		s.logger.Info("rejected join", zap.String("player", joinMsg.Name), zap.Error(err))
		s.sendError(conn, err.Error())
		return
	}

	id := session.ID.String()
	cc := &clientConn{
		conn:    conn,
		name:    joinMsg.Name,
		session: session,
	}
	s.mu.Lock()
	s.clients[id] = cc
	s.mu.Unlock()
	defer s.removeClient(id)

	s.logger.Info("player joined", zap.String("player", joinMsg.Name), zap.String("session", id))

	welcome := WelcomeMsg{
		SessionID: id,
		Config:    session.Config,
	}
	if err := Encode(conn, MsgWelcome, welcome); err != nil {
		s.logger.Warn("send welcome", zap.String("session", id), zap.Error(err))
		return
	}

	if err := Encode(conn, MsgState, StateMsg{State: session.Snapshot()}); err != nil {
		s.logger.Warn("send initial state", zap.String("session", id), zap.Error(err))
		return
	}

	// Read actions loop
	for {
		env, err := Decode(conn)
		if err != nil {
			s.logger.Info("player disconnected", zap.String("session", id), zap.Error(err))
			return
		}

		switch env.Type {
		case MsgAction:
			var actionMsg ActionMsg
			if err := DecodePayload(env, &actionMsg); err != nil {
				s.logger.Warn("invalid action", zap.String("session", id), zap.Error(err))
				s.sendError(conn, err.Error())
				continue
			}
			action, err := actionMsg.Action()
			if err != nil {
				s.logger.Warn("invalid action", zap.String("session", id), zap.Error(err))
				s.sendError(conn, err.Error())
				continue
			}
			if err := s.play(cc, action); err != nil {
				s.logger.Warn("send state", zap.String("session", id), zap.Error(err))
				return
			}
		default:
			s.logger.Warn("unknown message type", zap.String("session", id), zap.String("type", string(env.Type)))
			s.sendError(conn, fmt.Sprintf("unknown message type %q", env.Type))
		}
	}
}

// play applies one action and answers with the new state. Only write
// failures are returned; game errors go back to the client.
func (s *Server) play(cc *clientConn, action game.Action) error {
	res, err := cc.session.Step(action)
	if err != nil {
		if !errors.Is(err, game.ErrGameOver) && !errors.Is(err, game.ErrInvalidAction) {
			s.logger.Error("step failed", zap.String("session", cc.session.ID.String()), zap.Error(err))
		}
		return Encode(cc.conn, MsgError, ErrorMsg{Message: err.Error()})
	}
	return Encode(cc.conn, MsgState, StateMsg{State: cc.session.Snapshot(), Result: &res})
}

// sendError reports a rejected message to the client. Write failures are
// only logged; the read loop notices a dead connection.
func (s *Server) sendError(conn net.Conn, text string) {
	if err := Encode(conn, MsgError, ErrorMsg{Message: text}); err != nil {
		s.logger.Debug("send error message", zap.String("error_text", text), zap.Error(err))
	}
}

func (s *Server) removeClient(id string) {
	s.mu.Lock()
	if cc, ok := s.clients[id]; ok {
		cc.conn.Close()
		delete(s.clients, id)
	}
	s.mu.Unlock()
	s.logger.Info("session removed", zap.String("session", id))
}
