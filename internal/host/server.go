// Package host accepts TCP connections and drives one game per device over
// newline-delimited JSON: requests in, events out.
package host

import (
	"net"
	"sync"

	"github.com/labyrinth/server/internal/config"
	"github.com/labyrinth/server/internal/engine"
	"go.uber.org/zap"
)

// Server owns the listener and the device registry.
type Server struct {
	listener net.Listener
	cfg      config.NetworkConfig
	registry *Registry
	log      *zap.Logger

	closeCh chan struct{}
	wg      sync.WaitGroup
}

func NewServer(cfg config.NetworkConfig, registry *Registry, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.BindAddress)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		cfg:      cfg,
		registry: registry,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// AcceptLoop runs until Shutdown. Each connection gets its own session and
// run loop; nothing here blocks on a slow client.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		sess := NewSession(conn, s.cfg.InQueueSize, s.cfg.OutQueueSize,
			s.cfg.ReadTimeout, s.cfg.WriteTimeout, s.log)
		sess.Start()
		s.log.Info("client connected",
			zap.String("session", sess.ID),
			zap.String("ip", sess.IP),
		)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runSession(sess)
		}()
	}
}

// runSession binds the first request's device id to a game, replays the
// current screen, then feeds every following request through the game and
// flushes its events. It returns when the connection dies.
func (s *Server) runSession(sess *Session) {
	defer sess.Close()
	defer s.log.Info("client disconnected", zap.String("session", sess.ID))

	var slot *gameSlot
	for {
		var req Request
		select {
		case req = <-sess.InQueue:
		case <-sess.closeCh:
			return
		case <-s.closeCh:
			return
		}

		if slot == nil {
			if req.DeviceID == "" {
				s.log.Debug("request before device bind", zap.String("session", sess.ID))
				continue
			}
			var fresh bool
			slot, fresh = s.registry.Acquire(req.DeviceID)
			sess.DeviceID = req.DeviceID
			s.log.Info("device bound",
				zap.String("session", sess.ID),
				zap.String("device_id", req.DeviceID),
			)

			slot.mu.Lock()
			if fresh {
				slot.game.Start()
			} else {
				// Reconnect: the game keeps its phase, the client gets
				// its screen back.
				slot.game.Redisplay()
			}
			sess.flushEvents(slot.game.Flush())
			slot.mu.Unlock()
			continue
		}

		slot.mu.Lock()
		slot.game.HandleAction(engine.Action{Name: req.Action, Value: req.Payload})
		events := slot.game.Flush()
		slot.mu.Unlock()
		sess.flushEvents(events)
	}
}

// Shutdown stops accepting, closes the listener, and waits for session run
// loops to drain.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
	s.wg.Wait()
}
