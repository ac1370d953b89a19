package host

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labyrinth/server/internal/engine"
	"go.uber.org/zap"
)

// maxLineBytes caps one inbound line. Nothing a client legitimately sends
// comes close.
const maxLineBytes = 16 * 1024

// Request is one decoded client line.
type Request struct {
	DeviceID string `json:"device_id"`
	Action   string `json:"action"`
	Payload  string `json:"payload,omitempty"`
}

// Session is a single client connection. Network I/O runs in dedicated
// goroutines; the game is touched only from the session's run loop, under
// its registry slot lock.
type Session struct {
	ID   string
	conn net.Conn

	InQueue  chan Request // run loop reads decoded requests from here
	OutQueue chan []byte  // writeLoop reads encoded lines from here

	IP       string
	DeviceID string

	readTimeout  time.Duration
	writeTimeout time.Duration

	closeCh   chan struct{}
	closeOnce sync.Once

	log *zap.Logger
}

func NewSession(conn net.Conn, inSize, outSize int, readTimeout, writeTimeout time.Duration, log *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan Request, inSize),
		OutQueue:     make(chan []byte, outSize),
		IP:           conn.RemoteAddr().String(),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		closeCh:      make(chan struct{}),
		log:          log.With(zap.String("session", id)),
	}
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Close shuts the session down. Safe to call more than once and from any
// goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		s.conn.Close()
	})
}

// Closed reports whether the session has shut down.
func (s *Session) Closed() bool {
	select {
	case <-s.closeCh:
		return true
	default:
		return false
	}
}

// Send queues one encoded line for the writer. A client that cannot keep
// up with its own menu gets disconnected rather than blocking the game.
func (s *Session) Send(line []byte) {
	select {
	case s.OutQueue <- line:
	case <-s.closeCh:
	default:
		s.log.Warn("out queue full, dropping slow client")
		s.Close()
	}
}

// readLoop reads newline-delimited JSON requests and pushes them onto
// InQueue for the run loop.
func (s *Session) readLoop() {
	defer s.Close()

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 4096), maxLineBytes)
	for {
		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !s.Closed() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Debug("bad request line", zap.Error(err))
			continue
		}
		select {
		case s.InQueue <- req:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop drains OutQueue to the connection, one line per event.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case line := <-s.OutQueue:
			if s.writeTimeout > 0 {
				s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			}
			if _, err := s.conn.Write(append(line, '\n')); err != nil {
				if !s.Closed() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// flushEvents encodes and sends everything the game buffered for this
// action. An event that will not marshal is a bug; it is logged and the
// rest of the batch still goes out.
func (s *Session) flushEvents(events []engine.Event) {
	for _, ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			s.log.Error("encode event", zap.Error(err), zap.String("type", ev.Type))
			continue
		}
		s.Send(line)
	}
}
