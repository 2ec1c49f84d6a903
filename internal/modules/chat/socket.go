package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
	sendBuffer = 64
)

// Frame types written to the client.
const (
	FrameSnapshot = "snapshot"
	FrameMessage  = "message"
	FrameStatus   = "status"
	FrameNavigate = "navigate"
	FrameError    = "error"
	FramePong     = "pong"
)

type frame struct {
	Type    string  `json:"type"`
	Entries []Entry `json:"entries,omitempty"`
	Entry   *Entry  `json:"entry,omitempty"`
	Path    string  `json:"path,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type clientFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// socket is one websocket client with a buffered write pump.
type socket struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
	log  *zap.Logger
}

func newSocket(conn *websocket.Conn, log *zap.Logger) *socket {
	return &socket{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		log:  log,
	}
}

// push queues a frame. Frames for a closed or stalled client are dropped.
func (s *socket) push(f frame) {
	data, err := json.Marshal(f)
	if err != nil {
		s.log.Error("encode frame failed", zap.String("type", f.Type), zap.Error(err))
		return
	}
	select {
	case <-s.done:
	case s.send <- data:
	default:
		s.log.Warn("websocket client too slow, frame dropped", zap.String("type", f.Type))
	}
}

func (s *socket) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *socket) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			s.flush()
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (s *socket) flush() {
	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

// readPump hands every client frame to handle until the client goes away.
func (s *socket) readPump(handle func(clientFrame)) {
	defer s.close()

	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		var f clientFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			s.push(frame{Type: FrameError, Error: "malformed frame"})
			continue
		}
		handle(f)
	}
}
