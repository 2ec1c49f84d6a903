package chat

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"glowbook/internal/backend"
	"glowbook/internal/middleware"
	"glowbook/internal/pkg/response"
	"glowbook/internal/session"
)

// WSHandler serves the chat socket and the session socket.
type WSHandler struct {
	client   backend.Client
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWSHandler accepts upgrades from the given origins. Requests without an
// Origin header (native clients) are always accepted.
func NewWSHandler(client backend.Client, origins []string, log *zap.Logger) *WSHandler {
	return &WSHandler{
		client: client,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(origins, origin)
			},
		},
		log: log,
	}
}

// Chat opens the conversation with :userId.
//
// Endpoint: GET /ws/chat/:userId?access_token=...
func (h *WSHandler) Chat(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	me, other := sess.UserID(), c.Param("userId")
	if other == "" || other == me {
		response.Error(c, http.StatusBadRequest, "INVALID_PARTNER", "Choose someone else to chat with")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	ctx := c.Request.Context()
	sock := newSocket(conn, h.log)
	go sock.writePump()
	defer sock.close()

	stop := h.watchSession(ctx, sock, sess)
	defer stop()

	bridge := NewBridge(me, other, h.client.Messages(), h.client.Realtime(), h.log)
	bridge.OnUpdate(func(u Update) {
		e := u.Entry
		kind := FrameMessage
		if u.Kind == UpdateStatus {
			kind = FrameStatus
		}
		sock.push(frame{Type: kind, Entry: &e})
	})
	if err := bridge.Open(ctx); err != nil {
		h.log.Error("open chat failed", zap.String("user_id", me), zap.String("partner_id", other), zap.Error(err))
		sock.push(frame{Type: FrameError, Error: "Could not load the conversation"})
		return
	}
	defer bridge.Close()

	sock.push(frame{Type: FrameSnapshot, Entries: bridge.Entries()})
	h.log.Info("chat opened", zap.String("user_id", me), zap.String("partner_id", other))

	sock.readPump(func(f clientFrame) {
		switch f.Type {
		case "send":
			bridge.Send(ctx, f.Content)
		case "ping":
			sock.push(frame{Type: FramePong})
		default:
			sock.push(frame{Type: FrameError, Error: "unknown frame type"})
		}
	})
}

// Realtime pushes navigate frames when the account signs in or out elsewhere.
//
// Endpoint: GET /ws/realtime?access_token=...
func (h *WSHandler) Realtime(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	sock := newSocket(conn, h.log)
	go sock.writePump()
	defer sock.close()

	stop := h.watchSession(c.Request.Context(), sock, sess)
	defer stop()

	sock.readPump(func(f clientFrame) {
		if f.Type == "ping" {
			sock.push(frame{Type: FramePong})
		}
	})
}

// watchSession keeps a session store for the connection, fed by the
// user's auth changes, and turns its navigation into frames.
func (h *WSHandler) watchSession(ctx context.Context, sock *socket, sess *session.Session) (stop func()) {
	store := session.NewStore()
	store.Init(ctx, func(context.Context) (*session.Session, error) { return sess, nil })

	unsubscribe := store.Subscribe(session.NavigationEffect(session.NavigatorFunc(func(path string) {
		sock.push(frame{Type: FrameNavigate, Path: path})
	})))
	detach := store.Attach(h.client.Auth().Feed(sess.UserID()))

	return func() {
		detach()
		unsubscribe()
	}
}
