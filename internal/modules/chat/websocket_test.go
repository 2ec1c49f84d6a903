package chat

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/backend/backendtest"
	"glowbook/internal/domain"
	"glowbook/internal/middleware"
)

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWSHandler_ChatRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := backendtest.New(t)
	alice := env.User(t, domain.RoleCustomer, "Alice")
	bob := env.User(t, domain.RoleBeautician, "Bob")

	r := gin.New()
	ws := NewWSHandler(env.Client, nil, zap.NewNop())
	r.GET("/ws/chat/:userId", middleware.Authenticated(&backendtest.Sessions{Current: alice}).Middleware(), ws.Chat)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat/" + bob.UserID()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	snap := readFrame(t, conn)
	assert.Equal(t, FrameSnapshot, snap.Type)
	assert.Empty(t, snap.Entries)

	require.NoError(t, conn.WriteJSON(clientFrame{Type: "send", Content: "hello"}))

	optimistic := readFrame(t, conn)
	require.Equal(t, FrameMessage, optimistic.Type)
	require.NotNil(t, optimistic.Entry)
	assert.Equal(t, StatusSent, optimistic.Entry.Status)
	assert.Zero(t, optimistic.Entry.ID)

	stamped := readFrame(t, conn)
	require.Equal(t, FrameStatus, stamped.Type)
	assert.NotZero(t, stamped.Entry.ID)
	assert.Equal(t, optimistic.Entry.TempID, stamped.Entry.TempID)

	require.NoError(t, conn.WriteJSON(clientFrame{Type: "ping"}))
	assert.Equal(t, FramePong, readFrame(t, conn).Type)
}
