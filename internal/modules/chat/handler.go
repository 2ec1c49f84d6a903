package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/backend"
	"glowbook/internal/domain"
	"glowbook/internal/middleware"
	"glowbook/internal/pkg/response"
	"glowbook/internal/repository"
)

const beauticianListLimit = 50

type SendMessageRequest struct {
	Content string `json:"content" form:"content"`
}

type ConversationView struct {
	Partner  *domain.Profile `json:"partner"`
	Messages []Entry         `json:"messages"`
}

type MessagesView struct {
	Conversations []domain.Profile `json:"conversations"`
}

// Handler serves the chat and messages screens.
type Handler struct {
	client backend.Client
	log    *zap.Logger
}

func NewHandler(client backend.Client, log *zap.Logger) *Handler {
	return &Handler{client: client, log: log}
}

// RegisterRoutes mounts the conversation screens; rg must be authenticated.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/chat/:userId", h.Conversation)
	rg.POST("/chat/:userId/messages", h.SendMessage)
}

// RegisterCustomerRoutes mounts the messages list; rg must be customer-only.
func (h *Handler) RegisterCustomerRoutes(rg gin.IRoutes) {
	rg.GET("/messages", h.Messages)
}

func (h *Handler) Conversation(c *gin.Context) {
	me, other, ok := h.pair(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	partner, err := h.client.Profiles().GetByID(ctx, other)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.fail(c, "load chat partner", err)
		return
	}
	history, err := LoadHistory(ctx, h.client.Messages(), me, other)
	if err != nil {
		h.fail(c, "load chat history", err)
		return
	}

	response.Success(c, http.StatusOK, ConversationView{Partner: partner, Messages: history})
}

func (h *Handler) SendMessage(c *gin.Context) {
	me, other, ok := h.pair(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	bridge := NewBridge(me, other, h.client.Messages(), h.client.Realtime(), h.log)
	entry, sent := bridge.Send(c.Request.Context(), req.Content)
	if !sent {
		response.Success(c, http.StatusOK, gin.H{"sent": false})
		return
	}
	if entry.Status == StatusFailed {
		response.RequestFailed(c)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

// Messages lists conversation partners: everyone with history first, then
// beauticians the user has not written to yet.
func (h *Handler) Messages(c *gin.Context) {
	ctx := c.Request.Context()
	me := middleware.CurrentSession(c).UserID()

	partnerIDs, err := h.client.Messages().Partners(ctx, me)
	if err != nil {
		h.fail(c, "load partners", err)
		return
	}
	withHistory, err := h.client.Profiles().ListByIDs(ctx, partnerIDs)
	if err != nil {
		h.fail(c, "load partner profiles", err)
		return
	}
	beauticians, err := h.client.Profiles().ListByRole(ctx, domain.RoleBeautician, beauticianListLimit)
	if err != nil {
		h.fail(c, "load beauticians", err)
		return
	}

	seen := map[string]bool{me: true}
	out := make([]domain.Profile, 0, len(withHistory)+len(beauticians))
	for _, group := range [][]domain.Profile{withHistory, beauticians} {
		for _, p := range group {
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, p)
			}
		}
	}

	response.Success(c, http.StatusOK, MessagesView{Conversations: out})
}

func (h *Handler) pair(c *gin.Context) (me, other string, ok bool) {
	me = middleware.CurrentSession(c).UserID()
	other = c.Param("userId")
	if other == "" || other == me {
		response.Error(c, http.StatusBadRequest, "INVALID_PARTNER", "Choose someone else to chat with")
		return "", "", false
	}
	return me, other, true
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	h.log.Error(action+" failed", zap.String("path", c.FullPath()), zap.Error(err))
	response.RequestFailed(c)
}
