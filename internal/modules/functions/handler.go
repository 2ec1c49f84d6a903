package functions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/pkg/response"
	"glowbook/internal/session"
)

type invoker interface {
	Invoke(ctx context.Context, name string, sess *session.Session) (any, error)
}

type sessionSource interface {
	Session(c *gin.Context) *session.Session
}

// Handler exposes functions at POST /api/v1/functions/:name.
type Handler struct {
	fns      invoker
	sessions sessionSource
	log      *zap.Logger
}

func NewHandler(fns invoker, sessions sessionSource, log *zap.Logger) *Handler {
	return &Handler{fns: fns, sessions: sessions, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:name", h.Invoke)
}

func (h *Handler) Invoke(c *gin.Context) {
	out, err := h.fns.Invoke(c.Request.Context(), c.Param("name"), h.sessions.Session(c))
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, out)
	case errors.Is(err, ErrUnknownFunction):
		response.Error(c, http.StatusNotFound, "FUNCTION_NOT_FOUND", err.Error())
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	default:
		h.log.Error("function failed", zap.String("name", c.Param("name")), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "FUNCTION_FAILED", "Function invocation failed")
	}
}
