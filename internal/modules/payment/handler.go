package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/middleware"
	"glowbook/internal/modules/booking"
	"glowbook/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterCustomerRoutes(rg gin.IRoutes) {
	rg.GET("/payment/:bookingId", h.Screen)
	rg.POST("/payment/:bookingId", h.Pay)
}

func (h *Handler) Screen(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	view, err := h.service.Screen(c.Request.Context(), middleware.CurrentSession(c).UserID(), id)
	if err != nil {
		h.writeError(c, "load payment", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Pay(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.service.Pay(c.Request.Context(), middleware.CurrentSession(c).UserID(), id); err != nil {
		h.writeError(c, "pay booking", err)
		return
	}
	response.Navigate(c, http.StatusOK, "/booking-confirmation/"+strconv.FormatInt(id, 10))
}

func (h *Handler) writeError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotPayable), errors.Is(err, ErrPaymentIncomplete), errors.Is(err, booking.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "PAYMENT_CONFLICT", err.Error())
	default:
		h.log.Error(action+" failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.RequestFailed(c)
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
