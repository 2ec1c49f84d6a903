package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/middleware"
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
	rg.GET("/book/:serviceId", h.BookForm)
	rg.POST("/book/:serviceId", h.Book)
	rg.GET("/bookings", h.List)
	rg.GET("/booking/:id", h.Detail)
	rg.POST("/booking/:id/cancel", h.Cancel)
	rg.GET("/booking-confirmation/:id", h.Detail)
}

func (h *Handler) RegisterBeauticianRoutes(rg gin.IRoutes) {
	rg.GET("/beautician/calendar", h.Calendar)
	rg.POST("/beautician/calendar/:id/status", h.SetStatus)
}

func (h *Handler) BookForm(c *gin.Context) {
	serviceID, ok := parseID(c, "serviceId")
	if !ok {
		return
	}
	view, err := h.service.Prepare(c.Request.Context(), serviceID)
	if err != nil {
		h.writeError(c, "load booking form", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Book(c *gin.Context) {
	serviceID, ok := parseID(c, "serviceId")
	if !ok {
		return
	}
	var req CreateBookingRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.CurrentSession(c).UserID(), serviceID, req)
	if err != nil {
		h.writeError(c, "create booking", err)
		return
	}
	response.Navigate(c, http.StatusCreated, "/payment/"+strconv.FormatInt(b.ID, 10))
}

func (h *Handler) List(c *gin.Context) {
	view, err := h.service.List(c.Request.Context(), middleware.CurrentSession(c).UserID(), c.Query("tab"))
	if err != nil {
		h.writeError(c, "list bookings", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), middleware.CurrentSession(c).UserID(), id)
	if err != nil {
		h.writeError(c, "load booking", err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Cancel(c.Request.Context(), middleware.CurrentSession(c).UserID(), id); err != nil {
		h.writeError(c, "cancel booking", err)
		return
	}
	response.Navigate(c, http.StatusOK, "/bookings?tab="+TabCancelled)
}

func (h *Handler) Calendar(c *gin.Context) {
	view, err := h.service.Calendar(c.Request.Context(), middleware.CurrentSession(c).UserID(), c.Query("date"))
	if err != nil {
		h.writeError(c, "load calendar", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.service.SetStatus(c.Request.Context(), middleware.CurrentSession(c).UserID(), id, req.Status); err != nil {
		h.writeError(c, "update booking status", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) writeError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidStatus):
		response.ValidationFailed(c, err)
	case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrServiceInactive), errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	default:
		h.log.Error(action+" failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.RequestFailed(c)
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
