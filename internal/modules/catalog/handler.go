package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/middleware"
	"glowbook/internal/pkg/response"
)

const newServiceID = "new"

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterCustomerRoutes mounts the browsing screens.
func (h *Handler) RegisterCustomerRoutes(rg gin.IRoutes) {
	rg.GET("/search", h.Search)
	rg.GET("/service/:id", h.ServiceDetail)
	rg.GET("/beautician/:id", h.BeauticianProfile)
}

// RegisterBeauticianRoutes mounts service management.
func (h *Handler) RegisterBeauticianRoutes(rg gin.IRoutes) {
	rg.GET("/beautician/services", h.OwnServices)
	rg.GET("/beautician/service/:id", h.ServiceForm)
	rg.POST("/beautician/service/:id", h.SaveService)
	rg.DELETE("/beautician/service/:id", h.DeleteService)
}

func (h *Handler) Search(c *gin.Context) {
	q, category := c.Query("q"), c.Query("category")
	results, err := h.service.Search(c.Request.Context(), q, category)
	if err != nil {
		h.fail(c, "search services", err)
		return
	}
	response.Success(c, http.StatusOK, SearchView{
		Query:      q,
		Category:   category,
		Categories: domain.ServiceCategories,
		Results:    results,
	})
}

func (h *Handler) ServiceDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "load service", err)
		return
	}
	response.Success(c, http.StatusOK, svc)
}

func (h *Handler) BeauticianProfile(c *gin.Context) {
	view, err := h.service.Beautician(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "load beautician", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) OwnServices(c *gin.Context) {
	services, err := h.service.OwnServices(c.Request.Context(), middleware.CurrentSession(c).UserID())
	if err != nil {
		h.fail(c, "list own services", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) ServiceForm(c *gin.Context) {
	view := ServiceFormView{Categories: domain.ServiceCategories}
	if c.Param("id") != newServiceID {
		id, ok := parseID(c)
		if !ok {
			return
		}
		svc, err := h.service.OwnService(c.Request.Context(), middleware.CurrentSession(c).UserID(), id)
		if err != nil {
			h.writeError(c, "load own service", err)
			return
		}
		view.Service = svc
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) SaveService(c *gin.Context) {
	var id int64
	if c.Param("id") != newServiceID {
		var ok bool
		if id, ok = parseID(c); !ok {
			return
		}
	}

	var req SaveServiceRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if _, err := h.service.SaveService(c.Request.Context(), middleware.CurrentSession(c).UserID(), id, req); err != nil {
		h.writeError(c, "save service", err)
		return
	}
	response.Navigate(c, http.StatusOK, "/beautician/services")
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteService(c.Request.Context(), middleware.CurrentSession(c).UserID(), id); err != nil {
		h.writeError(c, "delete service", err)
		return
	}
	response.Navigate(c, http.StatusOK, "/beautician/services")
}

func (h *Handler) writeError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
	case errors.Is(err, ErrBeauticianNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Beautician not found")
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidPrice):
		response.ValidationFailed(c, err)
	default:
		h.fail(c, action, err)
	}
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	h.log.Error(action+" failed", zap.String("path", c.FullPath()), zap.Error(err))
	response.RequestFailed(c)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
