package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/middleware"
	"glowbook/internal/modules/auth"
	"glowbook/internal/pkg/response"
	"glowbook/internal/session"
)

type Handler struct {
	service  *Service
	sessions middleware.SessionProvider
	cookies  auth.Cookies
	log      *zap.Logger
}

func NewHandler(service *Service, sessions middleware.SessionProvider, cookies auth.Cookies, log *zap.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, cookies: cookies, log: log}
}

// RegisterPublicRoutes registers routes that work with or without a session.
func (h *Handler) RegisterPublicRoutes(rg gin.IRoutes) {
	rg.POST("/logout", h.Logout)
}

func (h *Handler) RegisterAuthenticatedRoutes(rg gin.IRoutes) {
	rg.GET("/complete-profile", h.CompleteForm)
	rg.POST("/complete-profile", h.Complete)
	rg.POST("/profile/avatar", h.UploadAvatar)
	rg.POST("/account/delete", h.DeleteAccount)
}

func (h *Handler) RegisterCustomerRoutes(rg gin.IRoutes) {
	rg.GET("/profile", h.Settings)
	rg.POST("/profile", h.Update)
}

func (h *Handler) RegisterBeauticianRoutes(rg gin.IRoutes) {
	rg.GET("/beautician/profile", h.Settings)
	rg.POST("/beautician/profile", h.Update)
}

func (h *Handler) CompleteForm(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.CompleteForm(middleware.CurrentSession(c)))
}

func (h *Handler) Complete(c *gin.Context) {
	var req CompleteProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	sess, err := h.service.Complete(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		h.writeError(c, "complete profile", err)
		return
	}
	h.cookies.Set(c, sess)
	response.Navigate(c, http.StatusOK, session.DashboardPath(sess.Role()))
}

func (h *Handler) Settings(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	p, err := h.service.Get(c.Request.Context(), sess.UserID())
	if err != nil {
		h.writeError(c, "load profile", err)
		return
	}
	response.Success(c, http.StatusOK, SettingsView{Email: sess.User.Email, Profile: p})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	sess := middleware.CurrentSession(c)
	p, err := h.service.Update(c.Request.Context(), sess.UserID(), sess.Role(), req)
	if err != nil {
		h.writeError(c, "update profile", err)
		return
	}
	response.Success(c, http.StatusOK, SettingsView{Email: sess.User.Email, Profile: p})
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "Avatar file is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		h.writeError(c, "open avatar", err)
		return
	}
	defer src.Close()

	url, err := h.service.UploadAvatar(c.Request.Context(), middleware.CurrentSession(c).UserID(),
		file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		h.writeError(c, "upload avatar", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), h.sessions.Session(c)); err != nil {
		h.log.Warn("sign out failed", zap.Error(err))
	}
	h.cookies.Clear(c)
	response.Navigate(c, http.StatusOK, session.WelcomePath)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		h.writeError(c, "delete account", err)
		return
	}
	h.cookies.Clear(c)
	response.Navigate(c, http.StatusOK, session.WelcomePath)
}

func (h *Handler) writeError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidRole), errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidFormat):
		response.ValidationFailed(c, err)
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	default:
		h.log.Error(action+" failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.RequestFailed(c)
	}
}
