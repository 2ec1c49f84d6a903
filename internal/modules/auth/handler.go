package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/pkg/response"
	"glowbook/internal/session"
)

// Handler serves the auth API under /api/v1/auth.
type Handler struct {
	client  Client
	cookies Cookies
	log     *zap.Logger
}

func NewHandler(client Client, cookies Cookies, log *zap.Logger) *Handler {
	return &Handler{client: client, cookies: cookies, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.GetSession)
	rg.POST("/signup", h.SignUp)
	rg.POST("/token", h.Token)
	rg.GET("/authorize", h.Authorize)
	rg.GET("/callback/:provider", h.Callback)
	rg.POST("/logout", h.Logout)
	rg.PUT("/user", h.UpdateUser)
	rg.POST("/recover", h.Recover)
	rg.POST("/verify", h.Verify)
	rg.POST("/resend", h.Resend)
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.client.GetSession(c.Request.Context(), TokenFromRequest(c))
	if err != nil {
		// A bad token reads as "no session".
		sess = nil
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.client.SignUp(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "SIGNUP_FAILED")
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Token(c *gin.Context) {
	var (
		sess *session.Session
		err  error
	)
	switch c.Query("grant_type") {
	case "password":
		var req PasswordGrantRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		sess, err = h.client.SignInWithPassword(c.Request.Context(), req)
	case "refresh_token":
		var req RefreshGrantRequest
		_ = c.ShouldBindJSON(&req)
		if req.RefreshToken == "" {
			req.RefreshToken, _ = c.Cookie(RefreshCookie)
		}
		sess, err = h.client.RefreshSession(c.Request.Context(), req.RefreshToken)
	default:
		response.Error(c, http.StatusBadRequest, "UNSUPPORTED_GRANT", "grant_type must be password or refresh_token")
		return
	}
	if err != nil {
		h.writeError(c, err, "TOKEN_FAILED")
		return
	}

	h.cookies.Set(c, sess)
	response.Success(c, http.StatusOK, sess)
}

func (h *Handler) Authorize(c *gin.Context) {
	url, err := h.client.SignInWithOAuth(c.Query("provider"))
	if err != nil {
		h.writeError(c, err, "OAUTH_FAILED")
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *Handler) Callback(c *gin.Context) {
	sess, err := h.client.OAuthCallback(c.Request.Context(), c.Param("provider"), c.Query("code"), c.Query("state"))
	if err != nil {
		h.log.Warn("oauth callback failed", zap.String("provider", c.Param("provider")), zap.Error(err))
		c.Redirect(http.StatusFound, "/login?error=oauth")
		return
	}

	h.cookies.Set(c, sess)
	if sess.Role() == "" {
		c.Redirect(http.StatusFound, "/complete-profile")
		return
	}
	c.Redirect(http.StatusFound, session.DashboardPath(sess.Role()))
}

func (h *Handler) Logout(c *gin.Context) {
	sess, _ := h.client.GetSession(c.Request.Context(), TokenFromRequest(c))
	if sess.Valid() {
		if err := h.client.SignOut(c.Request.Context(), sess.UserID()); err != nil {
			h.writeError(c, err, "LOGOUT_FAILED")
			return
		}
	}
	h.cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"message": "signed out"})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	sess, err := h.client.GetSession(c.Request.Context(), TokenFromRequest(c))
	if err != nil || !sess.Valid() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}

	var attrs UserAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	updated, err := h.client.UpdateUser(c.Request.Context(), sess.UserID(), attrs)
	if err != nil {
		h.writeError(c, err, "UPDATE_FAILED")
		return
	}
	h.cookies.Set(c, updated)
	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) Recover(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.client.ResetPasswordForEmail(c.Request.Context(), req.Email); err != nil {
		h.writeError(c, err, "RECOVER_FAILED")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "accepted"})
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	sess, err := h.client.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "VERIFY_FAILED")
		return
	}
	h.cookies.Set(c, sess)
	response.Success(c, http.StatusOK, sess)
}

func (h *Handler) Resend(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.client.ResendSignupCode(c.Request.Context(), req.Email); err != nil {
		h.writeError(c, err, "RESEND_FAILED")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "accepted"})
}

// StatusFor maps auth errors to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"
	case errors.Is(err, ErrEmailNotConfirmed):
		return http.StatusForbidden, "EMAIL_NOT_CONFIRMED"
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest, "INVALID_USER_TYPE"
	case errors.Is(err, ErrInvalidVerificationCodeFormat), errors.Is(err, ErrInvalidVerificationCode):
		return http.StatusBadRequest, "INVALID_CODE"
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests, "RATE_LIMITED"
	case errors.Is(err, ErrProviderNotSupported):
		return http.StatusBadRequest, "PROVIDER_NOT_SUPPORTED"
	case errors.Is(err, ErrInvalidOAuthState):
		return http.StatusBadRequest, "INVALID_STATE"
	}
	return http.StatusInternalServerError, ""
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	status, code := StatusFor(err)
	if code == "" {
		code = fallback
		h.log.Error("auth request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, status, code, "Request failed")
		return
	}
	response.Error(c, status, code, err.Error())
}
