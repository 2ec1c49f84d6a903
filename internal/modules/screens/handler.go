// Package screens serves the entry, home, notification and support screens.
package screens

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/middleware"
	"glowbook/internal/modules/auth"
	"glowbook/internal/pkg/response"
	"glowbook/internal/session"
)

const (
	LoginPath           = "/login"
	VerifyEmailPath     = "/verify-email"
	CompleteProfilePath = session.CompleteProfilePath
)

var faqs = []FAQ{
	{
		Question: "How do I book a service?",
		Answer:   "Browse beauticians or services, pick the service you want, choose a date and time, and confirm your appointment.",
	},
	{
		Question: "Can I reschedule or cancel an appointment?",
		Answer:   "You can cancel appointments from the My Bookings section. Cancellation policies may apply.",
	},
	{
		Question: "How do I contact my beautician?",
		Answer:   "Open the beautician's profile or your booking and start a chat from there.",
	},
	{
		Question: "What payment methods are accepted?",
		Answer:   "We accept major credit and debit cards through our secure payment gateway (Stripe).",
	},
}

type Deps struct {
	Auth         authFlows
	Cookies      auth.Cookies
	Featured     featuredSource
	Schedule     scheduleSource
	Notifier     *Notifier
	SupportEmail string
	Log          *zap.Logger
}

type Handler struct {
	deps Deps
	log  *zap.Logger
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps, log: deps.Log}
}

func (h *Handler) RegisterRoot(rg gin.IRoutes) {
	rg.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, session.WelcomePath) })
}

func (h *Handler) RegisterPublicOnlyRoutes(rg gin.IRoutes) {
	rg.GET("/welcome", h.Welcome)
	rg.GET("/login", h.LoginForm)
	rg.POST("/login", h.Login)
	rg.GET("/register", h.RegisterForm)
	rg.POST("/register", h.Register)
	rg.GET("/forgot-password", h.ForgotPasswordForm)
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.GET("/reset-password", h.ResetPasswordForm)
	rg.POST("/reset-password", h.ResetPassword)
}

// RegisterVerifyRoutes registers email verification. It runs before any
// session exists, so it must not sit behind a session guard.
func (h *Handler) RegisterVerifyRoutes(rg gin.IRoutes) {
	rg.GET("/verify-email", h.VerifyEmailForm)
	rg.POST("/verify-email", h.VerifyEmail)
	rg.POST("/verify-email/resend", h.ResendCode)
}

func (h *Handler) RegisterAuthenticatedRoutes(rg gin.IRoutes) {
	rg.GET("/support", h.Support)
	rg.GET("/notifications", h.Notifications)
}

func (h *Handler) RegisterCustomerRoutes(rg gin.IRoutes) {
	rg.GET("/dashboard", h.CustomerDashboard)
}

func (h *Handler) RegisterBeauticianRoutes(rg gin.IRoutes) {
	rg.GET("/beautician/dashboard", h.BeauticianDashboard)
}

func (h *Handler) Welcome(c *gin.Context) {
	response.Success(c, http.StatusOK, WelcomeView{
		Title:   "GlowBook",
		Tagline: "Book trusted beauty professionals near you.",
		Actions: []string{LoginPath, "/register"},
	})
}

func (h *Handler) LoginForm(c *gin.Context) {
	response.Success(c, http.StatusOK, EmailFormView{Email: c.Query("email")})
}

func (h *Handler) Login(c *gin.Context) {
	var req auth.PasswordGrantRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	sess, err := h.deps.Auth.SignInWithPassword(c.Request.Context(), req)
	if errors.Is(err, auth.ErrEmailNotConfirmed) {
		response.Navigate(c, http.StatusOK, verifyEmailPath(req.Email))
		return
	}
	if err != nil {
		h.writeAuthError(c, "sign in", err)
		return
	}
	h.deps.Cookies.Set(c, sess)
	response.Navigate(c, http.StatusOK, session.DashboardPath(sess.Role()))
}

func (h *Handler) RegisterForm(c *gin.Context) {
	response.Success(c, http.StatusOK, RegisterFormView{
		UserTypes: []domain.UserRole{domain.RoleCustomer, domain.RoleBeautician},
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if _, err := h.deps.Auth.SignUp(c.Request.Context(), req); err != nil {
		h.writeAuthError(c, "sign up", err)
		return
	}
	response.Navigate(c, http.StatusCreated, verifyEmailPath(req.Email))
}

func (h *Handler) ForgotPasswordForm(c *gin.Context) {
	response.Success(c, http.StatusOK, EmailFormView{Email: c.Query("email")})
}

// ForgotPassword answers the same way whether or not the email is known.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req auth.RecoverRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.deps.Auth.ResetPasswordForEmail(c.Request.Context(), req.Email); err != nil {
		h.writeAuthError(c, "request password reset", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "sent"})
}

func (h *Handler) ResetPasswordForm(c *gin.Context) {
	response.Success(c, http.StatusOK, EmailFormView{Email: c.Query("email"), Code: c.Query("code")})
}

// ResetPassword redeems the recovery code, sets the new password and ends
// every session so the user signs in again.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	ctx := c.Request.Context()

	sess, err := h.deps.Auth.VerifyOTP(ctx, auth.VerifyRequest{Email: req.Email, Token: req.Code, Type: domain.PurposeRecovery})
	if err != nil {
		h.writeAuthError(c, "verify recovery code", err)
		return
	}
	if _, err := h.deps.Auth.UpdateUser(ctx, sess.UserID(), auth.UserAttributes{Password: &req.Password}); err != nil {
		h.writeAuthError(c, "update password", err)
		return
	}
	if err := h.deps.Auth.SignOut(ctx, sess.UserID()); err != nil {
		h.log.Warn("sign out after password reset", zap.String("user_id", sess.UserID()), zap.Error(err))
	}
	h.deps.Cookies.Clear(c)
	response.Navigate(c, http.StatusOK, LoginPath)
}

func (h *Handler) VerifyEmailForm(c *gin.Context) {
	response.Success(c, http.StatusOK, EmailFormView{Email: c.Query("email")})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	sess, err := h.deps.Auth.VerifyOTP(c.Request.Context(), auth.VerifyRequest{Email: req.Email, Token: req.Code, Type: domain.PurposeSignup})
	if err != nil {
		h.writeAuthError(c, "verify email", err)
		return
	}
	h.deps.Cookies.Set(c, sess)
	response.Navigate(c, http.StatusOK, CompleteProfilePath)
}

func (h *Handler) ResendCode(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.deps.Auth.ResendSignupCode(c.Request.Context(), req.Email); err != nil {
		h.writeAuthError(c, "resend signup code", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "sent"})
}

func (h *Handler) CustomerDashboard(c *gin.Context) {
	view, err := h.deps.Featured.Featured(c.Request.Context())
	if err != nil {
		h.fail(c, "load dashboard", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) BeauticianDashboard(c *gin.Context) {
	view, err := h.deps.Schedule.Dashboard(c.Request.Context(), middleware.CurrentSession(c).UserID())
	if err != nil {
		h.fail(c, "load beautician dashboard", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Notifications(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	view, err := h.deps.Notifier.List(c.Request.Context(), sess.UserID(), sess.Role(), c.DefaultQuery("filter", FilterAll))
	if err != nil {
		h.fail(c, "load notifications", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Support(c *gin.Context) {
	response.Success(c, http.StatusOK, SupportView{FAQs: faqs, ContactEmail: h.deps.SupportEmail})
}

func (h *Handler) writeAuthError(c *gin.Context, action string, err error) {
	status, code := auth.StatusFor(err)
	if code == "" {
		h.fail(c, action, err)
		return
	}
	response.Error(c, status, code, err.Error())
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	h.log.Error(action+" failed", zap.String("path", c.FullPath()), zap.Error(err))
	response.RequestFailed(c)
}

func verifyEmailPath(email string) string {
	return VerifyEmailPath + "?email=" + url.QueryEscape(email)
}
