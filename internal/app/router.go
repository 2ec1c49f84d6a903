// Package app wires the backend client into the HTTP surface: the BaaS API
// under /api/v1, the realtime sockets under /ws and the guarded screen routes.
package app

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/backend"
	"glowbook/internal/config"
	"glowbook/internal/domain"
	"glowbook/internal/middleware"
	"glowbook/internal/modules/auth"
	"glowbook/internal/modules/booking"
	"glowbook/internal/modules/catalog"
	"glowbook/internal/modules/chat"
	"glowbook/internal/modules/functions"
	"glowbook/internal/modules/payment"
	"glowbook/internal/modules/profile"
	"glowbook/internal/modules/screens"
	"glowbook/internal/pkg/validator"
)

// Options overrides pieces of the default wiring. Zero values use the defaults.
type Options struct {
	Sessions middleware.SessionProvider
	Gateway  payment.Gateway
}

func NewRouter(cfg *config.Config, client backend.Client, log *zap.Logger, opts Options) *gin.Engine {
	validator.UseWireNames()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.AllowedOrigins()),
	)

	sessions := opts.Sessions
	if sessions == nil {
		sessions = middleware.NewAuthSessions(client.Auth(), log)
	}
	gateway := opts.Gateway
	if gateway == nil {
		gateway = payment.NewGateway(cfg.StripeSecretKey, cfg.Currency, log)
	}
	cookies := auth.Cookies{
		Secure:     cfg.Auth.CookieSecure,
		SameSite:   cfg.Auth.CookieSameSite,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}

	catalogService := catalog.NewService(client.Services(), client.Profiles())
	bookingService := booking.NewService(client.Bookings(), client.Services(), client.Profiles(), cfg.BookingStrictTransitions, log)
	paymentService := payment.NewService(bookingService, client.Bookings(), gateway, payment.Options{
		Currency:       cfg.Currency,
		PublishableKey: cfg.StripePublishableKey,
	}, log)
	profileService := profile.NewService(client.Auth(), client.Profiles(), client.Storage(), client.Functions(), log)

	authHandler := auth.NewHandler(client.Auth(), cookies, log)
	functionsHandler := functions.NewHandler(client.Functions(), sessions, log)
	catalogHandler := catalog.NewHandler(catalogService, log)
	bookingHandler := booking.NewHandler(bookingService, log)
	paymentHandler := payment.NewHandler(paymentService, log)
	profileHandler := profile.NewHandler(profileService, sessions, cookies, log)
	chatHandler := chat.NewHandler(client, log)
	wsHandler := chat.NewWSHandler(client, cfg.AllowedOrigins(), log)
	screensHandler := screens.NewHandler(screens.Deps{
		Auth:         client.Auth(),
		Cookies:      cookies,
		Featured:     catalogService,
		Schedule:     bookingService,
		Notifier:     screens.NewNotifier(bookingService, client.Messages(), client.Profiles()),
		SupportEmail: cfg.SupportEmail,
		Log:          log,
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend_configured": client.Configured()})
	})
	if cfg.StorageType == "local" && strings.HasPrefix(cfg.StoragePublicURL, "/") {
		r.Static(cfg.StoragePublicURL, cfg.StorageLocalPath)
	}

	v1 := r.Group("/api/v1")
	{
		limiter := middleware.NewRateLimiter(cfg.AuthRateLimitPerMinute, log)
		authHandler.RegisterRoutes(v1.Group("/auth", limiter.Middleware()))
		functionsHandler.RegisterRoutes(v1.Group("/functions"))
	}

	authenticated := middleware.Authenticated(sessions).Middleware()
	ws := r.Group("/ws", authenticated)
	{
		ws.GET("/chat/:userId", wsHandler.Chat)
		ws.GET("/realtime", wsHandler.Realtime)
	}

	screensHandler.RegisterRoot(r)
	screensHandler.RegisterVerifyRoutes(r)
	profileHandler.RegisterPublicRoutes(r)

	publicOnly := r.Group("/", middleware.PublicOnly(sessions).Middleware())
	screensHandler.RegisterPublicOnlyRoutes(publicOnly)

	signedIn := r.Group("/", authenticated)
	screensHandler.RegisterAuthenticatedRoutes(signedIn)
	profileHandler.RegisterAuthenticatedRoutes(signedIn)
	chatHandler.RegisterRoutes(signedIn)

	customer := r.Group("/", middleware.RoleRestricted(sessions, domain.RoleCustomer).Middleware())
	screensHandler.RegisterCustomerRoutes(customer)
	catalogHandler.RegisterCustomerRoutes(customer)
	bookingHandler.RegisterCustomerRoutes(customer)
	paymentHandler.RegisterCustomerRoutes(customer)
	profileHandler.RegisterCustomerRoutes(customer)
	chatHandler.RegisterCustomerRoutes(customer)

	beautician := r.Group("/", middleware.RoleRestricted(sessions, domain.RoleBeautician).Middleware())
	screensHandler.RegisterBeauticianRoutes(beautician)
	catalogHandler.RegisterBeauticianRoutes(beautician)
	bookingHandler.RegisterBeauticianRoutes(beautician)
	profileHandler.RegisterBeauticianRoutes(beautician)

	return r
}
