package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giftconnect/giftconnect-backend/api/controllers"
	"github.com/giftconnect/giftconnect-backend/api/middleware"
	"github.com/giftconnect/giftconnect-backend/internal/admin"
	"github.com/giftconnect/giftconnect-backend/internal/auth"
	"github.com/giftconnect/giftconnect-backend/internal/cart"
	"github.com/giftconnect/giftconnect-backend/internal/giftrequests"
	"github.com/giftconnect/giftconnect-backend/internal/gifts"
	"github.com/giftconnect/giftconnect-backend/internal/users"
	"github.com/giftconnect/giftconnect-backend/pkg/auth/session"
	"github.com/giftconnect/giftconnect-backend/pkg/config"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/metrics"
)

// Dependencies is everything the HTTP surface is wired to. Readiness entries
// and RateLimiter may be nil.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Users    middleware.UserLoader

	RateLimiter middleware.RateLimiter
	Readiness   map[string]controllers.Pinger

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	AuthService        auth.Service
	UserService        users.Service
	GiftService        gifts.Service
	CartService        cart.Service
	GiftRequestService giftrequests.Service
	AdminService       admin.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	authenticated := middleware.Auth(cfg.JWT, deps.Sessions, deps.Users, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Readiness, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimiter, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(authenticated).Get("/user", controllers.CurrentUser(deps.UserService, logg))

		r.Get("/users/{id}", controllers.UserProfile(deps.UserService, logg))
		r.Get("/gifts", controllers.ListGifts(deps.GiftService, logg))
		r.Get("/gifts/{id}", controllers.GetGift(deps.GiftService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Route("/vendor/gifts", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleVendor, logg))
				r.Get("/", controllers.VendorListGifts(deps.GiftService, logg))
				r.Post("/", controllers.VendorCreateGift(deps.GiftService, logg))
				r.Put("/{id}", controllers.VendorUpdateGift(deps.GiftService, logg))
				r.Delete("/{id}", controllers.VendorDeleteGift(deps.GiftService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleHR, logg))
				r.Get("/", controllers.CartList(deps.CartService, logg))
				r.Post("/", controllers.CartAdd(deps.CartService, logg))
				r.Put("/{id}", controllers.CartUpdate(deps.CartService, logg))
				r.Delete("/{id}", controllers.CartRemove(deps.CartService, logg))
			})

			r.Route("/gift-requests", func(r chi.Router) {
				r.Get("/", controllers.GiftRequestList(deps.GiftRequestService, logg))
				r.With(middleware.RequireRole(enums.UserRoleHR, logg)).Post("/", controllers.GiftRequestCreate(deps.GiftRequestService, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/pending-gifts", controllers.AdminPendingGifts(deps.AdminService, logg))
				r.Put("/gifts/{id}/approve", controllers.AdminApproveGift(deps.AdminService, logg))
				r.Get("/users", controllers.AdminListUsers(deps.AdminService, logg))
				r.Put("/users/{id}/role", controllers.AdminChangeRole(deps.AdminService, logg))
				r.Get("/stats", controllers.AdminStats(deps.AdminService, logg))
				r.Put("/gift-requests/{id}/status", controllers.AdminUpdateRequestStatus(deps.AdminService, logg))
			})
		})
	})

	return r
}
