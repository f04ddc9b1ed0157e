package http

import (
	"net/http"

	"github.com/dating-api/internal/application/billing"
	"github.com/dating-api/internal/application/chat"
	"github.com/dating-api/internal/application/match"
	"github.com/dating-api/internal/application/notification"
	"github.com/dating-api/internal/application/photo"
	"github.com/dating-api/internal/application/session"
	"github.com/dating-api/internal/application/swipe"
	"github.com/dating-api/internal/application/user"
	"github.com/dating-api/internal/application/verification"
	"github.com/dating-api/internal/config"
	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/infrastructure/dynamo"
	"github.com/dating-api/internal/infrastructure/geocode"
	jwtinfra "github.com/dating-api/internal/infrastructure/jwt"
	s3infra "github.com/dating-api/internal/infrastructure/s3"
	stripeinfra "github.com/dating-api/internal/infrastructure/stripe"
	"github.com/dating-api/internal/transport/http/handler"
	appmiddleware "github.com/dating-api/internal/transport/http/middleware"
	"github.com/dating-api/internal/transport/ws"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	SwipeRepo        *dynamo.SwipeRepo
	MatchRepo        *dynamo.MatchRepo
	MessageRepo      *dynamo.MessageRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	PaymentRepo      *dynamo.PaymentRepo
	NotificationRepo *dynamo.NotificationRepo
	S3Store          *s3infra.Store
	Payments         stripeinfra.PaymentProvider
	Geocoder         geocode.Geocoder
	JWTProvider      *jwtinfra.Provider
	VerificationSvc  verification.Service
	ChatHub          *ws.Hub
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notification.NewService(notification.ServiceDeps{
		NotificationRepo: deps.NotificationRepo,
		UserRepo:         deps.UserRepo,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		SwipeRepo:       deps.SwipeRepo,
		JWTProvider:     deps.JWTProvider,
		Geocoder:        deps.Geocoder,
		RefreshTokenDur: cfg.RefreshTokenDur,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenDur,
	})
	swipeSvc := swipe.NewService(swipe.ServiceDeps{
		SwipeRepo: deps.SwipeRepo,
		MatchRepo: deps.MatchRepo,
		UserRepo:  deps.UserRepo,
		Notifier:  notifSvc,
	})
	matchSvc := match.NewService(match.ServiceDeps{
		MatchRepo: deps.MatchRepo,
		UserRepo:  deps.UserRepo,
	})
	chatSvc := chat.NewService(chat.ServiceDeps{
		MessageRepo: deps.MessageRepo,
		MatchRepo:   deps.MatchRepo,
		Hub:         deps.ChatHub,
	})
	billingSvc := billing.NewService(billing.ServiceDeps{
		SubscriptionRepo: deps.SubscriptionRepo,
		PaymentRepo:      deps.PaymentRepo,
		UserRepo:         deps.UserRepo,
		Payments:         deps.Payments,
	})
	photoSvc := photo.NewService(photo.ServiceDeps{
		Store:    deps.S3Store,
		UserRepo: deps.UserRepo,
	})

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewVerificationHandler(deps.VerificationSvc)
	userH := handler.NewUserHandler(userSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	discoveryH := handler.NewDiscoveryHandler(swipeSvc)
	matchH := handler.NewMatchHandler(matchSvc)
	messageH := handler.NewMessageHandler(chatSvc)
	billingH := handler.NewBillingHandler(billingSvc)
	photoH := handler.NewPhotoHandler(photoSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	wsH := ws.NewHandler(deps.ChatHub, chatSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/verification/request", verificationH.RequestCode)
		r.With(sensitiveRL.Limit).Post("/verification/check", verificationH.CheckCode)
		r.With(sensitiveRL.Limit).Post("/verification/resend", verificationH.ResendCode)
		r.Get("/verification/countries", verificationH.Countries)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/users/me", userH.Me)
			r.Put("/users/me", userH.UpdateProfile)
			r.Put("/users/me/location", userH.UpdateLocation)
			r.Put("/users/me/location/home", userH.UpdateHomeLocation)
			r.Get("/users/me/location/status", userH.LocationStatus)
			r.Put("/users/me/password", userH.ChangePassword)
			r.Delete("/users/me", userH.DeleteMe)
			r.Get("/users/{id}", userH.Get)

			r.Get("/discovery", discoveryH.Feed)
			r.Post("/swipes", discoveryH.Swipe)
			r.Get("/likes", discoveryH.LikesReceived)
			r.Get("/likes/sent", discoveryH.LikesSent)
			r.Delete("/likes", discoveryH.ResetSwipes)

			r.Get("/matches", matchH.List)
			r.Get("/matches/{id}", matchH.Get)
			r.Delete("/matches/{id}", matchH.Unmatch)

			r.Get("/matches/{id}/messages", messageH.History)
			r.Post("/matches/{id}/messages", messageH.Send)
			r.Put("/matches/{id}/messages/read", messageH.MarkRead)
			r.Get("/matches/{id}/messages/unread", messageH.UnreadCount)
			r.Get("/messages/unread", messageH.TotalUnread)
			r.Get("/matches/{id}/ws", wsH.Serve)

			r.Get("/billing/plans", billingH.Plans)
			r.Post("/billing/checkout", billingH.Checkout)
			r.Post("/billing/subscriptions/{id}/confirm", billingH.Confirm)
			r.Delete("/billing/subscriptions/{id}", billingH.Cancel)
			r.Get("/billing/status", billingH.Status)
			r.Get("/billing/payments", billingH.PaymentHistory)

			r.Post("/photos", photoH.Upload)
			r.Get("/photos", photoH.List)
			r.Delete("/photos", photoH.Delete)

			r.Get("/notifications", notifH.List)
			r.Put("/notifications/{id}", notifH.MarkAsRead)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)
			})
		})
	})

	return r
}
