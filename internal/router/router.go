package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandesh691/agribid-sub001/internal/admin"
	"github.com/sandesh691/agribid-sub001/internal/auth"
	"github.com/sandesh691/agribid-sub001/internal/bid"
	"github.com/sandesh691/agribid-sub001/internal/crop"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/notification"
	"github.com/sandesh691/agribid-sub001/internal/order"
	"github.com/sandesh691/agribid-sub001/internal/redis"
	"github.com/sandesh691/agribid-sub001/internal/report"
	"github.com/sandesh691/agribid-sub001/internal/respond"
	"github.com/sandesh691/agribid-sub001/internal/server"
	"github.com/sandesh691/agribid-sub001/internal/wallet"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

type Handlers struct {
	Auth         *auth.AuthHandler
	Crop         *crop.CropHandler
	Bid          *bid.BidHandler
	Order        *order.OrderHandler
	Wallet       *wallet.WalletHandler
	Report       *report.ReportHandler
	Notification *notification.NotificationHandler
	Admin        *admin.AdminHandler
}

func NewRouter(s *server.Server, redisClient *redis.Client, h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	mw := middleware.NewMiddlewares(s, redisClient)

	// Apply middleware in order
	r.Use(middleware.RequestID)
	r.Use(mw.Tracing.NewRelicMiddleware())
	r.Use(mw.Tracing.EnhanceTracing)
	r.Use(mw.ContextEnhancer.EnhanceContext)
	r.Use(mw.Global.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(mw.RateLimit.PerIP("auth", 10, time.Minute)).
				Post("/register", h.Auth.Register)
			r.With(mw.RateLimit.PerIP("auth", 10, time.Minute)).
				Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.With(mw.Auth.Require).Get("/me", h.Auth.Me)
		})

		r.Route("/crops", func(r chi.Router) {
			// Browsing is public; a session is only needed for ?mine=true
			// and for publishing.
			r.With(mw.Auth.Optional).Get("/", h.Crop.ListListings)
			r.With(mw.Auth.Optional).Get("/details", h.Crop.Details)
			r.With(
				mw.Auth.Require,
				mw.Auth.RequireRole(constants.RoleFarmer),
			).Post("/", h.Crop.CreateListing)
		})

		r.Route("/bids", func(r chi.Router) {
			r.Use(mw.Auth.Require)
			r.With(
				mw.Auth.RequireRole(constants.RoleRetailer),
				mw.RateLimit.PerUser("bids", 30, time.Minute),
			).Post("/", h.Bid.PlaceBid)
			r.With(mw.Auth.RequireRole(constants.RoleRetailer)).
				Get("/my-bids", h.Bid.MyBids)
			r.With(mw.Auth.RequireRole(constants.RoleFarmer)).
				Get("/received", h.Bid.ReceivedBids)
			r.With(mw.Auth.RequireRole(constants.RoleFarmer)).
				Post("/{id}/accept", h.Order.AcceptBid)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(mw.Auth.Require)
			r.With(
				mw.Auth.RequireRole(constants.RoleRetailer),
				mw.RateLimit.PerUser("payments", 10, time.Minute),
			).Post("/pay/{bidId}", h.Order.Pay)
			r.Get("/history", h.Order.History)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Use(mw.Auth.Require)
			r.Get("/", h.Wallet.Get)
			r.Post("/", h.Wallet.TopUp)
			r.Post("/withdraw", h.Wallet.Withdraw)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(mw.Auth.Require)
			r.Post("/", h.Report.Create)
			r.Get("/", h.Report.MyReports)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(mw.Auth.Require)
			r.Get("/", h.Notification.List)
			r.Patch("/{id}/read", h.Notification.MarkRead)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.Auth.Require)
			r.Use(mw.Auth.RequireRole(constants.RoleAdmin))
			r.Get("/users", h.Admin.ListUsers)
			r.Patch("/users/{id}/status", h.Admin.SetUserStatus)
			r.Patch("/users/{id}/verify", h.Admin.VerifyUser)
			r.Get("/crops", h.Admin.ListCrops)
			r.Delete("/crops/{id}", h.Admin.RemoveCrop)
			r.Get("/reports", h.Admin.ListReports)
			r.Patch("/reports/{id}", h.Admin.ResolveReport)
			r.Get("/audit-log", h.Admin.AuditTrail)
		})
	})

	return r
}
