package httphandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/niksmo/misslily/internal/core/port"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	RequestTimeout  time.Duration
	UploadTimeout   time.Duration
	AllowedOrigins  []string
	SubmitRate      rate.Limit
	SubmitBurst     int
	SecureCookie    bool
	StreamHeartbeat time.Duration

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that overwrites them.
	TrustProxy bool
}

// NewRouter mounts the storefront under /v1 and the authenticated admin
// surface under /v1/admin.
func NewRouter(
	store port.Storefront,
	admin port.Admin,
	sessions port.SessionManager,
	cfg RouterConfig,
) http.Handler {
	sh := StorefrontHandler{store: store}
	ah := AdminHandler{admin: admin}
	dh := DashboardHandler{admin: admin, heartbeat: cfg.StreamHeartbeat}
	ses := SessionHandler{sessions: sessions, secureCookie: cfg.SecureCookie}
	limiter := NewRateLimiter(cfg.SubmitRate, cfg.SubmitBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(LogRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(Timeout(cfg.RequestTimeout))

			r.Get("/products", sh.ListProducts)
			r.Get("/products/{id}", sh.GetProduct)
			r.Get("/categories", sh.ListCategories)
			r.Get("/categories/{id}/products", sh.ProductsInCategory)

			r.Get("/settings/hours", sh.BusinessHours)
			r.Get("/settings/contacts", sh.ContactSettings)
			r.Get("/settings/instagram", sh.InstagramConfig)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Limit, AllowJSON)
				r.Post("/inquiries", sh.PostInquiry)
				r.Post("/contact", sh.PostContact)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(Timeout(cfg.RequestTimeout), limiter.Limit, AllowJSON).
				Post("/session", ses.SignIn)

			r.Group(func(r chi.Router) {
				r.Use(Authenticate(sessions))
				adminRoutes(r, ah, dh, ses, cfg)
			})
		})
	})

	return r
}

func adminRoutes(
	r chi.Router,
	ah AdminHandler,
	dh DashboardHandler,
	ses SessionHandler,
	cfg RouterConfig,
) {
	r.Get("/dashboard/stream", dh.Stream)

	r.Group(func(r chi.Router) {
		r.Use(Timeout(cfg.UploadTimeout))

		r.Post("/products", ah.CreateProduct)
		r.Put("/products/{id}", ah.UpdateProduct)
		r.Post("/categories", ah.CreateCategory)
		r.Put("/categories/{id}", ah.UpdateCategory)
	})

	r.Group(func(r chi.Router) {
		r.Use(Timeout(cfg.RequestTimeout), AllowJSON)

		r.Delete("/session", ses.SignOut)

		r.Get("/dashboard", dh.Dashboard)
		r.Get("/reports/categories", dh.CategoryReport)

		r.Get("/products", ah.ListProducts)
		r.Patch("/products/{id}", ah.SetProductActive)
		r.Delete("/products/{id}", ah.DeleteProduct)

		r.Get("/categories", ah.ListCategories)
		r.Delete("/categories/{id}", ah.DeleteCategory)

		r.Get("/inquiries", ah.ListInquiries)
		r.Patch("/inquiries/{id}", ah.SetInquiryStatus)
		r.Delete("/inquiries/{id}", ah.DeleteInquiry)

		r.Get("/messages", ah.ListMessages)
		r.Patch("/messages/{id}", ah.SetMessageStatus)

		r.Get("/settings/contacts", ah.ContactSettings)
		r.Put("/settings/hours", ah.SaveBusinessHours)
		r.Put("/settings/contacts", ah.SaveContactSettings)
		r.Put("/settings/instagram", ah.SaveInstagramConfig)
	})
}
