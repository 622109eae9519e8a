package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"zackiepharma/m/internal/audit"
	"zackiepharma/m/internal/auth"
	"zackiepharma/m/internal/reports"
	"zackiepharma/m/internal/sales"
	"zackiepharma/m/internal/store"
)

// Options configures a Handler.
type Options struct {
	Secret      string
	SessionKey  string
	CORSOrigins []string
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	audit    *audit.Logger
	sales    *sales.Service
	reports  *reports.Service
	tokens   *auth.Tokens
	sessions *auth.Sessions
	origins  []string
}

// New constructs a Handler.
func New(s *store.Store, opts Options) *Handler {
	auditLog := audit.New(s)
	return &Handler{
		store:    s,
		audit:    auditLog,
		sales:    sales.NewService(s, auditLog),
		reports:  reports.NewService(s),
		tokens:   auth.NewTokens(opts.Secret),
		sessions: auth.NewSessions(opts.SessionKey),
		origins:  opts.CORSOrigins,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if len(h.origins) > 0 {
		r.Use(h.corsHandler())
	}

	r.Get("/health", h.health)

	r.Get("/login", h.loginPage)
	r.Post("/login", h.login)
	r.Get("/register", h.registerPage)
	r.With(h.identify).Post("/register", h.register)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authenticate)

		pr.Get("/logout", h.logout)

		pr.With(h.authorize(auth.ViewDashboard)).Get("/dashboard", h.dashboard)

		pr.Route("/products", func(r chi.Router) {
			r.Use(h.authorize(auth.ManageProducts))
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Post("/{id}/stock", h.adjustStock)
		})

		pr.Route("/categories", func(r chi.Router) {
			r.Use(h.authorize(auth.ManageProducts))
			r.Get("/", h.listCategories)
			r.Post("/", h.createCategory)
		})

		pr.Route("/suppliers", func(r chi.Router) {
			r.Use(h.authorize(auth.ManageSuppliers))
			r.Get("/", h.listSuppliers)
			r.Post("/", h.createSupplier)
		})

		pr.Route("/customers", func(r chi.Router) {
			r.Use(h.authorize(auth.ManageCustomers))
			r.Get("/", h.listCustomers)
			r.Post("/", h.createCustomer)
		})

		pr.Route("/prescriptions", func(r chi.Router) {
			r.Use(h.authorize(auth.ManagePrescriptions))
			r.Get("/", h.listPrescriptions)
			r.Post("/", h.createPrescription)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Use(h.authorize(auth.RecordSales))
			r.Get("/", h.salesPage)
			r.Post("/", h.createSale)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Use(h.authorize(auth.ViewReports))
			r.Get("/", h.salesReport)
			r.Post("/", h.salesReport)
			r.Get("/export", h.exportSales)
		})

		pr.With(h.authorize(auth.ViewAudit)).Get("/audit", h.auditLog)

		pr.Route("/notifications", func(r chi.Router) {
			r.Use(h.authorize(auth.ViewDashboard))
			r.Get("/", h.listNotifications)
			r.Post("/{id}/read", h.markNotificationRead)
		})
	})

	return r
}

// corsHandler admits the configured origins. Session cookies are only
// shared with origins that are named explicitly, never with a wildcard.
func (h *Handler) corsHandler() func(http.Handler) http.Handler {
	credentials := true
	for _, o := range h.origins {
		if strings.Contains(o, "*") {
			credentials = false
			break
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: credentials,
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
