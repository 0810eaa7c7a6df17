package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kopiroti/api/internal/config"
	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/handler"
	mw "github.com/kopiroti/api/internal/middleware"
	"github.com/kopiroti/api/internal/service"
	"github.com/kopiroti/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Customer QR flow endpoints live under /public; everything else requires
// a staff token.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",       // SvelteKit dev server
			"https://order.kopiroti.id",   // Customer ordering page
			"https://kasir.kopiroti.id",   // Cashier / kitchen dashboard
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Order service shared by the staff and customer routes.
	notifier := ws.NewOrderNotifier(hub)
	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, queries, newOrderStore, notifier)
	orderHandler := handler.NewOrderHandler(orderService, queries)

	menuHandler := handler.NewMenuHandler(queries)
	tableHandler := handler.NewTableHandler(queries)

	// Customer QR flow: browse the menu, resolve the table, place and
	// track an order. No authentication.
	r.Route("/public", func(r chi.Router) {
		r.Route("/menu", menuHandler.RegisterPublicRoutes)
		r.Route("/tables", tableHandler.RegisterPublicRoutes)
		r.Route("/orders", orderHandler.RegisterPublicRoutes)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterProtectedRoutes(r)

		r.Route("/orders", orderHandler.RegisterRoutes)

		r.Route("/menu", func(r chi.Router) {
			menuHandler.RegisterPublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole("ADMIN"))
				menuHandler.RegisterRoutes(r)
			})
		})

		r.Route("/tables", func(r chi.Router) {
			tableHandler.RegisterRoutes(r)
		})

		reportsHandler := handler.NewReportsHandler(queries)
		r.Route("/reports", reportsHandler.RegisterRoutes)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole("ADMIN"))

			staffHandler := handler.NewStaffHandler(queries)
			r.Route("/staff", staffHandler.RegisterRoutes)

			settingsHandler := handler.NewSettingsHandler(queries)
			r.Route("/settings", settingsHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
