package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	accthandler "github.com/rr-restro/pos/internal/accounting/handler"
	"github.com/rr-restro/pos/internal/config"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/handler"
	mw "github.com/rr-restro/pos/internal/middleware"
	"github.com/rr-restro/pos/internal/service"
	"github.com/rr-restro/pos/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Every navigation area sits behind its permission; branch scoping happens
// inside the handlers because most areas filter by a branch_id query value.
func New(cfg *config.Config, svc *service.Service, hub *ws.Hub, analyst handler.Insighter) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"` + service.BackupVersion + `"}`))
	})

	// Auth routes (public). Login is throttled per client IP.
	authHandler := handler.NewAuthHandler(svc, cfg.JWTSecret)
	limiter := mw.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginBurst)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		authHandler.RegisterRoutes(r)
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/branches/{bid}", ws.Handler(hub, cfg.JWTSecret, cfg.CORSAllowedOrigins))

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterSessionRoutes(r)

		notificationHandler := handler.NewNotificationHandler(svc)
		r.Route("/notifications", notificationHandler.RegisterRoutes)

		// Reads are open to every terminal, writes need the area permission.
		branchHandler := handler.NewBranchHandler(svc)
		r.Route("/branches", func(r chi.Router) {
			branchHandler.RegisterRoutes(r, mw.RequirePermission(enum.PermBranches))
		})
		settingsHandler := handler.NewSettingsHandler(svc)
		r.Route("/settings", func(r chi.Router) {
			settingsHandler.RegisterRoutes(r, mw.RequirePermission(enum.PermSettings))
		})

		reportsHandler := handler.NewReportsHandler(svc, analyst)
		mount(r, "/dashboard", enum.PermDashboard, reportsHandler.RegisterDashboardRoutes)
		mount(r, "/reports", enum.PermReports, reportsHandler.RegisterRoutes)

		mount(r, "/pos", enum.PermPOS, handler.NewPOSHandler(svc).RegisterRoutes)
		mount(r, "/orders", enum.PermOrders, handler.NewOrderHandler(svc, cfg.ReceiptWidth).RegisterRoutes)
		mount(r, "/inventory", enum.PermInventory, handler.NewInventoryHandler(svc).RegisterRoutes)
		mount(r, "/menu", enum.PermMenu, handler.NewMenuHandler(svc).RegisterRoutes)
		mount(r, "/customers", enum.PermCustomers, handler.NewCustomerHandler(svc).RegisterRoutes)
		mount(r, "/staff", enum.PermStaff, handler.NewStaffHandler(svc, cfg.JWTSecret).RegisterRoutes)
		mount(r, "/wallet", enum.PermWallet, handler.NewWalletHandler(svc).RegisterRoutes)

		ledgerHandler := accthandler.NewLedgerHandler(svc)
		requestHandler := accthandler.NewRequestHandler(svc)
		mount(r, "/accounting", enum.PermAccounting, func(r chi.Router) {
			ledgerHandler.RegisterRoutes(r)
			requestHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}

// mount registers an area under pattern behind its permission.
func mount(r chi.Router, pattern, perm string, register func(chi.Router)) {
	r.Route(pattern, func(r chi.Router) {
		r.Use(mw.RequirePermission(perm))
		register(r)
	})
}
