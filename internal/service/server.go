package service

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/doccheck/marketplace/internal/clients/oidc"
	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/handlers"
	middleware "github.com/doccheck/marketplace/internal/middlewares"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/doccheck/marketplace/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Dependencies are the collaborators the router wires into services.
type Dependencies struct {
	Calculator     *pricing.Calculator
	Storage        storage.ObjectStorageI
	Identity       oidc.IdentityProviderI
	PaymentTimeout time.Duration
}

type ServerService struct {
	Server *http.Server
	db     *db.DB
}

func NewServerService(rootContext context.Context, address string, db *db.DB) ServerService {
	server := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return rootContext
		},
	}
	return ServerService{Server: server, db: db}
}

func (serverService *ServerService) SetRouter(jwtConfig *handlers.JWTConfig, deps Dependencies) {
	var router chi.Router
	router = serverService.getRouter(jwtConfig, deps)

	serverService.Server.Handler = router
}

func (serverService *ServerService) getRouter(jwtConfig *handlers.JWTConfig, deps Dependencies) chi.Router {
	router := chi.NewRouter()

	router.Use(logger.RequestLogger)

	userRepository := repository.NewUserRepository(serverService.db)
	jobRepository := repository.NewJobRepository(serverService.db)
	jobFileRepository := repository.NewJobFileRepository(serverService.db)
	quoteRepository := repository.NewQuoteRepository(serverService.db)
	orderRepository := repository.NewOrderRepository(serverService.db)
	checkoutRepository := repository.NewCheckoutRepository(serverService.db)
	notificationRepository := repository.NewNotificationRepository(serverService.db)
	reviewerRepository := repository.NewReviewerRepository(serverService.db)

	notificationService := NewNotificationService(notificationRepository)
	jobService := NewJobService(jobRepository, userRepository, jobFileRepository, deps.Storage, notificationService, deps.Calculator)
	quoteService := NewQuoteService(jobRepository, quoteRepository, deps.Calculator)
	orderService := NewOrderService(jobRepository, quoteRepository, orderRepository)
	checkoutService := NewCheckoutService(jobRepository, quoteRepository, orderRepository, userRepository,
		checkoutRepository, notificationService, deps.PaymentTimeout)
	invoiceService := NewInvoiceService(jobRepository, quoteRepository, orderRepository, checkoutRepository, deps.Storage)
	adminService := NewAdminService(jobRepository, reviewerRepository)

	authHandler := handlers.NewAuthHandler(jwtConfig, userRepository, deps.Identity)
	jobsHandler := handlers.NewJobsHandler(jobService)
	quotesHandler := handlers.NewQuotesHandler(quoteService)
	ordersHandler := handlers.NewOrdersHandler(orderService, checkoutService)
	invoicesHandler := handlers.NewInvoicesHandler(invoiceService)
	notificationsHandler := handlers.NewNotificationsHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	router.Get("/api/auth/login", authHandler.LoginHandler)
	router.Get("/api/auth/callback", authHandler.CallbackHandler)
	router.Post("/api/auth/logout", authHandler.LogoutHandler)
	router.Post("/api/quotes/calculate", quotesHandler.Calculate)
	router.Get("/api/pricing", quotesHandler.Pricing)

	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(authHandler))

		r.Get("/api/auth/user", authHandler.UserHandler)

		r.Get("/api/jobs", jobsHandler.List)
		r.Post("/api/jobs", jobsHandler.Create)
		r.Get("/api/jobs/{id}", jobsHandler.Get)
		r.Patch("/api/jobs/{id}", jobsHandler.Update)
		r.Post("/api/jobs/{id}/assign", jobsHandler.Assign)
		r.Post("/api/jobs/{id}/transitions", jobsHandler.Transition)
		r.Get("/api/jobs/{id}/files", jobsHandler.ListFiles)
		r.Post("/api/jobs/{id}/files", jobsHandler.UploadFile)

		r.Post("/api/quotes", quotesHandler.Create)
		r.Get("/api/quotes/{jobId}", quotesHandler.GetLatest)

		r.Post("/api/orders", ordersHandler.Create)
		r.Get("/api/orders", ordersHandler.List)
		r.Post("/api/payments/mock", ordersHandler.Pay)

		r.Get("/api/invoices/{orderId}", invoicesHandler.Get)
		r.Get("/api/invoices/{orderId}/pdf", invoicesHandler.PDF)

		r.Get("/api/notifications", notificationsHandler.List)
		r.Patch("/api/notifications/{id}/read", notificationsHandler.MarkRead)

		r.Get("/api/admin/stats", adminHandler.Stats)
		r.Get("/api/admin/unassigned-jobs", adminHandler.UnassignedJobs)
		r.Get("/api/admin/reviewers", adminHandler.Reviewers)
	})

	return router
}

func (serverService *ServerService) RunServer(serverErr *chan error) {
	if err := serverService.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		*serverErr <- err
	} else {
		*serverErr <- nil
	}
}

func (serverService *ServerService) Shutdown() error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if shutdownErr := serverService.Server.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	return nil
}
