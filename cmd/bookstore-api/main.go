package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/docs"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/handlers"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/api/middleware"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/cache"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/config"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/events"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/health"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/metrics"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/models"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/outbox"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/storage"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/tracing"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/pkg/sendgrid"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Bookstore API
//	@version					1.0
//	@description				Checkout, manual payment validation and fulfilment for the bookstore.
//	@host						localhost:8080
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, &cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	orderCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer orderCache.Close()

	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	files, err := storage.NewLocalStorage(&cfg.Storage)
	if err != nil {
		slog.Error("❌ Error preparing public storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Services
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	notificationService := service.NewNotificationService(repos.Notification, repos.User, sendGridClient)
	cartService := service.NewCartService(repos.Tx, repos.Cart, repos.Book)
	checkoutService := service.NewCheckoutService(repos.Tx, repos.Cart, repos.Book, repos.Order, repos.Payment, repos.Address, repos.Outbox, files)
	orderService := service.NewOrderService(repos.Tx, repos.Order, orderCache)
	paymentService := service.NewPaymentService(repos.Tx, repos.Order, repos.Payment, files, orderCache, notificationService)
	addressService := service.NewAddressService(repos.Tx, repos.Address)
	stockListener := service.NewStockListener(repos.Book, orderCache)

	// OrderFinalized delivery
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers)
		slog.Info("Publishing order events to kafka", slog.Any("brokers", cfg.Kafka.Brokers))
	} else {
		publisher = events.NewLocalPublisher(map[string]events.Handler{
			models.TopicOrderFinalized: stockListener.HandleOrderFinalized,
		})
		slog.Info("No kafka brokers configured, order events are delivered in-process")
	}

	defer publisher.Close()

	relay := outbox.NewRelay(repos.Tx, repos.Outbox, publisher, logger.With(slog.String("component", "outbox")), &cfg.Outbox)

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)

		if err := relay.Run(ctx); err != nil {
			slog.Error("❌ Outbox relay stopped", slog.String("error", err.Error()))
		}
	}()

	// Handlers
	maxProofSize := cfg.Storage.MaxProofSize
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, maxProofSize)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService, maxProofSize)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	addressHandler := handlers.NewAddressHandler(addressService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))
	user := authMiddleware.Authenticate
	admin := func(next http.Handler) http.HandlerFunc {
		return authMiddleware.Authenticate(authMiddleware.RequireAdmin(next))
	}
	limit := func(action string, next http.Handler) http.HandlerFunc {
		return authMiddleware.Authenticate(middleware.RateLimit(rateLimiter, action)(next))
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("publicDir", cfg.Storage.PublicDir))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /cart", user(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /cart/add", user(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /cart/{item}", user(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /cart/{item}", user(cartHandler.RemoveItem()))
	routerMux.HandleFunc("POST /checkout", limit("checkout", checkoutHandler.Checkout()))
	routerMux.HandleFunc("GET /my-orders", user(orderHandler.ListMyOrders()))
	routerMux.HandleFunc("GET /my-orders/{order}", user(orderHandler.GetMyOrder()))
	routerMux.HandleFunc("POST /my-orders/{order}/upload-proof", limit("upload-proof", orderHandler.UploadProof()))
	routerMux.HandleFunc("GET /addresses", user(addressHandler.ListAddresses()))
	routerMux.HandleFunc("POST /addresses", user(addressHandler.CreateAddress()))
	routerMux.HandleFunc("PUT /addresses/{address}/primary", user(addressHandler.SetPrimary()))
	routerMux.HandleFunc("GET /admin/orders", admin(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /admin/orders/{order}", admin(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /admin/orders/{order}/status", admin(orderHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("POST /admin/orders/{order}/approve", admin(paymentHandler.Approve()))
	routerMux.HandleFunc("POST /admin/orders/{order}/reject", admin(paymentHandler.Reject()))
	routerMux.HandleFunc("GET /admin/orders/{order}/notifications", admin(notificationHandler.ListNotifications()))
	routerMux.HandleFunc("POST /admin/orders/{order}/notifications", admin(notificationHandler.SendEmail()))

	routerMux.Handle("GET "+cfg.Storage.PublicURL+"/", http.StripPrefix(cfg.Storage.PublicURL, http.FileServer(http.Dir(cfg.Storage.PublicDir))))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.HTTPServer.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	<-relayDone

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
