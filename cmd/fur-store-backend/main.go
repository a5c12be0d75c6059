package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/furstore/fur-store-backend/docs"
	"github.com/furstore/fur-store-backend/internal/api/handlers"
	"github.com/furstore/fur-store-backend/internal/api/middleware"
	"github.com/furstore/fur-store-backend/internal/cache"
	"github.com/furstore/fur-store-backend/internal/config"
	"github.com/furstore/fur-store-backend/internal/health"
	"github.com/furstore/fur-store-backend/internal/metrics"
	"github.com/furstore/fur-store-backend/internal/observability"
	repository "github.com/furstore/fur-store-backend/internal/repositories"
	service "github.com/furstore/fur-store-backend/internal/services"
	"github.com/furstore/fur-store-backend/pkg/sendgrid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title			Fur Store API
//	@version		1.0
//	@description	Catalog, cart and order API for the fur store backend.
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	if cfg.Tracing.Enabled {
		shutdownTracing, err := observability.InitTracing(context.Background(), &cfg.Tracing)
		if err != nil {
			slog.Error("Error initialising tracing", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				slog.Warn("Error flushing traces", slog.String("error", err.Error()))
			}
		}()
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	defer func() {
		if err := productCache.Close(); err != nil {
			slog.Error("Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	emailClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	userService := service.NewUserService(repos.User, rateLimitRepo, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	categoryService := service.NewCategoryService(repos.Category)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productService := service.NewProductService(repos.Product, repos.Category, productCache)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	notificationService := service.NewNotificationService(repos.Notification, repos.User, emailClient)
	orderService := service.NewOrderService(repos.Order, repos.Cart, notificationService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Error building health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("GET /api/v1/categories", categoryHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/category/{id}", categoryHandler.GetCategory())
	routerMux.HandleFunc("POST /api/v1/category", authMiddleware.Authenticate(categoryHandler.CreateCategory()))
	routerMux.HandleFunc("PUT /api/v1/category/{id}", authMiddleware.Authenticate(categoryHandler.UpdateCategory()))
	routerMux.HandleFunc("DELETE /api/v1/category/{id}", authMiddleware.Authenticate(categoryHandler.DeleteCategory()))

	routerMux.HandleFunc("POST /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/product/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/product", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/product/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))

	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart", authMiddleware.Authenticate(cartHandler.CreateCart()))
	routerMux.HandleFunc("PUT /api/v1/cart", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/cart/add_product", authMiddleware.Authenticate(cartHandler.AddProduct()))
	routerMux.HandleFunc("DELETE /api/v1/cart/remove_product", authMiddleware.Authenticate(cartHandler.RemoveProduct()))

	routerMux.HandleFunc("POST /api/v1/order", authMiddleware.Authenticate(orderHandler.PlaceOrder()))
	routerMux.HandleFunc("GET /api/v1/order/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(handler, "fur-store-backend")
	}

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

}
