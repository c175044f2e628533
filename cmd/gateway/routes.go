package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"wareflow-system/config"
	"wareflow-system/internal/database"
	"wareflow-system/internal/gateway/handlers"
	"wareflow-system/internal/gateway/middleware"
	"wareflow-system/internal/integrations"
	"wareflow-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	utils.JwtSecret = []byte(cfg.Auth.JWTSecret)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedRoles(db); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)

	emailClient := integrations.NewEmailClient(cfg.Email.APIKey, cfg.Email.BaseURL, cfg.Email.SenderEmail, cfg.Email.SenderName)
	summarizer := integrations.NewSummarizerClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	shopifyClient := integrations.NewShopifyClient(cfg.Shopify.APIKey, cfg.Shopify.APISecret)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLMins) * time.Minute
	authHandler := handlers.NewAuthHTTPHandler(db, logger, tokenTTL)
	inventoryHandler := handlers.NewInventoryHTTPHandler(db, redisClient, logger)
	ordersHandler := handlers.NewOrdersHTTPHandler(db, logger)
	dashboardHandler := handlers.NewDashboardHTTPHandler(db, redisClient, logger)
	reportsHandler := handlers.NewReportsHTTPHandler(db, logger)
	settingsHandler := handlers.NewSettingsHTTPHandler(db, logger)
	functionsHandler := handlers.NewFunctionsHTTPHandler(db, logger, emailClient, summarizer, shopifyClient, cfg.Frontend.BaseURL)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit())

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}

		// browser-driven OAuth callback; authenticated via signed state + HMAC
		public.GET("/functions/shopify/callback", functionsHandler.ShopifyCallback)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		inventoryGroup := protected.Group("/inventory")
		{
			inventoryGroup.GET("", inventoryHandler.ListInventory)
			inventoryGroup.GET("/locations/axes", inventoryHandler.LocationAxes)
			inventoryGroup.POST("/:id/adjust", inventoryHandler.AdjustStock)
		}

		protected.GET("/orders", ordersHandler.ListOrders)

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/report", dashboardHandler.Report)
			dashboard.GET("/metrics", dashboardHandler.Metrics)
			dashboard.GET("/trend", dashboardHandler.Trend)
			dashboard.GET("/forecast", dashboardHandler.Forecast)
			dashboard.GET("/profitability", dashboardHandler.Profitability)
			dashboard.GET("/top-sellers", dashboardHandler.TopSellers)
		}

		reports := protected.Group("/reports")
		{
			reports.GET("/putaway-label/:id", reportsHandler.PutawayLabel)
		}

		templates := protected.Group("/templates")
		{
			templates.GET("/inventory.csv", reportsHandler.InventoryTemplate)
			templates.GET("/customers.csv", reportsHandler.CustomersTemplate)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.PUT("", settingsHandler.UpdateSetting)
			settings.PUT("/profile", settingsHandler.UpdateProfile)
		}

		functions := protected.Group("/functions")
		{
			functions.POST("/send-email", functionsHandler.SendEmail)
			functions.POST("/summarize-report", functionsHandler.SummarizeReport)
			functions.POST("/update-user-profile", functionsHandler.UpdateUserProfile)
		}
	}

	r.GET("/health", healthCheckHandler(redisClient))

	port := ":8080"
	logger.Info("Starting server", zap.String("port", port))
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheckHandler(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		cacheStatus := "connected"
		if err := redisClient.Ping(ctx).Err(); err != nil {
			status = "degraded"
			httpStatus = http.StatusPartialContent
			cacheStatus = "unavailable"
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"message":   "Server is running",
			"cache":     cacheStatus,
			"timestamp": time.Now(),
		})
	}
}
