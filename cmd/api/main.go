package main

import (
	"log"
	"time"

	"github.com/campuspool/campuspool-backend/internal/booking"
	"github.com/campuspool/campuspool-backend/internal/config"
	"github.com/campuspool/campuspool-backend/internal/database"
	"github.com/campuspool/campuspool-backend/internal/handlers"
	"github.com/campuspool/campuspool-backend/internal/middleware"
	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/campuspool/campuspool-backend/internal/store"
	"github.com/campuspool/campuspool-backend/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance and configure the pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(cfg.RedisURL); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Change notifier fan-out: websocket push, redis pub/sub, and
	// optionally RabbitMQ
	notifier := booking.MultiNotifier{
		services.NewHubNotifier(hub),
		services.NewRedisNotifier(),
	}
	if cfg.AMQPURL != "" {
		pub, err := services.NewMQPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ publisher: %v", err)
		}
		defer pub.Close()
		notifier = append(notifier, services.NewMQNotifier(pub))
	}

	estimator := utils.NewRouteEstimator()
	svc := booking.NewService(store.NewGormStore(db), estimator, notifier)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Serve locally stored uploads
	r.Static("/uploads", "/app/uploads")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		api.GET("/rides", handlers.GetOpenRides(svc))
		api.GET("/estimates", handlers.GetEstimate(estimator))
		api.GET("/requests/track/:ref", handlers.TrackRequest(svc))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Guest-accessible routes: identity attached when a token is
		// present, guest owners use manage tokens
		open := api.Group("/")
		open.Use(middleware.OptionalAuthMiddleware())
		{
			open.POST("/rides", handlers.CreateRide(svc))
			open.DELETE("/rides/:id", handlers.DeleteRide(svc))
			open.POST("/rides/:rideId/requests", handlers.CreateRequest(svc))
			open.GET("/rides/:rideId/requests", handlers.GetRideRequests(svc))
			open.POST("/requests/:id/decision", handlers.DecideRequest(svc))
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/rides/mine", handlers.GetMyRides(svc))
			protected.GET("/requests/mine", handlers.GetMyRequests(svc))

			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.POST("/avatar", handlers.UploadAvatar(db))
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
