package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/tuitionterminal/backend/internal/config"
	"github.com/tuitionterminal/backend/internal/handlers"
	"github.com/tuitionterminal/backend/internal/middleware"
	"github.com/tuitionterminal/backend/internal/queue"
	"github.com/tuitionterminal/backend/internal/services/affiliate"
	"github.com/tuitionterminal/backend/internal/services/stats"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, redisClient *redis.Client, jobQueue *queue.Queue) error {
	affiliateService := affiliate.NewService(db)
	statsService := stats.NewService(db, redisClient)

	authHandler := handlers.NewAuthHandler(db, cfg, jobQueue)
	jobHandler := handlers.NewJobHandler(db)
	tutorHandler := handlers.NewTutorHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	statsHandler := handlers.NewStatsHandler(statsService)
	affiliateHandler := handlers.NewAffiliateHandler(affiliateService, cfg.FrontendURL)

	uploadHandler, err := handlers.NewUploadHandler(cfg.UploadDir)
	if err != nil {
		return err
	}

	rateLimiter := middleware.NewRateLimiter(10, 10, 20, 5)
	jwtSecret := []byte(cfg.JWT.Secret)

	router.Use(rateLimiter.IPRateLimiterMiddleware())
	router.Static("/uploads/images", cfg.UploadDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.Use(rateLimiter.AuthRateLimiterMiddleware())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/verify/:token", authHandler.VerifyEmail)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	authProtected := api.Group("/auth")
	authProtected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authProtected.GET("/me", authHandler.Me)
		authProtected.PUT("/language", authHandler.ChangeLanguage)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("", jobHandler.ListJobs)
		jobs.GET("/:id", jobHandler.GetJob)
	}
	api.POST("/jobs", middleware.AuthMiddleware(jwtSecret), jobHandler.CreateJob)

	tutors := api.Group("/tutors")
	{
		tutors.GET("/detail/:id", tutorHandler.GetByID)
		tutors.GET("/:category", tutorHandler.ListByCategory)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
	}

	api.GET("/stats", statsHandler.GetStats)

	affiliates := api.Group("/affiliate")
	affiliates.Use(middleware.AuthMiddleware(jwtSecret))
	{
		affiliates.POST("/apply", affiliateHandler.Apply)
		affiliates.GET("/dashboard", affiliateHandler.Dashboard)
		affiliates.PUT("/payment-method", affiliateHandler.UpdatePaymentMethod)
		affiliates.GET("/transactions", affiliateHandler.ListTransactions)
	}

	uploads := api.Group("/upload")
	uploads.Use(middleware.AuthMiddleware(jwtSecret))
	{
		uploads.POST("", uploadHandler.Upload)
		uploads.GET("", uploadHandler.List)
		uploads.DELETE("/:filename", uploadHandler.Delete)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminMiddleware())
	{
		admin.POST("/affiliate/:id/payout", affiliateHandler.Payout)
	}

	return nil
}
