package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/tuitionterminal/backend/internal/config"
	"github.com/tuitionterminal/backend/internal/database"
	"github.com/tuitionterminal/backend/internal/database/migrations"
	"github.com/tuitionterminal/backend/internal/jobs"
	"github.com/tuitionterminal/backend/internal/queue"
	"github.com/tuitionterminal/backend/internal/routes"
	"github.com/tuitionterminal/backend/internal/services/affiliate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		log.Printf("Invalid Redis URL, caching disabled: %v", err)
	} else {
		redisClient = redis.NewClient(opts)
	}

	jobQueue := queue.NewQueue(db)
	jobs.RegisterReferralCreditJobHandlers(jobQueue, affiliate.NewService(db))
	go jobQueue.ProcessJobs()
	defer jobQueue.StopProcessing()

	scheduler := jobs.NewScheduler(db)
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	if err := routes.SetupRoutes(router, db, cfg, redisClient, jobQueue); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
