package main

import (
	"context"
	"log"

	"cabin-booking/cmd"
	"cabin-booking/internal/data/cache"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/queue"
	"cabin-booking/internal/scheduler"
	"cabin-booking/internal/usecase"
	"cabin-booking/internal/wire"
	"cabin-booking/pkg/database"
	"cabin-booking/pkg/middleware"
	"cabin-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.RunMigrations(context.Background(), db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	repos := repository.NewRepository(db, logger)

	// Redis is optional. Without it availability is never cached and
	// requests are not rate limited.
	var (
		rdb     redis.Cmdable
		limiter *middleware.RateLimiter
	)
	if config.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unreachable, continuing without it", zap.Error(err))
		}
		rdb = client
		limiter = middleware.NewRateLimiter(client, config.RateLimit, logger)
	}
	availability := cache.NewAvailabilityCache(rdb, config.Redis.AvailabilityTTL)

	var publisher queue.Publisher = queue.NoopPublisher{}
	if config.Events.Enabled {
		amqpPublisher, err := queue.NewAMQPPublisher(config.Events.URL, config.Events.Exchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	jobs := scheduler.New(repos.Session, config.Jobs.SessionCleanupSpec, logger)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer jobs.Stop()

	service := usecase.NewService(repos, availability, publisher, config, logger)
	app := wire.Wiring(repos, service, limiter, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
