package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/PavaniTiago/survey-api/internal/application/usecases"
	"github.com/PavaniTiago/survey-api/internal/config"
	"github.com/PavaniTiago/survey-api/internal/domain/repositories"
	"github.com/PavaniTiago/survey-api/internal/infrastructure/cache"
	"github.com/PavaniTiago/survey-api/internal/infrastructure/database"
	"github.com/PavaniTiago/survey-api/internal/infrastructure/repository"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/handlers"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/middleware"
	"github.com/PavaniTiago/survey-api/internal/interfaces/http/routes"
	"github.com/PavaniTiago/survey-api/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func main() {
	conf, err := config.Load()
	utils.InitLogger(conf.Logging)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database
	db, err := database.SetupDatabase(conf)
	if err != nil {
		slog.Error("error setting up database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	isolation, err := conf.IsolationLevel()
	if err != nil {
		slog.Error("invalid isolation level", slog.String("error", err.Error()))
		os.Exit(1)
	}
	store := repositories.NewStore(db, isolation)
	directory := cache.NewCachedDirectory(repository.NewEmployeeRepository(db), conf.DirectoryTTL())

	var statsCache usecases.StatisticsCache = cache.NewMemoryStatisticsCache(conf.StatisticsTTL())
	if conf.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, conf.Redis)
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, using in-memory statistics cache",
				slog.String("addr", conf.Redis.Addr),
				slog.String("error", err.Error()))
		} else {
			defer client.Close()
			statsCache = cache.NewRedisStatisticsCache(client, conf.StatisticsTTL())
		}
	}

	location := utils.LoadLocation(conf.Timezone)
	useCases := usecases.New(store, directory, statsCache, usecases.Options{
		StoreTimeout:    conf.StoreTimeout(),
		Location:        location,
		AnonymousSecret: conf.AnonSecret,
	})

	app := fiber.New(fiber.Config{
		// Set reasonable body limit
		BodyLimit: 10 * 1024 * 1024, // 10MB
		// Configure server for better performance
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	// Setup middleware
	middleware.SetupMiddlewares(app, conf.AllowOrigins)

	// Setup routes
	routes.SetupRoutes(app, handlers.NewHandlers(useCases, location), middleware.Actor(conf.Auth.JWTSecret))

	slog.Info("server is running", slog.String("port", conf.Port), slog.String("timezone", location.String()))
	if err := app.Listen(":" + conf.Port); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
