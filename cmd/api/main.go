// server/cmd/api/main.go
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"parcel-track-api-server/config"
	"parcel-track-api-server/internal/api/routes"
	"parcel-track-api-server/internal/database"
	"parcel-track-api-server/internal/logging"
	"parcel-track-api-server/internal/socket"
	"parcel-track-api-server/internal/storage"
)

func main() {
	// 1. Load configuration (.env is optional, real env vars win)
	godotenv.Load()
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	logger, err := logging.Init(cfg.Log)
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. Connect to MongoDB and bootstrap indexes
	ctx := context.Background()
	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	// 3. Blob storage for parcel photos and profile pictures
	uploader, err := storage.NewUploader(cfg.S3)
	if err != nil {
		logger.Fatal("failed to initialize S3 uploader", zap.Error(err))
	}

	// 4. WebSocket hub for live status updates
	hub := socket.NewHub(logger)

	// 5. Wire everything into the router
	router := routes.SetupRouter(cfg, db, uploader, hub, logger)

	// 6. Start server
	logger.Info("starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}
