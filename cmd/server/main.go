package main

import (
	"log"
	"time"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/activity"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/auth"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/chat"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/config"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/database"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/realtime"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/routes"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/storage"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/store"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/webhook"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to init logger: ", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}

	cache := querycache.NewStore(querycache.Options{
		StaleAfter:      cfg.CacheStaleAfter,
		GCAfter:         cfg.CacheGCAfter,
		JanitorInterval: time.Minute,
	})
	defer cache.Close()

	hub := realtime.NewHub()
	act := activity.NewLogger(db, hub, logger)
	objects := storage.NewFileStore(afero.NewOsFs(), cfg.StorageDir, cfg.StorageSecret)
	hooks := webhook.NewDispatcher(cfg.LenderWebhookURL, logger)

	completer := chat.NewOpenAIClient(cfg.ChatAPIURL, cfg.ChatAPIKey, cfg.ChatModel)
	chatSvc := chat.NewService(db, completer, hub, logger)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	stores := store.New(db, cache, act, objects, hooks, logger, int64(cfg.SignedURLTTL.Seconds()))

	engine := routes.Setup(routes.Deps{
		DB:      db,
		Tokens:  tokens,
		Stores:  stores,
		Objects: objects,
		Chat:    chatSvc,
		Hub:     hub,
		Log:     logger,
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := engine.Run(cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
