package main

import (
	"context"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/advisor"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/classifier"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/gateway"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/storage"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/web"
	"github.com/heitorleonny/rag-bedrock-piloto/pkg/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	completer := newCompleter(cfg, logger)
	store := newStore(cfg, logger)
	defer store.Close()

	clf := classifier.New(completer, cfg.Finance.Currency, logger)
	adv := advisor.New(completer, logger)

	server := web.NewServer(store, clf, adv, cfg.Finance.Currency, logger)

	logger.Info("Web form listening", zap.String("address", cfg.Web.Address))
	if err := http.ListenAndServe(cfg.Web.Address, server); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func newCompleter(cfg *config.Config, logger *zap.Logger) gateway.Completer {
	switch cfg.Gateway.Provider {
	case "openai":
		logger.Info("Using OpenAI gateway", zap.String("model", cfg.OpenAI.Model))
		return gateway.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	default:
		logger.Info("Using Bedrock gateway",
			zap.String("model_id", cfg.Gateway.ModelID),
			zap.String("region", cfg.Gateway.Region))
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Gateway.Region))
		if err != nil {
			logger.Fatal("Failed to load AWS config", zap.Error(err))
		}
		return gateway.NewBedrockClient(awsCfg, cfg.Gateway.ModelID, logger)
	}
}

func newStore(cfg *config.Config, logger *zap.Logger) storage.Store {
	switch cfg.Storage.Backend {
	case "memory":
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage()
	case "postgres":
		logger.Info("Using PostgreSQL storage")
		store, err := storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Storage.Postgres.Host,
			Port:     cfg.Storage.Postgres.Port,
			User:     cfg.Storage.Postgres.User,
			Password: cfg.Storage.Postgres.Password,
			DBName:   cfg.Storage.Postgres.DBName,
			SSLMode:  cfg.Storage.Postgres.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
		return store
	default:
		logger.Info("Using DynamoDB storage",
			zap.String("table", cfg.Storage.Table),
			zap.String("region", cfg.Storage.Region))
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			logger.Fatal("Failed to load AWS config", zap.Error(err))
		}
		return storage.NewDynamoStore(awsCfg, cfg.Storage.Table, logger)
	}
}
