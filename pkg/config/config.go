package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Finance  FinanceConfig  `mapstructure:"finance"`
	Memory   MemoryConfig   `mapstructure:"memory"`
	Web      WebConfig      `mapstructure:"web"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type GatewayConfig struct {
	// Provider is "bedrock" or "openai".
	Provider string `mapstructure:"provider"`
	ModelID  string `mapstructure:"model_id"`
	Region   string `mapstructure:"region"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type StorageConfig struct {
	// Backend is "dynamo", "postgres" or "memory".
	Backend  string         `mapstructure:"backend"`
	Table    string         `mapstructure:"table"`
	Region   string         `mapstructure:"region"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type FinanceConfig struct {
	Currency string `mapstructure:"currency"`
	// MonthlyIncome is the default income figure used when answering
	// questions; decimal string to avoid float parsing.
	MonthlyIncome string `mapstructure:"monthly_income"`
}

type MemoryConfig struct {
	MaxTurns int `mapstructure:"max_turns"`
}

type WebConfig struct {
	Address string `mapstructure:"address"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("gateway.provider", "bedrock")
	v.SetDefault("gateway.model_id", "amazon.nova-pro-v1:0")
	v.SetDefault("gateway.region", "us-east-1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("storage.backend", "dynamo")
	v.SetDefault("storage.table", "finance-expenses")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "postgres")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("finance.currency", "BRL")
	v.SetDefault("finance.monthly_income", "0")
	v.SetDefault("memory.max_turns", 8)
	v.SetDefault("web.address", ":8080")

	// Enable environment variable support
	v.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Secrets and deployment knobs come from the environment when set.
	if token := v.GetString("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if region := v.GetString("AWS_REGION"); region != "" {
		config.Gateway.Region = region
		config.Storage.Region = region
	}
	if table := v.GetString("DYNAMO_TABLE"); table != "" {
		config.Storage.Table = table
	}
	if income := v.GetString("MONTHLY_INCOME"); income != "" {
		config.Finance.MonthlyIncome = income
	}

	return &config, nil
}
