package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sahayak-edu/sahayak-api/internal/grading"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	NotificationSubject string
	OpenAIAPIKey        string
	AIModels            []string
	AIMaxTokens         int
	AITemperature       float32
	ResultsCacheTTL     time.Duration
	DispatchTimeout     time.Duration
	Matcher             grading.Thresholds
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SAHAYAK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Sahayak Evaluation API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.models", "gpt-4o-mini,gpt-3.5-turbo")
	v.SetDefault("ai.max_tokens", 200)
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("results.cache_ttl", "5m")
	v.SetDefault("dispatch.timeout", "5m")
	v.SetDefault("notifications.subject", "sahayak.notifications")
	v.SetDefault("matcher.numeric_high", 0.7)
	v.SetDefault("matcher.numeric_low", 0.5)
	v.SetDefault("matcher.numeric_high_factor", 0.8)
	v.SetDefault("matcher.numeric_low_factor", 0.5)
	v.SetDefault("matcher.text_correct", 0.7)
	v.SetDefault("matcher.text_partial", 0.4)
	v.SetDefault("matcher.text_partial_factor", 0.5)

	cacheTTL, err := time.ParseDuration(v.GetString("results.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid results cache ttl: %w", err)
	}

	dispatchTimeout, err := time.ParseDuration(v.GetString("dispatch.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dispatch timeout: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		NotificationSubject: v.GetString("notifications.subject"),
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		AIModels:            splitModels(v.GetString("ai.models")),
		AIMaxTokens:         v.GetInt("ai.max_tokens"),
		AITemperature:       float32(v.GetFloat64("ai.temperature")),
		ResultsCacheTTL:     cacheTTL,
		DispatchTimeout:     dispatchTimeout,
		Matcher: grading.Thresholds{
			NumericHigh:       v.GetFloat64("matcher.numeric_high"),
			NumericLow:        v.GetFloat64("matcher.numeric_low"),
			NumericHighFactor: v.GetFloat64("matcher.numeric_high_factor"),
			NumericLowFactor:  v.GetFloat64("matcher.numeric_low_factor"),
			TextCorrect:       v.GetFloat64("matcher.text_correct"),
			TextPartial:       v.GetFloat64("matcher.text_partial"),
			TextPartialFactor: v.GetFloat64("matcher.text_partial_factor"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if len(cfg.AIModels) == 0 {
		return Config{}, fmt.Errorf("at least one ai model must be configured")
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 200
	}

	return cfg, nil
}

func splitModels(models string) []string {
	parts := strings.Split(models, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
