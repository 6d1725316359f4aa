package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Bot      BotConfig
}

type AppConfig struct {
	Port                string
	Environment         string
	LogFilePath         string
	CorsAllowedOrigins  string
	PingURL             string
	PingIntervalMinutes int
}

type TelegramConfig struct {
	Token      string `validate:"required"`
	BaseURL    string
	WebhookURL string
}

type SheetsConfig struct {
	SpreadsheetID string `validate:"required"`
	APIKey        string `validate:"required"`
	SheetName     string
	BaseURL       string
}

type BotConfig struct {
	Password     string
	UpdatesTopic string
}

// Load reads the environment (plus an optional .env file) and fails when a
// required key is missing: the process must not come up half-configured.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:                getEnv("APP_PORT", "5000"),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
			PingURL:             getEnv("PING_URL", ""),
			PingIntervalMinutes: getEnvAsInt("PING_INTERVAL_MINUTES", 10),
		},
		Telegram: TelegramConfig{
			Token:      getEnv("TELEGRAM_TOKEN", ""),
			BaseURL:    getEnv("TELEGRAM_API_BASE_URL", ""),
			WebhookURL: getEnv("WEBHOOK_URL", ""),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: getEnv("SHEET_ID", ""),
			APIKey:        getEnv("GOOGLE_API_KEY", ""),
			SheetName:     getEnv("SHEET_NAME", "Sheet1"),
			BaseURL:       getEnv("SHEETS_API_BASE_URL", ""),
		},
		Bot: BotConfig{
			Password:     getEnv("BOT_PASSWORD", "vibes"),
			UpdatesTopic: getEnv("UPDATES_TOPIC_NAME", "telegram.updates"),
		},
	}

	if cfg.App.PingURL == "" {
		cfg.App.PingURL = fmt.Sprintf("http://localhost:%s/health", cfg.App.Port)
	}

	v := validator.New()
	if err := v.Struct(cfg.Telegram); err != nil {
		return nil, fmt.Errorf("config: TELEGRAM_TOKEN is required: %w", err)
	}
	if err := v.Struct(cfg.Sheets); err != nil {
		return nil, fmt.Errorf("config: SHEET_ID and GOOGLE_API_KEY are required: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
