package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string
	OpenAIModel      string
	Port             string
	DBPath           string
	PlanPath         string
	ReportChatID     int64
	ReportSchedule   string
	YahooHosts       []string
	YahooRPS         float64
	LogLevel         string
	LogFormat        string
}

// Load reads the environment, after loading .env if one exists.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}
	chatID, err := getEnvAsInt64("REPORT_CHAT_ID", 0)
	if err != nil {
		return Config{}, err
	}
	rps, err := getEnvAsFloat("YAHOO_RPS", 2)
	if err != nil {
		return Config{}, err
	}
	return Config{
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookPublicURL: os.Getenv("WEBHOOK_PUBLIC_URL"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4"),
		Port:             getEnv("PORT", "9095"),
		DBPath:           getEnv("DB_PATH", "/app/data/prices.db"),
		PlanPath:         getEnv("FUND_PLAN", "fund.yaml"),
		ReportChatID:     chatID,
		ReportSchedule:   os.Getenv("REPORT_SCHEDULE"),
		YahooHosts:       splitList(getEnv("YAHOO_HOSTS", "query1.finance.yahoo.com,query2.finance.yahoo.com")),
		YahooRPS:         rps,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}, nil
}

// RequireBot checks the settings only the Telegram bot needs.
func (c Config) RequireBot() error {
	var missing []string
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.WebhookPublicURL == "" {
		missing = append(missing, "WEBHOOK_PUBLIC_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) (int64, error) {
	s := getEnv(key, "")
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", key, err)
	}
	return v, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	s := getEnv(key, "")
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", key, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
