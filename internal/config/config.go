package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	DataDir     string
	JWTSecret   string
	Timezone    string

	CORSAllowedOrigins []string

	AMQPURL      string
	AMQPExchange string

	GeminiAPIKey string
	GeminiModel  string

	LoginRatePerSecond float64
	LoginBurst         int

	ReceiptWidth int
}

// Load reads the configuration from the environment, with an optional .env
// file in the working directory.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("WARN: .env file not loaded, using environment variables: %v", err)
	}

	v.SetDefault("PORT", "8081")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	v.SetDefault("TIMEZONE", "Asia/Dhaka")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "pos_events")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "")
	v.SetDefault("LOGIN_RATE_PER_SECOND", 0.2)
	v.SetDefault("LOGIN_BURST", 5)
	v.SetDefault("RECEIPT_WIDTH", 32)

	return &Config{
		Port:               v.GetString("PORT"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DataDir:            v.GetString("DATA_DIR"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		Timezone:           v.GetString("TIMEZONE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AMQPURL:            v.GetString("AMQP_URL"),
		AMQPExchange:       v.GetString("AMQP_EXCHANGE"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		LoginRatePerSecond: v.GetFloat64("LOGIN_RATE_PER_SECOND"),
		LoginBurst:         v.GetInt("LOGIN_BURST"),
		ReceiptWidth:       v.GetInt("RECEIPT_WIDTH"),
	}
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("WARN: unknown TIMEZONE %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
