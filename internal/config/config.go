package config

import (
	"log"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	DBDSN   string `env:"DB_DSN" envDefault:"stagepass.db"` // sqlite file in project root
	LogFile string `env:"LOG_FILE" envDefault:"./stagepass.log"`

	// Payment provider secret. Empty means demo mode: checkout simulates a
	// successful confirmation instead of talking to Stripe.
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`

	// Bootstrap value for the CustomCat API key setting. The runtime key
	// lives in the settings table and is managed through the admin API.
	CustomCatAPIKey string `env:"CUSTOMCAT_API_KEY"`
}

func Load() Config {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("[config] parse environment: %v", err)
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s stripe=%v", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.StripeSecretKey != "")
	return cfg
}
