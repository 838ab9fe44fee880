package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	CORSOrigins string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBLogging  bool
}

// Load collects configuration from the environment, reading a local .env
// file first when one exists.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env file")
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "coffee_shop_stock"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBLogging:   getEnv("DB_LOGGING", "false") == "true",
	}

	if cfg.DBPassword == "postgres" {
		log.Println("[WARN] DB_PASSWORD is the default value, set your own for anything beyond local development")
	}

	return cfg
}

// DSN assembles the Postgres connection string from the discrete DB options.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
