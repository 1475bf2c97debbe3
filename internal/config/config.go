// internal/config/config.go
//
// Runtime configuration for the Bulls and Cows server.
// Values come from the environment, optionally seeded from a .env file
// (loaded with godotenv; a missing file is not an error).
//
// Environment variables:
//   PORT              listen port (default 5175)
//   LOG_LEVEL         zerolog level name (default info)
//   DB_PATH           SQLite file for records (default ./data/bullscows.db)
//   JWT_SECRET        HS256 signing key (default dev_secret_change_me)
//   JWT_EXPIRES_DAYS  token lifetime in days (default 14)
//   COOKIE_NAME       auth cookie name (default bullscows_token)
//   CLIENT_ORIGIN     allowed CORS origin (default http://localhost:5173)
//   DAILY_SALT        HMAC salt for the daily secret (default local_dev_salt)
//   NODE_ENV          "production" enables Secure/SameSite=None cookies

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every tunable used by cmd wiring and the HTTP server.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	Production     bool
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "./data/bullscows.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getEnvInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "bullscows_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
