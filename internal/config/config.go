package config

import (
	"fmt"
	"os"
)

type Config struct {
	TableName  string
	JWTSecret  string
	ServerPort string

	// Redis guards the booking critical section. Empty disables locking
	// and restores plain read-modify-write.
	RedisAddr string

	MediaBucket string
	CDNDomain   string

	SendgridAPIKey string
	FromEmail      string
	FromName       string
	AppDomain      string
}

func Load() *Config {
	return &Config{
		TableName:  getEnv("TABLE_NAME", "therapy-practice"),
		JWTSecret:  getEnv("JWT_SECRET", "changeme"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		MediaBucket: getEnv("MEDIA_BUCKET", ""),
		CDNDomain:   getEnv("CDN_DOMAIN", ""),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:      getEnv("SENDGRID_FROM_EMAIL", ""),
		FromName:       getEnv("SENDGRID_FROM_NAME", "Praxis PIM"),
		AppDomain:      getEnv("APP_DOMAIN", "http://localhost:3000"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
