package db

import (
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func LoadPostgresConfig() (PostgresConfig, error) {
	port := 5432
	if v := os.Getenv("DB_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return PostgresConfig{}, err
		}
		port = p
	}

	return PostgresConfig{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     port,
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   envOr("DB_NAME", "pos"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
