// Package config builds the process-wide configuration once at startup.
// Components receive it by reference; nothing reads ambient globals.
package config

import (
	"os"

	"github.com/bleupos/promo-service/pkg/db"
)

type Config struct {
	ListenAddr string

	// AuthServiceURL is the identity service's /users/me endpoint.
	AuthServiceURL string
	// CatalogServiceURL is the product service's details endpoint.
	CatalogServiceURL string
	// AuditServiceURL is the ledger service's /log endpoint.
	AuditServiceURL string

	Postgres db.PostgresConfig
}

func Load() (*Config, error) {
	pg, err := db.LoadPostgresConfig()
	if err != nil {
		return nil, err
	}
	return &Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":9002"),
		AuthServiceURL:    getEnv("AUTH_SERVICE_ME_URL", "http://localhost:4000/auth/users/me"),
		CatalogServiceURL: getEnv("PRODUCTS_SERVICE_URL", "http://localhost:8001/is_products/products/details/"),
		AuditServiceURL:   getEnv("AUDIT_LOG_URL", "http://localhost:9005/blockchain/log"),
		Postgres:          pg,
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
