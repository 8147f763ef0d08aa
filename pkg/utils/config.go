package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("CELLARHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("CELLARHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "cellarhub"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("CELLARHUB_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

// CatalogCSVPath is where the reference catalog is (re)loaded from.
func CatalogCSVPath() string {
	if p := os.Getenv("CELLARHUB_CATALOG_CSV"); p != "" {
		return p
	}
	return "data/catalog.csv"
}
