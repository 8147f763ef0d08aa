package main

import (
	"context"
	"flag"
	"log"
	"time"

	"cellarhub/internal/catalog"
	"cellarhub/pkg/database"
	"cellarhub/pkg/utils"
)

func main() {
	var (
		source = flag.String("catalog", utils.CatalogCSVPath(), "input CSV path for the reference catalog")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := catalog.NewRepo(db)
	n, err := repo.Refresh(ctx, *source)
	if err != nil {
		log.Fatalf("catalog refresh failed: %v", err)
	}

	log.Printf("✅ replaced catalog with %d entries from %s", n, *source)
}
