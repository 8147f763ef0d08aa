package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cellarhub/pkg/database"
)

func main() {
	var (
		bottlesOut = flag.String("bottles", "data/bottles.csv", "output CSV path for bottles")
		catalogOut = flag.String("catalog", "data/catalog-export.csv", "output CSV path for the catalog")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportBottles(ctx, db, *bottlesOut); err != nil {
		log.Fatalf("export bottles failed: %v", err)
	}
	if err := exportCatalog(ctx, db, *catalogOut); err != nil {
		log.Fatalf("export catalog failed: %v", err)
	}

	log.Printf("✅ exported bottles to %s and catalog to %s", *bottlesOut, *catalogOut)
}

func exportBottles(ctx context.Context, db *sql.DB, outPath string) error {
	w, f, err := openWriter(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{
		"id", "owner_id", "name", "category", "producer", "region", "country",
		"wine_type", "sub_type", "vintage_stocks", "stock_level", "notes", "rating", "created_at",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, owner_id, name, category, producer, region, country,
			wine_type, sub_type, vintage_stocks, stock_level, notes, rating, created_at
		FROM bottles
		ORDER BY id ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         int64
			ownerID    string
			name       string
			category   string
			producer   sql.NullString
			region     sql.NullString
			country    sql.NullString
			wineType   sql.NullString
			subType    sql.NullString
			vintages   string
			stockLevel int
			notes      sql.NullString
			rating     sql.NullInt64
			createdAt  time.Time
		)
		if err := rows.Scan(&id, &ownerID, &name, &category, &producer, &region, &country,
			&wineType, &subType, &vintages, &stockLevel, &notes, &rating, &createdAt); err != nil {
			return err
		}

		ratingStr := ""
		if rating.Valid {
			ratingStr = strconv.FormatInt(rating.Int64, 10)
		}

		if err := w.Write([]string{
			strconv.FormatInt(id, 10), ownerID, name, category,
			producer.String, region.String, country.String,
			wineType.String, subType.String,
			vintages, strconv.Itoa(stockLevel),
			notes.String, ratingStr,
			createdAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportCatalog(ctx context.Context, db *sql.DB, outPath string) error {
	w, f, err := openWriter(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"name", "category", "producer", "region", "country", "wine_type", "sub_type"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT name, category, producer, region, country, wine_type, sub_type
		FROM catalog
		ORDER BY id ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name     string
			category string
			producer sql.NullString
			region   sql.NullString
			country  sql.NullString
			wineType sql.NullString
			subType  sql.NullString
		)
		if err := rows.Scan(&name, &category, &producer, &region, &country, &wineType, &subType); err != nil {
			return err
		}

		if err := w.Write([]string{
			name, category, producer.String, region.String, country.String,
			wineType.String, subType.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func openWriter(outPath string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(f), f, nil
}
