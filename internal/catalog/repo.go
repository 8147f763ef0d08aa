package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cellarhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const entryColumns = `id, name, category, producer, region, country, wine_type, sub_type`

func scanEntry(rows *sql.Rows) (models.CatalogEntry, error) {
	var (
		e        models.CatalogEntry
		producer sql.NullString
		region   sql.NullString
		country  sql.NullString
		wineType sql.NullString
		subType  sql.NullString
	)

	if err := rows.Scan(&e.ID, &e.Name, &e.Category, &producer, &region, &country, &wineType, &subType); err != nil {
		return e, err
	}

	e.Producer = producer.String
	e.Region = region.String
	e.Country = country.String
	e.WineType = wineType.String
	e.SubType = subType.String
	return e, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM catalog
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	out := make([]models.CatalogEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Search matches the query as a case-insensitive substring of name or
// producer. An empty query matches nothing; callers wanting everything use
// ListAll.
func (r *Repo) Search(ctx context.Context, q string) ([]models.CatalogEntry, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.CatalogEntry{}, nil
	}

	kw := "%" + strings.ToLower(q) + "%"
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM catalog
		WHERE LOWER(name) LIKE ? OR LOWER(producer) LIKE ?
		ORDER BY name ASC
	`, kw, kw)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()

	out := make([]models.CatalogEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return total, nil
}

// ReplaceAll swaps the whole catalog for the given batch inside one
// transaction, so concurrent readers see either the old set or the new set,
// never a mix. Ids restart from scratch; they are not stable across refreshes.
func (r *Repo) ReplaceAll(ctx context.Context, entries []models.CatalogEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace catalog: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM catalog`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog (name, category, producer, region, country, wine_type, sub_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx,
			e.Name, string(e.Category),
			nullString(e.Producer), nullString(e.Region), nullString(e.Country),
			nullString(e.WineType), nullString(e.SubType),
		); err != nil {
			return fmt.Errorf("insert catalog entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace catalog: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
