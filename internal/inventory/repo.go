package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
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

// CreateInput carries the caller-settable fields of a new bottle.
type CreateInput struct {
	Name          string
	Category      models.Category
	Producer      string
	Region        string
	Country       string
	WineType      string
	SubType       string
	VintageStocks []models.VintageStock
	StockLevel    int
	Notes         string
	Rating        *int
}

// Patch is a partial update: nil fields are left untouched. A supplied
// VintageStocks list is merged additively by year into the stored breakdown.
type Patch struct {
	Name          *string
	Category      *models.Category
	Producer      *string
	Region        *string
	Country       *string
	WineType      *string
	SubType       *string
	VintageStocks *[]models.VintageStock
	StockLevel    *int
	Notes         *string
	Rating        *int
}

const bottleColumns = `id, owner_id, name, category, producer, region, country,
	wine_type, sub_type, vintage_stocks, stock_level, notes, rating, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBottle(row rowScanner) (*models.Bottle, error) {
	var (
		b        models.Bottle
		producer sql.NullString
		region   sql.NullString
		country  sql.NullString
		wineType sql.NullString
		subType  sql.NullString
		vintages string
		notes    sql.NullString
		rating   sql.NullInt64
	)

	if err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Category, &producer, &region, &country,
		&wineType, &subType, &vintages, &b.StockLevel, &notes, &rating, &b.CreatedAt,
	); err != nil {
		return nil, err
	}

	b.Producer = producer.String
	b.Region = region.String
	b.Country = country.String
	b.WineType = wineType.String
	b.SubType = subType.String
	b.Notes = notes.String
	if rating.Valid {
		v := int(rating.Int64)
		b.Rating = &v
	}

	b.VintageStocks = []models.VintageStock{}
	_ = json.Unmarshal([]byte(vintages), &b.VintageStocks)
	return &b, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*models.Bottle, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+bottleColumns+`
		FROM bottles
		WHERE id = ?
	`, id)

	b, err := scanBottle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get bottle: %w", err)
	}
	return b, nil
}

// List returns every bottle, scoped to one owner when ownerID is non-empty.
// An empty category means no category filter.
func (r *Repo) List(ctx context.Context, ownerID string, category models.Category) ([]models.Bottle, error) {
	sqlStr, args := buildListSQL(ownerID, category)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list bottles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bottle, 0)
	for rows.Next() {
		b, err := scanBottle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bottle row: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// ListByCategory is List restricted to an exact category match.
func (r *Repo) ListByCategory(ctx context.Context, category models.Category, ownerID string) ([]models.Bottle, error) {
	return r.List(ctx, ownerID, category)
}

func buildListSQL(ownerID string, category models.Category) (string, []any) {
	sqlStr := `SELECT ` + bottleColumns + ` FROM bottles`

	var where []string
	var args []any

	if ownerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, ownerID)
	}
	if category != "" {
		where = append(where, "category = ?")
		args = append(args, string(category))
	}

	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	sqlStr += " ORDER BY name ASC"
	return sqlStr, args
}

func (r *Repo) Create(ctx context.Context, ownerID string, in CreateInput) (*models.Bottle, error) {
	if err := validateVintages(in.VintageStocks); err != nil {
		return nil, err
	}

	b := models.Bottle{
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(in.Name),
		Category:      in.Category,
		Producer:      strings.TrimSpace(in.Producer),
		Region:        strings.TrimSpace(in.Region),
		Country:       strings.TrimSpace(in.Country),
		WineType:      strings.TrimSpace(in.WineType),
		SubType:       strings.TrimSpace(in.SubType),
		VintageStocks: mergeVintages(in.VintageStocks),
		StockLevel:    in.StockLevel,
		Notes:         in.Notes,
		Rating:        in.Rating,
	}

	if err := validateBottle(&b); err != nil {
		return nil, err
	}
	reconcileStock(&b)

	vintages, err := json.Marshal(b.VintageStocks)
	if err != nil {
		return nil, fmt.Errorf("marshal vintage stocks: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO bottles (owner_id, name, category, producer, region, country,
			wine_type, sub_type, vintage_stocks, stock_level, notes, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.OwnerID, b.Name, string(b.Category),
		nullString(b.Producer), nullString(b.Region), nullString(b.Country),
		nullString(b.WineType), nullString(b.SubType),
		string(vintages), b.StockLevel, nullString(b.Notes), nullInt(b.Rating))
	if err != nil {
		return nil, fmt.Errorf("insert bottle: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.Get(ctx, id)
}

// Update applies a partial patch onto the stored bottle and re-runs the stock
// invariant. Returns (nil, nil) when the id does not exist. Concurrent updates
// to the same id are last-write-wins; there is no version check.
func (r *Repo) Update(ctx context.Context, id int64, p Patch) (*models.Bottle, error) {
	b, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}

	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Producer != nil {
		b.Producer = strings.TrimSpace(*p.Producer)
	}
	if p.Region != nil {
		b.Region = strings.TrimSpace(*p.Region)
	}
	if p.Country != nil {
		b.Country = strings.TrimSpace(*p.Country)
	}
	if p.WineType != nil {
		b.WineType = strings.TrimSpace(*p.WineType)
	}
	if p.SubType != nil {
		b.SubType = strings.TrimSpace(*p.SubType)
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Rating != nil {
		b.Rating = p.Rating
	}
	if p.StockLevel != nil {
		b.StockLevel = *p.StockLevel
	}
	if p.VintageStocks != nil {
		if err := validateVintages(*p.VintageStocks); err != nil {
			return nil, err
		}
		b.VintageStocks = mergeVintages(b.VintageStocks, *p.VintageStocks)
	}

	if err := validateBottle(b); err != nil {
		return nil, err
	}
	reconcileStock(b)

	vintages, err := json.Marshal(b.VintageStocks)
	if err != nil {
		return nil, fmt.Errorf("marshal vintage stocks: %w", err)
	}

	if _, err := r.DB.ExecContext(ctx, `
		UPDATE bottles
		SET name = ?, category = ?, producer = ?, region = ?, country = ?,
			wine_type = ?, sub_type = ?, vintage_stocks = ?, stock_level = ?,
			notes = ?, rating = ?
		WHERE id = ?
	`, b.Name, string(b.Category),
		nullString(b.Producer), nullString(b.Region), nullString(b.Country),
		nullString(b.WineType), nullString(b.SubType),
		string(vintages), b.StockLevel, nullString(b.Notes), nullInt(b.Rating),
		id); err != nil {
		return nil, fmt.Errorf("update bottle: %w", err)
	}

	return r.Get(ctx, id)
}

// Delete reports whether a bottle existed to remove; deleting an absent id is
// not an error.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM bottles
		WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete bottle: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
