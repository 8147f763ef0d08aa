package models

import "time"

// VintageStock is one year's worth of a bottle's stock. A bottle never holds
// two entries for the same year.
type VintageStock struct {
	Vintage int `json:"vintage"`
	Stock   int `json:"stock"`
}

type Bottle struct {
	ID            int64          `json:"id"`
	OwnerID       string         `json:"owner_id"`
	Name          string         `json:"name"`
	Category      Category       `json:"category"`
	Producer      string         `json:"producer,omitempty"`
	Region        string         `json:"region,omitempty"`
	Country       string         `json:"country,omitempty"`
	WineType      string         `json:"wine_type,omitempty"`
	SubType       string         `json:"sub_type,omitempty"`
	VintageStocks []VintageStock `json:"vintage_stocks"`
	StockLevel    int            `json:"stock_level"`
	Notes         string         `json:"notes,omitempty"`
	Rating        *int           `json:"rating,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
