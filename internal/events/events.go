package events

import "time"

const (
	BottleCreated = "bottle.create"
	BottleUpdated = "bottle.update"
	BottleDeleted = "bottle.delete"
	CatalogReload = "catalog.refresh"
)

// BottleEvent tells connected clients that one bottle changed so they can
// re-fetch without polling.
type BottleEvent struct {
	Type       string    `json:"type"`
	OwnerID    string    `json:"owner_id"`
	BottleID   int64     `json:"bottle_id"`
	StockLevel int       `json:"stock_level,omitempty"`
	At         time.Time `json:"at"`
}

type CatalogEvent struct {
	Type    string    `json:"type"`
	Entries int       `json:"entries"`
	At      time.Time `json:"at"`
}
