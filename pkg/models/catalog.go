package models

// CatalogEntry is one row of the reference catalog of known wines. Entries are
// replaced wholesale on every refresh, so ids are not stable across refreshes.
type CatalogEntry struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Producer string   `json:"producer,omitempty"`
	Region   string   `json:"region,omitempty"`
	Country  string   `json:"country,omitempty"`
	WineType string   `json:"wine_type,omitempty"`
	SubType  string   `json:"sub_type,omitempty"`
}
