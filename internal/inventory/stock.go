package inventory

import (
	"sort"
	"time"

	"cellarhub/pkg/models"
)

// mergeVintages collapses duplicate years into a single entry by summing their
// stock, and returns the list sorted by vintage ascending. The result is never
// nil so an empty breakdown serializes as [].
func mergeVintages(lists ...[]models.VintageStock) []models.VintageStock {
	byYear := make(map[int]int)
	for _, list := range lists {
		for _, v := range list {
			byYear[v.Vintage] += v.Stock
		}
	}

	out := make([]models.VintageStock, 0, len(byYear))
	for year, stock := range byYear {
		out = append(out, models.VintageStock{Vintage: year, Stock: stock})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vintage < out[j].Vintage })
	return out
}

func totalStock(vs []models.VintageStock) int {
	sum := 0
	for _, v := range vs {
		sum += v.Stock
	}
	return sum
}

// reconcileStock enforces the stock invariant on a bottle about to be written:
// for vintage-tracked categories with a non-empty breakdown, stock_level is the
// sum of the per-year stocks, whatever the caller supplied. For everything else
// stock_level stands as given and the breakdown does not feed the total.
func reconcileStock(b *models.Bottle) {
	if b.Category.VintageTracked() && len(b.VintageStocks) > 0 {
		b.StockLevel = totalStock(b.VintageStocks)
	}
}

// validateBottle runs every schema check before any write happens.
func validateBottle(b *models.Bottle) error {
	if b.Name == "" {
		return errValidation("name is required")
	}
	if !b.Category.Valid() {
		return errValidation("unknown category %q", b.Category)
	}
	if b.Rating != nil && (*b.Rating < 1 || *b.Rating > 5) {
		return errValidation("rating must be between 1 and 5")
	}
	if b.StockLevel < 0 {
		return errValidation("stock_level must be >= 0")
	}

	return validateVintages(b.VintageStocks)
}

// validateVintages checks a breakdown entry by entry. It must run on the raw
// caller-supplied list before duplicate years are merged, otherwise a negative
// entry can hide behind a positive one for the same year.
func validateVintages(vs []models.VintageStock) error {
	currentYear := time.Now().Year()
	for _, v := range vs {
		if v.Vintage <= 0 {
			return errValidation("vintage %d is not a valid year", v.Vintage)
		}
		if v.Vintage > currentYear {
			return errValidation("vintage %d is in the future", v.Vintage)
		}
		if v.Stock < 0 {
			return errValidation("stock for vintage %d must be >= 0", v.Vintage)
		}
	}
	return nil
}
