// Package inventory provides a read-only snapshot index over inventory items.
package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"wareflow-system/internal/database/models"
)

// Index is an in-memory snapshot of one organization's inventory items. It
// never mutates the underlying collection; mutations flow through the CRUD
// handlers instead.
type Index struct {
	items []models.InventoryItem
}

func NewIndex(items []models.InventoryItem) *Index {
	return &Index{items: items}
}

// Items returns the snapshot contents in their original order.
func (x *Index) Items() []models.InventoryItem {
	return x.items
}

// ByID returns the item with the given id, or nil when absent.
func (x *Index) ByID(id int64) *models.InventoryItem {
	for i := range x.items {
		if x.items[i].ID == id {
			return &x.items[i]
		}
	}
	return nil
}

// FindByLocation returns items stored at the given canonical location,
// matching either the primary or the picking bin location. An item whose two
// locations both match appears exactly once. An unknown location yields an
// empty result, never an error.
func (x *Index) FindByLocation(full string) []models.InventoryItem {
	matched := []models.InventoryItem{}
	if full == "" {
		return matched
	}
	for _, it := range x.items {
		if it.Location == full || it.PickingBinLocation == full {
			matched = append(matched, it)
		}
	}
	return matched
}

// Search performs a case-insensitive substring match against item name and SKU.
func (x *Index) Search(term string) []models.InventoryItem {
	needle := strings.ToLower(term)
	matched := []models.InventoryItem{}
	for _, it := range x.items {
		if strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.SKU), needle) {
			matched = append(matched, it)
		}
	}
	return matched
}

// Locations returns every location string present in the snapshot, primary
// and picking bin alike, for axis extraction.
func (x *Index) Locations() []string {
	locs := []string{}
	for _, it := range x.items {
		if it.Location != "" {
			locs = append(locs, it.Location)
		}
		if it.PickingBinLocation != "" {
			locs = append(locs, it.PickingBinLocation)
		}
	}
	return locs
}

// TotalValue sums quantity times unit cost over the given items. Unit costs
// that fail to parse count as zero rather than failing the whole sum.
func TotalValue(items []models.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		cost, err := decimal.NewFromString(it.UnitCost)
		if err != nil {
			continue
		}
		total = total.Add(cost.Mul(decimal.NewFromInt32(it.Quantity())))
	}
	return total
}
