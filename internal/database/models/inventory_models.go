package models

import "time"

// Stock status labels derived from quantity vs reorder level. Never stored.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

type InventoryItem struct {
	ID                  int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID      int64  `gorm:"index;not null"`
	SKU                 string `gorm:"size:100;uniqueIndex"`
	Name                string `gorm:"size:255;not null"`
	Category            string `gorm:"size:100"`
	PickingBinQuantity  int32
	OverstockQuantity   int32
	ReorderLevel        int32
	PickingReorderLevel int32
	UnitCost            string `gorm:"size:50"`
	RetailPrice         string `gorm:"size:50"`
	Location            string `gorm:"size:100;index"`
	PickingBinLocation  string `gorm:"size:100;index"`
	LotNumber           string `gorm:"size:100"`
	ExpirationDate      string `gorm:"size:50"`
	SerialNumber        string `gorm:"size:100"`
	LastUpdated         time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Movements []StockMovement `gorm:"foreignKey:ItemID"`
}

// Quantity is total on-hand stock: picking bin plus overstock.
func (i InventoryItem) Quantity() int32 {
	return i.PickingBinQuantity + i.OverstockQuantity
}

// Status derives the stock status from quantity and reorder level on every
// read, so it can never drift from its inputs.
func (i InventoryItem) Status() string {
	qty := i.Quantity()
	switch {
	case qty == 0:
		return StatusOutOfStock
	case qty <= i.ReorderLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// StockMovement is an append-only audit row. Amount is a signed delta; rows
// are never mutated after creation.
type StockMovement struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	OrganizationID int64   `gorm:"index;not null"`
	ItemID         int64   `gorm:"index;not null"`
	Amount         int32   `gorm:"not null"`
	UnitCost       string  `gorm:"size:50"`
	ReferenceID    string  `gorm:"size:100"`
	Notes          *string `gorm:"size:255"`
	CreatedBy      int64
	CreatedAt      time.Time

	Item *InventoryItem `gorm:"foreignKey:ItemID"`
}
