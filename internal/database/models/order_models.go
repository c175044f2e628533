package models

import "time"

const (
	OrderTypeSales    = "Sales"
	OrderTypePurchase = "Purchase"
)

// Order lifecycle. Orders are never deleted, only archived.
const (
	OrderStatusOpen     = "Open"
	OrderStatusPacked   = "Packed"
	OrderStatusShipped  = "Shipped"
	OrderStatusArchived = "Archived"
)

// Order dates are stored as strings exactly as received. Malformed values are
// tolerated at rest and excluded from any date-scoped aggregate.
type Order struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID   int64  `gorm:"index;not null"`
	OrderNumber      string `gorm:"uniqueIndex;not null"`
	Type             string `gorm:"size:20;not null"`
	Date             string `gorm:"size:50"`
	DueDate          string `gorm:"size:50"`
	Status           string `gorm:"size:20;not null"`
	CustomerSupplier string `gorm:"size:255"`
	TotalAmount      string `gorm:"type:varchar(32);not null"`
	ItemCount        int32
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	OrderID         int64  `gorm:"index;not null"`
	InventoryItemID int64  `gorm:"not null"`
	Quantity        int32  `gorm:"not null"`
	UnitPrice       string `gorm:"type:varchar(32);not null"`
	CreatedAt       time.Time
}
