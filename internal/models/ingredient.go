package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a stock-room item. The store owns identity; id is assigned
// on insert and never changes afterwards.
type Ingredient struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Quantity     float64         `gorm:"not null" json:"quantity"`
	Unit         string          `gorm:"size:20;not null" json:"unit"`
	Supplier     string          `gorm:"size:100;not null" json:"supplier"`
	ReorderPoint int             `gorm:"not null" json:"reorder_point"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_cost"`
	Location     string          `gorm:"size:50;not null" json:"location"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LowStock reports whether the current quantity is at or below the reorder
// point. Derived on read, never stored.
func (i Ingredient) LowStock() bool {
	return i.Quantity <= float64(i.ReorderPoint)
}

// Units an ingredient can be measured in.
var Units = []string{"KG", "LITERS", "UNIT", "PACKAGE"}

// Locations the stock room starts with. Clients may introduce new ones;
// the column is plain text.
var Locations = []string{"Cabinet", "Refrigerator", "Freezer"}
