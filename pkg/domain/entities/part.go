package entities

import "github.com/shopspring/decimal"

// PartNumber represents a unique part identifier
type PartNumber string

// Part represents part master data
type Part struct {
	PartNum     PartNumber
	Description string
	IUM         string // inventory unit of measure
}

// PartInventory holds the shop-wide inventory aggregate for a part:
// on-hand summed across all warehouses/bins, and the total outstanding
// demand across every job in the shop (not job-specific).
type PartInventory struct {
	PartNum   PartNumber
	OnHandQty decimal.Decimal
	DemandQty decimal.Decimal
}
