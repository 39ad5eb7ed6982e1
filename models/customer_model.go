package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a shop customer with a running debt balance.
type Customer struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"not null"`
	Phone      string          `json:"phone" gorm:"not null"`
	NationalID string          `json:"nationalId" gorm:"column:national_id;uniqueIndex;not null"`
	Debt       decimal.Decimal `json:"debt" gorm:"type:decimal(12,2);not null;default:0"`
	Version    uint            `json:"-" gorm:"not null;default:0"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	// Has Many association, removed together with the customer.
	AssociatedItems []LedgerEntry `json:"associatedItems" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// LedgerEntry is one line of a customer's ledger. Name and UnitPrice are a
// snapshot of the stock item at the time the entry was added.
type LedgerEntry struct {
	ID         uint            `json:"-" gorm:"primaryKey"`
	CustomerID uint            `json:"customerId" gorm:"not null;index;uniqueIndex:idx_ledger_customer_item"`
	ItemID     string          `json:"itemId" gorm:"size:64;not null;uniqueIndex:idx_ledger_customer_item"`
	ProductRef uint            `json:"productRef" gorm:"not null"`
	Name       string          `json:"name" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Total is quantity times unit price.
func (e LedgerEntry) Total() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// RecomputeDebt sums quantity x unit price over every entry. The result keeps
// full precision; rounding belongs to presentation.
func RecomputeDebt(entries []LedgerEntry) decimal.Decimal {
	debt := decimal.Zero
	for _, e := range entries {
		debt = debt.Add(e.Total())
	}
	return debt
}

// LedgerFeedEntry is a ledger entry joined with the identity of its customer,
// as listed by the shop-wide ledger feed.
type LedgerFeedEntry struct {
	ItemID             string
	CustomerID         uint
	CustomerName       string
	CustomerPhone      string
	CustomerNationalID string
	ProductRef         uint
	Name               string
	Quantity           int
	UnitPrice          decimal.Decimal
	CreatedAt          time.Time
}

// Total is quantity times unit price.
func (e LedgerFeedEntry) Total() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}
