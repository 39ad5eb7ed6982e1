package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is a purchasable product in the stock catalog.
type StockItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"uniqueIndex;not null"`
	Quantity  int             `json:"quantity" gorm:"not null;default:0"`
	BuyPrice  decimal.Decimal `json:"buyPrice" gorm:"type:decimal(12,2);not null"`
	SellPrice decimal.Decimal `json:"sellPrice" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// StockOption is the reduced view used to populate selection widgets.
type StockOption struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	SellPrice decimal.Decimal `json:"sellPrice"`
}
