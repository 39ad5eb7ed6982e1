package models

import "time"

// AdminCredentialID is the primary key of the single credential row.
const AdminCredentialID = 1

// AdminCredential stores the bcrypt hash of the shared admin password.
type AdminCredential struct {
	ID           uint   `gorm:"primaryKey"`
	PasswordHash string `gorm:"not null"`
	UpdatedAt    time.Time
}

// AllModels lists every table managed by AutoMigrate, parents first.
func AllModels() []any {
	return []any{&Customer{}, &LedgerEntry{}, &StockItem{}, &AdminCredential{}}
}
