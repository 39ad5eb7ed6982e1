package repository

import (
	"context"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ILedgerRepository defines the data operations behind ledger mutations.
// Methods called on the repository handed to Transaction's callback share
// that transaction.
type ILedgerRepository interface {
	Transaction(ctx context.Context, fn func(repo ILedgerRepository) error) error
	FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error)
	FindStockItemByID(ctx context.Context, id uint) (*models.StockItem, error)
	ListEntries(ctx context.Context, customerID uint) ([]models.LedgerEntry, error)
	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	// DeleteEntry removes the entry and returns it, or ErrNotFound.
	DeleteEntry(ctx context.Context, customerID uint, itemID string) (*models.LedgerEntry, error)
	// AdjustStock adds delta to a stock item's quantity, refusing to go below zero.
	AdjustStock(ctx context.Context, productID uint, delta int) error
	// UpdateDebt stores debt only if the customer is still at expectedVersion.
	UpdateDebt(ctx context.Context, customerID, expectedVersion uint, debt decimal.Decimal) error
	// ListAll returns one page of every customer's entries, newest first,
	// together with the total number of entries.
	ListAll(ctx context.Context, offset, limit int) ([]models.LedgerFeedEntry, int64, error)
}

// LedgerRepository implements ILedgerRepository for GORM.
type LedgerRepository struct {
	DB *gorm.DB
}

// NewLedgerRepository creates a new LedgerRepository instance.
func NewLedgerRepository(db *gorm.DB) ILedgerRepository {
	return &LedgerRepository{DB: db}
}

// Transaction runs fn inside a database transaction.
func (r *LedgerRepository) Transaction(ctx context.Context, fn func(repo ILedgerRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{DB: tx})
	})
}

// FindCustomerByID retrieves the customer row without its ledger.
func (r *LedgerRepository) FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// FindStockItemByID retrieves a stock item.
func (r *LedgerRepository) FindStockItemByID(ctx context.Context, id uint) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// ListEntries returns a customer's ledger, oldest first.
func (r *LedgerRepository) ListEntries(ctx context.Context, customerID uint) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	err := r.DB.WithContext(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&entries).Error
	return entries, err
}

// CreateEntry appends an entry to a ledger.
func (r *LedgerRepository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return translate(r.DB.WithContext(ctx).Create(entry).Error)
}

// DeleteEntry removes the entry identified by the customer's local item token.
func (r *LedgerRepository) DeleteEntry(ctx context.Context, customerID uint, itemID string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	db := r.DB.WithContext(ctx)
	if err := db.Where("customer_id = ? AND item_id = ?", customerID, itemID).First(&entry).Error; err != nil {
		return nil, translate(err)
	}
	res := db.Delete(&models.LedgerEntry{}, entry.ID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// AdjustStock is a single conditional UPDATE so concurrent adjustments cannot
// drive the quantity negative.
func (r *LedgerRepository) AdjustStock(ctx context.Context, productID uint, delta int) error {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.StockItem{}).
		Where("id = ? AND quantity + ? >= 0", productID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.StockItem{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrInsufficientStock
}

// UpdateDebt writes the recomputed debt and bumps the version.
func (r *LedgerRepository) UpdateDebt(ctx context.Context, customerID, expectedVersion uint, debt decimal.Decimal) error {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.Customer{}).
		Where("id = ? AND version = ?", customerID, expectedVersion).
		Updates(map[string]any{
			"debt":    debt,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrStale(db, customerID)
	}
	return nil
}

// ListAll joins entries with their customers for the shop-wide ledger feed.
func (r *LedgerRepository) ListAll(ctx context.Context, offset, limit int) ([]models.LedgerFeedEntry, int64, error) {
	db := r.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.LedgerEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.LedgerFeedEntry{}
	err := db.Table("ledger_entries").
		Select("ledger_entries.item_id, ledger_entries.customer_id, " +
			"customers.name AS customer_name, customers.phone AS customer_phone, " +
			"customers.national_id AS customer_national_id, ledger_entries.product_ref, " +
			"ledger_entries.name, ledger_entries.quantity, ledger_entries.unit_price, ledger_entries.created_at").
		Joins("JOIN customers ON customers.id = ledger_entries.customer_id").
		Order("ledger_entries.created_at DESC, ledger_entries.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
