package repository

import (
	"context"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"

	"gorm.io/gorm"
)

// ICustomerRepository defines the interface for customer data operations.
type ICustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByNationalID(ctx context.Context, nationalID string) (*models.Customer, error)
	SearchByName(ctx context.Context, name string) ([]models.Customer, error)
	List(ctx context.Context, offset, limit int) ([]models.Customer, int64, error)
	// Update writes identity fields and, when items is non-nil, replaces the
	// ledger with items. Debt is recomputed from the resulting ledger.
	Update(ctx context.Context, customer *models.Customer, items []models.LedgerEntry) error
	Delete(ctx context.Context, id uint) error
}

// CustomerRepository implements ICustomerRepository for GORM.
type CustomerRepository struct {
	DB *gorm.DB
}

// NewCustomerRepository creates a new CustomerRepository instance.
func NewCustomerRepository(db *gorm.DB) ICustomerRepository {
	return &CustomerRepository{DB: db}
}

func preloadLedger(db *gorm.DB) *gorm.DB {
	return db.Preload("AssociatedItems", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// Create inserts a customer with an empty ledger and zero debt.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return translate(r.DB.WithContext(ctx).Omit("AssociatedItems").Create(customer).Error)
}

// FindByID retrieves a customer and its ledger.
func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := preloadLedger(r.DB.WithContext(ctx)).First(&customer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// FindByNationalID retrieves a customer by CPF.
func (r *CustomerRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Customer, error) {
	var customer models.Customer
	err := preloadLedger(r.DB.WithContext(ctx)).Where("national_id = ?", nationalID).First(&customer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// SearchByName returns customers whose name contains the given fragment.
func (r *CustomerRepository) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	var customers []models.Customer
	err := preloadLedger(r.DB.WithContext(ctx)).
		Where("name LIKE ?", "%"+name+"%").
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}

// List returns one page of customers together with the total row count.
func (r *CustomerRepository) List(ctx context.Context, offset, limit int) ([]models.Customer, int64, error) {
	var total int64
	db := r.DB.WithContext(ctx)
	if err := db.Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	err := preloadLedger(db).Order("id ASC").Offset(offset).Limit(limit).Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Update runs in a transaction guarded by the customer's version.
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer, items []models.LedgerEntry) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if items != nil {
			if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.LedgerEntry{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].ID = 0
				items[i].CustomerID = customer.ID
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return translate(err)
				}
			}
		} else if err := tx.Where("customer_id = ?", customer.ID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}

		debt := models.RecomputeDebt(items)
		res := tx.Model(&models.Customer{}).
			Where("id = ? AND version = ?", customer.ID, customer.Version).
			Updates(map[string]any{
				"name":        customer.Name,
				"phone":       customer.Phone,
				"national_id": customer.NationalID,
				"debt":        debt,
				"version":     gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return missingOrStale(tx, customer.ID)
		}

		customer.Debt = debt
		customer.Version++
		customer.AssociatedItems = items
		return nil
	})
}

// Delete removes a customer and its ledger entries atomically.
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.LedgerEntry{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// missingOrStale tells apart a vanished customer from a version mismatch
// after an update touched no rows.
func missingOrStale(tx *gorm.DB, customerID uint) error {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStaleVersion
}
