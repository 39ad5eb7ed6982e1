package repository

import (
	"context"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"

	"gorm.io/gorm"
)

// IStockRepository defines the interface for stock catalog data operations.
type IStockRepository interface {
	Create(ctx context.Context, item *models.StockItem) error
	FindByID(ctx context.Context, id uint) (*models.StockItem, error)
	List(ctx context.Context) ([]models.StockItem, error)
	ListOptions(ctx context.Context) ([]models.StockOption, error)
	Update(ctx context.Context, item *models.StockItem) error
	Delete(ctx context.Context, id uint) error
}

// StockRepository implements IStockRepository for GORM.
type StockRepository struct {
	DB *gorm.DB
}

// NewStockRepository creates a new StockRepository instance.
func NewStockRepository(db *gorm.DB) IStockRepository {
	return &StockRepository{DB: db}
}

func (r *StockRepository) Create(ctx context.Context, item *models.StockItem) error {
	return translate(r.DB.WithContext(ctx).Create(item).Error)
}

func (r *StockRepository) FindByID(ctx context.Context, id uint) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *StockRepository) List(ctx context.Context) ([]models.StockItem, error) {
	items := []models.StockItem{}
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

// ListOptions returns id, name and sell price only.
func (r *StockRepository) ListOptions(ctx context.Context) ([]models.StockOption, error) {
	options := []models.StockOption{}
	err := r.DB.WithContext(ctx).
		Model(&models.StockItem{}).
		Select("id", "name", "sell_price").
		Order("name ASC").
		Scan(&options).Error
	return options, err
}

func (r *StockRepository) Update(ctx context.Context, item *models.StockItem) error {
	res := r.DB.WithContext(ctx).Model(&models.StockItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":       item.Name,
			"quantity":   item.Quantity,
			"buy_price":  item.BuyPrice,
			"sell_price": item.SellPrice,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a stock item. Ledger entries keep their own snapshot of the
// product, so referenced items may be deleted.
func (r *StockRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.StockItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
