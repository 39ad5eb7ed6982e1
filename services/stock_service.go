package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// StockInput carries the editable fields of a stock item.
type StockInput struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
}

// IStockService defines the stock catalog operations.
type IStockService interface {
	Create(ctx context.Context, in StockInput) (*models.StockItem, error)
	Get(ctx context.Context, id uint) (*models.StockItem, error)
	List(ctx context.Context) ([]models.StockItem, error)
	SelectList(ctx context.Context) ([]models.StockOption, error)
	Update(ctx context.Context, id uint, in StockInput) (*models.StockItem, error)
	Delete(ctx context.Context, id uint) error
}

// StockService implements IStockService.
type StockService struct {
	repo repository.IStockRepository
	log  zerolog.Logger
}

// NewStockService creates a new StockService instance.
func NewStockService(repo repository.IStockRepository, log zerolog.Logger) IStockService {
	return &StockService{repo: repo, log: log}
}

func (in StockInput) validate() (StockInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return in, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case in.Quantity < 0:
		return in, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	case in.BuyPrice.IsNegative() || in.SellPrice.IsNegative():
		return in, fmt.Errorf("%w: prices cannot be negative", ErrInvalidInput)
	case !isCents(in.BuyPrice) || !isCents(in.SellPrice):
		return in, fmt.Errorf("%w: prices cannot have more than 2 decimal places", ErrInvalidInput)
	}
	return in, nil
}

func (s *StockService) Create(ctx context.Context, in StockInput) (*models.StockItem, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	item := &models.StockItem{
		Name:      in.Name,
		Quantity:  in.Quantity,
		BuyPrice:  in.BuyPrice,
		SellPrice: in.SellPrice,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("product %q", in.Name))
	}
	s.log.Info().Uint("product_id", item.ID).Str("name", item.Name).Msg("stock item created")
	return item, nil
}

func (s *StockService) Get(ctx context.Context, id uint) (*models.StockItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("product %d", id))
	}
	return item, nil
}

func (s *StockService) List(ctx context.Context) ([]models.StockItem, error) {
	return s.repo.List(ctx)
}

// SelectList feeds product pickers with id, name and sell price.
func (s *StockService) SelectList(ctx context.Context) ([]models.StockOption, error) {
	return s.repo.ListOptions(ctx)
}

// Update never touches existing ledger entries; they keep their snapshot price.
func (s *StockService) Update(ctx context.Context, id uint, in StockInput) (*models.StockItem, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	item := &models.StockItem{
		ID:        id,
		Name:      in.Name,
		Quantity:  in.Quantity,
		BuyPrice:  in.BuyPrice,
		SellPrice: in.SellPrice,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("product %d", id))
	}
	s.log.Info().Uint("product_id", id).Msg("stock item updated")
	return s.Get(ctx, id)
}

func (s *StockService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, fmt.Sprintf("product %d", id))
	}
	s.log.Info().Uint("product_id", id).Msg("stock item deleted")
	return nil
}
