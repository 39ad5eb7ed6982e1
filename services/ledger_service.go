package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/metrics"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerResult is the outcome of a ledger mutation.
type LedgerResult struct {
	Item  *models.LedgerEntry
	Items []models.LedgerEntry
	Debt  decimal.Decimal
}

// ILedgerService defines the operations that change a customer's ledger.
type ILedgerService interface {
	AddItem(ctx context.Context, customerID, productID uint, quantity int) (*LedgerResult, error)
	RemoveItem(ctx context.Context, customerID uint, itemID string) (*LedgerResult, error)
	ListItems(ctx context.Context, customerID uint) ([]models.LedgerEntry, error)
	// ListAll pages through every customer's entries, newest first.
	ListAll(ctx context.Context, page, limit int) (*LedgerFeedPage, error)
}

// LedgerFeedPage is one page of the shop-wide ledger feed.
type LedgerFeedPage = Page[models.LedgerFeedEntry]

// LedgerOptions tunes ledger behaviour.
type LedgerOptions struct {
	// DecrementStock moves stock quantity together with ledger entries.
	DecrementStock bool
	// Pagination bounds the ledger feed page size.
	Pagination PaginationOptions
}

// LedgerService implements ILedgerService.
type LedgerService struct {
	repo      repository.ILedgerRepository
	publisher IEventPublisher
	metrics   *metrics.Metrics
	log       zerolog.Logger
	opts      LedgerOptions
	newItemID func() string
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(repo repository.ILedgerRepository, publisher IEventPublisher, m *metrics.Metrics, log zerolog.Logger, opts LedgerOptions) ILedgerService {
	return &LedgerService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		log:       log,
		opts:      opts,
		newItemID: uuid.NewString,
	}
}

// AddItem appends a snapshot of the product to the customer's ledger and
// recomputes the debt, all in one transaction.
func (s *LedgerService) AddItem(ctx context.Context, customerID, productID uint, quantity int) (*LedgerResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}

	var result LedgerResult
	err := s.repo.Transaction(ctx, func(tx repository.ILedgerRepository) error {
		// 1. Load the customer and the product being sold
		customer, err := tx.FindCustomerByID(ctx, customerID)
		if err != nil {
			return mapRepoError(err, fmt.Sprintf("customer %d", customerID))
		}
		product, err := tx.FindStockItemByID(ctx, productID)
		if err != nil {
			return mapRepoError(err, fmt.Sprintf("product %d", productID))
		}

		// 2. Take the quantity out of stock
		if s.opts.DecrementStock {
			if err := tx.AdjustStock(ctx, product.ID, -quantity); err != nil {
				return mapRepoError(err, fmt.Sprintf("product %q", product.Name))
			}
		}

		// 3. Append a snapshot of the product to the ledger
		entries, err := tx.ListEntries(ctx, customer.ID)
		if err != nil {
			return err
		}
		entry := models.LedgerEntry{
			CustomerID: customer.ID,
			ItemID:     s.newItemID(),
			ProductRef: product.ID,
			Name:       product.Name,
			Quantity:   quantity,
			UnitPrice:  product.SellPrice,
		}
		if err := tx.CreateEntry(ctx, &entry); err != nil {
			return fmt.Errorf("failed to save ledger entry: %w", err)
		}
		entries = append(entries, entry)

		// 4. Recompute the debt against the version we read
		debt := models.RecomputeDebt(entries)
		if err := tx.UpdateDebt(ctx, customer.ID, customer.Version, debt); err != nil {
			return mapRepoError(err, fmt.Sprintf("customer %d", customer.ID))
		}

		result = LedgerResult{Item: &entry, Items: entries, Debt: debt}
		return nil
	})
	s.metrics.ObserveLedger("add_item", err)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("customer_id", customerID).
		Str("item_id", result.Item.ItemID).
		Uint("product_id", productID).
		Int("quantity", quantity).
		Str("debt", result.Debt.StringFixed(2)).
		Msg("ledger item added")
	s.publish(newLedgerEvent(EventItemAdded, customerID, result.Item.ItemID, result.Debt))
	return &result, nil
}

// RemoveItem deletes one entry by its per-customer token. Removing an entry
// that does not exist is ErrNotFound, never a silent success.
func (s *LedgerService) RemoveItem(ctx context.Context, customerID uint, itemID string) (*LedgerResult, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}

	var result LedgerResult
	err := s.repo.Transaction(ctx, func(tx repository.ILedgerRepository) error {
		customer, err := tx.FindCustomerByID(ctx, customerID)
		if err != nil {
			return mapRepoError(err, fmt.Sprintf("customer %d", customerID))
		}
		// 1. Drop the entry
		removed, err := tx.DeleteEntry(ctx, customer.ID, itemID)
		if err != nil {
			return mapRepoError(err, fmt.Sprintf("ledger item %q", itemID))
		}

		// 2. Put the quantity back in stock. The product may have been
		// deleted since; its snapshot lives on in the ledger.
		if s.opts.DecrementStock {
			err := tx.AdjustStock(ctx, removed.ProductRef, removed.Quantity)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		// 3. Recompute the debt from what is left
		entries, err := tx.ListEntries(ctx, customer.ID)
		if err != nil {
			return err
		}
		debt := models.RecomputeDebt(entries)
		if err := tx.UpdateDebt(ctx, customer.ID, customer.Version, debt); err != nil {
			return mapRepoError(err, fmt.Sprintf("customer %d", customer.ID))
		}

		result = LedgerResult{Item: removed, Items: entries, Debt: debt}
		return nil
	})
	s.metrics.ObserveLedger("remove_item", err)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("customer_id", customerID).
		Str("item_id", itemID).
		Str("debt", result.Debt.StringFixed(2)).
		Msg("ledger item removed")
	s.publish(newLedgerEvent(EventItemRemoved, customerID, itemID, result.Debt))
	return &result, nil
}

// ListItems returns the customer's ledger, oldest first.
func (s *LedgerService) ListItems(ctx context.Context, customerID uint) ([]models.LedgerEntry, error) {
	if _, err := s.repo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("customer %d", customerID))
	}
	return s.repo.ListEntries(ctx, customerID)
}

// ListAll returns every customer's entries, newest first.
func (s *LedgerService) ListAll(ctx context.Context, page, limit int) (*LedgerFeedPage, error) {
	page, limit, offset := s.opts.Pagination.window(page, limit)
	rows, total, err := s.repo.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger feed: %w", err)
	}
	return newPage(rows, page, limit, total), nil
}

// publish is best-effort: the mutation is already committed.
func (s *LedgerService) publish(event LedgerEvent) {
	if err := s.publisher.Publish(event); err != nil {
		s.log.Warn().Err(err).Str("type", event.Type).Uint("customer_id", event.CustomerID).Msg("failed to publish ledger event")
	}
}
