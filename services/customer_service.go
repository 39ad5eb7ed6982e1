package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CustomerInput carries the identity fields of a customer.
type CustomerInput struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
}

// CustomerPage is one page of the customer listing.
type CustomerPage = Page[models.Customer]

// ICustomerService defines the customer record operations.
type ICustomerService interface {
	Create(ctx context.Context, in CustomerInput) (*models.Customer, error)
	Get(ctx context.Context, id uint) (*models.Customer, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.Customer, error)
	SearchByName(ctx context.Context, name string) ([]models.Customer, error)
	List(ctx context.Context, page, limit int) (*CustomerPage, error)
	// Update replaces identity fields. rawItems, when present and well formed,
	// replaces the ledger; otherwise the stored ledger is kept.
	Update(ctx context.Context, id uint, in CustomerInput, rawItems json.RawMessage) (*models.Customer, error)
	Delete(ctx context.Context, id uint) error
}

// CustomerService implements ICustomerService.
type CustomerService struct {
	repo       repository.ICustomerRepository
	publisher  IEventPublisher
	log        zerolog.Logger
	pagination PaginationOptions
}

// NewCustomerService creates a new CustomerService instance.
func NewCustomerService(repo repository.ICustomerRepository, publisher IEventPublisher, log zerolog.Logger, pagination PaginationOptions) ICustomerService {
	return &CustomerService{repo: repo, publisher: publisher, log: log, pagination: pagination}
}

func (in CustomerInput) normalize() (CustomerInput, error) {
	out := CustomerInput{
		Name:       strings.TrimSpace(in.Name),
		Phone:      NormalizeDigits(in.Phone),
		NationalID: NormalizeDigits(in.NationalID),
	}
	if out.Name == "" || strings.TrimSpace(in.Phone) == "" || strings.TrimSpace(in.NationalID) == "" {
		return out, fmt.Errorf("%w: name, phone and nationalId are required", ErrInvalidInput)
	}
	if !ValidatePhone(in.Phone) {
		return out, fmt.Errorf("%w: phone must have area code plus 8 or 9 digits", ErrInvalidInput)
	}
	if !ValidateNationalID(in.NationalID) {
		return out, fmt.Errorf("%w: nationalId %q is not a valid CPF", ErrInvalidInput, in.NationalID)
	}
	return out, nil
}

// Create registers a customer with an empty ledger and zero debt.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	// 1. Reject a CPF that is already registered
	if _, err := s.repo.FindByNationalID(ctx, in.NationalID); err == nil {
		return nil, fmt.Errorf("%w: nationalId %s is already registered", ErrConflict, in.NationalID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 2. Persist with an empty ledger
	customer := &models.Customer{
		Name:            in.Name,
		Phone:           in.Phone,
		NationalID:      in.NationalID,
		Debt:            decimal.Zero,
		AssociatedItems: []models.LedgerEntry{},
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("nationalId %s", in.NationalID))
	}

	s.log.Info().Uint("customer_id", customer.ID).Msg("customer created")
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("customer %d", id))
	}
	return customer, nil
}

func (s *CustomerService) GetByNationalID(ctx context.Context, nationalID string) (*models.Customer, error) {
	digits := NormalizeDigits(nationalID)
	if digits == "" {
		return nil, fmt.Errorf("%w: nationalId is required", ErrInvalidInput)
	}
	customer, err := s.repo.FindByNationalID(ctx, digits)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("customer with nationalId %s", digits))
	}
	return customer, nil
}

// SearchByName matches on a name fragment; no match is ErrNotFound.
func (s *CustomerService) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	customers, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("%w: no customer named like %q", ErrNotFound, name)
	}
	return customers, nil
}

// List returns a page; out-of-range page and limit values are clamped.
func (s *CustomerService) List(ctx context.Context, page, limit int) (*CustomerPage, error) {
	page, limit, offset := s.pagination.window(page, limit)
	customers, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPage(customers, page, limit, total), nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput, rawItems json.RawMessage) (*models.Customer, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	// 1. Load the customer and check the CPF is not taken by someone else
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("customer %d", id))
	}
	if in.NationalID != customer.NationalID {
		other, err := s.repo.FindByNationalID(ctx, in.NationalID)
		if err == nil && other.ID != id {
			return nil, fmt.Errorf("%w: nationalId %s belongs to another customer", ErrConflict, in.NationalID)
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	// 2. A malformed ledger is ignored, the stored one stays
	items, err := parseLedgerItems(rawItems)
	if err != nil {
		s.log.Warn().Err(err).Uint("customer_id", id).Msg("ignoring malformed associatedItems, keeping stored ledger")
		items = nil
	}

	// 3. Save the profile and, when supplied, the replacement ledger
	customer.Name = in.Name
	customer.Phone = in.Phone
	customer.NationalID = in.NationalID
	if err := s.repo.Update(ctx, customer, items); err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("customer %d", id))
	}

	s.log.Info().Uint("customer_id", id).Bool("ledger_replaced", items != nil).Msg("customer updated")
	return customer, nil
}

// Delete removes the customer together with its ledger.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, fmt.Sprintf("customer %d", id))
	}

	s.log.Info().Uint("customer_id", id).Msg("customer deleted")
	if err := s.publisher.Publish(newLedgerEvent(EventCustomerDeleted, id, "", decimal.Zero)); err != nil {
		s.log.Warn().Err(err).Uint("customer_id", id).Msg("failed to publish ledger event")
	}
	return nil
}

type ledgerItemPayload struct {
	ItemID     string           `json:"itemId"`
	ProductRef uint             `json:"productRef"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unitPrice"`
}

// parseLedgerItems returns nil, nil when no list was supplied and an error
// when the list is not well formed.
func parseLedgerItems(raw json.RawMessage) ([]models.LedgerEntry, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var payload []ledgerItemPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("associatedItems is not a list of items: %w", err)
	}

	seen := make(map[string]bool, len(payload))
	items := make([]models.LedgerEntry, 0, len(payload))
	for i, p := range payload {
		switch {
		case strings.TrimSpace(p.Name) == "":
			return nil, fmt.Errorf("associatedItems[%d]: name is required", i)
		case p.Quantity <= 0:
			return nil, fmt.Errorf("associatedItems[%d]: quantity must be positive", i)
		case p.UnitPrice == nil || p.UnitPrice.IsNegative():
			return nil, fmt.Errorf("associatedItems[%d]: unitPrice must be zero or more", i)
		case !isCents(*p.UnitPrice):
			return nil, fmt.Errorf("associatedItems[%d]: unitPrice %s has more than 2 decimal places", i, p.UnitPrice)
		}
		if p.ItemID == "" {
			p.ItemID = uuid.NewString()
		}
		if seen[p.ItemID] {
			return nil, fmt.Errorf("associatedItems[%d]: duplicate itemId %q", i, p.ItemID)
		}
		seen[p.ItemID] = true

		items = append(items, models.LedgerEntry{
			ItemID:     p.ItemID,
			ProductRef: p.ProductRef,
			Name:       strings.TrimSpace(p.Name),
			Quantity:   p.Quantity,
			UnitPrice:  *p.UnitPrice,
		})
	}
	return items, nil
}
