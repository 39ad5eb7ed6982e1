package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of repository.ICustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return m.Called(customer).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Customer, error) {
	args := m.Called(nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	args := m.Called(name)
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, offset, limit int) ([]models.Customer, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]models.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer, items []models.LedgerEntry) error {
	return m.Called(customer, items).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func newMockedCustomerService(repo repository.ICustomerRepository, publisher IEventPublisher) ICustomerService {
	return NewCustomerService(repo, publisher, zerolog.Nop(), PaginationOptions{DefaultLimit: 10, MaxLimit: 50})
}

func TestCustomerService_Create_NormalizesInput(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("FindByNationalID", "11144477735").Return(nil, repository.ErrNotFound)
	mockRepo.On("Create", mock.MatchedBy(func(c *models.Customer) bool {
		return c.Name == "Ana Souza" && c.Phone == "11987654321" && c.NationalID == "11144477735" && c.Debt.IsZero()
	})).Return(nil)

	svc := newMockedCustomerService(mockRepo, NoopPublisher{})
	created, err := svc.Create(context.Background(), CustomerInput{
		Name:       "  Ana Souza ",
		Phone:      "(11) 98765-4321",
		NationalID: "111.444.777-35",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", created.Name)
	assert.Empty(t, created.AssociatedItems)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   CustomerInput
	}{
		{"missing name", CustomerInput{Phone: "11987654321", NationalID: "11144477735"}},
		{"missing phone", CustomerInput{Name: "Ana", NationalID: "11144477735"}},
		{"short phone", CustomerInput{Name: "Ana", Phone: "98765", NationalID: "11144477735"}},
		{"bad check digits", CustomerInput{Name: "Ana", Phone: "11987654321", NationalID: "11144477700"}},
		{"repeated digits", CustomerInput{Name: "Ana", Phone: "11987654321", NationalID: "111.111.111-11"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCustomerRepository)
			svc := newMockedCustomerService(mockRepo, NoopPublisher{})

			_, err := svc.Create(context.Background(), tt.in)

			assert.ErrorIs(t, err, ErrInvalidInput)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestCustomerService_Create_DuplicateNationalID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("FindByNationalID", "11144477735").Return(&models.Customer{ID: 4}, nil)

	svc := newMockedCustomerService(mockRepo, NoopPublisher{})
	_, err := svc.Create(context.Background(), CustomerInput{Name: "Ana", Phone: "11987654321", NationalID: "11144477735"})

	assert.ErrorIs(t, err, ErrConflict)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCustomerService_Create_RepositoryError(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("FindByNationalID", "11144477735").Return(nil, errors.New("disk full"))

	svc := newMockedCustomerService(mockRepo, NoopPublisher{})
	_, err := svc.Create(context.Background(), CustomerInput{Name: "Ana", Phone: "11987654321", NationalID: "11144477735"})

	assert.EqualError(t, err, "disk full")
}

func TestCustomerService_List_ClampsPaging(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("List", 0, 10).Return([]models.Customer{{ID: 1}}, int64(21), nil).Once()
	mockRepo.On("List", 50, 50).Return([]models.Customer{}, int64(21), nil).Once()

	svc := newMockedCustomerService(mockRepo, NoopPublisher{})

	page, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, 3, page.TotalPages)

	page, err = svc.List(context.Background(), 2, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, page.PerPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Data)

	mockRepo.AssertExpectations(t)
}

func TestCustomerService_List_HugePageDoesNotWrap(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("List", math.MaxInt32/10*10, 10).Return([]models.Customer{}, int64(3), nil)

	svc := newMockedCustomerService(mockRepo, NoopPublisher{})
	page, err := svc.List(context.Background(), math.MaxInt, 10)

	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, math.MaxInt32/10+1, page.CurrentPage)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_SearchByName(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("SearchByName", "ana").Return([]models.Customer{{ID: 1, Name: "Ana"}}, nil)
	mockRepo.On("SearchByName", "zeca").Return([]models.Customer{}, nil)

	svc := newMockedCustomerService(mockRepo, NoopPublisher{})

	found, err := svc.SearchByName(context.Background(), " ana ")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.SearchByName(context.Background(), "zeca")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SearchByName(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomerService_Delete(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	mockRepo.On("Delete", uint(3)).Return(nil)
	mockRepo.On("Delete", uint(9)).Return(repository.ErrNotFound)
	publisher := new(MockEventPublisher)
	publisher.On("Publish", eventOfType(EventCustomerDeleted, 3)).Return(nil).Once()

	svc := newMockedCustomerService(mockRepo, publisher)

	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.ErrorIs(t, svc.Delete(context.Background(), 9), ErrNotFound)

	publisher.AssertExpectations(t)
}

func TestCustomerService_Update_ReplacesLedger(t *testing.T) {
	f := newLedgerFixture(t, LedgerOptions{})
	ctx := context.Background()
	c := f.createCustomer(t, "Ana", "11144477735")
	p := f.createProduct(t, "Arroz", "9.90", 10)
	_, err := f.ledger.AddItem(ctx, c.ID, p.ID, 3)
	require.NoError(t, err)

	items := json.RawMessage(`[
		{"itemId": "keep-1", "productRef": 1, "name": "Arroz", "quantity": 1, "unitPrice": "9.90"},
		{"name": "Feijao", "quantity": 2, "unitPrice": 7.5}
	]`)
	updated, err := f.customers.Update(ctx, c.ID, CustomerInput{Name: "Ana Maria", Phone: "1133334444", NationalID: "11144477735"}, items)
	require.NoError(t, err)

	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "24.90", updated.Debt.StringFixed(2))

	stored := assertDebtInvariant(t, f, c.ID)
	require.Len(t, stored.AssociatedItems, 2)
	assert.Equal(t, "keep-1", stored.AssociatedItems[0].ItemID)
	assert.NotEmpty(t, stored.AssociatedItems[1].ItemID)
	assert.Equal(t, "1133334444", stored.Phone)
}

func TestCustomerService_Update_EmptyListClearsLedger(t *testing.T) {
	f := newLedgerFixture(t, LedgerOptions{})
	ctx := context.Background()
	c := f.createCustomer(t, "Ana", "11144477735")
	p := f.createProduct(t, "Arroz", "9.90", 10)
	_, err := f.ledger.AddItem(ctx, c.ID, p.ID, 3)
	require.NoError(t, err)

	_, err = f.customers.Update(ctx, c.ID, CustomerInput{Name: "Ana", Phone: "11987654321", NationalID: "11144477735"}, json.RawMessage(`[]`))
	require.NoError(t, err)

	stored := assertDebtInvariant(t, f, c.ID)
	assert.Empty(t, stored.AssociatedItems)
	assert.True(t, stored.Debt.IsZero())
}

func TestCustomerService_Update_KeepsLedgerWhenItemsMissingOrMalformed(t *testing.T) {
	payloads := []json.RawMessage{
		nil,
		json.RawMessage(`null`),
		json.RawMessage(`"not a list"`),
		json.RawMessage(`[{"name": "Feijao", "quantity": 0, "unitPrice": "1.00"}]`),
		json.RawMessage(`[{"name": "Feijao", "quantity": 1}]`),
		json.RawMessage(`[{"itemId": "x", "name": "A", "quantity": 1, "unitPrice": "1"}, {"itemId": "x", "name": "B", "quantity": 1, "unitPrice": "1"}]`),
		json.RawMessage(`[{"name": "Sal", "quantity": 3, "unitPrice": "0.335"}]`),
	}
	for i, raw := range payloads {
		t.Run(fmt.Sprintf("payload_%d", i), func(t *testing.T) {
			f := newLedgerFixture(t, LedgerOptions{})
			ctx := context.Background()
			c := f.createCustomer(t, "Ana", "11144477735")
			p := f.createProduct(t, "Arroz", "9.90", 10)
			added, err := f.ledger.AddItem(ctx, c.ID, p.ID, 3)
			require.NoError(t, err)

			updated, err := f.customers.Update(ctx, c.ID, CustomerInput{Name: "Ana Paula", Phone: "11987654321", NationalID: "11144477735"}, raw)
			require.NoError(t, err)
			assert.Equal(t, "Ana Paula", updated.Name)

			stored := assertDebtInvariant(t, f, c.ID)
			require.Len(t, stored.AssociatedItems, 1)
			assert.Equal(t, added.Item.ItemID, stored.AssociatedItems[0].ItemID)
			assert.Equal(t, "29.70", stored.Debt.StringFixed(2))
		})
	}
}

func TestCustomerService_Update_Errors(t *testing.T) {
	f := newLedgerFixture(t, LedgerOptions{})
	ctx := context.Background()
	ana := f.createCustomer(t, "Ana", "11144477735")
	f.createCustomer(t, "Bruno", "52998224725")

	_, err := f.customers.Update(ctx, ana.ID, CustomerInput{Name: "Ana", Phone: "11987654321", NationalID: "529.982.247-25"}, nil)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.customers.Update(ctx, 999, CustomerInput{Name: "X", Phone: "11987654321", NationalID: "39053344705"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.customers.Update(ctx, ana.ID, CustomerInput{Name: "", Phone: "11987654321", NationalID: "11144477735"}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// changing to a fresh CPF is allowed
	updated, err := f.customers.Update(ctx, ana.ID, CustomerInput{Name: "Ana", Phone: "11987654321", NationalID: "39053344705"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "39053344705", updated.NationalID)
}

func TestCustomerService_GetByNationalID(t *testing.T) {
	f := newLedgerFixture(t, LedgerOptions{})
	ctx := context.Background()
	c := f.createCustomer(t, "Ana", "11144477735")

	found, err := f.customers.GetByNationalID(ctx, "111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = f.customers.GetByNationalID(ctx, "52998224725")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.customers.GetByNationalID(ctx, "---")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomerService_DeleteRemovesLedger(t *testing.T) {
	f := newLedgerFixture(t, LedgerOptions{})
	ctx := context.Background()
	c := f.createCustomer(t, "Ana", "11144477735")
	p := f.createProduct(t, "Arroz", "9.90", 10)
	_, err := f.ledger.AddItem(ctx, c.ID, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.customers.Delete(ctx, c.ID))

	_, err = f.customers.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	var count int64
	require.NoError(t, f.db.Model(&models.LedgerEntry{}).Where("customer_id = ?", c.ID).Count(&count).Error)
	assert.Zero(t, count)
}
