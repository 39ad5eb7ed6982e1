package services

import (
	"context"
	"testing"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/metrics"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockEventPublisher is a mock implementation of IEventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event LedgerEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// eventOfType matches a LedgerEvent by type and customer.
func eventOfType(kind string, customerID uint) any {
	return mock.MatchedBy(func(e LedgerEvent) bool {
		return e.Type == kind && e.CustomerID == customerID
	})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type ledgerFixture struct {
	db        *gorm.DB
	customers ICustomerService
	stock     IStockService
	ledger    ILedgerService
	metrics   *metrics.Metrics
}

func newLedgerFixture(t *testing.T, opts LedgerOptions) *ledgerFixture {
	t.Helper()
	db := newTestDB(t)
	m := metrics.New()
	log := zerolog.Nop()
	return &ledgerFixture{
		db:        db,
		customers: NewCustomerService(repository.NewCustomerRepository(db), NoopPublisher{}, log, PaginationOptions{DefaultLimit: 10, MaxLimit: 100}),
		stock:     NewStockService(repository.NewStockRepository(db), log),
		ledger:    NewLedgerService(repository.NewLedgerRepository(db), NoopPublisher{}, m, log, opts),
		metrics:   m,
	}
}

func (f *ledgerFixture) createCustomer(t *testing.T, name, cpf string) *models.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), CustomerInput{Name: name, Phone: "11987654321", NationalID: cpf})
	require.NoError(t, err)
	return c
}

func (f *ledgerFixture) createProduct(t *testing.T, name, sell string, quantity int) *models.StockItem {
	t.Helper()
	p, err := f.stock.Create(context.Background(), StockInput{
		Name:      name,
		Quantity:  quantity,
		BuyPrice:  money("1.00"),
		SellPrice: money(sell),
	})
	require.NoError(t, err)
	return p
}
