package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/controllers"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/metrics"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerService is a mock implementation of services.ICustomerService.
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, in services.CustomerInput) (*models.Customer, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) GetByNationalID(ctx context.Context, nationalID string) (*models.Customer, error) {
	args := m.Called(nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, page, limit int) (*services.CustomerPage, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CustomerPage), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, id uint, in services.CustomerInput, rawItems json.RawMessage) (*models.Customer, error) {
	args := m.Called(id, in, string(rawItems))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

// MockLedgerService is a mock implementation of services.ILedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AddItem(ctx context.Context, customerID, productID uint, quantity int) (*services.LedgerResult, error) {
	args := m.Called(customerID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LedgerResult), args.Error(1)
}

func (m *MockLedgerService) RemoveItem(ctx context.Context, customerID uint, itemID string) (*services.LedgerResult, error) {
	args := m.Called(customerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LedgerResult), args.Error(1)
}

func (m *MockLedgerService) ListItems(ctx context.Context, customerID uint) ([]models.LedgerEntry, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ListAll(ctx context.Context, page, limit int) (*services.LedgerFeedPage, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LedgerFeedPage), args.Error(1)
}

// MockStockService is a mock implementation of services.IStockService.
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Create(ctx context.Context, in services.StockInput) (*models.StockItem, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockService) Get(ctx context.Context, id uint) (*models.StockItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockService) List(ctx context.Context) ([]models.StockItem, error) {
	args := m.Called()
	return args.Get(0).([]models.StockItem), args.Error(1)
}

func (m *MockStockService) SelectList(ctx context.Context) ([]models.StockOption, error) {
	args := m.Called()
	return args.Get(0).([]models.StockOption), args.Error(1)
}

func (m *MockStockService) Update(ctx context.Context, id uint, in services.StockInput) (*models.StockItem, error) {
	args := m.Called(id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockService) Delete(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

// MockAdminService is a mock implementation of services.IAdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) VerifyPassword(ctx context.Context, candidate string) (bool, error) {
	args := m.Called(candidate)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminService) ChangePassword(ctx context.Context, current, next string) error {
	return m.Called(current, next).Error(0)
}

func (m *MockAdminService) Seed(ctx context.Context, password, passwordHash string) error {
	return m.Called(password, passwordHash).Error(0)
}

const adminSecret = "123456"

type testApp struct {
	app       *fiber.App
	customers *MockCustomerService
	ledger    *MockLedgerService
	stock     *MockStockService
	admin     *MockAdminService
	metrics   *metrics.Metrics
}

// newTestApp wires every route to mocks. The admin mock accepts adminSecret
// and rejects anything else.
func newTestApp() *testApp {
	ta := &testApp{
		customers: new(MockCustomerService),
		ledger:    new(MockLedgerService),
		stock:     new(MockStockService),
		admin:     new(MockAdminService),
		metrics:   metrics.New(),
	}
	ta.admin.On("VerifyPassword", adminSecret).Return(true, nil).Maybe()
	ta.admin.On("VerifyPassword", mock.MatchedBy(func(s string) bool { return s != adminSecret })).Return(false, nil).Maybe()

	ta.app = controllers.NewApp(zerolog.Nop(), ta.metrics)
	controllers.RegisterOpsRoutes(ta.app, ta.metrics)
	controllers.RegisterRoutes(ta.app, controllers.Controllers{
		Customers: controllers.NewCustomerController(ta.customers),
		Ledger:    controllers.NewLedgerController(ta.ledger),
		Stock:     controllers.NewStockController(ta.stock),
		Admin:     controllers.NewAdminController(ta.admin),
	}, controllers.RequireAdmin(ta.admin))
	return ta
}

func (ta *testApp) do(t *testing.T, method, target, body string, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
