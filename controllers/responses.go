package controllers

import (
	"time"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"
)

// LedgerItemResponse renders a ledger entry with fixed two-decimal money.
type LedgerItemResponse struct {
	ItemID     string    `json:"itemId"`
	ProductRef uint      `json:"productRef"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unitPrice"`
	Total      string    `json:"total"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CustomerResponse renders a customer with its ledger.
type CustomerResponse struct {
	ID              uint                 `json:"id"`
	Name            string               `json:"name"`
	Phone           string               `json:"phone"`
	NationalID      string               `json:"nationalId"`
	Debt            string               `json:"debt"`
	AssociatedItems []LedgerItemResponse `json:"associatedItems"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// CustomerPageResponse is the paged customer listing.
type CustomerPageResponse struct {
	Data        []CustomerResponse `json:"data"`
	CurrentPage int                `json:"currentPage"`
	PerPage     int                `json:"perPage"`
	TotalItems  int64              `json:"totalItems"`
	TotalPages  int                `json:"totalPages"`
}

// LedgerFeedItemResponse is one row of the cross-customer ledger feed.
type LedgerFeedItemResponse struct {
	ItemID             string    `json:"itemId"`
	CustomerID         uint      `json:"customerId"`
	CustomerName       string    `json:"customerName"`
	CustomerPhone      string    `json:"customerPhone"`
	CustomerNationalID string    `json:"customerNationalId"`
	ProductRef         uint      `json:"productRef"`
	Name               string    `json:"name"`
	Quantity           int       `json:"quantity"`
	UnitPrice          string    `json:"unitPrice"`
	Total              string    `json:"total"`
	CreatedAt          time.Time `json:"createdAt"`
}

type LedgerFeedPageResponse struct {
	Data        []LedgerFeedItemResponse `json:"data"`
	CurrentPage int                      `json:"currentPage"`
	PerPage     int                      `json:"perPage"`
	TotalItems  int64                    `json:"totalItems"`
	TotalPages  int                      `json:"totalPages"`
}

// AddItemResponse is returned after a ledger entry is added.
type AddItemResponse struct {
	Item LedgerItemResponse `json:"item"`
	Debt string             `json:"debt"`
}

// DebtResponse is returned after a ledger entry is removed.
type DebtResponse struct {
	Debt string `json:"debt"`
}

func newLedgerItemResponse(e models.LedgerEntry) LedgerItemResponse {
	return LedgerItemResponse{
		ItemID:     e.ItemID,
		ProductRef: e.ProductRef,
		Name:       e.Name,
		Quantity:   e.Quantity,
		UnitPrice:  e.UnitPrice.StringFixed(2),
		Total:      e.Total().StringFixed(2),
		CreatedAt:  e.CreatedAt,
	}
}

func newLedgerItemsResponse(entries []models.LedgerEntry) []LedgerItemResponse {
	out := make([]LedgerItemResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newLedgerItemResponse(e))
	}
	return out
}

func newCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		NationalID:      c.NationalID,
		Debt:            c.Debt.StringFixed(2),
		AssociatedItems: newLedgerItemsResponse(c.AssociatedItems),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func newCustomersResponse(customers []models.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, newCustomerResponse(&customers[i]))
	}
	return out
}

func newCustomerPageResponse(p *services.CustomerPage) CustomerPageResponse {
	return CustomerPageResponse{
		Data:        newCustomersResponse(p.Data),
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
	}
}

func newLedgerFeedPageResponse(p *services.LedgerFeedPage) LedgerFeedPageResponse {
	data := make([]LedgerFeedItemResponse, 0, len(p.Data))
	for _, e := range p.Data {
		data = append(data, LedgerFeedItemResponse{
			ItemID:             e.ItemID,
			CustomerID:         e.CustomerID,
			CustomerName:       e.CustomerName,
			CustomerPhone:      e.CustomerPhone,
			CustomerNationalID: e.CustomerNationalID,
			ProductRef:         e.ProductRef,
			Name:               e.Name,
			Quantity:           e.Quantity,
			UnitPrice:          e.UnitPrice.StringFixed(2),
			Total:              e.Total().StringFixed(2),
			CreatedAt:          e.CreatedAt,
		})
	}
	return LedgerFeedPageResponse{
		Data:        data,
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
	}
}
