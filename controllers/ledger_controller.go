package controllers

import (
	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/gofiber/fiber/v2"
)

// LedgerController handles HTTP requests that change a customer's ledger.
type LedgerController struct {
	ledgerService services.ILedgerService
}

// NewLedgerController creates a new LedgerController instance.
func NewLedgerController(svc services.ILedgerService) *LedgerController {
	return &LedgerController{ledgerService: svc}
}

// ListItems handles GET /customers/:id/items.
func (c *LedgerController) ListItems(ctx *fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid customer id")
	}
	items, err := c.ledgerService.ListItems(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(newLedgerItemsResponse(items))
}

// ListAll handles GET /ledger, every customer's entries newest first.
func (c *LedgerController) ListAll(ctx *fiber.Ctx) error {
	page, err := c.ledgerService.ListAll(ctx.UserContext(), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 0))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(newLedgerFeedPageResponse(page))
}

// AddItem handles POST /customers/:id/items.
func (c *LedgerController) AddItem(ctx *fiber.Ctx) error {
	// 1. Resolve the customer from the path
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid customer id")
	}

	// 2. Parse the request body
	var request struct {
		ProductID uint `json:"productId"`
		Quantity  int  `json:"quantity"`
	}
	if err := ctx.BodyParser(&request); err != nil {
		return badRequest(ctx, "Invalid request body format")
	}
	if request.ProductID == 0 {
		return badRequest(ctx, "productId is required")
	}

	// 3. Append the entry
	result, err := c.ledgerService.AddItem(ctx.UserContext(), id, request.ProductID, request.Quantity)
	if err != nil {
		return respondError(ctx, err)
	}

	// 4. Return the new entry with the updated debt
	return ctx.Status(fiber.StatusCreated).JSON(AddItemResponse{
		Item: newLedgerItemResponse(*result.Item),
		Debt: result.Debt.StringFixed(2),
	})
}

// RemoveItem handles DELETE /customers/:id/items/:itemId.
func (c *LedgerController) RemoveItem(ctx *fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid customer id")
	}

	result, err := c.ledgerService.RemoveItem(ctx.UserContext(), id, ctx.Params("itemId"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(DebtResponse{Debt: result.Debt.StringFixed(2)})
}
