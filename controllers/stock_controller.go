package controllers

import (
	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/gofiber/fiber/v2"
)

// StockController handles HTTP requests related to the stock catalog.
type StockController struct {
	stockService services.IStockService
}

// NewStockController creates a new StockController instance.
func NewStockController(svc services.IStockService) *StockController {
	return &StockController{stockService: svc}
}

func (c *StockController) List(ctx *fiber.Ctx) error {
	items, err := c.stockService.List(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(items)
}

// SelectList handles GET /stock/select-list.
func (c *StockController) SelectList(ctx *fiber.Ctx) error {
	options, err := c.stockService.SelectList(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(options)
}

func (c *StockController) Get(ctx *fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid product id")
	}
	item, err := c.stockService.Get(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(item)
}

func (c *StockController) Create(ctx *fiber.Ctx) error {
	var request services.StockInput
	if err := ctx.BodyParser(&request); err != nil {
		return badRequest(ctx, "Invalid request body format")
	}
	item, err := c.stockService.Create(ctx.UserContext(), request)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

func (c *StockController) Update(ctx *fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid product id")
	}
	var request services.StockInput
	if err := ctx.BodyParser(&request); err != nil {
		return badRequest(ctx, "Invalid request body format")
	}
	item, err := c.stockService.Update(ctx.UserContext(), id, request)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(item)
}

func (c *StockController) Delete(ctx *fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid product id")
	}
	if err := c.stockService.Delete(ctx.UserContext(), id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "stock item deleted"})
}
