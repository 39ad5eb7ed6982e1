package controllers

import (
	"encoding/json"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/gofiber/fiber/v2"
)

// CustomerController handles HTTP requests related to customers.
type CustomerController struct {
	customerService services.ICustomerService
}

// NewCustomerController creates a new CustomerController instance.
func NewCustomerController(svc services.ICustomerService) *CustomerController {
	return &CustomerController{customerService: svc}
}

// customerUpdateRequest keeps associatedItems raw so a malformed list can be
// ignored instead of rejecting the whole update.
type customerUpdateRequest struct {
	services.CustomerInput
	AssociatedItems json.RawMessage `json:"associatedItems"`
}

// parseID reads a positive numeric route parameter.
func parseID(ctx *fiber.Ctx, name string) (uint, bool) {
	id, err := ctx.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// List handles GET /customers?page=&limit=.
func (c *CustomerController) List(ctx *fiber.Ctx) error {
	page, err := c.customerService.List(ctx.UserContext(), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 0))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(newCustomerPageResponse(page))
}

// Get handles GET /customers/:id.
func (c *CustomerController) Get(ctx *fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid customer id")
	}
	customer, err := c.customerService.Get(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(newCustomerResponse(customer))
}

// GetByNationalID handles GET /customers/by-id/:nationalId.
func (c *CustomerController) GetByNationalID(ctx *fiber.Ctx) error {
	customer, err := c.customerService.GetByNationalID(ctx.UserContext(), ctx.Params("nationalId"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(newCustomerResponse(customer))
}

// SearchByName handles GET /customers/by-name/:name.
func (c *CustomerController) SearchByName(ctx *fiber.Ctx) error {
	customers, err := c.customerService.SearchByName(ctx.UserContext(), ctx.Params("name"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(newCustomersResponse(customers))
}

// Create handles POST /customers.
func (c *CustomerController) Create(ctx *fiber.Ctx) error {
	// 1. Parse the request body
	var request services.CustomerInput
	if err := ctx.BodyParser(&request); err != nil {
		return badRequest(ctx, "Invalid request body format")
	}

	// 2. Call the service layer
	customer, err := c.customerService.Create(ctx.UserContext(), request)
	if err != nil {
		return respondError(ctx, err)
	}

	// 3. Return the created customer
	return ctx.Status(fiber.StatusCreated).JSON(newCustomerResponse(customer))
}

// Update handles PUT /customers/:id. A debt field in the body is ignored.
func (c *CustomerController) Update(ctx *fiber.Ctx) error {
	// 1. Parse the path and body
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid customer id")
	}
	var request customerUpdateRequest
	if err := json.Unmarshal(ctx.Body(), &request); err != nil {
		return badRequest(ctx, "Invalid request body format")
	}

	// 2. Call the service layer
	customer, err := c.customerService.Update(ctx.UserContext(), id, request.CustomerInput, request.AssociatedItems)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(newCustomerResponse(customer))
}

// Delete handles DELETE /customers/:id.
func (c *CustomerController) Delete(ctx *fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, "Invalid customer id")
	}
	if err := c.customerService.Delete(ctx.UserContext(), id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "customer deleted"})
}
