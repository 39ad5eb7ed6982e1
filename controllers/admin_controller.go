package controllers

import (
	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/gofiber/fiber/v2"
)

// AdminPasswordHeader carries the admin password on gated requests.
const AdminPasswordHeader = "X-Admin-Password"

// AdminController handles the admin password endpoints.
type AdminController struct {
	adminService services.IAdminService
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(svc services.IAdminService) *AdminController {
	return &AdminController{adminService: svc}
}

// VerifyPassword handles POST /admin/verify-password.
func (c *AdminController) VerifyPassword(ctx *fiber.Ctx) error {
	var request struct {
		Password string `json:"password"`
	}
	if err := ctx.BodyParser(&request); err != nil {
		return badRequest(ctx, "Invalid request body format")
	}

	ok, err := c.adminService.VerifyPassword(ctx.UserContext(), request.Password)
	if err != nil {
		return respondError(ctx, err)
	}
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid admin password"})
	}
	return ctx.JSON(fiber.Map{"valid": true})
}

// ChangePassword handles PUT /admin/password. The current password is the
// one already checked by the admin gate.
func (c *AdminController) ChangePassword(ctx *fiber.Ctx) error {
	var request struct {
		NewPassword string `json:"newPassword"`
	}
	if err := ctx.BodyParser(&request); err != nil {
		return badRequest(ctx, "Invalid request body format")
	}

	if err := c.adminService.ChangePassword(ctx.UserContext(), ctx.Get(AdminPasswordHeader), request.NewPassword); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "admin password changed"})
}
