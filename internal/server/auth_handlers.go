package server

import (
	"blogapi/internal/models"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
	})
}

// Login handles POST /api/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

// Logout handles POST /api/logout. Deletes the caller's token so it can never
// authenticate again.
func (s *Server) Logout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.authService.Logout(c.UserContext(), userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
