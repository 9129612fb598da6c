package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request format",
		})
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.LoginFailureResponse{
				Success: false,
				Error:   "Invalid credentials",
			})
		}
		return respondError(c, err)
	}

	return c.JSON(resp)
}
