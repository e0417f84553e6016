package handler

import (
	"errors"

	"github.com/chopsqd/identity-service/internal/auth/dto"
	"github.com/chopsqd/identity-service/internal/auth/service"
	autherror "github.com/chopsqd/identity-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.FindOne(c.Context(), c.Params("idOrEmail"), false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": autherror.ErrUserNotFound.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	claims, ok := c.Locals(CurrentUserKey).(*service.JWTCustomClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	user, err := h.userService.Delete(c.Context(), c.Params("id"), claims)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, autherror.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "delete failed"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}
