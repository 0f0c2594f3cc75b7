package user

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/avargasq/tienda-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Address         string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/users/register", h.register)
	app.Post("/users/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/users/logout", h.logout)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	err := h.service.Register(RegisterInput{
		Email:           payload.Email,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		Address:         payload.Address,
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Kind == apperr.KindValidation {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": ae.Message, "errors": ae.Fields})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "user registered successfully"})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result, err := h.service.Login(payload.Email, payload.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

func (h *Handler) logout(c *fiber.Ctx) error {
	userID, err := UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
	}

	if err := h.service.Logout(userID); err != nil {
		// The route contract is 200 or 401; a vanished user means the
		// session cannot be closed in any meaningful way.
		if apperr.KindOf(err) == apperr.KindNotFound {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": apperr.Message(err)})
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "logged out successfully"})
}

func respondError(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"message": apperr.Message(err)})
}
