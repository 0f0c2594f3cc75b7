package cart

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/avargasq/tienda-backend/internal/apperr"
	"github.com/avargasq/tienda-backend/internal/user"
)

// Handler delegates cart operations to the cart service. All routes sit
// behind the session gate.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/cart", h.getCart)
	app.Post("/cart/add", h.addToCart)
	app.Post("/cart/checkout", h.checkout)
	app.Delete("/cart/:productId", h.removeFromCart)
	app.Put("/cart/:productId/quantity", h.updateQuantity)
	app.Put("/cart/:productId/select", h.toggleSelect)
}

type addRequest struct {
	ProductID int `json:"productId"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type selectRequest struct {
	Selected bool `json:"selected"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	view, err := h.service.Get(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	view, err := h.service.Add(userID, payload.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	view, err := h.service.Remove(userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	view, err := h.service.UpdateQuantity(userID, productID, payload.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) toggleSelect(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	payload := new(selectRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	view, err := h.service.ToggleSelect(userID, productID, payload.Selected)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	view, purchased, err := h.service.Checkout(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":        "purchase completed successfully",
		"cart":           view,
		"purchasedItems": purchased,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
}

func respondError(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"message": apperr.Message(err)})
}
