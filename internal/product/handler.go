package product

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/avargasq/tienda-backend/internal/apperr"
)

type Handler struct {
	service *Service
	seeder  *Seeder
}

func NewHandler(service *Service, seeder *Seeder) *Handler {
	return &Handler{service: service, seeder: seeder}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/products", h.getProducts)
	// search must be registered before the :id route so "search" is not
	// captured as a product id
	app.Get("/products/search", h.searchProducts)
	app.Get("/products/:id", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/products/reset", h.resetProducts)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) searchProducts(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "search term is required"})
	}

	products, err := h.service.Search(query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		// an unparseable id cannot reference any product
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// resetProducts drops the whole catalog and reseeds it from the external
// provider.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	products, err := h.seeder.Fetch(c.UserContext())
	if err != nil {
		return respondError(c, apperr.Internal(err))
	}

	if err := h.service.Reset(products); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "product catalog reseeded successfully",
		"count":   len(products),
	})
}

func respondError(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"message": apperr.Message(err)})
}
