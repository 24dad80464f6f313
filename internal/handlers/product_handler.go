package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"store/internal/apperr"
	"store/internal/models"
	"store/internal/services"

	"github.com/gofiber/fiber/v2"
)

// List window defaults for GET /products.
const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	timeout time.Duration
}

// NewProductHandler creates a new ProductHandler. Each request's store work
// is bounded by timeout; zero means no extra bound.
func NewProductHandler(service *services.ProductService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		service: service,
		timeout: timeout,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

func (h *ProductHandler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// HandleListProducts returns a window of products. offset defaults to 0 and
// limit to DefaultLimit; limit is capped at MaxLimit.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return respondError(c, err)
	}
	limit, err := queryInt(c, "limit", DefaultLimit)
	if err != nil {
		return respondError(c, err)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	ctx, cancel := h.context(c)
	defer cancel()

	products, err := h.service.List(ctx, offset, limit)
	if err != nil {
		log.Printf("Error listing products (offset=%d, limit=%d): %v", offset, limit, err)
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	ctx, cancel := h.context(c)
	defer cancel()

	product, err := h.service.Get(ctx, productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, err := models.ParseProductIn(c.Body())
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	product, err := h.service.Create(ctx, in)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update. Keys absent from the body
// leave the stored value unchanged.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	patch, err := models.ParseProductUpdate(c.Body())
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	product, err := h.service.Update(ctx, productID, patch)
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.service.Delete(ctx, productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", productID),
	})
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(key, "must be an integer")
	}
	return v, nil
}

// respondError maps an error kind to its HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		var verr *apperr.ValidationError
		errorMessages := map[string]string{}
		if errors.As(err, &verr) {
			errorMessages = verr.Fields()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	case apperr.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case apperr.KindPersistence:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Product store unavailable",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}
