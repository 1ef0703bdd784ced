package api

import (
	"strconv"

	"github.com/example/product-catalog/modules/catalog"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	products := app.Group("/product")
	products.Post("/", m.createProduct)
	products.Get("/", m.listProducts)
	products.Get("/:id", m.getProduct)
	products.Put("/:id", m.updateProduct)
	products.Delete("/:id", m.deleteProduct)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "ok",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// createProduct handles POST /product.
func (m *Module) createProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	resp, err := m.catalog.CreateProduct(c.Context(), &catalog.CreateProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Status:      req.Status,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "create_failed",
			Message: err.Error(),
		})
	}
	if resp.Product == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "create_failed",
			Message: "Product was not created",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toProductResponse(resp.Product))
}

// getProduct handles GET /product/:id.
func (m *Module) getProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	resp, err := m.catalog.GetProduct(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "get_failed",
			Message: err.Error(),
		})
	}
	if !resp.Found || resp.Product == nil {
		return notFound(c, id)
	}

	return c.JSON(toProductResponse(resp.Product))
}

// listProducts handles GET /product. An empty catalog is 204 with no body.
func (m *Module) listProducts(c *fiber.Ctx) error {
	resp, err := m.catalog.ListProducts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: err.Error(),
		})
	}
	if len(resp.Products) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	products := make([]ProductResponse, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, toProductResponse(&resp.Products[i]))
	}
	return c.JSON(products)
}

// updateProduct handles PUT /product/:id.
func (m *Module) updateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	resp, err := m.catalog.UpdateProduct(c.Context(), &catalog.UpdateProductRequest{
		ID:      id,
		Changes: req.changes(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "update_failed",
			Message: err.Error(),
		})
	}
	if resp.NotFound || resp.Product == nil {
		return notFound(c, id)
	}

	return c.JSON(toProductResponse(resp.Product))
}

// deleteProduct handles DELETE /product/:id.
func (m *Module) deleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	resp, err := m.catalog.DeleteProduct(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "delete_failed",
			Message: err.Error(),
		})
	}
	if !resp.Deleted {
		return notFound(c, id)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseID reads the :id route parameter. A non-numeric id is a 400.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Product ID must be an integer")
	}
	return id, nil
}

func notFound(c *fiber.Ctx, id int64) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: "Product not found with id: " + strconv.FormatInt(id, 10),
	})
}
