package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"nexusmart.com/internal/config"
	"nexusmart.com/internal/domain"
)

// ProductHandler 处理商品相关的 HTTP 请求
type ProductHandler struct {
	catalog domain.CatalogService
	pages   config.PaginationConfig
}

func NewProductHandler(catalog domain.CatalogService, pages config.PaginationConfig) *ProductHandler {
	if pages.PageSize <= 0 {
		pages.PageSize = 10
	}
	if pages.MaxPageSize <= 0 {
		pages.MaxPageSize = 50
	}
	return &ProductHandler{catalog: catalog, pages: pages}
}

// ListProducts 商品列表（过滤、搜索、排序、分页）
// GET /api/products/?search=&min_price=&max_price=&category=&category_name=&ordering=&page=&page_size=
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "0"))
	if pageSize < 1 {
		pageSize = h.pages.PageSize
	}
	if pageSize > h.pages.MaxPageSize {
		pageSize = h.pages.MaxPageSize
	}

	q := domain.ProductQuery{
		CategoryName: c.Query("category_name"),
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
		Page:         page,
		PageSize:     pageSize,
	}

	if raw := c.Query("category"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			return SendError(c, domain.NewValidationError("category", "category must be a numeric id"))
		}
		q.Category = uint(id)
	}
	if raw := c.Query("min_price"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return SendError(c, domain.NewValidationError("min_price", "min_price must be a number"))
		}
		q.MinPrice = &value
	}
	if raw := c.Query("max_price"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return SendError(c, domain.NewValidationError("max_price", "max_price must be a number"))
		}
		q.MaxPrice = &value
	}

	products, total, err := h.catalog.ListProducts(c.Context(), q)
	if err != nil {
		return SendError(c, err)
	}

	return SendPaginatedResponse(c, products, page, pageSize, total)
}

// GetProduct 商品详情
// GET /api/products/:slug
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.Context(), c.Params("slug"))
	if err != nil {
		return SendError(c, err)
	}
	return c.JSON(product)
}

// CreateProduct 创建商品
// POST /api/products/
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	product, err := h.catalog.CreateProduct(c.Context(), in)
	if err != nil {
		return SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct 更新商品
// PUT /api/products/:slug
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	product, err := h.catalog.UpdateProduct(c.Context(), c.Params("slug"), in)
	if err != nil {
		return SendError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct 删除商品
// DELETE /api/products/:slug
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.Context(), c.Params("slug")); err != nil {
		return SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
