package api

import (
	"github.com/gofiber/fiber/v2"

	"nexusmart.com/internal/domain"
)

// CategoryHandler 处理分类相关的 HTTP 请求
type CategoryHandler struct {
	catalog domain.CatalogService
}

func NewCategoryHandler(catalog domain.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// ListCategories 分类列表
// GET /api/categories/
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return SendError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory 分类详情
// GET /api/categories/:slug
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.catalog.GetCategory(c.Context(), c.Params("slug"))
	if err != nil {
		return SendError(c, err)
	}
	return c.JSON(category)
}

// CreateCategory 创建分类
// POST /api/categories/
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in domain.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	category, err := h.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		return SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory 更新分类
// PUT /api/categories/:slug
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var in domain.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	category, err := h.catalog.UpdateCategory(c.Context(), c.Params("slug"), in)
	if err != nil {
		return SendError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory 删除分类（级联删除其下商品）
// DELETE /api/categories/:slug
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalog.DeleteCategory(c.Context(), c.Params("slug")); err != nil {
		return SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
