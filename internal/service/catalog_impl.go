package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"nexusmart.com/internal/config"
	"nexusmart.com/internal/domain"
	"nexusmart.com/internal/infra"
	"nexusmart.com/internal/model"
)

// orderings maps the caller-facing sort fields onto qualified columns. The
// join makes bare created_at ambiguous, so every column carries its table.
var orderings = map[string]string{
	"price":      "products.price",
	"created_at": "products.created_at",
	"name":       "products.name",
}

// CatalogServiceImpl 实现 domain.CatalogService 接口
type CatalogServiceImpl struct {
	db    *gorm.DB
	cache *infra.Cache
	pages config.PaginationConfig
}

// NewCatalogService 创建目录服务。cache 可为 nil（例如测试环境）。
func NewCatalogService(db *gorm.DB, cache *infra.Cache, pages config.PaginationConfig) *CatalogServiceImpl {
	if pages.PageSize <= 0 {
		pages.PageSize = 10
	}
	if pages.MaxPageSize <= 0 {
		pages.MaxPageSize = 50
	}
	return &CatalogServiceImpl{db: db, cache: cache, pages: pages}
}

// ListProducts 对活跃商品依次应用等值过滤、区间过滤、子串过滤、
// 全文搜索、排序与分页。所有过滤条件彼此正交，均可单独缺省。
func (s *CatalogServiceImpl) ListProducts(ctx context.Context, q domain.ProductQuery) ([]model.Product, int64, error) {
	order, err := resolveOrdering(q.Ordering)
	if err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = s.pages.PageSize
	}
	if pageSize > s.pages.MaxPageSize {
		pageSize = s.pages.MaxPageSize
	}

	query := s.db.WithContext(ctx).Model(&model.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.is_active = ?", true).
		Preload("Category")

	if q.Category > 0 {
		query = query.Where("products.category_id = ?", q.Category)
	}
	if q.MinPrice != nil {
		query = query.Where("products.price >= ?", q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("products.price <= ?", q.MaxPrice)
	}
	if q.CategoryName != "" {
		// LOWER/LIKE instead of ILIKE keeps the predicate portable
		// between Postgres and the sqlite test store.
		query = query.Where("LOWER(categories.name) LIKE ?", containsPattern(q.CategoryName))
	}
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count products", err)
	}

	var products []model.Product
	if err := query.Order(order).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&products).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to list products", err)
	}

	return products, total, nil
}

// resolveOrdering validates the requested sort field against the allowlist.
// Unknown fields are rejected rather than silently ignored.
func resolveOrdering(ordering string) (string, error) {
	if ordering == "" {
		return "products.created_at DESC", nil
	}

	field := ordering
	dir := "ASC"
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		dir = "DESC"
	}

	column, ok := orderings[field]
	if !ok {
		return "", domain.NewValidationError("ordering", "unsupported ordering field: "+ordering)
	}
	return column + " " + dir, nil
}

func containsPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

// GetProduct 按 slug 获取商品
func (s *CatalogServiceImpl) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("product not found")
		}
		return nil, domain.NewInternalError("failed to load product", err)
	}
	return &product, nil
}

// CreateProduct 创建商品
func (s *CatalogServiceImpl) CreateProduct(ctx context.Context, in domain.ProductInput) (*model.Product, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if in.CategoryID == 0 {
		return nil, domain.NewValidationError("category_id", "category is required")
	}
	if in.Price == nil {
		return nil, domain.NewValidationError("price", "price is required")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "price must not be negative")
	}

	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewValidationError("category_id", "unknown category")
		}
		return nil, domain.NewInternalError("failed to load category", err)
	}

	product := model.Product{
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Slug:       in.Slug,
		Price:      *in.Price,
		IsActive:   true,
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, domain.NewConflictError("slug", "product with this slug already exists")
		}
		return nil, domain.NewInternalError("failed to create product", err)
	}

	product.Category = category
	return &product, nil
}

// UpdateProduct 更新商品（缺省字段保持不变）
func (s *CatalogServiceImpl) UpdateProduct(ctx context.Context, slug string, in domain.ProductInput) (*model.Product, error) {
	product, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "price must not be negative")
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Slug != "" {
		product.Slug = in.Slug
	}
	if in.CategoryID != 0 {
		product.CategoryID = in.CategoryID
		product.Category = model.Category{}
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, domain.NewConflictError("slug", "product with this slug already exists")
		}
		return nil, domain.NewInternalError("failed to update product", err)
	}

	return s.GetProduct(ctx, product.Slug)
}

// DeleteProduct 删除商品
func (s *CatalogServiceImpl) DeleteProduct(ctx context.Context, slug string) error {
	result := s.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model.Product{})
	if result.Error != nil {
		return domain.NewInternalError("failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("product not found")
	}
	return nil
}

// ListCategories 分类列表，经 Redis 读穿缓存
func (s *CatalogServiceImpl) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if s.cache.GetJSON(ctx, infra.CategoryListKey, &categories) {
		return categories, nil
	}

	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, domain.NewInternalError("failed to list categories", err)
	}

	s.cache.SetJSON(ctx, infra.CategoryListKey, categories)
	return categories, nil
}

// GetCategory 按 slug 获取分类
func (s *CatalogServiceImpl) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("category not found")
		}
		return nil, domain.NewInternalError("failed to load category", err)
	}
	return &category, nil
}

// CreateCategory 创建分类
func (s *CatalogServiceImpl) CreateCategory(ctx context.Context, in domain.CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	category := model.Category{
		Name: in.Name,
		Slug: in.Slug,
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, domain.NewConflictError("name", "category with this name or slug already exists")
		}
		return nil, domain.NewInternalError("failed to create category", err)
	}

	s.cache.Invalidate(ctx, infra.CategoryListKey)
	return &category, nil
}

// UpdateCategory 更新分类
func (s *CatalogServiceImpl) UpdateCategory(ctx context.Context, slug string, in domain.CategoryInput) (*model.Category, error) {
	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		category.Name = in.Name
	}
	if in.Slug != "" {
		category.Slug = in.Slug
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, domain.NewConflictError("name", "category with this name or slug already exists")
		}
		return nil, domain.NewInternalError("failed to update category", err)
	}

	s.cache.Invalidate(ctx, infra.CategoryListKey)
	return category, nil
}

// DeleteCategory 删除分类并级联删除其下商品
func (s *CatalogServiceImpl) DeleteCategory(ctx context.Context, slug string) error {
	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Explicit cascade keeps the behavior identical on stores where
		// the FK constraint was not installed (e.g. sqlite in tests).
		if err := tx.Where("category_id = ?", category.ID).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return domain.NewInternalError("failed to delete category", err)
	}

	s.cache.Invalidate(ctx, infra.CategoryListKey)
	return nil
}
