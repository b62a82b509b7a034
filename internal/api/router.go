package api

import (
	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"

	"nexusmart.com/internal/api/middleware"
	"nexusmart.com/internal/config"
	"nexusmart.com/internal/domain"
)

// Router 负责注册所有路由
type Router struct {
	app      *fiber.App
	cfg      *config.Config
	accounts domain.AccountService
	tokens   domain.TokenService
	catalog  domain.CatalogService
	enforcer *casbin.Enforcer
}

func NewRouter(app *fiber.App, cfg *config.Config, accounts domain.AccountService, tokens domain.TokenService, catalog domain.CatalogService, enforcer *casbin.Enforcer) *Router {
	return &Router{
		app:      app,
		cfg:      cfg,
		accounts: accounts,
		tokens:   tokens,
		catalog:  catalog,
		enforcer: enforcer,
	}
}

// RegisterRoutes 注册所有业务路由。目录读取接口公开，
// 写接口经 JWT + RBAC 中间件保护。
func (r *Router) RegisterRoutes() {
	authHandler := NewAuthHandler(r.accounts, r.tokens)
	productHandler := NewProductHandler(r.catalog, r.cfg.Pagination)
	categoryHandler := NewCategoryHandler(r.catalog)

	protected := middleware.RequireAuth(r.tokens, r.enforcer)

	api := r.app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register/", authHandler.Register)
	authGroup.Post("/login/", authHandler.Login)
	authGroup.Post("/token/refresh/", authHandler.Refresh)
	// Auth (authenticated)
	authGroup.Get("/me", protected, authHandler.GetMe)
	authGroup.Post("/logout", protected, authHandler.Logout)

	// Products: reads open, writes staff-only
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:slug", productHandler.GetProduct)
	products.Post("/", protected, productHandler.CreateProduct)
	products.Put("/:slug", protected, productHandler.UpdateProduct)
	products.Delete("/:slug", protected, productHandler.DeleteProduct)

	// Categories: reads open, writes staff-only
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Get("/:slug", categoryHandler.GetCategory)
	categories.Post("/", protected, categoryHandler.CreateCategory)
	categories.Put("/:slug", protected, categoryHandler.UpdateCategory)
	categories.Delete("/:slug", protected, categoryHandler.DeleteCategory)
}
