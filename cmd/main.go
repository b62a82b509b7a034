package main

import (
	"context"
	"log"
	"time"

	"nexusmart.com/internal/api"
	"nexusmart.com/internal/auth"
	"nexusmart.com/internal/config"
	"nexusmart.com/internal/infra"
	"nexusmart.com/internal/service"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化基础设施
	// Postgres
	pg, err := infra.NewPostgresClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis
	rdb := infra.NewRedisClient(cfg.Redis)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	cache := infra.NewCache(rdb, 5*time.Minute)

	// 3. 初始化鉴权
	enforcer, err := auth.InitCasbin(pg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize Casbin: %v", err)
	}
	issuer := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// 4. 初始化业务服务
	accounts := service.NewAccountService(pg.DB)
	tokens := service.NewTokenService(accounts, issuer)
	catalog := service.NewCatalogService(pg.DB, cache, cfg.Pagination)

	ctx := context.Background()
	if err := accounts.EnsureSuperuser(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Printf("Warning: failed to ensure superuser: %v", err)
	}
	if cfg.SeedDemoData {
		if err := infra.SeedDemoCatalog(pg.DB); err != nil {
			log.Printf("Warning: failed to seed demo catalog: %v", err)
		}
	}

	// 5. 设置 Fiber 服务器并注册路由
	app := api.NewServer(cfg)
	router := api.NewRouter(app, cfg, accounts, tokens, catalog, enforcer)
	router.RegisterRoutes()

	// 6. 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
