package domain

import (
	"context"

	"github.com/shopspring/decimal"

	"nexusmart.com/internal/model"
)

// ===========================
// 账号服务接口
// ===========================

// UserFields 创建用户时的可选档案字段
type UserFields struct {
	FirstName string
	LastName  string
}

// AccountService 定义用户账号相关的业务操作
type AccountService interface {
	// 创建普通用户（归一化邮箱并散列密码）
	CreateUser(ctx context.Context, email, password string, extra UserFields) (*model.User, error)
	// 创建超级用户（强制 staff/superuser 标记）
	CreateSuperuser(ctx context.Context, email, password string, extra UserFields) (*model.User, error)
	// 按邮箱查找用户
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// 按 ID 查找用户
	GetByID(ctx context.Context, id uint) (*model.User, error)
	// 系统无任何用户时引导默认管理员（用于启动）
	EnsureSuperuser(ctx context.Context, email, password string) error
}

// ===========================
// 令牌服务接口
// ===========================

// TokenPair 一次登录签发的访问/刷新令牌对
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService 定义凭证校验与令牌生命周期操作
type TokenService interface {
	// 校验邮箱密码，成功则签发令牌对
	Authenticate(ctx context.Context, email, password string) (*TokenPair, error)
	// 用刷新令牌换取新的访问令牌
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// 校验访问令牌并解析出对应用户
	Authorize(ctx context.Context, accessToken string) (*model.User, error)
}

// ===========================
// 目录服务接口
// ===========================

// ProductQuery 商品列表的过滤、排序与分页参数。零值字段表示未启用。
type ProductQuery struct {
	Category     uint             // 按分类 ID 精确过滤
	MinPrice     *decimal.Decimal // 价格下限（含）
	MaxPrice     *decimal.Decimal // 价格上限（含）
	CategoryName string           // 分类名大小写不敏感子串匹配
	Search       string           // 在商品名与描述中搜索
	Ordering     string           // price/created_at/name，可带 "-" 前缀
	Page         int
	PageSize     int
}

// CategoryInput 分类创建/更新载荷。Description 缺省表示“保持不变”，
// 显式空串可清空描述。
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// ProductInput 商品创建/更新载荷。指针字段缺省表示“保持不变”。
type ProductInput struct {
	CategoryID  uint             `json:"category_id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *uint            `json:"stock"`
	IsActive    *bool            `json:"is_active"`
}

// CatalogService 定义目录相关的业务操作
type CatalogService interface {
	// 商品列表（过滤 + 搜索 + 排序 + 分页）
	ListProducts(ctx context.Context, q ProductQuery) ([]model.Product, int64, error)
	// 按 slug 获取商品
	GetProduct(ctx context.Context, slug string) (*model.Product, error)
	// 创建商品
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	// 更新商品
	UpdateProduct(ctx context.Context, slug string, in ProductInput) (*model.Product, error)
	// 删除商品
	DeleteProduct(ctx context.Context, slug string) error

	// 分类列表
	ListCategories(ctx context.Context) ([]model.Category, error)
	// 按 slug 获取分类
	GetCategory(ctx context.Context, slug string) (*model.Category, error)
	// 创建分类
	CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error)
	// 更新分类
	UpdateCategory(ctx context.Context, slug string, in CategoryInput) (*model.Category, error)
	// 删除分类（级联删除其下商品）
	DeleteCategory(ctx context.Context, slug string) error
}
