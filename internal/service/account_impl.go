package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nexusmart.com/internal/domain"
	"nexusmart.com/internal/model"
)

// AccountServiceImpl 实现 domain.AccountService 接口
type AccountServiceImpl struct {
	db *gorm.DB
}

// NewAccountService 创建账号服务
func NewAccountService(db *gorm.DB) *AccountServiceImpl {
	return &AccountServiceImpl{db: db}
}

// normalizeEmail lowercases the domain portion of the address, leaving the
// local part untouched.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// CreateUser 创建普通用户
func (s *AccountServiceImpl) CreateUser(ctx context.Context, email, password string, extra domain.UserFields) (*model.User, error) {
	return s.create(ctx, email, password, extra, false)
}

// CreateSuperuser 创建超级用户
func (s *AccountServiceImpl) CreateSuperuser(ctx context.Context, email, password string, extra domain.UserFields) (*model.User, error) {
	return s.create(ctx, email, password, extra, true)
}

func (s *AccountServiceImpl) create(ctx context.Context, email, password string, extra domain.UserFields, super bool) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    extra.FirstName,
		LastName:     extra.LastName,
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
	}

	// Pre-check keeps the common duplicate path off the constraint; the
	// unique index still closes the race between concurrent registrations.
	var existing model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, domain.NewConflictError("email", "user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewInternalError("failed to check email", err)
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, domain.NewConflictError("email", "user with this email already exists")
		}
		return nil, domain.NewInternalError("failed to create user", err)
	}

	return &user, nil
}

// GetByEmail 按邮箱查找用户
func (s *AccountServiceImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user not found")
		}
		return nil, domain.NewInternalError("failed to load user", err)
	}
	return &user, nil
}

// GetByID 按 ID 查找用户
func (s *AccountServiceImpl) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user not found")
		}
		return nil, domain.NewInternalError("failed to load user", err)
	}
	return &user, nil
}

// EnsureSuperuser 系统无任何用户时引导默认管理员
func (s *AccountServiceImpl) EnsureSuperuser(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Printf("Accounts: No users found. Creating default superuser %s...", email)
	if _, err := s.CreateSuperuser(ctx, email, password, domain.UserFields{}); err != nil {
		return err
	}
	return nil
}

// isDuplicateErr reports whether err is a store-level uniqueness violation.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
