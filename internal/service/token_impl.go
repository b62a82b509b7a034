package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"nexusmart.com/internal/auth"
	"nexusmart.com/internal/domain"
	"nexusmart.com/internal/model"
)

// TokenServiceImpl 实现 domain.TokenService 接口
type TokenServiceImpl struct {
	accounts domain.AccountService
	issuer   *auth.TokenIssuer

	// Compared against on unknown-email logins so both failure paths pay
	// for one bcrypt verification.
	placeholderHash []byte
}

// NewTokenService 创建令牌服务
func NewTokenService(accounts domain.AccountService, issuer *auth.TokenIssuer) *TokenServiceImpl {
	placeholder, _ := bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)
	return &TokenServiceImpl{
		accounts:        accounts,
		issuer:          issuer,
		placeholderHash: placeholder,
	}
}

// Authenticate 校验邮箱密码，成功则签发访问/刷新令牌对。
// 未知邮箱与密码错误返回同一个错误。
func (s *TokenServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		bcrypt.CompareHashAndPassword(s.placeholderHash, []byte(password))
		return nil, domain.NewAuthenticationError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.NewAuthenticationError()
	}
	if !user.IsActive {
		return nil, domain.NewAuthenticationError()
	}

	return s.issuePair(user)
}

func (s *TokenServiceImpl) issuePair(user *model.User) (*domain.TokenPair, error) {
	access, err := s.issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign token", err)
	}
	refresh, err := s.issuer.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign token", err)
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh 用刷新令牌换取新的访问令牌
func (s *TokenServiceImpl) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", domain.NewAuthenticationError()
	}

	user, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", domain.NewAuthenticationError()
	}

	access, err := s.issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return "", domain.NewInternalError("failed to sign token", err)
	}
	return access, nil
}

// Authorize 校验访问令牌并解析出对应用户
func (s *TokenServiceImpl) Authorize(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.issuer.Verify(accessToken, auth.TokenTypeAccess)
	if err != nil {
		return nil, domain.NewAuthenticationError()
	}

	user, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, domain.NewAuthenticationError()
	}
	return user, nil
}
