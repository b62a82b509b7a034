package domain

import "errors"

// 定义通用业务错误
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")
)

// AppError 应用错误，包含错误码和消息
type AppError struct {
	Code    int                 // HTTP 状态码
	Message string              // 用户友好的错误消息
	Fields  map[string][]string // 字段级校验错误
	Err     error               // 原始错误
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// 创建常见错误的便捷函数
func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: 404, Message: msg, Err: ErrNotFound}
}

func NewBadRequestError(msg string) *AppError {
	return &AppError{Code: 400, Message: msg, Err: ErrInvalidInput}
}

// NewValidationError reports a single field-level failure.
func NewValidationError(field, msg string) *AppError {
	return &AppError{
		Code:    400,
		Message: "validation failed",
		Fields:  map[string][]string{field: {msg}},
		Err:     ErrInvalidInput,
	}
}

// NewConflictError reports a uniqueness violation as a field error.
func NewConflictError(field, msg string) *AppError {
	return &AppError{
		Code:    400,
		Message: msg,
		Fields:  map[string][]string{field: {msg}},
		Err:     ErrAlreadyExists,
	}
}

// NewAuthenticationError is deliberately uniform: callers must not reveal
// which credential factor failed.
func NewAuthenticationError() *AppError {
	return &AppError{Code: 401, Message: "invalid credentials", Err: ErrUnauthorized}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Code: 500, Message: msg, Err: err}
}
