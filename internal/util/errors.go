package util

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidMode    = errors.New("invalid study mode")
	ErrLimitExceeded  = errors.New("limit exceeds maximum")
	ErrEmptyIDs       = errors.New("ids must not be empty")
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")
)

// ValidationError 请求参数不合法，在访问仓库之前返回
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: cause}
}

// NotFoundError 引用的单元或题目不存在
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ProviderError 向量化或相似度检索后端失败，和“没有匹配结果”区分开
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Err: err}
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsProviderError(err error) bool {
	var target *ProviderError
	return errors.As(err, &target)
}
