package service

import (
	"errors"
	"fmt"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = repository.ErrNotFound
	ErrForbidden     = errors.New("insufficient permissions")
	ErrConflict      = errors.New("already exists")
	ErrDuplicateCode = errors.New("could not allocate a unique QR code")
)

// ValidationError 400，Message 指明出错字段
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func missingField(field string) error {
	return &ValidationError{Field: field, Message: "Missing required field: " + field}
}

func invalidField(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 404，带面向用户的提示
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// notFound 将仓库的 ErrNotFound 转成带提示的错误，其它错误原样返回
func notFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: message}
	}
	return err
}
