package model

import (
	"errors"
	"fmt"
)

// Базовые ошибки домена, проверяются через errors.Is
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("slot conflicts with an existing appointment")
)

// ValidationError описывает некорректное поле во входных данных
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError создаёт ошибку валидации для поля
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is позволяет сравнивать любую ValidationError с ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
