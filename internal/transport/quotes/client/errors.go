package client

import (
	"errors"
	"fmt"
)

// ErrSymbolNotFound провайдер не знает запрошенный символ. Отличается от
// StatusCodeError: недоступность провайдера не означает, что символа нет.
var ErrSymbolNotFound = errors.New("symbol not found")

type StatusCodeError struct {
	Code int
}

func NewStatusCodeError(code int) *StatusCodeError {
	return &StatusCodeError{Code: code}
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("Unexpected status code %d", e.Code)
}
