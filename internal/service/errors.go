package service

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses at the handler boundary.
var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials maps to 401 on login.
	ErrInvalidCredentials = errors.New("Invalid username or password")

	// ErrInvalidAmount rejects non-positive payment or transaction amounts.
	ErrInvalidAmount = errors.New("Amount must be greater than zero")

	// ErrDuplicate maps to 409 for unique-constraint style conflicts.
	ErrDuplicate = errors.New("record already exists")
)

// InsufficientStockError reports a reservation that would oversell a product.
// The message carries the product name and the stock actually available.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.ProductName, e.Available)
}

// IntegrityError reports a delete blocked by dependent records (409).
type IntegrityError struct {
	Entity string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("Cannot delete %s: %s", e.Entity, e.Reason)
}

// NotFoundf wraps ErrNotFound with the entity name for logging context.
func NotFoundf(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}
