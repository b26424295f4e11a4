// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"errors"

	"housegig/internal/models"

	"gorm.io/gorm"
)

// coerce maps raw repository errors to the application error taxonomy.
// AppErrors pass through untouched; a missing row becomes a 404 with the
// given message; anything else is internal.
func coerce(err error, notFoundMessage string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(notFoundMessage)
	}
	return models.NewInternalError(err)
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
