package repository

import (
	"context"

	"weather-backend/internal/domain"
)

// ReminderRepository exposes persistence operations for Reminder entities.
// All lookups are scoped to the owning user.
type ReminderRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, reminder *domain.Reminder) (int64, error)
	Update(ctx context.Context, reminder *domain.Reminder) error
	Delete(ctx context.Context, id, userID int64) error
	Get(ctx context.Context, id, userID int64) (*domain.Reminder, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Reminder, error)
}
