package service

import (
	"context"
	"strings"
	"time"

	"weather-backend/internal/domain"
	"weather-backend/internal/repository"
)

// ReminderService coordinates reminder operations for a single user.
type ReminderService interface {
	Create(ctx context.Context, userID int64, title, description, remindOn string, completed bool) (*domain.Reminder, error)
	Get(ctx context.Context, id, userID int64) (*domain.Reminder, error)
	List(ctx context.Context, userID int64) ([]domain.Reminder, error)
	Update(ctx context.Context, id, userID int64, title, description, remindOn string, completed bool) (*domain.Reminder, error)
	Delete(ctx context.Context, id, userID int64) error
}

type reminderService struct {
	reminders repository.ReminderRepository
}

func NewReminderService(reminders repository.ReminderRepository) ReminderService {
	return &reminderService{reminders: reminders}
}

func (s *reminderService) Create(ctx context.Context, userID int64, title, description, remindOn string, completed bool) (*domain.Reminder, error) {
	reminder := &domain.Reminder{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		RemindOn:    strings.TrimSpace(remindOn),
		Completed:   completed,
	}
	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if _, err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *reminderService) Get(ctx context.Context, id, userID int64) (*domain.Reminder, error) {
	return s.reminders.Get(ctx, id, userID)
}

func (s *reminderService) List(ctx context.Context, userID int64) ([]domain.Reminder, error) {
	return s.reminders.ListByUser(ctx, userID)
}

func (s *reminderService) Update(ctx context.Context, id, userID int64, title, description, remindOn string, completed bool) (*domain.Reminder, error) {
	reminder, err := s.reminders.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	reminder.Title = strings.TrimSpace(title)
	reminder.Description = strings.TrimSpace(description)
	reminder.RemindOn = strings.TrimSpace(remindOn)
	reminder.Completed = completed
	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *reminderService) Delete(ctx context.Context, id, userID int64) error {
	return s.reminders.Delete(ctx, id, userID)
}

func validateReminder(reminder *domain.Reminder) error {
	if reminder.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if reminder.RemindOn == "" {
		return &ValidationError{Field: "remind_on", Message: "remind_on is required"}
	}
	if _, err := time.Parse("2006-01-02", reminder.RemindOn); err != nil {
		return &ValidationError{Field: "remind_on", Message: "remind_on must be YYYY-MM-DD"}
	}
	return nil
}
