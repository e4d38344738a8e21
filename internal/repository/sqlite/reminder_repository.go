package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"weather-backend/internal/domain"
	"weather-backend/internal/repository"
)

const createRemindersTable = `
CREATE TABLE IF NOT EXISTS reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	remind_on TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders(user_id);
`

type ReminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) repository.ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRemindersTable); err != nil {
		return fmt.Errorf("create reminders table: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) (int64, error) {
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO reminders (user_id, title, description, remind_on, completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reminder.UserID,
		reminder.Title,
		reminder.Description,
		reminder.RemindOn,
		reminder.Completed,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reminder: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reminder last insert id: %w", err)
	}
	reminder.ID = id
	return id, nil
}

func (r *ReminderRepository) Update(ctx context.Context, reminder *domain.Reminder) error {
	reminder.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE reminders
SET title=?, description=?, remind_on=?, completed=?, updated_at=?
WHERE id=? AND user_id=?`,
		reminder.Title,
		reminder.Description,
		reminder.RemindOn,
		reminder.Completed,
		reminder.UpdatedAt,
		reminder.ID,
		reminder.UserID,
	)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reminder rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reminder rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReminderRepository) Get(ctx context.Context, id, userID int64) (*domain.Reminder, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, description, remind_on, completed, created_at, updated_at
FROM reminders
WHERE id=? AND user_id=?`,
		id, userID,
	)
	return scanReminder(row)
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, description, remind_on, completed, created_at, updated_at
FROM reminders
WHERE user_id=?
ORDER BY remind_on ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		var reminder domain.Reminder
		if err := rows.Scan(
			&reminder.ID,
			&reminder.UserID,
			&reminder.Title,
			&reminder.Description,
			&reminder.RemindOn,
			&reminder.Completed,
			&reminder.CreatedAt,
			&reminder.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return reminders, nil
}

func scanReminder(row *sql.Row) (*domain.Reminder, error) {
	var reminder domain.Reminder
	if err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.Title,
		&reminder.Description,
		&reminder.RemindOn,
		&reminder.Completed,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan reminder: %w", err)
	}
	return &reminder, nil
}
