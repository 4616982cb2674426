package repositories

import (
	"context"
	"time"

	"debtease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ReminderRepository handles reminder data access
type ReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create creates a new reminder
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.DebtReminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

// GetByID gets a reminder by ID with its debt
func (r *ReminderRepository) GetByID(ctx context.Context, id uint) (*models.DebtReminder, error) {
	var reminder models.DebtReminder
	err := r.db.WithContext(ctx).
		Preload("Debt").
		First(&reminder, id).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// Update updates a reminder
func (r *ReminderRepository) Update(ctx context.Context, reminder *models.DebtReminder) error {
	return r.db.WithContext(ctx).Save(reminder).Error
}

// Delete deletes a reminder
func (r *ReminderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.DebtReminder{}, id).Error
}

// ListByUser lists all reminders for a user's debts, soonest due first
func (r *ReminderRepository) ListByUser(ctx context.Context, userID uint) ([]*models.DebtReminder, error) {
	var reminders []*models.DebtReminder
	err := r.db.WithContext(ctx).
		Joins("JOIN debts ON debts.id = debt_reminders.debt_id").
		Where("debts.user_id = ? AND debts.deleted_at IS NULL", userID).
		Preload("Debt").
		Order("debt_reminders.due_date ASC").
		Find(&reminders).Error
	return reminders, err
}

// ListByDebt lists reminders for one debt, soonest due first
func (r *ReminderRepository) ListByDebt(ctx context.Context, debtID uint) ([]*models.DebtReminder, error) {
	var reminders []*models.DebtReminder
	err := r.db.WithContext(ctx).
		Where("debt_id = ?", debtID).
		Order("due_date ASC").
		Find(&reminders).Error
	return reminders, err
}

// HasUnsentForDueDate reports whether an active unsent reminder already
// exists for the (debt, due date) pair. Generation uses this to stay
// idempotent.
func (r *ReminderRepository) HasUnsentForDueDate(ctx context.Context, debtID uint, dueDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DebtReminder{}).
		Where("debt_id = ? AND due_date = ? AND is_sent = ? AND is_active = ?", debtID, dueDate, false, true).
		Count(&count).Error
	return count > 0, err
}

// ListDueUnsent lists active unsent reminders whose reminder date has
// arrived, with debts preloaded for dispatch
func (r *ReminderRepository) ListDueUnsent(ctx context.Context, before time.Time) ([]*models.DebtReminder, error) {
	var reminders []*models.DebtReminder
	err := r.db.WithContext(ctx).
		Where("reminder_date <= ? AND is_sent = ? AND is_active = ?", before, false, true).
		Preload("Debt").
		Order("reminder_date ASC").
		Find(&reminders).Error
	return reminders, err
}
