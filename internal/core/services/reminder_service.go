package services

import (
	"context"
	"errors"
	"log"
	"time"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/adapters/persistence/repositories"
	"debtease/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// leadDays is how many days before the due date a generated reminder fires
const leadDays = 3

// ReminderService handles payment reminders
type ReminderService struct {
	reminders repositories.ReminderStore
	debts     repositories.DebtStore
}

// NewReminderService creates a new reminder service
func NewReminderService(reminders repositories.ReminderStore, debts repositories.DebtStore) *ReminderService {
	return &ReminderService{reminders: reminders, debts: debts}
}

// CreateReminderInput represents manual reminder creation input
type CreateReminderInput struct {
	DebtID       uint            `json:"debt_id" validate:"required"`
	ReminderDate time.Time       `json:"reminder_date"`
	DueDate      time.Time       `json:"due_date"`
	Amount       decimal.Decimal `json:"amount"`
	ReminderType string          `json:"reminder_type"`
	Notes        string          `json:"notes"`
}

// UpdateReminderInput represents a partial reminder update
type UpdateReminderInput struct {
	ReminderDate *time.Time       `json:"reminder_date"`
	DueDate      *time.Time       `json:"due_date"`
	Amount       *decimal.Decimal `json:"amount"`
	ReminderType *string          `json:"reminder_type"`
	Notes        *string          `json:"notes"`
}

// ReminderSummary aggregates a user's reminders
type ReminderSummary struct {
	Total    int `json:"total"`
	Sent     int `json:"sent"`
	Pending  int `json:"pending"`
	Overdue  int `json:"overdue"`
	Upcoming int `json:"upcoming"` // due within the next 7 days
}

// Create creates a reminder for an owned debt
func (s *ReminderService) Create(ctx context.Context, ownerID uint, input *CreateReminderInput) (*models.DebtReminder, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.Validation("reminder", err.Error())
	}
	if input.DueDate.IsZero() {
		return nil, domain.Validation("reminder", "due date is required")
	}
	if !input.Amount.IsPositive() {
		return nil, domain.Validation("reminder", "amount must be positive")
	}

	reminderType := input.ReminderType
	if reminderType == "" {
		reminderType = string(domain.ReminderTypeEmail)
	}
	if !domain.ReminderType(reminderType).Valid() {
		return nil, domain.Validation("reminder", "unknown reminder type")
	}

	reminderDate := input.ReminderDate
	if reminderDate.IsZero() {
		reminderDate = input.DueDate.AddDate(0, 0, -leadDays)
	}
	if reminderDate.After(input.DueDate) {
		return nil, domain.Validation("reminder", "reminder date cannot be after the due date")
	}

	if _, err := s.ownedDebt(ctx, input.DebtID, ownerID); err != nil {
		return nil, err
	}

	reminder := &models.DebtReminder{
		DebtID:       input.DebtID,
		ReminderDate: reminderDate,
		DueDate:      input.DueDate,
		Amount:       input.Amount,
		ReminderType: reminderType,
		IsActive:     true,
		Notes:        input.Notes,
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Generate creates the next reminder for every active debt with a due day.
// Generation is keyed on (debt, due date): a pending reminder for the pair
// suppresses a duplicate, so repeated calls are idempotent.
func (s *ReminderService) Generate(ctx context.Context, ownerID uint) ([]*models.DebtReminder, error) {
	debts, err := s.debts.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created := []*models.DebtReminder{}

	for _, debt := range debts {
		if debt.Status != string(domain.DebtStatusActive) || !debt.CurrentBalance.IsPositive() || debt.DueDay < 1 {
			continue
		}

		dueDate := domain.NextDueDate(debt.DueDay, now)

		exists, err := s.reminders.HasUnsentForDueDate(ctx, debt.ID, dueDate)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		reminder := &models.DebtReminder{
			DebtID:       debt.ID,
			ReminderDate: dueDate.AddDate(0, 0, -leadDays),
			DueDate:      dueDate,
			Amount:       debt.MinimumPayment,
			ReminderType: string(domain.ReminderTypeEmail),
			IsActive:     true,
		}
		if err := s.reminders.Create(ctx, reminder); err != nil {
			return nil, err
		}
		created = append(created, reminder)
	}

	if len(created) > 0 {
		log.Printf("✅ Generated %d reminders for user %d", len(created), ownerID)
	}
	return created, nil
}

// Get returns a reminder after the ownership check
func (s *ReminderService) Get(ctx context.Context, id, ownerID uint) (*models.DebtReminder, error) {
	return s.getOwned(ctx, id, ownerID)
}

// Update merges the provided fields into the reminder
func (s *ReminderService) Update(ctx context.Context, id, ownerID uint, input *UpdateReminderInput) (*models.DebtReminder, error) {
	reminder, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.ReminderDate != nil {
		reminder.ReminderDate = *input.ReminderDate
	}
	if input.DueDate != nil {
		reminder.DueDate = *input.DueDate
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domain.Validation("reminder", "amount must be positive")
		}
		reminder.Amount = *input.Amount
	}
	if input.ReminderType != nil {
		if !domain.ReminderType(*input.ReminderType).Valid() {
			return nil, domain.Validation("reminder", "unknown reminder type")
		}
		reminder.ReminderType = *input.ReminderType
	}
	if input.Notes != nil {
		reminder.Notes = *input.Notes
	}

	if reminder.ReminderDate.After(reminder.DueDate) {
		return nil, domain.Validation("reminder", "reminder date cannot be after the due date")
	}

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Delete removes a reminder
func (s *ReminderService) Delete(ctx context.Context, id, ownerID uint) error {
	if _, err := s.getOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.reminders.Delete(ctx, id)
}

// MarkSent flags the reminder as delivered
func (s *ReminderService) MarkSent(ctx context.Context, id, ownerID uint) (*models.DebtReminder, error) {
	reminder, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reminder.IsSent = true
	reminder.SentDate = &now

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Snooze pushes the reminder date forward by the given days. The due date
// stays where it is.
func (s *ReminderService) Snooze(ctx context.Context, id, ownerID uint, days int) (*models.DebtReminder, error) {
	if days < 1 {
		return nil, domain.Validation("reminder", "snooze days must be positive")
	}

	reminder, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	reminder.ReminderDate = reminder.ReminderDate.AddDate(0, 0, days)
	reminder.IsSent = false
	reminder.SentDate = nil

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// SetEnabled enables or disables a reminder
func (s *ReminderService) SetEnabled(ctx context.Context, id, ownerID uint, enabled bool) (*models.DebtReminder, error) {
	reminder, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	reminder.IsActive = enabled

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// List lists all reminders for the owner's debts
func (s *ReminderService) List(ctx context.Context, ownerID uint) ([]*models.DebtReminder, error) {
	return s.reminders.ListByUser(ctx, ownerID)
}

// ListActive lists enabled, not-yet-sent reminders
func (s *ReminderService) ListActive(ctx context.Context, ownerID uint) ([]*models.DebtReminder, error) {
	all, err := s.reminders.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := []*models.DebtReminder{}
	for _, r := range all {
		if r.IsActive && !r.IsSent {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListUpcoming lists active reminders due strictly within the next days
func (s *ReminderService) ListUpcoming(ctx context.Context, ownerID uint, days int) ([]*models.DebtReminder, error) {
	if days < 1 {
		days = 7
	}

	all, err := s.reminders.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	until := now.AddDate(0, 0, days)

	out := []*models.DebtReminder{}
	for _, r := range all {
		if r.IsActive && r.DueDate.After(now) && r.DueDate.Before(until) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListOverdue lists active reminders whose due date has passed unpaid
func (s *ReminderService) ListOverdue(ctx context.Context, ownerID uint) ([]*models.DebtReminder, error) {
	all, err := s.reminders.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := []*models.DebtReminder{}
	for _, r := range all {
		if r.IsActive && r.DueDate.Before(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListByDebt lists reminders for one owned debt
func (s *ReminderService) ListByDebt(ctx context.Context, debtID, ownerID uint) ([]*models.DebtReminder, error) {
	if _, err := s.ownedDebt(ctx, debtID, ownerID); err != nil {
		return nil, err
	}
	return s.reminders.ListByDebt(ctx, debtID)
}

// Summary counts the owner's reminders by state
func (s *ReminderService) Summary(ctx context.Context, ownerID uint) (*ReminderSummary, error) {
	all, err := s.reminders.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	week := now.AddDate(0, 0, 7)

	summary := &ReminderSummary{Total: len(all)}
	for _, r := range all {
		switch {
		case r.IsSent:
			summary.Sent++
		default:
			summary.Pending++
		}
		if !r.IsActive {
			continue
		}
		if r.DueDate.Before(now) {
			summary.Overdue++
		} else if r.DueDate.Before(week) {
			summary.Upcoming++
		}
	}
	return summary, nil
}

// getOwned loads a reminder and enforces ownership through its debt
func (s *ReminderService) getOwned(ctx context.Context, id, ownerID uint) (*models.DebtReminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("reminder", id)
		}
		return nil, err
	}

	debt, err := s.debts.GetByID(ctx, reminder.DebtID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("reminder", id)
		}
		return nil, err
	}
	if debt.UserID != ownerID {
		return nil, domain.Unauthorized("reminder", id)
	}

	reminder.Debt = debt
	return reminder, nil
}

// ownedDebt enforces debt ownership for debt-scoped reminder queries
func (s *ReminderService) ownedDebt(ctx context.Context, debtID, ownerID uint) (*models.Debt, error) {
	debt, err := s.debts.GetByID(ctx, debtID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("debt", debtID)
		}
		return nil, err
	}
	if debt.UserID != ownerID {
		return nil, domain.Unauthorized("debt", debtID)
	}
	return debt, nil
}
