package repositories

import (
	"context"
	"errors"

	"debtease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ErrStaleDebt is returned when a balance update loses the version race
var ErrStaleDebt = errors.New("debt was modified concurrently")

// DebtRepository handles debt and payment data access
type DebtRepository struct {
	db *gorm.DB
}

// NewDebtRepository creates a new debt repository
func NewDebtRepository(db *gorm.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

// Create creates a new debt
func (r *DebtRepository) Create(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Create(debt).Error
}

// GetByID gets a debt by ID
func (r *DebtRepository) GetByID(ctx context.Context, id uint) (*models.Debt, error) {
	var debt models.Debt
	err := r.db.WithContext(ctx).First(&debt, id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// ListByUser lists all debts owned by a user
func (r *DebtRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Debt, error) {
	var debts []*models.Debt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&debts).Error
	return debts, err
}

// ListByUserAndType lists a user's debts of one type
func (r *DebtRepository) ListByUserAndType(ctx context.Context, userID uint, debtType string) ([]*models.Debt, error) {
	var debts []*models.Debt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND debt_type = ?", userID, debtType).
		Order("created_at DESC").
		Find(&debts).Error
	return debts, err
}

// ListByUserAndPriority lists a user's debts of one priority
func (r *DebtRepository) ListByUserAndPriority(ctx context.Context, userID uint, priority string) ([]*models.Debt, error) {
	var debts []*models.Debt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND priority = ?", userID, priority).
		Order("created_at DESC").
		Find(&debts).Error
	return debts, err
}

// Update updates a debt
func (r *DebtRepository) Update(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Save(debt).Error
}

// Delete soft deletes a debt
func (r *DebtRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Debt{}, id).Error
}

// ApplyPayment inserts the payment and writes the debt's new balance in one
// transaction. The balance update is a compare-and-swap on the version the
// caller read; losing the race returns ErrStaleDebt so the caller can retry
// against fresh state.
func (r *DebtRepository) ApplyPayment(ctx context.Context, debt *models.Debt, payment *models.DebtPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Debt{}).
			Where("id = ? AND version = ?", debt.ID, debt.Version).
			Updates(map[string]interface{}{
				"current_balance": debt.CurrentBalance,
				"status":          debt.Status,
				"end_date":        debt.EndDate,
				"version":         debt.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleDebt
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		debt.Version++
		return nil
	})
}

// ListPayments lists one page of payments for a debt, newest first
func (r *DebtRepository) ListPayments(ctx context.Context, debtID uint, limit, offset int) ([]*models.DebtPayment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.DebtPayment{}).
		Where("debt_id = ?", debtID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*models.DebtPayment
	err := r.db.WithContext(ctx).
		Where("debt_id = ?", debtID).
		Order("payment_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error
	return payments, total, err
}
