package repositories

import (
	"context"

	"debtease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// StrategyRepository handles strategy data access
type StrategyRepository struct {
	db *gorm.DB
}

// NewStrategyRepository creates a new strategy repository
func NewStrategyRepository(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// Create creates a new strategy
func (r *StrategyRepository) Create(ctx context.Context, strategy *models.DebtStrategy) error {
	return r.db.WithContext(ctx).Create(strategy).Error
}

// GetByID gets a strategy by ID
func (r *StrategyRepository) GetByID(ctx context.Context, id uint) (*models.DebtStrategy, error) {
	var strategy models.DebtStrategy
	err := r.db.WithContext(ctx).First(&strategy, id).Error
	if err != nil {
		return nil, err
	}
	return &strategy, nil
}

// ListByUser lists all strategies owned by a user
func (r *StrategyRepository) ListByUser(ctx context.Context, userID uint) ([]*models.DebtStrategy, error) {
	var strategies []*models.DebtStrategy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&strategies).Error
	return strategies, err
}

// GetActiveByUser gets the user's active strategy
func (r *StrategyRepository) GetActiveByUser(ctx context.Context, userID uint) (*models.DebtStrategy, error) {
	var strategy models.DebtStrategy
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&strategy).Error
	if err != nil {
		return nil, err
	}
	return &strategy, nil
}

// Update updates a strategy
func (r *StrategyRepository) Update(ctx context.Context, strategy *models.DebtStrategy) error {
	return r.db.WithContext(ctx).Save(strategy).Error
}

// Delete soft deletes a strategy
func (r *StrategyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.DebtStrategy{}, id).Error
}

// Activate flips the active strategy in one transaction so at most one
// strategy per user is ever active
func (r *StrategyRepository) Activate(ctx context.Context, userID, strategyID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DebtStrategy{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.DebtStrategy{}).
			Where("id = ? AND user_id = ?", strategyID, userID).
			Update("is_active", true).Error
	})
}
