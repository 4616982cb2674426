package repositories

import (
	"context"
	"time"

	"debtease/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// DebtStore defines debt and payment data access
type DebtStore interface {
	Create(ctx context.Context, debt *models.Debt) error
	GetByID(ctx context.Context, id uint) (*models.Debt, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Debt, error)
	ListByUserAndType(ctx context.Context, userID uint, debtType string) ([]*models.Debt, error)
	ListByUserAndPriority(ctx context.Context, userID uint, priority string) ([]*models.Debt, error)
	Update(ctx context.Context, debt *models.Debt) error
	Delete(ctx context.Context, id uint) error

	// ApplyPayment persists the payment and the already-decremented debt in
	// one transaction, guarded by the debt's version column.
	ApplyPayment(ctx context.Context, debt *models.Debt, payment *models.DebtPayment) error

	// ListPayments returns one page of payments, newest first, plus the
	// total count for pagination metadata.
	ListPayments(ctx context.Context, debtID uint, limit, offset int) ([]*models.DebtPayment, int64, error)
}

// ReminderStore defines reminder data access
type ReminderStore interface {
	Create(ctx context.Context, reminder *models.DebtReminder) error
	GetByID(ctx context.Context, id uint) (*models.DebtReminder, error)
	Update(ctx context.Context, reminder *models.DebtReminder) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]*models.DebtReminder, error)
	ListByDebt(ctx context.Context, debtID uint) ([]*models.DebtReminder, error)
	HasUnsentForDueDate(ctx context.Context, debtID uint, dueDate time.Time) (bool, error)
	ListDueUnsent(ctx context.Context, before time.Time) ([]*models.DebtReminder, error)
}

// StrategyStore defines strategy data access
type StrategyStore interface {
	Create(ctx context.Context, strategy *models.DebtStrategy) error
	GetByID(ctx context.Context, id uint) (*models.DebtStrategy, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.DebtStrategy, error)
	GetActiveByUser(ctx context.Context, userID uint) (*models.DebtStrategy, error)
	Update(ctx context.Context, strategy *models.DebtStrategy) error
	Delete(ctx context.Context, id uint) error

	// Activate deactivates every strategy of the user and activates the
	// given one in a single transaction.
	Activate(ctx context.Context, userID, strategyID uint) error
}
