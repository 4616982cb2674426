package models

import (
	"time"

	"debtease/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Debt represents debts table
type Debt struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	DebtType       string          `gorm:"size:30;not null" json:"debt_type"`
	OriginalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"original_amount"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"current_balance"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	MinimumPayment decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"minimum_payment"`
	DueDay         int             `gorm:"default:0" json:"due_day"` // day of month, 0 = unset
	Priority       string          `gorm:"size:10;default:'medium'" json:"priority"`
	Status         string          `gorm:"size:20;default:'active';index" json:"status"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Version        uint            `gorm:"not null;default:1" json:"-"` // optimistic lock for balance updates
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	User     *User         `gorm:"foreignKey:UserID" json:"-"`
	Payments []DebtPayment `gorm:"foreignKey:DebtID" json:"payments,omitempty"`
}

func (Debt) TableName() string {
	return "debts"
}

// IsPaidOff reports whether the debt carries no balance
func (d *Debt) IsPaidOff() bool {
	return !d.CurrentBalance.IsPositive()
}

// ToPayoffDebt converts the row into the payoff engine's view
func (d *Debt) ToPayoffDebt() domain.PayoffDebt {
	return domain.PayoffDebt{
		ID:             d.ID,
		Name:           d.Name,
		Balance:        d.CurrentBalance,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
	}
}

// DebtResponse DTO
type DebtResponse struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	DebtType       string          `json:"debt_type"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDay         int             `json:"due_day"`
	Priority       string          `json:"priority"`
	Status         string          `json:"status"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (d *Debt) ToResponse() *DebtResponse {
	return &DebtResponse{
		ID:             d.ID,
		Name:           d.Name,
		DebtType:       d.DebtType,
		OriginalAmount: d.OriginalAmount,
		CurrentBalance: d.CurrentBalance,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
		DueDay:         d.DueDay,
		Priority:       d.Priority,
		Status:         d.Status,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// DebtPayment represents debt_payments table
type DebtPayment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	DebtID      uint            `gorm:"index;not null" json:"debt_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentType string          `gorm:"size:20;default:'extra'" json:"payment_type"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Debt *Debt `gorm:"foreignKey:DebtID" json:"-"`
}

func (DebtPayment) TableName() string {
	return "debt_payments"
}

// DebtPaymentResponse DTO
type DebtPaymentResponse struct {
	ID          uint            `json:"id"`
	DebtID      uint            `json:"debt_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
	PaymentDate time.Time       `json:"payment_date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p *DebtPayment) ToResponse() *DebtPaymentResponse {
	return &DebtPaymentResponse{
		ID:          p.ID,
		DebtID:      p.DebtID,
		Amount:      p.Amount,
		PaymentType: p.PaymentType,
		PaymentDate: p.PaymentDate,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// DebtReminder represents debt_reminders table
type DebtReminder struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	DebtID       uint            `gorm:"index;not null" json:"debt_id"`
	ReminderDate time.Time       `gorm:"not null;index" json:"reminder_date"`
	DueDate      time.Time       `gorm:"not null;index" json:"due_date"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	ReminderType string          `gorm:"size:20;default:'email'" json:"reminder_type"`
	IsSent       bool            `gorm:"default:false;index" json:"is_sent"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	SentDate     *time.Time      `json:"sent_date"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Debt *Debt `gorm:"foreignKey:DebtID" json:"debt,omitempty"`
}

func (DebtReminder) TableName() string {
	return "debt_reminders"
}

// DebtReminderResponse DTO
type DebtReminderResponse struct {
	ID           uint            `json:"id"`
	DebtID       uint            `json:"debt_id"`
	DebtName     string          `json:"debt_name,omitempty"`
	ReminderDate time.Time       `json:"reminder_date"`
	DueDate      time.Time       `json:"due_date"`
	Amount       decimal.Decimal `json:"amount"`
	ReminderType string          `json:"reminder_type"`
	IsSent       bool            `json:"is_sent"`
	IsActive     bool            `json:"is_active"`
	SentDate     *time.Time      `json:"sent_date"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (r *DebtReminder) ToResponse() *DebtReminderResponse {
	resp := &DebtReminderResponse{
		ID:           r.ID,
		DebtID:       r.DebtID,
		ReminderDate: r.ReminderDate,
		DueDate:      r.DueDate,
		Amount:       r.Amount,
		ReminderType: r.ReminderType,
		IsSent:       r.IsSent,
		IsActive:     r.IsActive,
		SentDate:     r.SentDate,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}

	if r.Debt != nil {
		resp.DebtName = r.Debt.Name
	}

	return resp
}

// DebtStrategy represents debt_strategies table
type DebtStrategy struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	UserID               uint            `gorm:"index;not null" json:"user_id"`
	Name                 string          `gorm:"size:100;not null" json:"name"`
	StrategyType         string          `gorm:"size:20;not null" json:"strategy_type"`
	MonthlyPaymentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_payment_amount"`
	IsActive             bool            `gorm:"default:false;index" json:"is_active"`
	Description          string          `gorm:"type:text" json:"description"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (DebtStrategy) TableName() string {
	return "debt_strategies"
}

// DebtStrategyResponse DTO
type DebtStrategyResponse struct {
	ID                   uint            `json:"id"`
	Name                 string          `json:"name"`
	StrategyType         string          `json:"strategy_type"`
	MonthlyPaymentAmount decimal.Decimal `json:"monthly_payment_amount"`
	IsActive             bool            `json:"is_active"`
	Description          string          `json:"description,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (s *DebtStrategy) ToResponse() *DebtStrategyResponse {
	return &DebtStrategyResponse{
		ID:                   s.ID,
		Name:                 s.Name,
		StrategyType:         s.StrategyType,
		MonthlyPaymentAmount: s.MonthlyPaymentAmount,
		IsActive:             s.IsActive,
		Description:          s.Description,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Debt{},
		&DebtPayment{},
		&DebtReminder{},
		&DebtStrategy{},
	)
}
