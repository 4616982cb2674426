package services

import (
	"context"
	"errors"
	"log"
	"time"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/adapters/persistence/repositories"
	"debtease/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// validate is shared by all service input structs
var validate = validator.New()

// casRetries bounds how often a payment retries after losing the version race
const casRetries = 3

// DebtService handles the debt ledger and payment application
type DebtService struct {
	debts repositories.DebtStore
}

// NewDebtService creates a new debt service
func NewDebtService(debts repositories.DebtStore) *DebtService {
	return &DebtService{debts: debts}
}

// CreateDebtInput represents debt creation input
type CreateDebtInput struct {
	Name           string          `json:"name" validate:"required,max=100"`
	DebtType       string          `json:"debt_type" validate:"required"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDay         int             `json:"due_day" validate:"gte=0,lte=31"`
	Priority       string          `json:"priority"`
	Notes          string          `json:"notes"`
}

// UpdateDebtInput represents a partial debt update. Balances are off limits:
// they only move through payments.
type UpdateDebtInput struct {
	Name           *string          `json:"name"`
	DebtType       *string          `json:"debt_type"`
	InterestRate   *decimal.Decimal `json:"interest_rate"`
	MinimumPayment *decimal.Decimal `json:"minimum_payment"`
	DueDay         *int             `json:"due_day"`
	Priority       *string          `json:"priority"`
	Notes          *string          `json:"notes"`
}

// PaymentInput represents a payment against a debt
type PaymentInput struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
	Notes       string          `json:"notes"`
}

// DebtSummary aggregates a user's debts
type DebtSummary struct {
	TotalDebts           int                        `json:"total_debts"`
	ActiveDebts          int                        `json:"active_debts"`
	PaidOffDebts         int                        `json:"paid_off_debts"`
	TotalOriginalAmount  decimal.Decimal            `json:"total_original_amount"`
	TotalCurrentBalance  decimal.Decimal            `json:"total_current_balance"`
	TotalMinimumPayments decimal.Decimal            `json:"total_minimum_payments"`
	TotalPaidOff         decimal.Decimal            `json:"total_paid_off"`
	ByType               map[string]decimal.Decimal `json:"by_type"`
	ByPriority           map[string]decimal.Decimal `json:"by_priority"`
}

// DebtAnalysis highlights the debts that matter most
type DebtAnalysis struct {
	AverageInterestRate decimal.Decimal      `json:"average_interest_rate"`
	HighestInterestDebt *models.DebtResponse `json:"highest_interest_debt"`
	LargestDebt         *models.DebtResponse `json:"largest_debt"`
	ActiveDebtCount     int                  `json:"active_debt_count"`
}

// Create creates a new debt for the owner
func (s *DebtService) Create(ctx context.Context, ownerID uint, input *CreateDebtInput) (*models.Debt, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.Validation("debt", err.Error())
	}
	if !domain.DebtType(input.DebtType).Valid() {
		return nil, domain.Validation("debt", "unknown debt type")
	}
	if !input.OriginalAmount.IsPositive() {
		return nil, domain.Validation("debt", "original amount must be positive")
	}
	if input.InterestRate.IsNegative() {
		return nil, domain.Validation("debt", "interest rate cannot be negative")
	}
	if input.MinimumPayment.IsNegative() {
		return nil, domain.Validation("debt", "minimum payment cannot be negative")
	}

	priority := input.Priority
	if priority == "" {
		priority = string(domain.PriorityMedium)
	}
	if !domain.Priority(priority).Valid() {
		return nil, domain.Validation("debt", "unknown priority")
	}

	debt := &models.Debt{
		UserID:         ownerID,
		Name:           input.Name,
		DebtType:       input.DebtType,
		OriginalAmount: input.OriginalAmount,
		CurrentBalance: input.OriginalAmount,
		InterestRate:   input.InterestRate,
		MinimumPayment: input.MinimumPayment,
		DueDay:         input.DueDay,
		Priority:       priority,
		Status:         string(domain.DebtStatusActive),
		StartDate:      time.Now(),
		Notes:          input.Notes,
		Version:        1,
	}

	if err := s.debts.Create(ctx, debt); err != nil {
		return nil, err
	}

	log.Printf("✅ Debt created: %s (id=%d, user=%d)", debt.Name, debt.ID, ownerID)
	return debt, nil
}

// Get returns a debt after the ownership check
func (s *DebtService) Get(ctx context.Context, id, ownerID uint) (*models.Debt, error) {
	return s.getOwned(ctx, id, ownerID)
}

// List lists all debts of the owner
func (s *DebtService) List(ctx context.Context, ownerID uint) ([]*models.Debt, error) {
	return s.debts.ListByUser(ctx, ownerID)
}

// ListByType lists the owner's debts of one type
func (s *DebtService) ListByType(ctx context.Context, ownerID uint, debtType string) ([]*models.Debt, error) {
	if !domain.DebtType(debtType).Valid() {
		return nil, domain.Validation("debt", "unknown debt type")
	}
	return s.debts.ListByUserAndType(ctx, ownerID, debtType)
}

// ListByPriority lists the owner's debts of one priority
func (s *DebtService) ListByPriority(ctx context.Context, ownerID uint, priority string) ([]*models.Debt, error) {
	if !domain.Priority(priority).Valid() {
		return nil, domain.Validation("debt", "unknown priority")
	}
	return s.debts.ListByUserAndPriority(ctx, ownerID, priority)
}

// Update merges the provided fields into the debt
func (s *DebtService) Update(ctx context.Context, id, ownerID uint, input *UpdateDebtInput) (*models.Debt, error) {
	debt, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.Validation("debt", "name cannot be empty")
		}
		debt.Name = *input.Name
	}
	if input.DebtType != nil {
		if !domain.DebtType(*input.DebtType).Valid() {
			return nil, domain.Validation("debt", "unknown debt type")
		}
		debt.DebtType = *input.DebtType
	}
	if input.InterestRate != nil {
		if input.InterestRate.IsNegative() {
			return nil, domain.Validation("debt", "interest rate cannot be negative")
		}
		debt.InterestRate = *input.InterestRate
	}
	if input.MinimumPayment != nil {
		if input.MinimumPayment.IsNegative() {
			return nil, domain.Validation("debt", "minimum payment cannot be negative")
		}
		debt.MinimumPayment = *input.MinimumPayment
	}
	if input.DueDay != nil {
		if *input.DueDay < 0 || *input.DueDay > 31 {
			return nil, domain.Validation("debt", "due day must be between 1 and 31")
		}
		debt.DueDay = *input.DueDay
	}
	if input.Priority != nil {
		if !domain.Priority(*input.Priority).Valid() {
			return nil, domain.Validation("debt", "unknown priority")
		}
		debt.Priority = *input.Priority
	}
	if input.Notes != nil {
		debt.Notes = *input.Notes
	}

	if err := s.debts.Update(ctx, debt); err != nil {
		return nil, err
	}
	return debt, nil
}

// Delete removes a debt. Debts still carrying a balance cannot be deleted.
func (s *DebtService) Delete(ctx context.Context, id, ownerID uint) error {
	debt, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if debt.CurrentBalance.IsPositive() {
		return domain.Conflict("debt", id, "debt still has an outstanding balance")
	}

	return s.debts.Delete(ctx, id)
}

// MakePayment applies a payment to a debt. The insert and the balance
// decrement land in one transaction; a concurrent payment on the same debt
// triggers a bounded retry against the fresh balance.
func (s *DebtService) MakePayment(ctx context.Context, debtID, ownerID uint, input *PaymentInput) (*models.DebtPayment, error) {
	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = string(domain.PaymentTypeExtra)
	}
	if !domain.PaymentType(paymentType).Valid() {
		return nil, domain.Validation("payment", "unknown payment type")
	}
	if !input.Amount.IsPositive() {
		return nil, domain.Validation("payment", "amount must be positive")
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		debt, err := s.getOwned(ctx, debtID, ownerID)
		if err != nil {
			return nil, err
		}

		if input.Amount.GreaterThan(debt.CurrentBalance) {
			return nil, domain.Validation("payment", "amount exceeds the current balance")
		}

		debt.CurrentBalance = debt.CurrentBalance.Sub(input.Amount)
		if !debt.CurrentBalance.IsPositive() {
			now := time.Now()
			debt.Status = string(domain.DebtStatusPaidOff)
			debt.EndDate = &now
		}

		payment := &models.DebtPayment{
			DebtID:      debtID,
			Amount:      input.Amount,
			PaymentType: paymentType,
			PaymentDate: time.Now(),
			Notes:       input.Notes,
		}

		err = s.debts.ApplyPayment(ctx, debt, payment)
		if err == nil {
			log.Printf("✅ Payment applied: debt=%d amount=%s balance=%s", debtID, input.Amount, debt.CurrentBalance)
			return payment, nil
		}
		if !errors.Is(err, repositories.ErrStaleDebt) {
			return nil, err
		}
		// Lost the version race, re-read and try again
	}

	return nil, domain.Conflict("debt", debtID, "concurrent payments, please retry")
}

// PaymentHistory lists one page of payments for a debt, newest first
func (s *DebtService) PaymentHistory(ctx context.Context, debtID, ownerID uint, limit, offset int) ([]*models.DebtPayment, int64, error) {
	if _, err := s.getOwned(ctx, debtID, ownerID); err != nil {
		return nil, 0, err
	}
	return s.debts.ListPayments(ctx, debtID, limit, offset)
}

// TotalBalance sums the owner's current balances
func (s *DebtService) TotalBalance(ctx context.Context, ownerID uint) (decimal.Decimal, error) {
	debts, err := s.debts.ListByUser(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.CurrentBalance)
	}
	return total, nil
}

// TotalMinimumPayments sums the minimum payments of the owner's active debts
func (s *DebtService) TotalMinimumPayments(ctx context.Context, ownerID uint) (decimal.Decimal, error) {
	debts, err := s.debts.ListByUser(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, d := range debts {
		if d.Status == string(domain.DebtStatusActive) {
			total = total.Add(d.MinimumPayment)
		}
	}
	return total, nil
}

// Summary aggregates the owner's debts by status, type and priority
func (s *DebtService) Summary(ctx context.Context, ownerID uint) (*DebtSummary, error) {
	debts, err := s.debts.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := &DebtSummary{
		TotalOriginalAmount:  decimal.Zero,
		TotalCurrentBalance:  decimal.Zero,
		TotalMinimumPayments: decimal.Zero,
		TotalPaidOff:         decimal.Zero,
		ByType:               make(map[string]decimal.Decimal),
		ByPriority:           make(map[string]decimal.Decimal),
	}

	for _, d := range debts {
		summary.TotalDebts++
		summary.TotalOriginalAmount = summary.TotalOriginalAmount.Add(d.OriginalAmount)
		summary.TotalCurrentBalance = summary.TotalCurrentBalance.Add(d.CurrentBalance)
		summary.TotalPaidOff = summary.TotalPaidOff.Add(d.OriginalAmount.Sub(d.CurrentBalance))

		if d.Status == string(domain.DebtStatusPaidOff) {
			summary.PaidOffDebts++
		} else {
			summary.ActiveDebts++
			summary.TotalMinimumPayments = summary.TotalMinimumPayments.Add(d.MinimumPayment)
		}

		summary.ByType[d.DebtType] = summary.ByType[d.DebtType].Add(d.CurrentBalance)
		summary.ByPriority[d.Priority] = summary.ByPriority[d.Priority].Add(d.CurrentBalance)
	}

	return summary, nil
}

// Analysis reports the average rate and the stand-out debts
func (s *DebtService) Analysis(ctx context.Context, ownerID uint) (*DebtAnalysis, error) {
	debts, err := s.debts.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	analysis := &DebtAnalysis{AverageInterestRate: decimal.Zero}

	var highest, largest *models.Debt
	rateSum := decimal.Zero
	for _, d := range debts {
		if d.Status != string(domain.DebtStatusActive) {
			continue
		}
		analysis.ActiveDebtCount++
		rateSum = rateSum.Add(d.InterestRate)

		if highest == nil || d.InterestRate.GreaterThan(highest.InterestRate) {
			highest = d
		}
		if largest == nil || d.CurrentBalance.GreaterThan(largest.CurrentBalance) {
			largest = d
		}
	}

	if analysis.ActiveDebtCount > 0 {
		analysis.AverageInterestRate = rateSum.Div(decimal.NewFromInt(int64(analysis.ActiveDebtCount))).Round(2)
	}
	if highest != nil {
		analysis.HighestInterestDebt = highest.ToResponse()
	}
	if largest != nil {
		analysis.LargestDebt = largest.ToResponse()
	}

	return analysis, nil
}

// getOwned loads a debt and enforces ownership. A missing row maps to
// not-found before the ownership check runs.
func (s *DebtService) getOwned(ctx context.Context, id, ownerID uint) (*models.Debt, error) {
	debt, err := s.debts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("debt", id)
		}
		return nil, err
	}
	if debt.UserID != ownerID {
		return nil, domain.Unauthorized("debt", id)
	}
	return debt, nil
}
