package services

import (
	"context"
	"errors"
	"log"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/adapters/persistence/repositories"
	"debtease/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StrategyService handles payoff strategies and simulations
type StrategyService struct {
	strategies repositories.StrategyStore
	debts      repositories.DebtStore
}

// NewStrategyService creates a new strategy service
func NewStrategyService(strategies repositories.StrategyStore, debts repositories.DebtStore) *StrategyService {
	return &StrategyService{strategies: strategies, debts: debts}
}

// CreateStrategyInput represents strategy creation input
type CreateStrategyInput struct {
	Name                 string          `json:"name" validate:"required,max=100"`
	StrategyType         string          `json:"strategy_type" validate:"required"`
	MonthlyPaymentAmount decimal.Decimal `json:"monthly_payment_amount"`
	Description          string          `json:"description"`
}

// UpdateStrategyInput represents a partial strategy update
type UpdateStrategyInput struct {
	Name                 *string          `json:"name"`
	StrategyType         *string          `json:"strategy_type"`
	MonthlyPaymentAmount *decimal.Decimal `json:"monthly_payment_amount"`
	Description          *string          `json:"description"`
}

// Recommendation is a generated payoff ordering over the user's active debts
type Recommendation struct {
	StrategyType string              `json:"strategy_type"`
	Description  string              `json:"description"`
	DebtOrder    []domain.PayoffDebt `json:"debt_order"`
	TotalDebts   int                 `json:"total_debts"`
	TotalBalance decimal.Decimal     `json:"total_balance"`
}

// StrategyComparison holds the simulated outcome of both orderings
type StrategyComparison struct {
	MonthlyPayment decimal.Decimal        `json:"monthly_payment"`
	Snowball       *domain.PayoffTimeline `json:"snowball"`
	Avalanche      *domain.PayoffTimeline `json:"avalanche"`
}

// StrategyEffectiveness relates a strategy's budget to the debts it targets
type StrategyEffectiveness struct {
	StrategyID           uint            `json:"strategy_id"`
	ActiveDebtCount      int             `json:"active_debt_count"`
	TotalBalance         decimal.Decimal `json:"total_balance"`
	TotalMinimumPayments decimal.Decimal `json:"total_minimum_payments"`
	MonthlyPaymentAmount decimal.Decimal `json:"monthly_payment_amount"`
	ExtraBudget          decimal.Decimal `json:"extra_budget"`
}

// Create creates an inactive strategy for the owner. The monthly budget must
// cover the total minimums of the active debts.
func (s *StrategyService) Create(ctx context.Context, ownerID uint, input *CreateStrategyInput) (*models.DebtStrategy, error) {
	if err := validate.Struct(input); err != nil {
		return nil, domain.Validation("strategy", err.Error())
	}
	if !domain.StrategyType(input.StrategyType).Valid() {
		return nil, domain.Validation("strategy", "unknown strategy type")
	}
	if !input.MonthlyPaymentAmount.IsPositive() {
		return nil, domain.Validation("strategy", "monthly payment amount must be positive")
	}
	if err := s.checkBudget(ctx, ownerID, input.MonthlyPaymentAmount); err != nil {
		return nil, err
	}

	strategy := &models.DebtStrategy{
		UserID:               ownerID,
		Name:                 input.Name,
		StrategyType:         input.StrategyType,
		MonthlyPaymentAmount: input.MonthlyPaymentAmount,
		Description:          input.Description,
	}

	if err := s.strategies.Create(ctx, strategy); err != nil {
		return nil, err
	}

	log.Printf("✅ Strategy created: %s (id=%d, user=%d)", strategy.Name, strategy.ID, ownerID)
	return strategy, nil
}

// Get returns a strategy after the ownership check
func (s *StrategyService) Get(ctx context.Context, id, ownerID uint) (*models.DebtStrategy, error) {
	return s.getOwned(ctx, id, ownerID)
}

// List lists the owner's strategies
func (s *StrategyService) List(ctx context.Context, ownerID uint) ([]*models.DebtStrategy, error) {
	return s.strategies.ListByUser(ctx, ownerID)
}

// GetActive returns the owner's active strategy, if any
func (s *StrategyService) GetActive(ctx context.Context, ownerID uint) (*models.DebtStrategy, error) {
	strategy, err := s.strategies.GetActiveByUser(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("strategy", 0)
		}
		return nil, err
	}
	return strategy, nil
}

// Update merges the provided fields into the strategy
func (s *StrategyService) Update(ctx context.Context, id, ownerID uint, input *UpdateStrategyInput) (*models.DebtStrategy, error) {
	strategy, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.Validation("strategy", "name cannot be empty")
		}
		strategy.Name = *input.Name
	}
	if input.StrategyType != nil {
		if !domain.StrategyType(*input.StrategyType).Valid() {
			return nil, domain.Validation("strategy", "unknown strategy type")
		}
		strategy.StrategyType = *input.StrategyType
	}
	if input.MonthlyPaymentAmount != nil {
		if !input.MonthlyPaymentAmount.IsPositive() {
			return nil, domain.Validation("strategy", "monthly payment amount must be positive")
		}
		if err := s.checkBudget(ctx, ownerID, *input.MonthlyPaymentAmount); err != nil {
			return nil, err
		}
		strategy.MonthlyPaymentAmount = *input.MonthlyPaymentAmount
	}
	if input.Description != nil {
		strategy.Description = *input.Description
	}

	if err := s.strategies.Update(ctx, strategy); err != nil {
		return nil, err
	}
	return strategy, nil
}

// Delete removes a strategy
func (s *StrategyService) Delete(ctx context.Context, id, ownerID uint) error {
	if _, err := s.getOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.strategies.Delete(ctx, id)
}

// Activate makes the strategy the owner's single active one
func (s *StrategyService) Activate(ctx context.Context, id, ownerID uint) (*models.DebtStrategy, error) {
	if _, err := s.getOwned(ctx, id, ownerID); err != nil {
		return nil, err
	}

	if err := s.strategies.Activate(ctx, ownerID, id); err != nil {
		return nil, err
	}

	log.Printf("✅ Strategy %d activated for user %d", id, ownerID)
	return s.strategies.GetByID(ctx, id)
}

// Recommend builds the payoff ordering of the given type over the owner's
// active debts
func (s *StrategyService) Recommend(ctx context.Context, ownerID uint, strategyType domain.StrategyType) (*Recommendation, error) {
	debts, err := s.activePayoffDebts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ordered := domain.OrderDebts(strategyType, debts)

	total := decimal.Zero
	for _, d := range ordered {
		total = total.Add(d.Balance)
	}

	description := "Pay the smallest balance first to build momentum"
	if strategyType == domain.StrategyAvalanche {
		description = "Pay the highest interest rate first to minimize cost"
	}

	return &Recommendation{
		StrategyType: string(strategyType),
		Description:  description,
		DebtOrder:    ordered,
		TotalDebts:   len(ordered),
		TotalBalance: total,
	}, nil
}

// PayoffTimeline simulates paying the owner's active debts with the given
// monthly budget under one strategy
func (s *StrategyService) PayoffTimeline(ctx context.Context, ownerID uint, strategyType domain.StrategyType, monthlyPayment decimal.Decimal) (*domain.PayoffTimeline, error) {
	if !strategyType.Valid() || strategyType == domain.StrategyCustom {
		return nil, domain.Validation("strategy", "timeline requires snowball or avalanche")
	}
	if !monthlyPayment.IsPositive() {
		return nil, domain.Validation("strategy", "monthly payment must be positive")
	}

	debts, err := s.activePayoffDebts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return domain.SimulatePayoff(strategyType, debts, monthlyPayment)
}

// Compare simulates both orderings against the same monthly budget
func (s *StrategyService) Compare(ctx context.Context, ownerID uint, monthlyPayment decimal.Decimal) (*StrategyComparison, error) {
	if !monthlyPayment.IsPositive() {
		return nil, domain.Validation("strategy", "monthly payment must be positive")
	}

	debts, err := s.activePayoffDebts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snowball, err := domain.SimulatePayoff(domain.StrategySnowball, debts, monthlyPayment)
	if err != nil {
		return nil, err
	}
	avalanche, err := domain.SimulatePayoff(domain.StrategyAvalanche, debts, monthlyPayment)
	if err != nil {
		return nil, err
	}

	return &StrategyComparison{
		MonthlyPayment: monthlyPayment,
		Snowball:       snowball,
		Avalanche:      avalanche,
	}, nil
}

// Effectiveness relates the strategy's budget to the owner's active debts
func (s *StrategyService) Effectiveness(ctx context.Context, id, ownerID uint) (*StrategyEffectiveness, error) {
	strategy, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	debts, err := s.activePayoffDebts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	eff := &StrategyEffectiveness{
		StrategyID:           strategy.ID,
		ActiveDebtCount:      len(debts),
		TotalBalance:         decimal.Zero,
		TotalMinimumPayments: decimal.Zero,
		MonthlyPaymentAmount: strategy.MonthlyPaymentAmount,
	}
	for _, d := range debts {
		eff.TotalBalance = eff.TotalBalance.Add(d.Balance)
		eff.TotalMinimumPayments = eff.TotalMinimumPayments.Add(d.MinimumPayment)
	}
	eff.ExtraBudget = strategy.MonthlyPaymentAmount.Sub(eff.TotalMinimumPayments)

	return eff, nil
}

// checkBudget rejects budgets below the total minimums of active debts
func (s *StrategyService) checkBudget(ctx context.Context, ownerID uint, monthly decimal.Decimal) error {
	debts, err := s.activePayoffDebts(ctx, ownerID)
	if err != nil {
		return err
	}

	totalMinimums := decimal.Zero
	for _, d := range debts {
		totalMinimums = totalMinimums.Add(d.MinimumPayment)
	}
	if monthly.LessThan(totalMinimums) {
		return domain.Validation("strategy", "monthly payment amount is below the total minimum payments")
	}
	return nil
}

// activePayoffDebts loads the owner's active debts with a balance as the
// payoff engine's view
func (s *StrategyService) activePayoffDebts(ctx context.Context, ownerID uint) ([]domain.PayoffDebt, error) {
	debts, err := s.debts.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PayoffDebt, 0, len(debts))
	for _, d := range debts {
		if d.Status == string(domain.DebtStatusActive) && d.CurrentBalance.IsPositive() {
			out = append(out, d.ToPayoffDebt())
		}
	}
	return out, nil
}

// getOwned loads a strategy and enforces ownership
func (s *StrategyService) getOwned(ctx context.Context, id, ownerID uint) (*models.DebtStrategy, error) {
	strategy, err := s.strategies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("strategy", id)
		}
		return nil, err
	}
	if strategy.UserID != ownerID {
		return nil, domain.Unauthorized("strategy", id)
	}
	return strategy, nil
}
