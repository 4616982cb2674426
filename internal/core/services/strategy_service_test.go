package services

import (
	"context"
	"errors"
	"testing"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/adapters/persistence/repositories"
	"debtease/internal/core/domain"

	"github.com/shopspring/decimal"
)

func newStrategyService() (*StrategyService, *repositories.MemoryDebtStore) {
	debts := repositories.NewMemoryDebtStore()
	strategies := repositories.NewMemoryStrategyStore()
	return NewStrategyService(strategies, debts), debts
}

func seedPayoffDebt(t *testing.T, store *repositories.MemoryDebtStore, userID uint, name, balance, rate, minimum string) *models.Debt {
	t.Helper()
	debt := &models.Debt{
		UserID:         userID,
		Name:           name,
		DebtType:       string(domain.DebtTypeCreditCard),
		OriginalAmount: dec(balance),
		CurrentBalance: dec(balance),
		InterestRate:   dec(rate),
		MinimumPayment: dec(minimum),
		Priority:       string(domain.PriorityMedium),
		Status:         string(domain.DebtStatusActive),
	}
	if err := store.Create(context.Background(), debt); err != nil {
		t.Fatalf("seed debt: %v", err)
	}
	return debt
}

func createStrategy(t *testing.T, svc *StrategyService, ownerID uint, name string, monthly string) *models.DebtStrategy {
	t.Helper()
	strategy, err := svc.Create(context.Background(), ownerID, &CreateStrategyInput{
		Name:                 name,
		StrategyType:         string(domain.StrategySnowball),
		MonthlyPaymentAmount: dec(monthly),
	})
	if err != nil {
		t.Fatalf("create strategy: %v", err)
	}
	return strategy
}

func TestCreateStrategyRejectsBudgetBelowMinimums(t *testing.T) {
	svc, debts := newStrategyService()

	seedPayoffDebt(t, debts, 1, "A", "1000", "10", "100")
	seedPayoffDebt(t, debts, 1, "B", "2000", "15", "150")

	_, err := svc.Create(context.Background(), 1, &CreateStrategyInput{
		Name:                 "Too small",
		StrategyType:         string(domain.StrategySnowball),
		MonthlyPaymentAmount: dec("200"), // minimums total 250
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestActivateKeepsSingleActiveStrategy(t *testing.T) {
	svc, debts := newStrategyService()
	ctx := context.Background()

	seedPayoffDebt(t, debts, 1, "A", "1000", "10", "100")

	first := createStrategy(t, svc, 1, "First", "300")
	second := createStrategy(t, svc, 1, "Second", "400")

	if _, err := svc.Activate(ctx, first.ID, 1); err != nil {
		t.Fatalf("activate first: %v", err)
	}
	if _, err := svc.Activate(ctx, second.ID, 1); err != nil {
		t.Fatalf("activate second: %v", err)
	}

	active, err := svc.GetActive(ctx, 1)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active strategy = %d, want %d", active.ID, second.ID)
	}

	all, _ := svc.List(ctx, 1)
	activeCount := 0
	for _, st := range all {
		if st.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("active count = %d, want exactly 1", activeCount)
	}
}

func TestActivateChecksOwnership(t *testing.T) {
	svc, debts := newStrategyService()
	ctx := context.Background()

	seedPayoffDebt(t, debts, 1, "A", "1000", "10", "100")
	strategy := createStrategy(t, svc, 1, "Mine", "300")

	if _, err := svc.Activate(ctx, strategy.ID, 2); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Activate(ctx, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRecommendOrdersDebts(t *testing.T) {
	svc, debts := newStrategyService()
	ctx := context.Background()

	big := seedPayoffDebt(t, debts, 1, "Big cheap", "9000", "4", "100")
	small := seedPayoffDebt(t, debts, 1, "Small dear", "500", "22", "25")

	// Settled debts stay out of the ordering
	settled := seedPayoffDebt(t, debts, 1, "Settled", "100", "30", "10")
	settled.CurrentBalance = decimal.Zero
	settled.Status = string(domain.DebtStatusPaidOff)
	if err := debts.Update(ctx, settled); err != nil {
		t.Fatalf("update: %v", err)
	}

	snowball, err := svc.Recommend(ctx, 1, domain.StrategySnowball)
	if err != nil {
		t.Fatalf("snowball: %v", err)
	}
	if snowball.TotalDebts != 2 || snowball.DebtOrder[0].ID != small.ID {
		t.Errorf("snowball order starts with %d, want smallest balance %d", snowball.DebtOrder[0].ID, small.ID)
	}

	avalanche, err := svc.Recommend(ctx, 1, domain.StrategyAvalanche)
	if err != nil {
		t.Fatalf("avalanche: %v", err)
	}
	if avalanche.DebtOrder[0].ID != small.ID || avalanche.DebtOrder[1].ID != big.ID {
		t.Errorf("avalanche order = %d,%d want highest rate first", avalanche.DebtOrder[0].ID, avalanche.DebtOrder[1].ID)
	}
	if !snowball.TotalBalance.Equal(dec("9500")) {
		t.Errorf("total balance = %s, want 9500", snowball.TotalBalance)
	}
}

func TestCompareRunsBothStrategies(t *testing.T) {
	svc, debts := newStrategyService()
	ctx := context.Background()

	seedPayoffDebt(t, debts, 1, "A", "1000", "0", "100")
	seedPayoffDebt(t, debts, 1, "B", "2000", "0", "100")

	cmp, err := svc.Compare(ctx, 1, dec("500"))
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if cmp.Snowball == nil || cmp.Avalanche == nil {
		t.Fatal("comparison missing a timeline")
	}
	if cmp.Snowball.Months != 6 || cmp.Avalanche.Months != 6 {
		t.Errorf("months = %d/%d, want 6/6 for interest-free debts", cmp.Snowball.Months, cmp.Avalanche.Months)
	}
}

func TestPayoffTimelineErrors(t *testing.T) {
	svc, debts := newStrategyService()
	ctx := context.Background()

	seedPayoffDebt(t, debts, 1, "A", "1000", "10", "100")

	if _, err := svc.PayoffTimeline(ctx, 1, domain.StrategyCustom, dec("500")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("custom strategy: error = %v, want ErrValidation", err)
	}
	if _, err := svc.PayoffTimeline(ctx, 1, domain.StrategySnowball, dec("0")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero budget: error = %v, want ErrValidation", err)
	}
	if _, err := svc.PayoffTimeline(ctx, 1, domain.StrategySnowball, dec("50")); !errors.Is(err, domain.ErrSimulationUnresolved) {
		t.Errorf("under minimums: error = %v, want ErrSimulationUnresolved", err)
	}

	timeline, err := svc.PayoffTimeline(ctx, 1, domain.StrategySnowball, dec("200"))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if timeline.Months == 0 {
		t.Error("timeline resolved in zero months")
	}
}

func TestEffectivenessTotals(t *testing.T) {
	svc, debts := newStrategyService()
	ctx := context.Background()

	seedPayoffDebt(t, debts, 1, "A", "1000", "10", "100")
	seedPayoffDebt(t, debts, 1, "B", "2000", "15", "150")

	strategy := createStrategy(t, svc, 1, "Plan", "400")

	eff, err := svc.Effectiveness(ctx, strategy.ID, 1)
	if err != nil {
		t.Fatalf("effectiveness: %v", err)
	}
	if eff.ActiveDebtCount != 2 {
		t.Errorf("active debts = %d, want 2", eff.ActiveDebtCount)
	}
	if !eff.TotalBalance.Equal(dec("3000")) {
		t.Errorf("total balance = %s, want 3000", eff.TotalBalance)
	}
	if !eff.ExtraBudget.Equal(dec("150")) {
		t.Errorf("extra budget = %s, want 150", eff.ExtraBudget)
	}
}
