package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testDebts() []PayoffDebt {
	return []PayoffDebt{
		{ID: 1, Name: "Card A", Balance: dec("5000"), InterestRate: dec("19.99"), MinimumPayment: dec("150")},
		{ID: 2, Name: "Car loan", Balance: dec("12000"), InterestRate: dec("6.5"), MinimumPayment: dec("300")},
		{ID: 3, Name: "Card B", Balance: dec("2000"), InterestRate: dec("24.99"), MinimumPayment: dec("60")},
	}
}

func TestOrderDebtsSnowball(t *testing.T) {
	ordered := OrderDebts(StrategySnowball, testDebts())

	want := []uint{3, 1, 2} // ascending balance
	for i, id := range want {
		if ordered[i].ID != id {
			t.Errorf("position %d: got debt %d, want %d", i, ordered[i].ID, id)
		}
	}
}

func TestOrderDebtsAvalanche(t *testing.T) {
	ordered := OrderDebts(StrategyAvalanche, testDebts())

	want := []uint{3, 1, 2} // descending interest rate
	for i, id := range want {
		if ordered[i].ID != id {
			t.Errorf("position %d: got debt %d, want %d", i, ordered[i].ID, id)
		}
	}
}

func TestOrderDebtsTieBreaksOnID(t *testing.T) {
	debts := []PayoffDebt{
		{ID: 9, Balance: dec("1000"), InterestRate: dec("10")},
		{ID: 2, Balance: dec("1000"), InterestRate: dec("10")},
		{ID: 5, Balance: dec("1000"), InterestRate: dec("10")},
	}

	for _, strategy := range []StrategyType{StrategySnowball, StrategyAvalanche} {
		ordered := OrderDebts(strategy, debts)
		want := []uint{2, 5, 9}
		for i, id := range want {
			if ordered[i].ID != id {
				t.Errorf("%s position %d: got debt %d, want %d", strategy, i, ordered[i].ID, id)
			}
		}
	}
}

func TestSimulatePayoffNoDebts(t *testing.T) {
	timeline, err := SimulatePayoff(StrategySnowball, nil, dec("500"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timeline.Months != 0 || !timeline.TotalInterest.IsZero() {
		t.Errorf("expected empty timeline, got months=%d interest=%s", timeline.Months, timeline.TotalInterest)
	}
}

func TestSimulatePayoffSingleDebtNoInterest(t *testing.T) {
	debts := []PayoffDebt{
		{ID: 1, Name: "Loan", Balance: dec("1000"), InterestRate: dec("0"), MinimumPayment: dec("100")},
	}

	timeline, err := SimulatePayoff(StrategySnowball, debts, dec("100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timeline.Months != 10 {
		t.Errorf("months = %d, want 10", timeline.Months)
	}
	if !timeline.TotalInterest.IsZero() {
		t.Errorf("total interest = %s, want 0", timeline.TotalInterest)
	}
	if !timeline.TotalPaid.Equal(dec("1000")) {
		t.Errorf("total paid = %s, want 1000", timeline.TotalPaid)
	}
}

func TestSimulatePayoffRollsClearedMinimumIntoPool(t *testing.T) {
	debts := []PayoffDebt{
		{ID: 1, Name: "Small", Balance: dec("300"), InterestRate: dec("0"), MinimumPayment: dec("100")},
		{ID: 2, Name: "Large", Balance: dec("1000"), InterestRate: dec("0"), MinimumPayment: dec("100")},
	}

	timeline, err := SimulatePayoff(StrategySnowball, debts, dec("300"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timeline.Months != 5 {
		t.Errorf("months = %d, want 5", timeline.Months)
	}
	if timeline.Debts[0].MonthsToPayoff != 2 {
		t.Errorf("small debt cleared in %d months, want 2", timeline.Debts[0].MonthsToPayoff)
	}
	if timeline.Debts[1].MonthsToPayoff != 5 {
		t.Errorf("large debt cleared in %d months, want 5", timeline.Debts[1].MonthsToPayoff)
	}
	if !timeline.TotalPaid.Equal(dec("1300")) {
		t.Errorf("total paid = %s, want 1300", timeline.TotalPaid)
	}
}

func TestSimulatePayoffAccruesInterest(t *testing.T) {
	debts := []PayoffDebt{
		{ID: 1, Name: "Card", Balance: dec("1200"), InterestRate: dec("12"), MinimumPayment: dec("200")},
	}

	timeline, err := SimulatePayoff(StrategyAvalanche, debts, dec("200"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !timeline.TotalInterest.IsPositive() {
		t.Errorf("total interest = %s, want > 0", timeline.TotalInterest)
	}
	if timeline.Months <= 6 {
		t.Errorf("months = %d, want more than the interest-free 6", timeline.Months)
	}
	if !timeline.TotalPaid.Equal(dec("1200").Add(timeline.TotalInterest)) {
		t.Errorf("total paid %s should equal principal plus interest %s",
			timeline.TotalPaid, dec("1200").Add(timeline.TotalInterest))
	}
}

func TestSimulatePayoffBudgetBelowMinimums(t *testing.T) {
	debts := testDebts() // minimums total 510

	_, err := SimulatePayoff(StrategySnowball, debts, dec("500"))
	if !errors.Is(err, ErrSimulationUnresolved) {
		t.Fatalf("error = %v, want ErrSimulationUnresolved", err)
	}
}

func TestSimulatePayoffHitsBound(t *testing.T) {
	// Interest outruns the payment, so the balance only grows
	debts := []PayoffDebt{
		{ID: 1, Name: "Runaway", Balance: dec("10000"), InterestRate: dec("24"), MinimumPayment: dec("50")},
	}

	_, err := SimulatePayoff(StrategySnowball, debts, dec("50"))
	if !errors.Is(err, ErrSimulationUnresolved) {
		t.Fatalf("error = %v, want ErrSimulationUnresolved", err)
	}
}
