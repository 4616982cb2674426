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

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newDebtService() (*DebtService, *repositories.MemoryDebtStore) {
	store := repositories.NewMemoryDebtStore()
	return NewDebtService(store), store
}

func createDebt(t *testing.T, s *DebtService, ownerID uint, name, amount string) *models.Debt {
	t.Helper()
	debt, err := s.Create(context.Background(), ownerID, &CreateDebtInput{
		Name:           name,
		DebtType:       string(domain.DebtTypeCreditCard),
		OriginalAmount: dec(amount),
		InterestRate:   dec("19.99"),
		MinimumPayment: dec("50"),
		DueDay:         15,
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	return debt
}

func TestCreateDebtDefaults(t *testing.T) {
	svc, _ := newDebtService()

	debt := createDebt(t, svc, 1, "Visa", "1000")

	if debt.Status != string(domain.DebtStatusActive) {
		t.Errorf("status = %s, want active", debt.Status)
	}
	if debt.Priority != string(domain.PriorityMedium) {
		t.Errorf("priority = %s, want medium", debt.Priority)
	}
	if !debt.CurrentBalance.Equal(debt.OriginalAmount) {
		t.Errorf("balance = %s, want %s", debt.CurrentBalance, debt.OriginalAmount)
	}
}

func TestCreateDebtRejectsBadInput(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateDebtInput
	}{
		{"missing name", CreateDebtInput{DebtType: "credit_card", OriginalAmount: dec("100")}},
		{"unknown type", CreateDebtInput{Name: "X", DebtType: "crypto", OriginalAmount: dec("100")}},
		{"zero amount", CreateDebtInput{Name: "X", DebtType: "credit_card", OriginalAmount: dec("0")}},
		{"negative rate", CreateDebtInput{Name: "X", DebtType: "credit_card", OriginalAmount: dec("100"), InterestRate: dec("-1")}},
		{"bad priority", CreateDebtInput{Name: "X", DebtType: "credit_card", OriginalAmount: dec("100"), Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 1, &tt.input); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestGetDebtNotFoundBeforeUnauthorized(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	debt := createDebt(t, svc, 1, "Visa", "1000")

	if _, err := svc.Get(ctx, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing debt: error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, debt.ID, 2); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("foreign debt: error = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateDebtMergesFields(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	debt := createDebt(t, svc, 1, "Visa", "1000")

	name := "Visa Platinum"
	rate := dec("15.5")
	updated, err := svc.Update(ctx, debt.ID, 1, &UpdateDebtInput{Name: &name, InterestRate: &rate})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != name {
		t.Errorf("name = %s, want %s", updated.Name, name)
	}
	if !updated.InterestRate.Equal(rate) {
		t.Errorf("rate = %s, want %s", updated.InterestRate, rate)
	}
	// Untouched fields survive the merge
	if !updated.CurrentBalance.Equal(dec("1000")) {
		t.Errorf("balance changed to %s", updated.CurrentBalance)
	}
	if updated.DueDay != 15 {
		t.Errorf("due day changed to %d", updated.DueDay)
	}
}

func TestDeleteDebtWithBalanceConflicts(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	debt := createDebt(t, svc, 1, "Visa", "1000")

	if err := svc.Delete(ctx, debt.ID, 1); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}

	// Pay it off, then deletion succeeds
	if _, err := svc.MakePayment(ctx, debt.ID, 1, &PaymentInput{Amount: dec("1000")}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if err := svc.Delete(ctx, debt.ID, 1); err != nil {
		t.Fatalf("delete after payoff: %v", err)
	}
}

func TestMakePaymentDecrementsBalance(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	debt := createDebt(t, svc, 1, "Visa", "1000")

	amounts := []string{"200", "300.50", "99.50"}
	for _, a := range amounts {
		if _, err := svc.MakePayment(ctx, debt.ID, 1, &PaymentInput{Amount: dec(a)}); err != nil {
			t.Fatalf("payment %s: %v", a, err)
		}
	}

	got, err := svc.Get(ctx, debt.ID, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Original minus the sum of payments equals the balance
	want := dec("1000").Sub(dec("200")).Sub(dec("300.50")).Sub(dec("99.50"))
	if !got.CurrentBalance.Equal(want) {
		t.Errorf("balance = %s, want %s", got.CurrentBalance, want)
	}
	if got.Status != string(domain.DebtStatusActive) {
		t.Errorf("status = %s, want active", got.Status)
	}

	history, total, err := svc.PaymentHistory(ctx, debt.ID, 1, 20, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 || total != 3 {
		t.Errorf("history length = %d total = %d, want 3", len(history), total)
	}
}

func TestMakePaymentFullPayoff(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	debt := createDebt(t, svc, 1, "Visa", "500")

	if _, err := svc.MakePayment(ctx, debt.ID, 1, &PaymentInput{Amount: dec("500"), PaymentType: "payoff"}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	got, _ := svc.Get(ctx, debt.ID, 1)
	if got.Status != string(domain.DebtStatusPaidOff) {
		t.Errorf("status = %s, want paid_off", got.Status)
	}
	if got.EndDate == nil {
		t.Error("end date not set on payoff")
	}
	if !got.CurrentBalance.IsZero() {
		t.Errorf("balance = %s, want 0", got.CurrentBalance)
	}
}

func TestMakePaymentRejectionsLeaveBalance(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	debt := createDebt(t, svc, 1, "Visa", "500")

	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-10"},
		{"exceeds balance", "500.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.MakePayment(ctx, debt.ID, 1, &PaymentInput{Amount: dec(tt.amount)})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}

			got, _ := svc.Get(ctx, debt.ID, 1)
			if !got.CurrentBalance.Equal(dec("500")) {
				t.Errorf("balance = %s, want unchanged 500", got.CurrentBalance)
			}
		})
	}

	history, _, _ := svc.PaymentHistory(ctx, debt.ID, 1, 20, 0)
	if len(history) != 0 {
		t.Errorf("rejected payments recorded: %d", len(history))
	}
}

func TestSummaryAggregates(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	visa := createDebt(t, svc, 1, "Visa", "1000")
	createDebt(t, svc, 1, "Car", "5000")
	createDebt(t, svc, 2, "Other user", "999")

	if _, err := svc.MakePayment(ctx, visa.ID, 1, &PaymentInput{Amount: dec("1000")}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	summary, err := svc.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalDebts != 2 {
		t.Errorf("total debts = %d, want 2", summary.TotalDebts)
	}
	if summary.ActiveDebts != 1 || summary.PaidOffDebts != 1 {
		t.Errorf("active/paid = %d/%d, want 1/1", summary.ActiveDebts, summary.PaidOffDebts)
	}
	if !summary.TotalCurrentBalance.Equal(dec("5000")) {
		t.Errorf("total balance = %s, want 5000", summary.TotalCurrentBalance)
	}
	if !summary.TotalPaidOff.Equal(dec("1000")) {
		t.Errorf("total paid off = %s, want 1000", summary.TotalPaidOff)
	}
}

func TestTotalMinimumPaymentsSkipsPaidOff(t *testing.T) {
	svc, _ := newDebtService()
	ctx := context.Background()

	a := createDebt(t, svc, 1, "A", "100")
	createDebt(t, svc, 1, "B", "200")

	if _, err := svc.MakePayment(ctx, a.ID, 1, &PaymentInput{Amount: dec("100")}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	total, err := svc.TotalMinimumPayments(ctx, 1)
	if err != nil {
		t.Fatalf("total minimums: %v", err)
	}
	if !total.Equal(dec("50")) {
		t.Errorf("total minimums = %s, want 50 (paid-off debt excluded)", total)
	}
}
