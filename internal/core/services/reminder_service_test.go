package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/adapters/persistence/repositories"
	"debtease/internal/core/domain"
)

func newReminderService() (*ReminderService, *repositories.MemoryDebtStore) {
	debts := repositories.NewMemoryDebtStore()
	reminders := repositories.NewMemoryReminderStore(debts)
	return NewReminderService(reminders, debts), debts
}

func seedDebt(t *testing.T, store *repositories.MemoryDebtStore, userID uint, dueDay int, balance string) *models.Debt {
	t.Helper()
	debt := &models.Debt{
		UserID:         userID,
		Name:           "Card",
		DebtType:       string(domain.DebtTypeCreditCard),
		OriginalAmount: dec(balance),
		CurrentBalance: dec(balance),
		InterestRate:   dec("19.99"),
		MinimumPayment: dec("50"),
		DueDay:         dueDay,
		Priority:       string(domain.PriorityMedium),
		Status:         string(domain.DebtStatusActive),
	}
	if err := store.Create(context.Background(), debt); err != nil {
		t.Fatalf("seed debt: %v", err)
	}
	return debt
}

func TestGenerateRemindersIsIdempotent(t *testing.T) {
	svc, debts := newReminderService()
	ctx := context.Background()

	seedDebt(t, debts, 1, 15, "1000")
	seedDebt(t, debts, 1, 28, "2000")

	first, err := svc.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first generate created %d reminders, want 2", len(first))
	}

	second, err := svc.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second generate created %d reminders, want 0", len(second))
	}

	all, _ := svc.List(ctx, 1)
	if len(all) != 2 {
		t.Errorf("total reminders = %d, want 2", len(all))
	}
}

func TestGenerateSkipsSettledAndDaylessDebts(t *testing.T) {
	svc, debts := newReminderService()
	ctx := context.Background()

	paid := seedDebt(t, debts, 1, 15, "1000")
	paid.CurrentBalance = dec("0")
	paid.Status = string(domain.DebtStatusPaidOff)
	if err := debts.Update(ctx, paid); err != nil {
		t.Fatalf("update: %v", err)
	}

	seedDebt(t, debts, 1, 0, "500") // no due day configured

	created, err := svc.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("created %d reminders, want 0", len(created))
	}
}

func TestGenerateSetsAmountAndLeadTime(t *testing.T) {
	svc, debts := newReminderService()
	ctx := context.Background()

	debt := seedDebt(t, debts, 1, 15, "1000")

	created, err := svc.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d reminders, want 1", len(created))
	}

	r := created[0]
	if r.DebtID != debt.ID {
		t.Errorf("debt id = %d, want %d", r.DebtID, debt.ID)
	}
	if !r.Amount.Equal(debt.MinimumPayment) {
		t.Errorf("amount = %s, want the minimum payment %s", r.Amount, debt.MinimumPayment)
	}
	if want := r.DueDate.AddDate(0, 0, -3); !r.ReminderDate.Equal(want) {
		t.Errorf("reminder date = %s, want 3 days before due date", r.ReminderDate)
	}
	if r.ReminderType != string(domain.ReminderTypeEmail) {
		t.Errorf("type = %s, want email", r.ReminderType)
	}
}

func TestCreateReminderValidation(t *testing.T) {
	svc, debts := newReminderService()
	ctx := context.Background()

	debt := seedDebt(t, debts, 1, 15, "1000")
	due := time.Now().AddDate(0, 0, 10)

	tests := []struct {
		name  string
		input CreateReminderInput
	}{
		{"missing due date", CreateReminderInput{DebtID: debt.ID, Amount: dec("50")}},
		{"zero amount", CreateReminderInput{DebtID: debt.ID, DueDate: due, Amount: dec("0")}},
		{"reminder after due", CreateReminderInput{DebtID: debt.ID, DueDate: due, ReminderDate: due.AddDate(0, 0, 1), Amount: dec("50")}},
		{"unknown channel", CreateReminderInput{DebtID: debt.ID, DueDate: due, Amount: dec("50"), ReminderType: "fax"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 1, &tt.input); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	// Foreign debt is unauthorized, not invalid
	_, err := svc.Create(ctx, 2, &CreateReminderInput{DebtID: debt.ID, DueDate: due, Amount: dec("50")})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("foreign debt: error = %v, want ErrUnauthorized", err)
	}
}

func TestSnoozeShiftsReminderDateOnly(t *testing.T) {
	svc, debts := newReminderService()
	ctx := context.Background()

	debt := seedDebt(t, debts, 1, 15, "1000")
	due := time.Now().AddDate(0, 0, 10).Truncate(24 * time.Hour)

	reminder, err := svc.Create(ctx, 1, &CreateReminderInput{DebtID: debt.ID, DueDate: due, Amount: dec("50")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := reminder.ReminderDate

	snoozed, err := svc.Snooze(ctx, reminder.ID, 1, 3)
	if err != nil {
		t.Fatalf("snooze: %v", err)
	}

	if want := before.AddDate(0, 0, 3); !snoozed.ReminderDate.Equal(want) {
		t.Errorf("reminder date = %s, want %s", snoozed.ReminderDate, want)
	}
	if !snoozed.DueDate.Equal(due) {
		t.Errorf("due date moved to %s", snoozed.DueDate)
	}

	if _, err := svc.Snooze(ctx, reminder.ID, 1, 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero days: error = %v, want ErrValidation", err)
	}
}

func TestMarkSentAllowsRegeneration(t *testing.T) {
	svc, debts := newReminderService()
	ctx := context.Background()

	seedDebt(t, debts, 1, 15, "1000")

	created, _ := svc.Generate(ctx, 1)
	if len(created) != 1 {
		t.Fatalf("created %d reminders, want 1", len(created))
	}

	sent, err := svc.MarkSent(ctx, created[0].ID, 1)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if !sent.IsSent || sent.SentDate == nil {
		t.Error("reminder not flagged as sent")
	}

	// A sent reminder no longer suppresses the pair
	again, err := svc.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if len(again) != 1 {
		t.Errorf("regenerate created %d reminders, want 1", len(again))
	}
}

func TestReminderQueries(t *testing.T) {
	svc, debts := newReminderService()
	ctx := context.Background()

	debt := seedDebt(t, debts, 1, 15, "1000")
	now := time.Now()

	mk := func(due time.Time) *models.DebtReminder {
		r, err := svc.Create(ctx, 1, &CreateReminderInput{
			DebtID:       debt.ID,
			DueDate:      due,
			ReminderDate: due.AddDate(0, 0, -30),
			Amount:       dec("50"),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return r
	}

	overdue := mk(now.AddDate(0, 0, -2))
	soon := mk(now.AddDate(0, 0, 3))
	mk(now.AddDate(0, 0, 20)) // outside the default window

	upcoming, err := svc.ListUpcoming(ctx, 1, 7)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != soon.ID {
		t.Errorf("upcoming = %d entries, want only the 3-day reminder", len(upcoming))
	}

	late, err := svc.ListOverdue(ctx, 1)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(late) != 1 || late[0].ID != overdue.ID {
		t.Errorf("overdue = %d entries, want only the past-due reminder", len(late))
	}

	// Disabled reminders drop out of the active list
	if _, err := svc.SetEnabled(ctx, soon.ID, 1, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	active, _ := svc.ListActive(ctx, 1)
	if len(active) != 2 {
		t.Errorf("active = %d entries, want 2", len(active))
	}

	summary, err := svc.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total != 3 || summary.Overdue != 1 {
		t.Errorf("summary = %+v, want total 3 overdue 1", summary)
	}
}
