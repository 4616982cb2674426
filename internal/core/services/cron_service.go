package services

import (
	"context"
	"log"
	"time"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/adapters/persistence/repositories"
	"debtease/internal/config"
	"debtease/internal/core/domain"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronService runs the daily reminder jobs: generate the next reminder for
// every active debt with a due day, then dispatch the ones whose reminder
// date has arrived.
type CronService struct {
	cron      *cron.Cron
	db        *gorm.DB
	reminders repositories.ReminderStore
	users     repositories.UserRepository
	notify    *NotificationService
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB, cfg *config.Config) *CronService {
	return &CronService{
		cron:      cron.New(),
		db:        db,
		reminders: repositories.NewReminderRepository(db),
		users:     repositories.NewUserRepository(db),
		notify:    NewNotificationService(cfg),
	}
}

// Start schedules the daily jobs (08:00)
func (s *CronService) Start() {
	if _, err := s.cron.AddFunc("0 8 * * *", s.runDaily); err != nil {
		log.Printf("❌ Failed to schedule reminder job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Cron service started (daily reminders at 08:00)")
}

// Stop stops the scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) runDaily() {
	ctx := context.Background()

	if err := s.generateReminders(ctx); err != nil {
		log.Printf("❌ Reminder generation failed: %v", err)
	}
	if err := s.dispatchDueReminders(ctx); err != nil {
		log.Printf("❌ Reminder dispatch failed: %v", err)
	}
}

// generateReminders creates the next reminder for every active debt with a
// due day, skipping (debt, due date) pairs that already have a pending one
func (s *CronService) generateReminders(ctx context.Context) error {
	var debts []*models.Debt
	err := s.db.WithContext(ctx).
		Where("status = ? AND due_day > 0", string(domain.DebtStatusActive)).
		Find(&debts).Error
	if err != nil {
		return err
	}

	now := time.Now()
	created := 0

	for _, debt := range debts {
		if !debt.CurrentBalance.IsPositive() {
			continue
		}

		dueDate := domain.NextDueDate(debt.DueDay, now)

		exists, err := s.reminders.HasUnsentForDueDate(ctx, debt.ID, dueDate)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		reminder := &models.DebtReminder{
			DebtID:       debt.ID,
			ReminderDate: dueDate.AddDate(0, 0, -leadDays),
			DueDate:      dueDate,
			Amount:       debt.MinimumPayment,
			ReminderType: string(domain.ReminderTypeEmail),
			IsActive:     true,
		}
		if err := s.reminders.Create(ctx, reminder); err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		log.Printf("✅ Cron generated %d reminders", created)
	}
	return nil
}

// dispatchDueReminders emails every due unsent reminder and marks it sent
func (s *CronService) dispatchDueReminders(ctx context.Context) error {
	due, err := s.reminders.ListDueUnsent(ctx, time.Now())
	if err != nil {
		return err
	}

	sent := 0
	for _, reminder := range due {
		if reminder.Debt == nil {
			continue
		}

		user, err := s.users.GetByID(ctx, reminder.Debt.UserID)
		if err != nil {
			log.Printf("⚠️ Skipping reminder %d: %v", reminder.ID, err)
			continue
		}

		if err := s.notify.SendPaymentReminder(user.Email, reminder.Debt.Name, reminder.Amount, reminder.DueDate); err != nil {
			log.Printf("⚠️ Failed to send reminder %d: %v", reminder.ID, err)
			continue
		}

		now := time.Now()
		reminder.IsSent = true
		reminder.SentDate = &now
		if err := s.reminders.Update(ctx, reminder); err != nil {
			log.Printf("⚠️ Failed to mark reminder %d sent: %v", reminder.ID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("✅ Cron dispatched %d reminders", sent)
	}
	return nil
}
