package services

import (
	"fmt"
	"log"
	"time"

	"debtease/internal/config"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// NotificationService sends reminder emails
type NotificationService struct {
	dialer *gomail.Dialer
	from   string
}

// NewNotificationService creates a new notification service. Without SMTP
// settings it stays disabled and only logs what it would have sent.
func NewNotificationService(cfg *config.Config) *NotificationService {
	if cfg.SMTP.Host == "" {
		log.Println("⚠️ SMTP_HOST not set — email notifications disabled")
		return &NotificationService{}
	}

	return &NotificationService{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		from:   cfg.SMTP.From,
	}
}

// Enabled reports whether a mail transport is configured
func (s *NotificationService) Enabled() bool {
	return s.dialer != nil
}

// SendPaymentReminder emails an upcoming-payment notice
func (s *NotificationService) SendPaymentReminder(to, debtName string, amount decimal.Decimal, dueDate time.Time) error {
	subject := fmt.Sprintf("Payment reminder: %s", debtName)
	body := fmt.Sprintf(`
		<h2>Upcoming payment</h2>
		<p>Debt: %s</p>
		<p>Amount due: %s</p>
		<p>Due date: %s</p>
		<p>Log in to record your payment once it's made.</p>
	`, debtName, amount.StringFixed(2), dueDate.Format("Jan 2, 2006"))

	return s.send(to, subject, body)
}

// SendDebtPaidOff emails a congratulation when a debt hits zero
func (s *NotificationService) SendDebtPaidOff(to, debtName string) error {
	subject := fmt.Sprintf("Congratulations! %s is paid off", debtName)
	body := fmt.Sprintf(`
		<h2>Debt cleared</h2>
		<p>Your debt <b>%s</b> has been fully paid off.</p>
		<p>One less thing to worry about.</p>
	`, debtName)

	return s.send(to, subject, body)
}

func (s *NotificationService) send(to, subject, body string) error {
	if !s.Enabled() {
		log.Printf("⚠️ Email skipped (SMTP disabled): to=%s subject=%q", to, subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
