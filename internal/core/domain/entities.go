package domain

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DebtType classifies a debt
type DebtType string

const (
	DebtTypeCreditCard   DebtType = "credit_card"
	DebtTypeStudentLoan  DebtType = "student_loan"
	DebtTypeMortgage     DebtType = "mortgage"
	DebtTypeAutoLoan     DebtType = "auto_loan"
	DebtTypePersonalLoan DebtType = "personal_loan"
	DebtTypeMedical      DebtType = "medical"
	DebtTypeOther        DebtType = "other"
)

// Valid reports whether t is a known debt type
func (t DebtType) Valid() bool {
	switch t {
	case DebtTypeCreditCard, DebtTypeStudentLoan, DebtTypeMortgage,
		DebtTypeAutoLoan, DebtTypePersonalLoan, DebtTypeMedical, DebtTypeOther:
		return true
	}
	return false
}

// Priority is the user-assigned importance of a debt
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DebtStatus is the lifecycle state of a debt
type DebtStatus string

const (
	DebtStatusActive  DebtStatus = "active"
	DebtStatusPaidOff DebtStatus = "paid_off"
)

// PaymentType classifies a payment against a debt
type PaymentType string

const (
	PaymentTypeMinimum PaymentType = "minimum"
	PaymentTypeExtra   PaymentType = "extra"
	PaymentTypePayoff  PaymentType = "payoff"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeMinimum, PaymentTypeExtra, PaymentTypePayoff:
		return true
	}
	return false
}

// ReminderType is the delivery channel for a reminder
type ReminderType string

const (
	ReminderTypeEmail ReminderType = "email"
	ReminderTypePush  ReminderType = "push"
	ReminderTypeSMS   ReminderType = "sms"
)

func (t ReminderType) Valid() bool {
	switch t {
	case ReminderTypeEmail, ReminderTypePush, ReminderTypeSMS:
		return true
	}
	return false
}

// StrategyType is the payoff ordering method
type StrategyType string

const (
	StrategySnowball  StrategyType = "snowball"
	StrategyAvalanche StrategyType = "avalanche"
	StrategyCustom    StrategyType = "custom"
)

func (t StrategyType) Valid() bool {
	switch t {
	case StrategySnowball, StrategyAvalanche, StrategyCustom:
		return true
	}
	return false
}
