package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"debtease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory store implementations backed by maps. They satisfy the same
// interfaces as the GORM repositories and return gorm.ErrRecordNotFound for
// missing rows, so services behave identically against either backend.
// Service tests run on these.

// MemoryDebtStore is an in-memory DebtStore
type MemoryDebtStore struct {
	mu       sync.RWMutex
	debts    map[uint]models.Debt
	payments map[uint]models.DebtPayment
	nextDebt uint
	nextPay  uint
}

// NewMemoryDebtStore creates an empty in-memory debt store
func NewMemoryDebtStore() *MemoryDebtStore {
	return &MemoryDebtStore{
		debts:    make(map[uint]models.Debt),
		payments: make(map[uint]models.DebtPayment),
		nextDebt: 1,
		nextPay:  1,
	}
}

func (s *MemoryDebtStore) Create(_ context.Context, debt *models.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	debt.ID = s.nextDebt
	s.nextDebt++
	debt.CreatedAt = time.Now()
	debt.UpdatedAt = debt.CreatedAt
	if debt.Version == 0 {
		debt.Version = 1
	}
	s.debts[debt.ID] = *debt
	return nil
}

func (s *MemoryDebtStore) GetByID(_ context.Context, id uint) (*models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debt, ok := s.debts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &debt, nil
}

func (s *MemoryDebtStore) ListByUser(_ context.Context, userID uint) ([]*models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(d models.Debt) bool { return d.UserID == userID }), nil
}

func (s *MemoryDebtStore) ListByUserAndType(_ context.Context, userID uint, debtType string) ([]*models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(d models.Debt) bool { return d.UserID == userID && d.DebtType == debtType }), nil
}

func (s *MemoryDebtStore) ListByUserAndPriority(_ context.Context, userID uint, priority string) ([]*models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(d models.Debt) bool { return d.UserID == userID && d.Priority == priority }), nil
}

func (s *MemoryDebtStore) filter(keep func(models.Debt) bool) []*models.Debt {
	var out []*models.Debt
	for _, d := range s.debts {
		if keep(d) {
			debt := d
			out = append(out, &debt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryDebtStore) Update(_ context.Context, debt *models.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debts[debt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	debt.UpdatedAt = time.Now()
	s.debts[debt.ID] = *debt
	return nil
}

func (s *MemoryDebtStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.debts, id)
	return nil
}

func (s *MemoryDebtStore) ApplyPayment(_ context.Context, debt *models.Debt, payment *models.DebtPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.debts[debt.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != debt.Version {
		return ErrStaleDebt
	}

	debt.Version++
	debt.UpdatedAt = time.Now()
	s.debts[debt.ID] = *debt

	payment.ID = s.nextPay
	s.nextPay++
	payment.CreatedAt = time.Now()
	s.payments[payment.ID] = *payment
	return nil
}

func (s *MemoryDebtStore) ListPayments(_ context.Context, debtID uint, limit, offset int) ([]*models.DebtPayment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DebtPayment
	for _, p := range s.payments {
		if p.DebtID == debtID {
			payment := p
			out = append(out, &payment)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.After(out[j].PaymentDate)
		}
		return out[i].ID > out[j].ID
	})

	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

// MemoryReminderStore is an in-memory ReminderStore
type MemoryReminderStore struct {
	mu        sync.RWMutex
	reminders map[uint]models.DebtReminder
	debts     *MemoryDebtStore
	nextID    uint
}

// NewMemoryReminderStore creates an empty in-memory reminder store. The debt
// store is used to resolve ownership for ListByUser.
func NewMemoryReminderStore(debts *MemoryDebtStore) *MemoryReminderStore {
	return &MemoryReminderStore{
		reminders: make(map[uint]models.DebtReminder),
		debts:     debts,
		nextID:    1,
	}
}

func (s *MemoryReminderStore) Create(_ context.Context, reminder *models.DebtReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminder.ID = s.nextID
	s.nextID++
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = reminder.CreatedAt
	s.reminders[reminder.ID] = *reminder
	return nil
}

func (s *MemoryReminderStore) GetByID(ctx context.Context, id uint) (*models.DebtReminder, error) {
	s.mu.RLock()
	reminder, ok := s.reminders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if debt, err := s.debts.GetByID(ctx, reminder.DebtID); err == nil {
		reminder.Debt = debt
	}
	return &reminder, nil
}

func (s *MemoryReminderStore) Update(_ context.Context, reminder *models.DebtReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[reminder.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *reminder
	stored.Debt = nil
	stored.UpdatedAt = time.Now()
	s.reminders[reminder.ID] = stored
	return nil
}

func (s *MemoryReminderStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reminders, id)
	return nil
}

func (s *MemoryReminderStore) ListByUser(ctx context.Context, userID uint) ([]*models.DebtReminder, error) {
	debts, err := s.debts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[uint]*models.Debt, len(debts))
	for _, d := range debts {
		owned[d.ID] = d
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DebtReminder
	for _, r := range s.reminders {
		if debt, ok := owned[r.DebtID]; ok {
			reminder := r
			reminder.Debt = debt
			out = append(out, &reminder)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func (s *MemoryReminderStore) ListByDebt(_ context.Context, debtID uint) ([]*models.DebtReminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DebtReminder
	for _, r := range s.reminders {
		if r.DebtID == debtID {
			reminder := r
			out = append(out, &reminder)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func (s *MemoryReminderStore) HasUnsentForDueDate(_ context.Context, debtID uint, dueDate time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reminders {
		if r.DebtID == debtID && r.DueDate.Equal(dueDate) && !r.IsSent && r.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryReminderStore) ListDueUnsent(ctx context.Context, before time.Time) ([]*models.DebtReminder, error) {
	s.mu.RLock()
	var out []*models.DebtReminder
	for _, r := range s.reminders {
		if !r.ReminderDate.After(before) && !r.IsSent && r.IsActive {
			reminder := r
			out = append(out, &reminder)
		}
	}
	s.mu.RUnlock()

	for _, r := range out {
		if debt, err := s.debts.GetByID(ctx, r.DebtID); err == nil {
			r.Debt = debt
		}
	}
	sortByDueDate(out)
	return out, nil
}

func sortByDueDate(reminders []*models.DebtReminder) {
	sort.Slice(reminders, func(i, j int) bool {
		if !reminders[i].DueDate.Equal(reminders[j].DueDate) {
			return reminders[i].DueDate.Before(reminders[j].DueDate)
		}
		return reminders[i].ID < reminders[j].ID
	})
}

// MemoryStrategyStore is an in-memory StrategyStore
type MemoryStrategyStore struct {
	mu         sync.RWMutex
	strategies map[uint]models.DebtStrategy
	nextID     uint
}

// NewMemoryStrategyStore creates an empty in-memory strategy store
func NewMemoryStrategyStore() *MemoryStrategyStore {
	return &MemoryStrategyStore{
		strategies: make(map[uint]models.DebtStrategy),
		nextID:     1,
	}
}

func (s *MemoryStrategyStore) Create(_ context.Context, strategy *models.DebtStrategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	strategy.ID = s.nextID
	s.nextID++
	strategy.CreatedAt = time.Now()
	strategy.UpdatedAt = strategy.CreatedAt
	s.strategies[strategy.ID] = *strategy
	return nil
}

func (s *MemoryStrategyStore) GetByID(_ context.Context, id uint) (*models.DebtStrategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strategy, ok := s.strategies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &strategy, nil
}

func (s *MemoryStrategyStore) ListByUser(_ context.Context, userID uint) ([]*models.DebtStrategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DebtStrategy
	for _, st := range s.strategies {
		if st.UserID == userID {
			strategy := st
			out = append(out, &strategy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStrategyStore) GetActiveByUser(_ context.Context, userID uint) (*models.DebtStrategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.strategies {
		if st.UserID == userID && st.IsActive {
			strategy := st
			return &strategy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemoryStrategyStore) Update(_ context.Context, strategy *models.DebtStrategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.strategies[strategy.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	strategy.UpdatedAt = time.Now()
	s.strategies[strategy.ID] = *strategy
	return nil
}

func (s *MemoryStrategyStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.strategies, id)
	return nil
}

func (s *MemoryStrategyStore) Activate(_ context.Context, userID, strategyID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, st := range s.strategies {
		if st.UserID != userID {
			continue
		}
		st.IsActive = id == strategyID
		s.strategies[id] = st
	}
	return nil
}
