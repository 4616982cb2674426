package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MaxSimulationMonths bounds the payoff simulation. A plan that cannot clear
// every debt within 50 years is reported as unresolved instead of looping.
const MaxSimulationMonths = 600

// PayoffDebt is the read-only view of a debt used for ordering and simulation
type PayoffDebt struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"` // annual percentage rate
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
}

// OrderDebts returns a copy of debts in payoff order for the strategy:
// snowball pays smallest balance first, avalanche pays highest interest rate
// first. Ties break on ascending id so the order is deterministic.
func OrderDebts(strategy StrategyType, debts []PayoffDebt) []PayoffDebt {
	ordered := make([]PayoffDebt, len(debts))
	copy(ordered, debts)

	switch strategy {
	case StrategyAvalanche:
		sort.SliceStable(ordered, func(i, j int) bool {
			if !ordered[i].InterestRate.Equal(ordered[j].InterestRate) {
				return ordered[i].InterestRate.GreaterThan(ordered[j].InterestRate)
			}
			return ordered[i].ID < ordered[j].ID
		})
	default: // snowball
		sort.SliceStable(ordered, func(i, j int) bool {
			if !ordered[i].Balance.Equal(ordered[j].Balance) {
				return ordered[i].Balance.LessThan(ordered[j].Balance)
			}
			return ordered[i].ID < ordered[j].ID
		})
	}

	return ordered
}

// DebtPayoff is the per-debt result of a simulation
type DebtPayoff struct {
	DebtID         uint            `json:"debt_id"`
	Name           string          `json:"name"`
	MonthsToPayoff int             `json:"months_to_payoff"`
	InterestPaid   decimal.Decimal `json:"interest_paid"`
}

// PayoffTimeline is the aggregate result of a simulation
type PayoffTimeline struct {
	Strategy       StrategyType    `json:"strategy"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Months         int             `json:"months"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Debts          []DebtPayoff    `json:"debts"`
}

// SimulatePayoff runs a month-by-month waterfall until every debt is cleared.
// Each month every outstanding debt accrues interest at rate/12, receives its
// minimum payment, and whatever budget remains goes to the first outstanding
// debt in strategy order. A cleared debt's minimum rolls into the pool from
// the following month. The budget must cover the total minimums up front;
// plans that still carry balances after MaxSimulationMonths are unresolved.
func SimulatePayoff(strategy StrategyType, debts []PayoffDebt, monthlyPayment decimal.Decimal) (*PayoffTimeline, error) {
	outstanding := make([]PayoffDebt, 0, len(debts))
	for _, d := range debts {
		if d.Balance.IsPositive() {
			outstanding = append(outstanding, d)
		}
	}

	timeline := &PayoffTimeline{
		Strategy:       strategy,
		MonthlyPayment: monthlyPayment,
		TotalInterest:  decimal.Zero,
		TotalPaid:      decimal.Zero,
		Debts:          []DebtPayoff{},
	}
	if len(outstanding) == 0 {
		return timeline, nil
	}

	if !monthlyPayment.IsPositive() {
		return nil, SimulationUnresolved("monthly payment must be positive")
	}

	totalMinimums := decimal.Zero
	for _, d := range outstanding {
		totalMinimums = totalMinimums.Add(d.MinimumPayment)
	}
	if monthlyPayment.LessThan(totalMinimums) {
		return nil, SimulationUnresolved("monthly payment is below the total minimum payments")
	}

	ordered := OrderDebts(strategy, outstanding)

	balances := make([]decimal.Decimal, len(ordered))
	interestPaid := make([]decimal.Decimal, len(ordered))
	paidOffMonth := make([]int, len(ordered))
	for i, d := range ordered {
		balances[i] = d.Balance
		interestPaid[i] = decimal.Zero
	}

	month := 0
	for remaining(balances) {
		month++
		if month > MaxSimulationMonths {
			return nil, SimulationUnresolved("debts not cleared within the simulation bound")
		}

		// Interest accrues before payments land
		for i := range ordered {
			if balances[i].IsPositive() {
				interest := balances[i].Mul(ordered[i].InterestRate).Div(decimal.NewFromInt(1200)).Round(2)
				balances[i] = balances[i].Add(interest)
				interestPaid[i] = interestPaid[i].Add(interest)
				timeline.TotalInterest = timeline.TotalInterest.Add(interest)
			}
		}

		pool := monthlyPayment

		// Minimums first
		for i := range ordered {
			if !balances[i].IsPositive() {
				continue
			}
			pay := decimal.Min(ordered[i].MinimumPayment, balances[i], pool)
			balances[i] = balances[i].Sub(pay)
			pool = pool.Sub(pay)
			timeline.TotalPaid = timeline.TotalPaid.Add(pay)
		}

		// Remainder waterfalls down the strategy order
		for i := range ordered {
			if !pool.IsPositive() {
				break
			}
			if !balances[i].IsPositive() {
				continue
			}
			pay := decimal.Min(pool, balances[i])
			balances[i] = balances[i].Sub(pay)
			pool = pool.Sub(pay)
			timeline.TotalPaid = timeline.TotalPaid.Add(pay)
		}

		for i := range ordered {
			if !balances[i].IsPositive() && paidOffMonth[i] == 0 {
				paidOffMonth[i] = month
			}
		}
	}

	timeline.Months = month
	for i, d := range ordered {
		timeline.Debts = append(timeline.Debts, DebtPayoff{
			DebtID:         d.ID,
			Name:           d.Name,
			MonthsToPayoff: paidOffMonth[i],
			InterestPaid:   interestPaid[i],
		})
	}

	return timeline, nil
}

func remaining(balances []decimal.Decimal) bool {
	for _, b := range balances {
		if b.IsPositive() {
			return true
		}
	}
	return false
}
