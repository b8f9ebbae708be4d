package assistant

import (
	"errors"
	"fmt"
	"math"

	"genie/finmath"
)

var (
	ErrMissingAccount = errors.New("context: account snapshot is required")
	ErrInvalidFigure  = errors.New("context: figure is not a finite number")
	ErrUnknownScreen  = errors.New("context: unknown screen")
)

// AccountSnapshot is a point-in-time read of the user's money.
// MonthlyExpenses is optional; zero means unknown.
type AccountSnapshot struct {
	Balance         float64 `json:"balance"`
	PortfolioValue  float64 `json:"portfolio_value"`
	Savings         float64 `json:"savings"`
	MonthlyExpenses float64 `json:"monthly_expenses,omitempty"`
}

// Activity is one ledger entry. Negative amounts are outflows.
type Activity struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}

// Context is the read-only snapshot a builder sees. Account is required;
// Activities (most recent first), Language and Screen are optional.
type Context struct {
	Account    *AccountSnapshot
	Activities []Activity
	Language   string
	Screen     Screen
}

// Validate rejects snapshots that would otherwise render garbage.
func (c Context) Validate() error {
	if c.Account == nil {
		return ErrMissingAccount
	}
	figures := map[string]float64{
		"balance":          c.Account.Balance,
		"portfolio_value":  c.Account.PortfolioValue,
		"savings":          c.Account.Savings,
		"monthly_expenses": c.Account.MonthlyExpenses,
	}
	for name, v := range figures {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrInvalidFigure, name)
		}
	}
	for i, a := range c.Activities {
		if math.IsNaN(a.Amount) || math.IsInf(a.Amount, 0) {
			return fmt.Errorf("%w: activities[%d].amount", ErrInvalidFigure, i)
		}
	}
	if c.Screen != "" && !c.Screen.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, c.Screen)
	}
	return nil
}

// monthlyOutflow estimates monthly spending from the explicit figure, or
// from the outflows among recent activities when the figure is unknown.
func (c Context) monthlyOutflow() float64 {
	if c.Account.MonthlyExpenses > 0 {
		return c.Account.MonthlyExpenses
	}
	return totalOutflow(c.Activities)
}

func totalOutflow(activities []Activity) float64 {
	amounts := make([]float64, 0, len(activities))
	for _, a := range activities {
		amounts = append(amounts, a.Amount)
	}
	return finmath.SumOutflows(amounts...)
}
