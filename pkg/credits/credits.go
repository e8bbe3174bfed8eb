// Package credits tracks the generation budget. Every approved synthesis
// pass spends one credit; an exhausted balance turns gate approvals into
// errors instead of silently producing unpaid work.
package credits

import (
	"sync"

	"github.com/framefold/remap/pkg/errors"
)

// DefaultBalance is the starting budget for a fresh session.
const DefaultBalance = 10

// Ledger is a concurrency-safe credit balance.
//
// The ledger is deliberately simple: a single counter guarded by a mutex.
// Spend is atomic, so two instances approved in the same evaluation pass
// cannot both consume the last credit.
type Ledger struct {
	mu      sync.Mutex
	balance int
}

// NewLedger creates a ledger with the given starting balance.
// Negative balances are treated as zero.
func NewLedger(balance int) *Ledger {
	if balance < 0 {
		balance = 0
	}
	return &Ledger{balance: balance}
}

// Balance returns the current credit balance.
func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Grant adds credits to the balance. Non-positive amounts are ignored.
func (l *Ledger) Grant(amount int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount > 0 {
		l.balance += amount
	}
	return l.balance
}

// Spend deducts amount credits. It fails without changing the balance
// when the ledger cannot cover the full amount.
func (l *Ledger) Spend(amount int) error {
	if amount <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spend amount must be positive")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance < amount {
		return errors.New(errors.ErrCodeInsufficientCredits, "insufficient credits")
	}
	l.balance -= amount
	return nil
}
