package service

import (
	"github.com/shopspring/decimal"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

// Ledger is the append-only transaction history. There is no update or
// delete; totals are always derived from the recorded transactions.
type Ledger struct {
	txs []domain.Transaction
}

func NewLedger(txs []domain.Transaction) *Ledger {
	return &Ledger{txs: append([]domain.Transaction(nil), txs...)}
}

// Append is the only write operation.
func (l *Ledger) Append(tx domain.Transaction) {
	l.txs = append(l.txs, tx)
}

// List returns a snapshot in append order.
func (l *Ledger) List() []domain.Transaction {
	return append([]domain.Transaction{}, l.txs...)
}

// ForUser returns the transactions recorded for username and their sum.
// An unknown username yields an empty slice and a zero total.
func (l *Ledger) ForUser(username string) ([]domain.Transaction, float64) {
	matched := []domain.Transaction{}
	for _, tx := range l.txs {
		if tx.Username == username {
			matched = append(matched, tx)
		}
	}
	return matched, sum(matched)
}

// Total is the summed amount of every transaction.
func (l *Ledger) Total() float64 {
	return sum(l.txs)
}

func (l *Ledger) Len() int {
	return len(l.txs)
}

func sum(txs []domain.Transaction) float64 {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(decimal.NewFromFloat(tx.Amount))
	}
	return total.InexactFloat64()
}
