package domain

import "time"

// TimestampLayout is the second-precision layout used wherever a
// transaction time is rendered or persisted.
const TimestampLayout = "2006-01-02 15:04:05"

// Transaction is an immutable record of a completed checkout.
type Transaction struct {
	Username  string
	Amount    float64
	Timestamp time.Time
}

// NewTransaction truncates at to whole seconds so that the in-memory value
// matches what survives a save and reload.
func NewTransaction(username string, amount float64, at time.Time) Transaction {
	return Transaction{
		Username:  username,
		Amount:    amount,
		Timestamp: at.Truncate(time.Second),
	}
}
