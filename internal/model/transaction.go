package model

import "time"

// TransactionType names a kind of ledger entry
type TransactionType string

const (
	TransactionDevSet  TransactionType = "dev_set"
	TransactionDevSend TransactionType = "dev_send"
)

// TransactionRecord is an immutable ledger entry
type TransactionRecord struct {
	ID        string          `json:"id"`
	Type      TransactionType `json:"type"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    int64           `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}
