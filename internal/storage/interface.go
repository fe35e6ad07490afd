package storage

import (
	"context"
	"errors"
)

// Collection names one whole persisted document
type Collection string

const (
	Accounts     Collection = "accounts"
	Transactions Collection = "transactions"
	Matches      Collection = "matches"
)

// Collections lists every collection in global lock order
var Collections = []Collection{Accounts, Transactions, Matches}

// ErrDocumentNotFound is returned by a Backend for a collection that was never written
var ErrDocumentNotFound = errors.New("document not found")

// Backend persists whole documents keyed by collection.
// Implementations need not serialize read-modify-write cycles; Store does that.
type Backend interface {
	// Ensure stores empty for c unless a document already exists
	Ensure(ctx context.Context, c Collection, empty []byte) error
	// Load returns the stored document or ErrDocumentNotFound
	Load(ctx context.Context, c Collection) ([]byte, error)
	// Save replaces the stored document
	Save(ctx context.Context, c Collection, data []byte) error
	Close() error
}

// DefaultDocument returns the empty shape of a collection
func DefaultDocument(c Collection) []byte {
	switch c {
	case Accounts:
		return []byte(`{"accounts":{}}`)
	case Transactions:
		return []byte(`{"transactions":[]}`)
	case Matches:
		return []byte(`{"matches":{}}`)
	default:
		return []byte(`{}`)
	}
}
