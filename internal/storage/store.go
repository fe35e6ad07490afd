package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mcoot/warfront/internal/model"
)

// Store serializes every load-mutate-save cycle per collection.
// Transactions spanning several collections lock them in Collections order.
type Store struct {
	backend Backend
	locks   map[Collection]*sync.Mutex
}

// New creates a Store on top of a backend
func New(backend Backend) *Store {
	locks := make(map[Collection]*sync.Mutex, len(Collections))
	for _, c := range Collections {
		locks[c] = &sync.Mutex{}
	}
	return &Store{backend: backend, locks: locks}
}

// Backend returns the underlying backend
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the underlying backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// EnsureAll creates every collection that does not exist yet
func (s *Store) EnsureAll(ctx context.Context) error {
	for _, c := range Collections {
		if err := s.ensure(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// View runs fn with the given collections locked. Nothing is written.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error, collections ...Collection) error {
	return s.run(ctx, true, fn, collections)
}

// Update runs fn with the given collections locked and, if fn succeeds,
// saves every collection fn marked as changed. When fn fails nothing is saved.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error, collections ...Collection) error {
	return s.run(ctx, false, fn, collections)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(tx *Tx) error, collections []Collection) error {
	ordered, err := lockOrder(collections)
	if err != nil {
		return err
	}

	for _, c := range ordered {
		s.locks[c].Lock()
	}
	defer func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			s.locks[ordered[i]].Unlock()
		}
	}()

	tx := &Tx{
		ctx:      ctx,
		store:    s,
		readOnly: readOnly,
		locked:   ordered,
		docs:     make(map[Collection]any, len(ordered)),
		changed:  make(map[Collection]bool, len(ordered)),
	}

	if err := fn(tx); err != nil {
		return err
	}

	if readOnly {
		if len(tx.changed) > 0 {
			return errors.New("storage: collection marked changed in a read-only transaction")
		}
		return nil
	}

	for _, c := range ordered {
		if !tx.changed[c] {
			continue
		}
		if err := s.write(ctx, c, tx.docs[c]); err != nil {
			return err
		}
	}
	return nil
}

// lockOrder dedupes collections and sorts them into global lock order
func lockOrder(collections []Collection) ([]Collection, error) {
	if len(collections) == 0 {
		return nil, errors.New("storage: transaction names no collections")
	}
	ordered := make([]Collection, 0, len(collections))
	for _, c := range Collections {
		if slices.Contains(collections, c) {
			ordered = append(ordered, c)
		}
	}
	for _, c := range collections {
		if !slices.Contains(Collections, c) {
			return nil, fmt.Errorf("storage: unknown collection %q", c)
		}
	}
	return ordered, nil
}

func (s *Store) ensure(ctx context.Context, c Collection) error {
	if err := s.backend.Ensure(ctx, c, DefaultDocument(c)); err != nil {
		return fmt.Errorf("%w: ensure %s: %v", model.ErrUnavailable, c, err)
	}
	return nil
}

// read loads a document, creating the default shape if it is missing
func (s *Store) read(ctx context.Context, c Collection) ([]byte, error) {
	data, err := s.backend.Load(ctx, c)
	if errors.Is(err, ErrDocumentNotFound) {
		if err := s.ensure(ctx, c); err != nil {
			return nil, err
		}
		return DefaultDocument(c), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", model.ErrUnavailable, c, err)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, c Collection, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", c, err)
	}
	if err := s.backend.Save(ctx, c, data); err != nil {
		return fmt.Errorf("%w: save %s: %v", model.ErrUnavailable, c, err)
	}
	return nil
}

// Tx gives access to locked collections inside View or Update.
// Documents are loaded lazily, once per transaction.
type Tx struct {
	ctx      context.Context
	store    *Store
	readOnly bool
	locked   []Collection
	docs     map[Collection]any
	changed  map[Collection]bool
}

// Context returns the request context the transaction runs under
func (tx *Tx) Context() context.Context {
	return tx.ctx
}

// MarkChanged schedules c to be saved when the transaction commits
func (tx *Tx) MarkChanged(c Collection) {
	tx.changed[c] = true
}

// Accounts returns the accounts document
func (tx *Tx) Accounts() (*model.AccountBook, error) {
	book, err := loadDocument(tx, Accounts, model.NewAccountBook)
	if err != nil {
		return nil, err
	}
	if book.Accounts == nil {
		book.Accounts = make(map[string]*model.Account)
	}
	return book, nil
}

// Ledger returns the transactions document
func (tx *Tx) Ledger() (*model.Ledger, error) {
	ledger, err := loadDocument(tx, Transactions, model.NewLedger)
	if err != nil {
		return nil, err
	}
	if ledger.Transactions == nil {
		ledger.Transactions = []model.TransactionRecord{}
	}
	return ledger, nil
}

// Matches returns the matches document
func (tx *Tx) Matches() (*model.MatchBook, error) {
	book, err := loadDocument(tx, Matches, model.NewMatchBook)
	if err != nil {
		return nil, err
	}
	if book.Matches == nil {
		book.Matches = make(map[model.LobbyID]*model.Lobby)
	}
	return book, nil
}

func loadDocument[T any](tx *Tx, c Collection, empty func() *T) (*T, error) {
	if !slices.Contains(tx.locked, c) {
		return nil, fmt.Errorf("storage: collection %s is not part of this transaction", c)
	}
	if doc, ok := tx.docs[c]; ok {
		return doc.(*T), nil
	}

	data, err := tx.store.read(tx.ctx, c)
	if err != nil {
		return nil, err
	}

	doc := empty()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", c, err)
	}
	tx.docs[c] = doc
	return doc, nil
}
