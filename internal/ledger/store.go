// Package ledger owns the session's transactions and balance.
//
// Store is the single source of truth: every mutation validates its input,
// updates the ordered transaction list and the balance scalar together, and
// then notifies subscribed listeners with a snapshot of the new state.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

var (
	ErrStartingBalanceLocked = errors.New("starting balance already set")
	ErrIndexOutOfRange       = errors.New("transaction index out of range")
	ErrNotFound              = errors.New("transaction not found")
)

// Snapshot is an immutable copy of the store state.
type Snapshot struct {
	Transactions    []core.Transaction
	Balance         core.Money
	StartingBalance core.Money
	Locked          bool
	Revision        uint64
}

// Draft holds the staged field values of a transaction taken out for editing.
type Draft = core.Fields

type Store struct {
	mu        sync.Mutex
	items     []core.Transaction
	balance   core.Money
	start     core.Money
	locked    bool
	revision  uint64
	listeners []*subscription
	logger    *slog.Logger
}

// NewStore returns an empty store with a zero, unlocked balance.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger.With("component", "ledger")}
}

// SetStartingBalance seeds the balance once. Transactions recorded before the
// seed keep their effect on the balance.
func (s *Store) SetStartingBalance(value core.Money) error {
	if value.IsNegative() {
		return core.InvalidStartingBalance("must not be negative")
	}
	s.mu.Lock()
	if s.locked {
		s.mu.Unlock()
		return ErrStartingBalanceLocked
	}
	s.balance = s.balance.Sub(s.start).Add(value)
	s.start = value
	s.locked = true
	ev := s.commit(OpSetStartingBalance, nil)
	s.mu.Unlock()

	s.logger.Info("Starting balance set, locking starting balance", "starting_balance", value.String())
	s.notify(ev)
	return nil
}

// ParseStartingBalance validates raw user input and seeds the balance.
func (s *Store) ParseStartingBalance(raw string) error {
	m, err := core.ParseMoney(raw)
	if err != nil {
		return core.InvalidStartingBalance(err.Error())
	}
	return s.SetStartingBalance(m)
}

// AddTransaction validates the fields, appends the transaction and adjusts the
// balance by its signed amount.
func (s *Store) AddTransaction(f core.Fields) (core.Transaction, error) {
	tx, err := f.Parse()
	if err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	s.items = append(s.items, tx)
	s.balance = s.balance.Add(tx.Signed())
	ev := s.commit(OpAdd, &tx)
	s.mu.Unlock()

	s.logger.Debug("Transaction added", "id", tx.ID, "type", tx.Type, "amount", tx.Amount.String())
	s.notify(ev)
	return tx, nil
}

// DeleteTransaction removes the transaction at insertion position index and
// reverses its balance effect.
func (s *Store) DeleteTransaction(index int) (core.Transaction, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		n := len(s.items)
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("delete %d of %d: %w", index, n, ErrIndexOutOfRange)
	}
	tx, ev := s.removeLocked(index)
	s.mu.Unlock()

	s.notify(ev)
	return tx, nil
}

// DeleteTransactionByID removes the transaction with the given id.
func (s *Store) DeleteTransactionByID(id uuid.UUID) (core.Transaction, error) {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	tx, ev := s.removeLocked(index)
	s.mu.Unlock()

	s.notify(ev)
	return tx, nil
}

// EditTransaction stages the fields of the transaction at index and removes
// it. The caller resubmits the draft through AddTransaction; an abandoned
// draft is lost. Prefer UpdateTransaction.
func (s *Store) EditTransaction(index int) (Draft, error) {
	tx, err := s.DeleteTransaction(index)
	if err != nil {
		return Draft{}, err
	}
	return tx.Fields(), nil
}

// UpdateTransaction validates the new fields and swaps them in for the
// transaction with the given id, keeping its id and position.
func (s *Store) UpdateTransaction(id uuid.UUID, f core.Fields) (core.Transaction, error) {
	next, err := f.Parse()
	if err != nil {
		return core.Transaction{}, err
	}
	next.ID = id

	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	prev := s.items[index]
	s.items[index] = next
	s.balance = s.balance.Sub(prev.Signed()).Add(next.Signed())
	ev := s.commit(OpUpdate, &next)
	s.mu.Unlock()

	s.notify(ev)
	return next, nil
}

// Get returns the transaction with the given id.
func (s *Store) Get(id uuid.UUID) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], nil
	}
	return core.Transaction{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
}

// FilterTransactions returns, in insertion order, the transactions whose type
// or category contains query case-insensitively. The ledger is not modified.
func (s *Store) FilterTransactions(query string) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if tx.Matches(query) {
			out = append(out, tx)
		}
	}
	return out
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Balance returns the current balance.
func (s *Store) Balance() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Len returns the number of recorded transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) removeLocked(index int) (core.Transaction, Event) {
	tx := s.items[index]
	s.items = append(s.items[:index:index], s.items[index+1:]...)
	s.balance = s.balance.Sub(tx.Signed())
	return tx, s.commit(OpDelete, &tx)
}

func (s *Store) indexLocked(id uuid.UUID) int {
	for i, tx := range s.items {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Transactions:    append([]core.Transaction(nil), s.items...),
		Balance:         s.balance,
		StartingBalance: s.start,
		Locked:          s.locked,
		Revision:        s.revision,
	}
}

// commit bumps the revision and builds the event for the mutation just applied.
func (s *Store) commit(op Op, tx *core.Transaction) Event {
	s.revision++
	ev := Event{Op: op, Snapshot: s.snapshotLocked()}
	if tx != nil {
		ev.Transaction = *tx
	}
	return ev
}
