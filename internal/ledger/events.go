package ledger

import "fintrack/internal/core"

// Op names the mutation that produced an Event.
type Op string

const (
	OpSetStartingBalance Op = "set_starting_balance"
	OpAdd                Op = "add"
	OpUpdate             Op = "update"
	OpDelete             Op = "delete"
)

// Event describes one successful mutation. Transaction is the zero value for
// OpSetStartingBalance.
type Event struct {
	Op          Op
	Transaction core.Transaction
	Snapshot    Snapshot
}

// Listener is notified synchronously after every successful mutation.
//
//go:generate mockgen -destination=mocks/mock_listener.go -package=mock_ledger -source=events.go Listener
type Listener interface {
	LedgerChanged(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) LedgerChanged(ev Event) { f(ev) }

type subscription struct {
	l Listener
}

// Subscribe registers l and returns a function that removes it. Listeners run
// in subscription order, outside the store lock, so they may read the store.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	sub := &subscription{l: l}
	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, x := range s.listeners {
			if x == sub {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	subs := append([]*subscription(nil), s.listeners...)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.l.LedgerChanged(ev)
	}
}
