package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

type (
	TransactionType string

	// Transaction is a single recorded money movement. Amount is always a
	// non-negative magnitude; the sign comes from Type.
	Transaction struct {
		ID       uuid.UUID
		Type     TransactionType
		Category string
		Amount   Money
		Date     Date
	}

	// Fields are the user-entered values of a transaction, before validation.
	Fields struct {
		Type     string
		Category string
		Amount   string
		Date     string
	}
)

// ParseTransactionType accepts "income"/"expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", errors.New("unknown transaction type " + s)
}

func (t TransactionType) String() string { return string(t) }

// Signed returns the amount with the sign the transaction applies to a balance.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Fields returns the transaction as re-editable field values.
func (t Transaction) Fields() Fields {
	return Fields{
		Type:     t.Type.String(),
		Category: t.Category,
		Amount:   t.Amount.String(),
		Date:     t.Date.String(),
	}
}

// Matches reports whether the lowercased type or category contains the
// lowercased query.
func (t Transaction) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Type.String()), q) ||
		strings.Contains(strings.ToLower(t.Category), q)
}

// Parse validates the fields and builds a transaction with a fresh ID.
func (f Fields) Parse() (Transaction, error) {
	typ, err := ParseTransactionType(f.Type)
	if err != nil {
		return Transaction{}, incomplete("type", "must be Income or Expense")
	}
	category := strings.TrimSpace(f.Category)
	if category == "" {
		return Transaction{}, incomplete("category", "is required")
	}
	if len(category) > 200 {
		return Transaction{}, incomplete("category", "too long (max 200 characters)")
	}
	amount, err := ParseMoney(f.Amount)
	if err != nil {
		return Transaction{}, incomplete("amount", err.Error())
	}
	date, err := ParseDate(f.Date)
	if err != nil {
		return Transaction{}, incomplete("date", err.Error())
	}
	return Transaction{
		ID:       uuid.New(),
		Type:     typ,
		Category: category,
		Amount:   amount,
		Date:     date,
	}, nil
}
