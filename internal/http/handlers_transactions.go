package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

func (s *Server) handleSetStartingBalance(w http.ResponseWriter, r *http.Request) {
	p, fail := ParseBodyOrFail(r)
	if fail != nil {
		fail.Write(w)
		return
	}
	raw := p.Get(FieldStartingBalance)

	if err := s.store.ParseStartingBalance(raw); err != nil {
		s.structured.LogRejected(r.Context(), applog.OpSetBalance, err, errorType(err))
		if errors.Is(err, core.ErrInvalidStartingBalance) {
			view := newStartingBalanceView(s.store.Snapshot())
			view.Value = raw
			view.Error = userMessage(err)
			s.render(w, r, UnprocessableEntityError(view.Error), "starting_balance", view)
			return
		}
		errorResponse(err).Write(w)
		return
	}

	snap := s.store.Snapshot()
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Starting balance set",
		applog.FieldOperation, applog.OpSetBalance,
		applog.FieldBalanceCents, snap.Balance.Cents(),
		applog.FieldRevision, snap.Revision)

	b := NewHTMXResponse().
		TriggerLedgerChanged(string(ledger.OpSetStartingBalance), snap.Revision).
		TriggerSuccessNotification("Starting balance set.")
	s.render(w, r, b, "starting_balance", newStartingBalanceView(snap))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p, fail := ParseBodyOrFail(r)
	if fail != nil {
		fail.Write(w)
		return
	}
	fields := p.TransactionFields()

	tx, err := s.store.AddTransaction(fields)
	if err != nil {
		s.rejectForm(w, r, applog.OpCreate, "", fields, err)
		return
	}

	snap := s.store.Snapshot()
	s.structured.LogTransaction(r.Context(), applog.OpCreate, tx, snap.Balance, snap.Revision)

	b := NewHTMXResponse().
		TriggerLedgerChanged(string(ledger.OpAdd), snap.Revision).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction added.")
	s.render(w, r, b, "entry_form", newEntryForm())
}

// handleEditTransaction loads a transaction into the form. The ledger is left
// untouched until the form is submitted.
func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseTransactionID(r)
	if err != nil {
		BadRequestError("Invalid transaction id").Write(w)
		return
	}
	tx, err := s.store.Get(id)
	if err != nil {
		errorResponse(err).Write(w)
		return
	}

	form := newEntryForm()
	form.ID = tx.ID.String()
	form.Fields = tx.Fields()
	s.render(w, r, nil, "entry_form", form)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseTransactionID(r)
	if err != nil {
		BadRequestError("Invalid transaction id").Write(w)
		return
	}
	p, fail := ParseBodyOrFail(r)
	if fail != nil {
		fail.Write(w)
		return
	}
	fields := p.TransactionFields()

	tx, err := s.store.UpdateTransaction(id, fields)
	if err != nil {
		s.rejectForm(w, r, applog.OpUpdate, id.String(), fields, err)
		return
	}

	snap := s.store.Snapshot()
	s.structured.LogTransaction(r.Context(), applog.OpUpdate, tx, snap.Balance, snap.Revision)

	b := NewHTMXResponse().
		TriggerLedgerChanged(string(ledger.OpUpdate), snap.Revision).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction updated.")
	s.render(w, r, b, "entry_form", newEntryForm())
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseTransactionID(r)
	if err != nil {
		BadRequestError("Invalid transaction id").Write(w)
		return
	}

	tx, err := s.store.DeleteTransactionByID(id)
	if err != nil {
		s.structured.LogRejected(r.Context(), applog.OpDelete, err, errorType(err))
		errorResponse(err).Write(w)
		return
	}

	snap := s.store.Snapshot()
	s.structured.LogTransaction(r.Context(), applog.OpDelete, tx, snap.Balance, snap.Revision)

	NewHTMXResponse().
		TriggerLedgerChanged(string(ledger.OpDelete), snap.Revision).
		TriggerSuccessNotification("Transaction deleted.").
		Write(w)
}

// rejectForm re-renders the entry form with the submitted values when the
// input is invalid; other failures become plain error fragments.
func (s *Server) rejectForm(w http.ResponseWriter, r *http.Request, op, id string, fields core.Fields, err error) {
	s.structured.LogRejected(r.Context(), op, err, errorType(err))
	if !errors.Is(err, core.ErrIncompleteTransaction) {
		errorResponse(err).Write(w)
		return
	}
	form := newEntryForm()
	form.ID = id
	form.Fields = fields
	form.Error = userMessage(err)
	s.render(w, r, UnprocessableEntityError(form.Error), "entry_form", form)
}
