package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
}

// transactionRow is one table row, keyed by the transaction's id.
type transactionRow struct {
	ID       string
	Type     string
	Category string
	Amount   string
	Date     string
}

func newTransactionRow(tx core.Transaction) transactionRow {
	return transactionRow{
		ID:       tx.ID.String(),
		Type:     tx.Type.String(),
		Category: tx.Category,
		Amount:   tx.Amount.Display(),
		Date:     tx.Date.String(),
	}
}

type tableView struct {
	Rows  []transactionRow
	Query string
	Total int
}

func newTableView(txs []core.Transaction, query string, total int) tableView {
	v := tableView{Query: query, Total: total, Rows: make([]transactionRow, 0, len(txs))}
	for _, tx := range txs {
		v.Rows = append(v.Rows, newTransactionRow(tx))
	}
	return v
}

type balanceView struct {
	Label    string
	Negative bool
}

func newBalanceView(balance core.Money) balanceView {
	return balanceView{
		Label:    "Current Balance: " + balance.Display(),
		Negative: balance.IsNegative(),
	}
}

type startingBalanceView struct {
	Locked bool
	Value  string
	Error  string
}

func newStartingBalanceView(snap ledger.Snapshot) startingBalanceView {
	v := startingBalanceView{Locked: snap.Locked}
	if snap.Locked {
		v.Value = snap.StartingBalance.String()
	}
	return v
}

// entryForm is the add form, or the edit form when ID is set.
type entryForm struct {
	ID     string
	Fields core.Fields
	Error  string
	Today  string
	Types  []core.TransactionType
}

func (f entryForm) Action() string {
	if f.ID == "" {
		return "/transactions"
	}
	return "/transactions/" + f.ID
}

func (f entryForm) Editing() bool { return f.ID != "" }

func newEntryForm() entryForm {
	return entryForm{
		Fields: core.Fields{Type: string(core.Income)},
		Today:  time.Now().Format(time.DateOnly),
		Types:  []core.TransactionType{core.Income, core.Expense},
	}
}

type pageData struct {
	Title    string
	Balance  balanceView
	Starting startingBalanceView
	Form     entryForm
	Table    tableView
	Formats  []report.Format
}

// render executes a template into a buffer so a failure never leaves a
// half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.structured.LogError(r.Context(), "Template execution failed", err,
			applog.ComponentTemplate, applog.OpRender, applog.LogFields{"template": name})
		InternalServerError("Error rendering page").Write(w)
		return
	}
	if b == nil {
		b = NewHTMXResponse()
	}
	b.BodyHTML(buf.String()).Write(w)
}
