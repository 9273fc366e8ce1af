// Package report renders ledger snapshots as downloadable documents.
//
// Documents are built from the data model (a ledger snapshot and its balance
// series), never from rendered page output.
package report

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/balance"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const DefaultTitle = "Personal Finance Tracker Report"

// TimestampLayout is used for the "Generated on" line.
const TimestampLayout = "2006-01-02 15:04:05"

type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{FormatPDF, FormatMarkdown, FormatHTML, FormatCSV}

// ParseFormat accepts a format name or a common alias ("markdown").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename is the suggested download name.
func (f Format) Filename() string {
	return "Finance_Report." + string(f)
}

// Document is everything a report shows.
type Document struct {
	Title           string
	GeneratedAt     time.Time
	Transactions    []core.Transaction
	StartingBalance core.Money
	Balance         core.Money
	Series          balance.Series
	Revision        uint64
}

// NewDocument builds a document from a snapshot. Transactions stay in
// insertion order; the series is chronological.
func NewDocument(title string, snap ledger.Snapshot, generatedAt time.Time) Document {
	if title == "" {
		title = DefaultTitle
	}
	return Document{
		Title:           title,
		GeneratedAt:     generatedAt,
		Transactions:    snap.Transactions,
		StartingBalance: snap.StartingBalance,
		Balance:         snap.Balance,
		Series:          balance.Compute(snap.Transactions, snap.StartingBalance),
		Revision:        snap.Revision,
	}
}

// Row returns the listing cells of a transaction: type, category, amount, date.
func Row(tx core.Transaction) []string {
	return []string{tx.Type.String(), tx.Category, tx.Amount.String(), tx.Date.String()}
}
