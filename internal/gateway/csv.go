// Package gateway reads and writes ledgers as CSV with the columns
// type,category,amount,date.
package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fintrack/internal/core"
)

// Header is the column order written by WriteCSV.
var Header = []string{"type", "category", "amount", "date"}

var ErrMissingColumn = errors.New("missing column")

// CSVLedgerReader reads transaction field sets from CSV files.
type CSVLedgerReader struct{}

// NewCSVLedgerReader creates a new reader instance.
func NewCSVLedgerReader() *CSVLedgerReader {
	return &CSVLedgerReader{}
}

// ReadFile opens path and parses it with ReadFields.
func (r *CSVLedgerReader) ReadFile(ctx context.Context, path string) ([]core.Fields, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file %s: %w", path, err)
	}
	defer file.Close()

	fields, err := r.ReadFields(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}

// ReadFields parses CSV with a header row. Columns are matched by name in any
// order; extra columns are ignored. Values are returned unvalidated so the
// ledger store applies its own checks.
func (r *CSVLedgerReader) ReadFields(ctx context.Context, in io.Reader) ([]core.Fields, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	var out []core.Fields
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record on line %d: %w", line, err)
		}
		get := func(name string) string {
			if i := cols[name]; i < len(record) {
				return record[i]
			}
			return ""
		}
		out = append(out, core.Fields{
			Type:     get("type"),
			Category: unescapeCell(get("category")),
			Amount:   get("amount"),
			Date:     get("date"),
		})
	}
	return out, nil
}

// WriteCSV writes the header and one row per transaction, in the given order.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, tx := range txs {
		f := tx.Fields()
		if err := cw.Write([]string{f.Type, escapeCell(f.Category), f.Amount, f.Date}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Spreadsheets evaluate cells starting with one of these as formulas.
const formulaLeaders = "=+-@\t\r"

// escapeCell prefixes formula-leading text with a single quote so it is shown
// as text when the export is opened in a spreadsheet.
func escapeCell(s string) string {
	if s != "" && strings.ContainsRune(formulaLeaders, rune(s[0])) {
		return "'" + s
	}
	return s
}

// unescapeCell reverses escapeCell.
func unescapeCell(s string) string {
	if len(s) > 1 && s[0] == '\'' && strings.ContainsRune(formulaLeaders, rune(s[1])) {
		return s[1:]
	}
	return s
}
