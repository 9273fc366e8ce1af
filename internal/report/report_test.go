package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/gateway"
	"fintrack/internal/ledger"
)

var fixedTime = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func seededStore(t *testing.T) *ledger.Store {
	t.Helper()
	s := ledger.NewStore(nil)
	require.NoError(t, s.ParseStartingBalance("500"))
	_, err := s.AddTransaction(core.Fields{Type: "Income", Category: "Salary", Amount: "200", Date: "2024-01-01"})
	require.NoError(t, err)
	_, err = s.AddTransaction(core.Fields{Type: "Expense", Category: "Food | Drinks", Amount: "50", Date: "2024-01-02"})
	require.NoError(t, err)
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"PDF", FormatPDF, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{" html ", FormatHTML, false},
		{"csv", FormatCSV, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "Finance_Report.pdf", FormatPDF.Filename())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("", seededStore(t).Snapshot(), fixedTime)

	assert.Equal(t, DefaultTitle, doc.Title)
	assert.Len(t, doc.Transactions, 2)
	assert.Equal(t, "650", doc.Balance.String())
	assert.Equal(t, "500", doc.StartingBalance.String())
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, doc.Series.Labels)
	assert.Equal(t, []string{"Income", "Salary", "200", "2024-01-01"}, Row(doc.Transactions[0]))
}

func TestWritePDF(t *testing.T) {
	t.Run("with transactions", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePDF(&buf, NewDocument("", seededStore(t).Snapshot(), fixedTime)))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	})

	t.Run("empty ledger", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePDF(&buf, NewDocument("", ledger.NewStore(nil).Snapshot(), fixedTime)))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	})

	t.Run("pages long listings", func(t *testing.T) {
		s := ledger.NewStore(nil)
		for i := 0; i < 60; i++ {
			_, err := s.AddTransaction(core.Fields{Type: "Expense", Category: "Misc", Amount: "1", Date: "2024-01-01"})
			require.NoError(t, err)
		}
		var buf bytes.Buffer
		require.NoError(t, WritePDF(&buf, NewDocument("", s.Snapshot(), fixedTime)))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	})
}

func TestPDFTranslator(t *testing.T) {
	tr := pdfTranslator(fpdf.New("P", "mm", "A4", ""))
	assert.Equal(t, "Caf\xe9 \x80 ?? a.b", tr("Café € 日本 a.b"))
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, NewDocument("", seededStore(t).Snapshot(), fixedTime)))
	out := buf.String()

	assert.Contains(t, out, "# Personal Finance Tracker Report")
	assert.Contains(t, out, "Generated on: 2024-02-01 09:30:00")
	assert.Contains(t, out, "Current Balance: $650.00")
	assert.Contains(t, out, "| Income | Salary | $200.00 | 2024-01-01 |")
	assert.Contains(t, out, `Food \| Drinks`)
	assert.Contains(t, out, "| Net | $150.00 |")

	buf.Reset()
	require.NoError(t, WriteMarkdown(&buf, NewDocument("", ledger.NewStore(nil).Snapshot(), fixedTime)))
	assert.Contains(t, buf.String(), "No transactions available.")
	assert.NotContains(t, buf.String(), "Balance over time")
}

func TestWriteHTML(t *testing.T) {
	s := seededStore(t)
	_, err := s.AddTransaction(core.Fields{Type: "Expense", Category: "<script>x</script>", Amount: "1", Date: "2024-01-03"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, NewDocument("", s.Snapshot(), fixedTime)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<h1>Personal Finance Tracker Report</h1>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderCSVRoundTrip(t *testing.T) {
	s := seededStore(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewDocument("", s.Snapshot(), fixedTime), FormatCSV))

	fields, err := gateway.NewCSVLedgerReader().ReadFields(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, s.Snapshot().Transactions[1].Fields(), fields[1])
}

func TestExporter_CachesPerRevision(t *testing.T) {
	s := seededStore(t)
	e := NewExporter(s, "", 8, time.Minute, nil)
	e.now = func() time.Time { return fixedTime }
	unsubscribe := s.Subscribe(e)
	defer unsubscribe()

	first, err := e.Export(FormatMarkdown)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := e.Export(FormatMarkdown)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Body, second.Body)

	_, err = s.AddTransaction(core.Fields{Type: "Income", Category: "Gift", Amount: "25", Date: "2024-01-05"})
	require.NoError(t, err)
	assert.Equal(t, 0, e.cache.Size())

	third, err := e.Export(FormatMarkdown)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Contains(t, string(third.Body), "Gift")
	assert.Equal(t, s.Snapshot().Revision, third.Revision)
}

func TestExporter_NoCache(t *testing.T) {
	e := NewExporter(seededStore(t), "Household", 0, 0, nil)
	assert.Nil(t, e.Cleaner())

	out, err := e.Export(FormatHTML)
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Contains(t, string(out.Body), "Household")

	again, err := e.Export(FormatHTML)
	require.NoError(t, err)
	assert.False(t, again.Cached)
}

func TestWriteTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTerminal(&buf, NewDocument("", seededStore(t).Snapshot(), fixedTime), 80))
	assert.Contains(t, buf.String(), "Salary")
}
