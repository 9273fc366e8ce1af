package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// WriteMarkdown renders the document as GitHub-flavoured Markdown.
func WriteMarkdown(w io.Writer, doc Document) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(doc.Title))
	fmt.Fprintf(&b, "Generated on: %s\n\n", doc.GeneratedAt.Format(TimestampLayout))
	fmt.Fprintf(&b, "- Starting Balance: %s\n", doc.StartingBalance.Display())
	fmt.Fprintf(&b, "- Current Balance: %s\n\n", doc.Balance.Display())

	b.WriteString("## Transactions\n\n")
	if len(doc.Transactions) == 0 {
		b.WriteString("No transactions available.\n\n")
	} else {
		b.WriteString("| Type | Category | Amount | Date |\n")
		b.WriteString("|------|----------|-------:|------|\n")
		for _, tx := range doc.Transactions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				tx.Type, escapeMarkdown(tx.Category), tx.Amount.Display(), tx.Date)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Total income | %s |\n", doc.Series.TotalIncome.Display())
	fmt.Fprintf(&b, "| Total expenses | %s |\n", doc.Series.TotalExpense.Display())
	fmt.Fprintf(&b, "| Net | %s |\n\n", doc.Series.Net().Display())

	if doc.Series.Len() > 0 {
		b.WriteString("## Balance over time\n\n")
		b.WriteString("| Date | Income | Expense | Balance |\n")
		b.WriteString("|------|-------:|--------:|--------:|\n")
		for _, p := range doc.Series.Points {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				p.Date, p.Income.Display(), p.Expense.Display(), p.Balance.Display())
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHTML renders the Markdown report to a standalone HTML page. Raw HTML in
// user-entered categories is not passed through.
func WriteHTML(w io.Writer, doc Document) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, doc); err != nil {
		return err
	}
	conv := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	var body bytes.Buffer
	if err := conv.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body></html>\n",
		htmlEscaper.Replace(doc.Title), body.String())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;")

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", `\<`, "#", `\#`,
)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }
