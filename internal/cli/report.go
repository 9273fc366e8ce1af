package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/subcommands"

	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

type reportCmd struct {
	in     string
	start  string
	format string
	out    string
	title  string
	width  int

	stdout io.Writer
	now    func() time.Time
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render a report from a ledger CSV" }
func (*reportCmd) Usage() string {
	return `fintrack report -in <ledger.csv> [-start <amount>] [-format pdf|md|html|csv] [-out <file>]

  Replays the CSV through a fresh ledger and writes a report. Markdown
  without -out is rendered for the terminal.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "Ledger CSV with a type,category,amount,date header (required)")
	f.StringVar(&c.start, "start", "", "Starting balance")
	f.StringVar(&c.format, "format", string(report.FormatMarkdown), "Report format (pdf, md, html, csv)")
	f.StringVar(&c.out, "out", "", "Output file (defaults to stdout)")
	f.StringVar(&c.title, "title", report.DefaultTitle, "Report title")
	f.IntVar(&c.width, "width", 100, "Terminal word wrap width")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		return subcommands.ExitUsageError
	}
	format, err := report.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := c.run(ctx, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *reportCmd) run(ctx context.Context, format report.Format) error {
	logger := applog.New(applog.Config{Level: slog.LevelWarn, Output: os.Stderr, Component: applog.ComponentCLI})
	store := ledger.NewStore(logger.WithComponent(applog.ComponentLedger).Slog())

	if c.start != "" {
		if err := store.ParseStartingBalance(c.start); err != nil {
			return fmt.Errorf("starting balance %q: %w", c.start, err)
		}
	}
	if _, err := Replay(ctx, store, c.in); err != nil {
		return err
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	doc := report.NewDocument(c.title, store.Snapshot(), now())

	if c.out == "" {
		stdout := c.stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if format == report.FormatMarkdown {
			return report.WriteTerminal(stdout, doc, c.width)
		}
		return report.Render(stdout, doc, format)
	}

	out, err := os.Create(c.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.out, err)
	}
	if err := report.Render(out, doc, format); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
