package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/gateway"
	"fintrack/internal/ledger"
)

// SnapshotSource is the read side of the ledger store.
type SnapshotSource interface {
	Snapshot() ledger.Snapshot
}

// Export is a rendered report.
type Export struct {
	Format      Format
	Body        []byte
	GeneratedAt time.Time
	Revision    uint64
	Cached      bool
}

type cachedExport struct {
	body        []byte
	generatedAt time.Time
}

// Exporter renders reports and keeps them per (revision, format) until the
// ledger changes.
type Exporter struct {
	source SnapshotSource
	title  string
	cache  *cache.LRUCache[cachedExport]
	now    func() time.Time
	logger *slog.Logger
}

// NewExporter creates an exporter. A non-positive size disables caching.
func NewExporter(source SnapshotSource, title string, size int, ttl time.Duration, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Exporter{
		source: source,
		title:  title,
		now:    time.Now,
		logger: logger.With("component", "report"),
	}
	if size > 0 {
		e.cache = cache.NewLRUCache[cachedExport](size, ttl)
	}
	return e
}

// Cleaner exposes the export cache for registration with a cache.Manager.
// It is nil when caching is disabled.
func (e *Exporter) Cleaner() cache.Cleaner {
	if e.cache == nil {
		return nil
	}
	return e.cache
}

// Export renders the current ledger in the given format.
func (e *Exporter) Export(format Format) (Export, error) {
	snap := e.source.Snapshot()
	key := fmt.Sprintf("%d:%s", snap.Revision, format)

	if e.cache != nil {
		if hit, ok := e.cache.Get(key); ok {
			return Export{Format: format, Body: hit.body, GeneratedAt: hit.generatedAt, Revision: snap.Revision, Cached: true}, nil
		}
	}

	doc := NewDocument(e.title, snap, e.now())
	var buf bytes.Buffer
	if err := Render(&buf, doc, format); err != nil {
		return Export{}, err
	}
	e.logger.Debug("Report rendered",
		"format", string(format),
		"revision", snap.Revision,
		"bytes", buf.Len())

	if e.cache != nil {
		e.cache.Set(key, cachedExport{body: buf.Bytes(), generatedAt: doc.GeneratedAt})
	}
	return Export{Format: format, Body: buf.Bytes(), GeneratedAt: doc.GeneratedAt, Revision: snap.Revision}, nil
}

// LedgerChanged drops every cached export.
func (e *Exporter) LedgerChanged(ev ledger.Event) {
	if e.cache == nil {
		return
	}
	e.cache.Purge()
	e.logger.Debug("Report cache invalidated", "op", string(ev.Op), "revision", ev.Snapshot.Revision)
}

// Render writes doc to w in the given format.
func Render(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatPDF:
		return WritePDF(w, doc)
	case FormatMarkdown:
		return WriteMarkdown(w, doc)
	case FormatHTML:
		return WriteHTML(w, doc)
	case FormatCSV:
		return gateway.WriteCSV(w, doc.Transactions)
	}
	return fmt.Errorf("unsupported report format %q", format)
}
