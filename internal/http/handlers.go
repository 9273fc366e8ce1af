package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/balance"
	"fintrack/internal/chart"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

// handleReady reports whether the page can be served.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.store == nil {
		checks["ledger"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		snap := s.store.Snapshot()
		checks["ledger"] = map[string]interface{}{
			"status":       "ok",
			"transactions": len(snap.Transactions),
			"revision":     snap.Revision,
		}
	}

	if s.exporter == nil {
		checks["reports"] = "not_configured"
	} else {
		checks["reports"] = "ok"
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	if s.store != nil {
		snap := s.store.Snapshot()
		fmt.Fprintf(w, "# HELP ledger_transactions Current number of transactions\n")
		fmt.Fprintf(w, "# TYPE ledger_transactions gauge\n")
		fmt.Fprintf(w, "ledger_transactions %d\n\n", len(snap.Transactions))

		fmt.Fprintf(w, "# HELP ledger_revision Ledger mutations since start\n")
		fmt.Fprintf(w, "# TYPE ledger_revision counter\n")
		fmt.Fprintf(w, "ledger_revision %d\n\n", snap.Revision)
	}

	if s.canvas != nil {
		fmt.Fprintf(w, "# HELP chart_draws_total Charts drawn\n")
		fmt.Fprintf(w, "# TYPE chart_draws_total counter\n")
		fmt.Fprintf(w, "chart_draws_total %d\n\n", s.canvas.Draws())
	}

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	data := pageData{
		Title:    s.title,
		Balance:  newBalanceView(snap.Balance),
		Starting: newStartingBalanceView(snap),
		Form:     newEntryForm(),
		Table:    newTableView(snap.Transactions, "", len(snap.Transactions)),
		Formats:  report.Formats,
	}
	s.render(w, r, nil, "index.html", data)
}

// handleTable renders the table body, filtered by ?q=.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	query := ParseFilterQuery(r)
	rows := s.store.FilterTransactions(query)
	s.render(w, r, nil, "table", newTableView(rows, query, s.store.Len()))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, nil, "balance", newBalanceView(s.store.Balance()))
}

// handleEntryForm renders a blank add form; used to cancel an edit.
func (s *Server) handleEntryForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, nil, "entry_form", newEntryForm())
}

// handleChart returns the configuration of the chart currently on the canvas.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var (
		body []byte
		ok   bool
		err  error
	)
	if s.canvas != nil {
		body, ok, err = s.canvas.JSON()
	}
	if err == nil && !ok {
		snap := s.store.Snapshot()
		body, err = chart.New(balance.Compute(snap.Transactions, snap.StartingBalance)).JSON()
	}
	if err != nil {
		s.structured.LogError(r.Context(), "Chart encoding failed", err, applog.ComponentChart, applog.OpRender, nil)
		InternalServerError("Error rendering chart").Write(w)
		return
	}
	NewHTMXResponse().
		Header("Content-Type", "application/json").
		Header("Cache-Control", "no-store").
		Body(body).
		Write(w)
}

func (s *Server) handleReport(format report.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.exporter == nil {
			NotFoundError("Reports are not enabled").Write(w)
			return
		}
		ctx := r.Context()
		out, err := s.exporter.Export(format)
		if err != nil {
			s.structured.LogError(ctx, "Report export failed", err, applog.ComponentReport, applog.OpExport,
				applog.LogFields{applog.FieldFormat: string(format)})
			InternalServerError("Error generating report").Write(w)
			return
		}
		disposition := "attachment"
		if format == report.FormatHTML {
			disposition = "inline"
		}
		applog.FromContext(ctx).DebugContext(ctx, "Report served",
			applog.FieldFormat, string(format),
			applog.FieldRevision, out.Revision,
			"cached", out.Cached)

		NewHTMXResponse().
			Header("Content-Type", format.ContentType()).
			Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, format.Filename())).
			Header("X-Ledger-Revision", fmt.Sprint(out.Revision)).
			Body(out.Body).
			Write(w)
	}
}
