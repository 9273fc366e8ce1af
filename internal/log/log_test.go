package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func jsonLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{Level: slog.LevelDebug, Format: "json", Component: component, Output: buf})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, ComponentHTTP)

	l.Info("hello", "k", "v")
	l.WithComponent(ComponentReport).Debug("rendered")
	l.Slog().Warn("plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "http", lines[0][FieldComponent])
	assert.Equal(t, "v", lines[0]["k"])
	assert.Equal(t, "report", lines[1][FieldComponent])
	assert.Equal(t, "http", lines[2][FieldComponent])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})
	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "component=app")
}

func TestMiddleware_RequestID(t *testing.T) {
	var buf bytes.Buffer
	base := jsonLogger(&buf, ComponentHTTP)

	var seen *Logger
	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = FromContext(r.Context())
			seen.Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-1", lines[0][FieldRequestID])
}

func TestFromContext_Default(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, "unknown", l.Component())
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(jsonLogger(&buf, ComponentHTTP))

	tx, err := core.Fields{Type: "Expense", Category: "Food", Amount: "12.5", Date: "2024-01-02"}.Parse()
	require.NoError(t, err)

	sl.LogTransaction(context.Background(), OpCreate, tx, core.MoneyFromCents(48750), 3)
	sl.LogRejected(context.Background(), OpCreate, errors.New("bad"), ErrorTypeValidation)
	sl.LogHTTPEnd(context.Background(), httptest.NewRequest(http.MethodPost, "/transactions", nil), 422, 4, "10.0.0.1")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "ledger", lines[0][FieldComponent])
	assert.Equal(t, float64(1250), lines[0][FieldAmountCents])
	assert.Equal(t, float64(48750), lines[0][FieldBalanceCents])
	assert.Equal(t, tx.ID.String(), lines[0][FieldTransactionID])

	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, ErrorTypeValidation, lines[1][FieldErrorType])

	assert.Equal(t, "WARN", lines[2]["level"])
	assert.Equal(t, float64(422), lines[2][FieldStatusCode])
	assert.Equal(t, false, lines[2][FieldSuccess])
}
