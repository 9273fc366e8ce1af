package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestRequestBodyParser_Form(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader("type=Income&category=%20Salary%20&amount=12.50&date=2024-01-01"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(req)
	require.NoError(t, p.Parse())
	assert.False(t, p.IsJSON())
	assert.Equal(t, core.Fields{Type: "Income", Category: "Salary", Amount: "12.50", Date: "2024-01-01"}, p.TransactionFields())
}

func TestRequestBodyParser_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader(`{"type":"Expense","category":"Food","amount":7,"date":"2024-02-03","extra":true}`))
	req.Header.Set("Content-Type", "application/json")

	p := NewRequestBodyParser(req)
	require.NoError(t, p.Parse())
	assert.True(t, p.IsJSON())
	assert.Equal(t, "7", p.Get(FieldAmount))
	assert.Equal(t, "true", p.Get("extra"))
	assert.Equal(t, "", p.Get("missing"))
}

func TestRequestBodyParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"type":`},
		{"oversized body", "category=" + strings.Repeat("a", maxBodyBytes+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(tt.body))
			p, fail := ParseBodyOrFail(req)
			assert.Nil(t, p)
			require.NotNil(t, fail)

			rr := httptest.NewRecorder()
			fail.Write(rr)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	p, fail := ParseBodyOrFail(req)
	require.Nil(t, fail)
	assert.Equal(t, core.Fields{}, p.TransactionFields())
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Food", sanitizeInput("  Fo\x00od\x07 "))
	assert.Equal(t, "a\tb", sanitizeInput("a\tb"))
}

func TestParseTransactionID(t *testing.T) {
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/transactions/"+id.String()+"/edit", nil)
	req.SetPathValue("id", id.String())
	got, err := ParseTransactionID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req.SetPathValue("id", "42")
	_, err = ParseTransactionID(req)
	assert.Error(t, err)
}

func TestParseFilterQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ui/table?q=%20food%20", nil)
	assert.Equal(t, "food", ParseFilterQuery(req))

	req = httptest.NewRequest(http.MethodGet, "/ui/table", nil)
	assert.Equal(t, "", ParseFilterQuery(req))
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	assert.Nil(t, RequireMethod(req, http.MethodGet))

	fail := RequireMethod(req, http.MethodPost, http.MethodDelete)
	require.NotNil(t, fail)
	rr := httptest.NewRecorder()
	fail.Write(rr)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST, DELETE", rr.Header().Get("Allow"))
}
