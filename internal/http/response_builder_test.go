package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func decodeTriggers(t *testing.T, rr *httptest.ResponseRecorder) map[string]map[string]interface{} {
	t.Helper()
	out := map[string]map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &out))
	return out
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerLedgerChanged(string(ledger.OpAdd), 7).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction added.").
		Write(rr)

	assert.Equal(t, http.StatusOK, rr.Code)
	tr := decodeTriggers(t, rr)
	assert.Equal(t, "add", tr[EventLedgerChanged]["op"])
	assert.Equal(t, float64(7), tr[EventLedgerChanged]["revision"])
	assert.Contains(t, tr, EventFormReset)
	assert.Equal(t, "success", tr[EventShowNotification]["type"])
	assert.Equal(t, "Transaction added.", tr[EventShowNotification]["message"])
	assert.Equal(t, float64(3000), tr[EventShowNotification]["duration"])
}

func TestHTMXResponseBuilder_NoTriggers(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().Status(http.StatusNoContent).Write(rr)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("HX-Trigger"))
	assert.Empty(t, rr.Body.String())
}

func TestHTMXResponseBuilder_Body(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().Header("X-Custom", "1").BodyHTML("<p>ok</p>").Write(rr)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "1", rr.Header().Get("X-Custom"))
	assert.Equal(t, "<p>ok</p>", rr.Body.String())
}

func TestErrorResponse_EscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	BadRequestError(`<script>alert("x")</script>`).Write(rr)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `role="alert"`)
	assert.NotContains(t, rr.Body.String(), "<script>")
}

func TestErrorResponseForLedgerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid starting balance", core.ErrInvalidStartingBalance, http.StatusUnprocessableEntity, "Please enter a valid starting balance."},
		{"incomplete transaction",
			&core.ValidationError{Kind: core.KindIncompleteTransaction, Field: "amount", Reason: "must be a number"},
			http.StatusUnprocessableEntity, "Please fill out all fields: amount must be a number."},
		{"locked", ledger.ErrStartingBalanceLocked, http.StatusConflict, "The starting balance has already been set."},
		{"not found", ledger.ErrNotFound, http.StatusNotFound, "That transaction no longer exists."},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Something went wrong."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			errorResponse(tt.err).Write(rr)
			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.msg)
		})
	}
}
