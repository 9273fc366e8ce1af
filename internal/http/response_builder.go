// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing HTMX responses.
// It provides a fluent API for building HX-Trigger headers and consistent
// response formatting.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// Event names the page listens for.
const (
	EventLedgerChanged    = "ledger:changed"
	EventFormReset        = "form:reset"
	EventShowNotification = "show-notification"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
// It encapsulates the construction of HX-Trigger headers and response bodies.
type HTMXResponseBuilder struct {
	triggers   map[string]interface{}
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]interface{}),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data interface{}) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerLedgerChanged tells the page to refresh the table, balance and chart.
func (b *HTMXResponseBuilder) TriggerLedgerChanged(op string, revision uint64) *HTMXResponseBuilder {
	return b.Trigger(EventLedgerChanged, map[string]interface{}{"op": op, "revision": revision})
}

// TriggerFormReset adds the form:reset trigger.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, struct{}{})
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// TriggerNotification adds a show-notification trigger with the specified parameters.
func (b *HTMXResponseBuilder) TriggerNotification(notifType NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger(EventShowNotification, map[string]interface{}{
		"type":     string(notifType),
		"message":  message,
		"duration": durationMs,
	})
}

// TriggerSuccessNotification is a convenience method for success notifications.
func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

// TriggerErrorNotification is a convenience method for error notifications.
func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, 5000)
}

// Header adds a custom header to the response.
func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the response body as bytes.
func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

// BodyString sets the response body as a string.
func (b *HTMXResponseBuilder) BodyString(content string) *HTMXResponseBuilder {
	b.body = []byte(content)
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error" role="alert">` + escapedMsg + `</div>`)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 error that also raises a notification.
func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message).TriggerErrorNotification(message)
}

// ConflictError creates a 409 Conflict error response.
func ConflictError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusConflict, message).TriggerErrorNotification(message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
