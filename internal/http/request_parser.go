// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// transaction field sets, path ids, and bodies sent either as forms or JSON.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Form field names shared by the page and the JSON API.
const (
	FieldType            = "type"
	FieldCategory        = "category"
	FieldAmount          = "amount"
	FieldDate            = "date"
	FieldStartingBalance = "balance"
	FieldQuery           = "q"
)

// maxBodyBytes bounds request bodies; a transaction is four short fields.
const maxBodyBytes = 64 << 10

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// TransactionFields extracts the raw transaction field set. Values are left
// for the domain to validate.
func (p *RequestBodyParser) TransactionFields() core.Fields {
	return core.Fields{
		Type:     p.Get(FieldType),
		Category: p.Get(FieldCategory),
		Amount:   p.Get(FieldAmount),
		Date:     p.Get(FieldDate),
	}
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseTransactionID reads the {id} path segment.
func ParseTransactionID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid transaction id %q: %w", raw, err)
	}
	return id, nil
}

// ParseFilterQuery reads the search query; an empty query matches everything.
func ParseFilterQuery(r *http.Request) string {
	return sanitizeInput(r.URL.Query().Get(FieldQuery))
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// ParseBodyOrFail parses the request body and returns an error response on failure.
func ParseBodyOrFail(r *http.Request) (*RequestBodyParser, *HTMXResponseBuilder) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return nil, BadRequestError("Invalid request format")
	}
	return p, nil
}
