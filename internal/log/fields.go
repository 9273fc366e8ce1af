package log

import "fintrack/internal/core"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldReferer       = "referer"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldTxType        = "transaction_type"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldDate          = "date"
	FieldBalanceCents  = "balance_cents"
	FieldRevision      = "revision"
	FieldFormat        = "format"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentChart     = "chart"
	ComponentReport    = "report"
	ComponentGateway   = "gateway"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentTemplate  = "template"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpSetBalance = "set_starting_balance"
	OpCreate     = "create"
	OpRead       = "read"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpEdit       = "edit"
	OpFilter     = "filter"
	OpImport     = "import"
	OpExport     = "export"
	OpValidate   = "validate"
	OpParse      = "parse"
	OpRender     = "render"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category field
func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction fields
func (f LogFields) WithTransaction(tx core.Transaction) LogFields {
	f[FieldTransactionID] = tx.ID.String()
	f[FieldTxType] = tx.Type.String()
	f[FieldCategory] = tx.Category
	f[FieldAmountCents] = tx.Amount.Cents()
	f[FieldDate] = tx.Date.String()
	return f
}

// WithBalance adds the balance in cents and the ledger revision
func (f LogFields) WithBalance(balance core.Money, revision uint64) LogFields {
	f[FieldBalanceCents] = balance.Cents()
	f[FieldRevision] = revision
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	f[FieldReferer] = referer
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
