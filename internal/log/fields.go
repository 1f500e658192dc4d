package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldBackend     = "backend"
	FieldDocumentKey = "document_key"
	FieldVersion     = "version"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldTxnID       = "transaction_id"
	FieldTxnDesc     = "transaction_description"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldBudgetCents = "budget_cents"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentDocstore = "docstore"
	ComponentNotify   = "notify"
	ComponentExport   = "export"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpSubscribe = "subscribe"
	OpReplace   = "replace"
	OpSnapshot  = "snapshot"
	OpAdd       = "add"
	OpDelete    = "delete"
	OpBudget    = "budget"
	OpExport    = "export"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
