package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldBackend    = "backend"
	FieldUserID     = "user_id"
	FieldEntryID    = "entry_id"
	FieldBudgetID   = "budget_id"
	FieldAdviceID   = "advice_id"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldMonth      = "month"
	FieldYear       = "year"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentBackend = "backend"
	ComponentEntry   = "entry"
	ComponentSummary = "summary"
	ComponentAdvice  = "advice"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpPublish = "publish"
	OpConsume = "consume"
)
