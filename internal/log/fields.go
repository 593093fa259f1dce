package log

import "time"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldUserID        = "user_id"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldLimit         = "limit"
	FieldSpent         = "spent"
	FieldPercentage    = "percentage_used"
	FieldSeverity      = "severity"
	FieldMonth         = "month"
	FieldRecipient     = "recipient"
	FieldBackend       = "backend"
	FieldNotifier      = "notifier"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentTransaction = "transaction"
	ComponentBudget      = "budget"
	ComponentAnalytics   = "analytics"
	ComponentAlert       = "alert"
	ComponentNotify      = "notify"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentSweep       = "sweep"
	ComponentSheets      = "sheets"
	ComponentBackend     = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpsert   = "upsert"
	OpList     = "list"
	OpQuery    = "query"
	OpEvaluate = "evaluate"
	OpNotify   = "notify"
	OpSweep    = "sweep"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field, skipping nil.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithUser(userID string) LogFields {
	f[FieldUserID] = userID
	return f
}

// WithBudget adds the fields describing one budget evaluation. Amounts are
// logged as strings so no precision is lost.
func (f LogFields) WithBudget(category string, limit, spent, percentage string) LogFields {
	f[FieldCategory] = category
	f[FieldLimit] = limit
	f[FieldSpent] = spent
	f[FieldPercentage] = percentage
	return f
}

func (f LogFields) WithDuration(d time.Duration) LogFields {
	f[FieldDuration] = d.Milliseconds()
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
