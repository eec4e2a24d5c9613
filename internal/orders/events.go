package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderSubmitted = "OrderSubmitted"
	EventRatesUpdated   = "CurrencyRatesUpdated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "order-composer"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // session_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

// OrderSubmittedPayload is consumed by the order-creation service.
// Every unit_price is IDR.
type OrderSubmittedPayload struct {
	Submission
	IdempotencyKey string `json:"idempotency_key"`
	SubmittedBy    string `json:"submitted_by,omitempty"`
	Role           string `json:"role,omitempty"`
}

// RatesUpdatedPayload is published by the business-rules service.
// An empty BranchID means the global rate set changed.
type RatesUpdatedPayload struct {
	BranchID string          `json:"branch_id,omitempty"`
	SARToIDR decimal.Decimal `json:"sar_to_idr"`
	USDToIDR decimal.Decimal `json:"usd_to_idr"`
}
