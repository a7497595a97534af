package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// SummaryMessage is the payload published for every scheduled summary.
type SummaryMessage struct {
	Label     string          `json:"label"`
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
	FiredAt   time.Time       `json:"fired_at"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSummaryMessage builds the message for s, stamped with the current time.
func NewSummaryMessage(s core.Summary) *SummaryMessage {
	return &SummaryMessage{
		Label:     s.Label,
		Total:     s.Total,
		Formatted: core.FormatDollars(s.Total),
		FiredAt:   s.FiredAt.UTC(),
		Timestamp: time.Now().UTC(),
	}
}

// Summary converts the message back to the domain type.
func (m *SummaryMessage) Summary() core.Summary {
	return core.Summary{Label: m.Label, Total: m.Total, FiredAt: m.FiredAt}
}

func (m *SummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SummaryMessageFromJSON(data []byte) (*SummaryMessage, error) {
	var msg SummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
