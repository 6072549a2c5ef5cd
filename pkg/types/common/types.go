// Package common holds wire types shared by every ReactionLab surface: the
// success/error envelope, health reports, timestamps and event metadata.
package common

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Timestamp is a time.Time with ISO 8601 JSON encoding.
type Timestamp time.Time

// Now returns the current UTC time as a Timestamp.
func Now() Timestamp { return Timestamp(time.Now().UTC()) }

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// MarshalJSON implements json.Marshaler, using ISO 8601 format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// ErrorResponse is the failure envelope returned by every JSON endpoint.
// The web page branches on Success, so domain failures use HTTP 200.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(message, code string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message, Code: code}
}

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

// ComponentHealth provides health information for a specific component.
type ComponentHealth struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Latency string       `json:"latency"`
	Message string       `json:"message,omitempty"`
}

// HealthReport aggregates component checks.
type HealthReport struct {
	Status     HealthStatus      `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components []ComponentHealth `json:"components,omitempty"`
	Timestamp  Timestamp         `json:"timestamp"`
}

// Aggregate derives the overall status: down if any component is down,
// degraded if any is degraded, up otherwise.
func Aggregate(components []ComponentHealth) HealthStatus {
	status := HealthUp
	for _, c := range components {
		switch c.Status {
		case HealthDown:
			return HealthDown
		case HealthDegraded:
			status = HealthDegraded
		}
	}
	return status
}

// ─────────────────────────────────────────────────────────────────────────────
// Events
// ─────────────────────────────────────────────────────────────────────────────

// BaseEvent provides common fields for published events.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Timestamp Timestamp `json:"occurred_at"`
	AggID     string    `json:"aggregate_id"`
}

// NewBaseEvent stamps a new event of the given type about aggID.
func NewBaseEvent(eventType, aggID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: Now(),
		AggID:     aggID,
	}
}

//Personal.AI order the ending
