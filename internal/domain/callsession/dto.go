// internal/domain/callsession/dto.go
package callsession

import (
	"time"

	"leadflow-service/internal/domain/lead"
)

type StartRequest struct {
	LeadID string `json:"studentId" binding:"required"`
}

type StartResult struct {
	SessionID     string    `json:"sessionId"`
	StartedAt     time.Time `json:"startedAt"`
	AlreadyActive bool      `json:"alreadyActive"`
}

type StopRequest struct {
	Outcome *lead.OutcomeUpdate `json:"outcome"`
}

type StopResult struct {
	SessionID       string     `json:"sessionId"`
	DurationSeconds int64      `json:"durationSeconds"`
	DurationMinutes float64    `json:"durationMinutes"`
	StoppedAt       time.Time  `json:"stoppedAt"`
	AlreadyStopped  bool       `json:"alreadyStopped"`
	Lead            *lead.Lead `json:"lead,omitempty"`
}
