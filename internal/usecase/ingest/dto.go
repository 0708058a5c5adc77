package ingest

import (
	"time"

	"github.com/google/uuid"
)

// SessionItem is one offline-recorded session in a batch. Reference is
// the device-generated identifier its logs point at; the device cannot
// know server IDs while offline.
type SessionItem struct {
	Reference    string         `json:"reference" binding:"required"`
	PatientID    *uuid.UUID     `json:"patient_id"`
	PatientToken string         `json:"patient_token"`
	StartTime    time.Time      `json:"start_time" binding:"required"`
	EndedAt      *time.Time     `json:"ended_at"`
	Summary      map[string]any `json:"summary"`
}

type LogItem struct {
	SessionReference string    `json:"session_reference" binding:"required"`
	LogType          string    `json:"log_type" binding:"required,oneof=info warning error"`
	Message          string    `json:"message" binding:"required"`
	LoggedAt         time.Time `json:"logged_at" binding:"required"`
}

// BatchRequest is an offline-accumulated batch. IdempotencyKey is
// optional; when present a retried submission is rejected instead of
// duplicating telemetry.
type BatchRequest struct {
	IdempotencyKey string        `json:"idempotency_key"`
	Sessions       []SessionItem `json:"sessions" binding:"required,min=1,dive"`
	Logs           []LogItem     `json:"logs" binding:"omitempty,dive"`
}

type Result struct {
	SessionsCreated int `json:"created_sessions"`
	LogsCreated     int `json:"created_logs"`
}
