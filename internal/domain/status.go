package domain

import "time"

// StatusKind is the variant of a workflow status.
type StatusKind string

const (
	StatusIdle    StatusKind = "idle"
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Terminal reports whether the kind ends a workflow and should auto-clear.
func (k StatusKind) Terminal() bool {
	return k == StatusSuccess || k == StatusError
}

// Status is the single visible workflow status.
type Status struct {
	Kind    StatusKind `json:"type"`
	Message string     `json:"message,omitempty"`
	RunID   string     `json:"runId,omitempty"`
	At      time.Time  `json:"at"`
}
