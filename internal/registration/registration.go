package registration

import (
	"errors"
	"time"
)

type Status string

const (
	StatusCreated Status = "CREATED"
	StatusUpdated Status = "UPDATED"
	StatusFailed  Status = "FAILED"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	// ErrAuditDisabled is returned by history lookups when no repository is configured.
	ErrAuditDisabled   = errors.New("registration audit is disabled")
	ErrAttemptNotFound = errors.New("registration attempt not found")
)

// Attempt is the audit record of one registration call.
type Attempt struct {
	ID         string    `json:"id"`
	ISBN       string    `json:"isbn"`
	Title      string    `json:"title"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Created reports whether the attempt inserted a new row.
func (a Attempt) Created() bool {
	return a.Status == StatusCreated
}

type Result struct {
	AttemptID string `json:"attempt_id"`
	Created   bool   `json:"created"`
}

type Filter struct {
	ISBN  string
	Limit int
}

// normalized clamps Limit into [1, MaxLimit], defaulting to DefaultLimit.
func (f Filter) normalized() Filter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	return f
}
