// Package entity defines the domain entities for the reports feature.
package entity

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a report.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// legacyStatuses maps the Spanish labels written by older clients.
var legacyStatuses = map[string]Status{
	"pendiente":   StatusPending,
	"en proceso":  StatusInProgress,
	"en_proceso":  StatusInProgress,
	"en progreso": StatusInProgress,
	"resuelto":    StatusResolved,
	"resuelta":    StatusResolved,
}

// StatusFromStored reads a persisted status. Legacy labels are mapped to
// their status and anything unrecognized reads as pending.
func StatusFromStored(raw string) Status {
	s := Status(raw)
	if s.Valid() {
		return s
	}
	if legacy, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return legacy
	}
	return StatusPending
}

// Default field values applied at creation.
const (
	DefaultTitle    = "Incidencia"
	DefaultPriority = "Media"
)

// Report is an incident report filed against a campus location.
type Report struct {
	ID          int64
	Title       string
	Category    string
	Description string
	Location    string
	Sector      string

	// Date is the reported date as entered by the client. It defaults to
	// the creation timestamp.
	Date string

	Status   Status
	Priority string

	// CreatedAt is the creation time in the service's civil timezone.
	// It is zero when the stored timestamp could not be read.
	CreatedAt time.Time

	// OwnerUserID is nil when the report was filed without a session.
	OwnerUserID *int64
}

// Folio returns the human-readable reference shown to the reporter.
func (r Report) Folio() string {
	if r.CreatedAt.IsZero() {
		return ""
	}
	return "INC-" + r.CreatedAt.Format("20060102150405")
}

// OwnedBy reports whether the report belongs to userID.
func (r Report) OwnedBy(userID int64) bool {
	return r.OwnerUserID != nil && *r.OwnerUserID == userID
}
