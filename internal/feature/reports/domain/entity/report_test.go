package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("done").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("Pending").Valid())
}

func TestStatusFromStored(t *testing.T) {
	tests := map[string]Status{
		"pending":     StatusPending,
		"in_progress": StatusInProgress,
		"resolved":    StatusResolved,
		"pendiente":   StatusPending,
		"En proceso":  StatusInProgress,
		" Resuelto ":  StatusResolved,
		"":            StatusPending,
		"garbage":     StatusPending,
	}
	for raw, want := range tests {
		assert.Equal(t, want, StatusFromStored(raw), raw)
	}
}

func TestReport_Folio(t *testing.T) {
	r := Report{CreatedAt: time.Date(2025, 10, 15, 8, 5, 9, 0, time.FixedZone("CST", -6*3600))}
	assert.Equal(t, "INC-20251015080509", r.Folio())
	assert.Equal(t, "", Report{}.Folio())
}

func TestReport_OwnedBy(t *testing.T) {
	id := int64(7)
	assert.True(t, Report{OwnerUserID: &id}.OwnedBy(7))
	assert.False(t, Report{OwnerUserID: &id}.OwnedBy(8))
	assert.False(t, Report{}.OwnedBy(7))
}
