package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
	}{
		{"exact fit", 1, 10, 20, 2},
		{"remainder adds a page", 3, 10, 25, 3},
		{"empty result", 1, 10, 0, 0},
		{"single record", 1, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
		})
	}
}

func TestCanAccessOwned(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, CanAccessOwned(Identity{UserID: other, Role: RoleAdmin}, owner))
	assert.True(t, CanAccessOwned(Identity{UserID: other, Role: RoleTeacher}, owner))
	assert.True(t, CanAccessOwned(Identity{UserID: owner, Role: RoleStudent}, owner))
	assert.False(t, CanAccessOwned(Identity{UserID: other, Role: RoleStudent}, owner))
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleTeacher.IsValid())
	assert.True(t, RoleStudent.IsValid())
	assert.False(t, Role("PRINCIPAL").IsValid())
}

func TestAttendanceStatusIsValid(t *testing.T) {
	assert.True(t, StatusPresent.IsValid())
	assert.False(t, AttendanceStatus("SKIPPED").IsValid())
}
