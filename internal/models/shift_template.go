package models

import (
	"time"

	"staff-rota/pkg/timecalc"
)

// ShiftTemplate is a reusable shift blueprint. Templates with a DayOfWeek are
// picked up by week auto-population; templates without one only appear in the
// creation palette. Templates are deactivated, never hard-deleted, so shifts
// generated from them stay traceable.
type ShiftTemplate struct {
	ID                 uint   `gorm:"primarykey" json:"id"`
	Name               string `gorm:"not null" json:"name"`
	StartTime          string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime            string `gorm:"type:varchar(5);not null" json:"end_time"`
	UnpaidBreakMinutes int    `gorm:"not null;default:0" json:"unpaid_break_minutes"`
	Department         string `gorm:"type:varchar(40);not null" json:"department"`
	Colour             string `gorm:"type:varchar(20)" json:"colour"`
	DayOfWeek          *int   `json:"day_of_week"` // 0=Monday .. 6=Sunday, nil = palette only
	EmployeeID         *uint  `json:"employee_id"` // nil = generates open shifts
	IsActive           bool   `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ShiftTemplate) TableName() string {
	return "shift_templates"
}

// Assignment returns who generated shifts should belong to.
func (t *ShiftTemplate) Assignment() Assignment {
	return AssignmentOf(t.EmployeeID)
}

// AutoScheduled reports whether week auto-population considers this template.
func (t *ShiftTemplate) AutoScheduled() bool {
	return t.IsActive && t.DayOfWeek != nil
}

// IsValid checks the template's structural invariants.
func (t *ShiftTemplate) IsValid() bool {
	if t.Name == "" {
		return false
	}
	if _, err := timecalc.ParseClock(t.StartTime); err != nil {
		return false
	}
	if _, err := timecalc.ParseClock(t.EndTime); err != nil {
		return false
	}
	if t.UnpaidBreakMinutes < 0 {
		return false
	}
	if t.Department == "" {
		return false
	}
	if t.DayOfWeek != nil && (*t.DayOfWeek < 0 || *t.DayOfWeek > 6) {
		return false
	}
	return true
}
