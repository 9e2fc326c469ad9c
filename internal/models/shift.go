package models

import (
	"time"

	"staff-rota/pkg/timecalc"
)

// Shift statuses. Sick and cancelled are soft marks: the original schedule
// stays on record for payroll. Removing a shift entirely is a hard delete.
const (
	ShiftStatusScheduled = "scheduled"
	ShiftStatusSick      = "sick"
	ShiftStatusCancelled = "cancelled"
)

// Shift is a single scheduled slot on the rota grid. EmployeeID is nil for
// an open shift. Version increments on every mutation; mutations carrying a
// stale base version are rejected as conflicts.
type Shift struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	WeekID             uint      `gorm:"not null;index" json:"week_id"`
	EmployeeID         *uint     `gorm:"index" json:"employee_id"`
	ShiftDate          time.Time `gorm:"type:date;not null;index" json:"shift_date"`
	StartTime          string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime            string    `gorm:"type:varchar(5);not null" json:"end_time"`
	UnpaidBreakMinutes int       `gorm:"not null;default:0" json:"unpaid_break_minutes"`
	IsOvernight        bool      `gorm:"not null;default:false" json:"is_overnight"`
	Department         string    `gorm:"type:varchar(40);not null;index" json:"department"`
	Status             string    `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Name               string    `json:"name"`
	Notes              string    `json:"notes"`
	Version            int       `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (Shift) TableName() string {
	return "shifts"
}

// Assignment returns who the shift belongs to.
func (s *Shift) Assignment() Assignment {
	return AssignmentOf(s.EmployeeID)
}

// IsOpen reports whether the shift is unassigned and claimable.
func (s *Shift) IsOpen() bool {
	return s.EmployeeID == nil
}

// IsCancelled reports whether the shift is excluded from hour totals.
func (s *Shift) IsCancelled() bool {
	return s.Status == ShiftStatusCancelled
}

// PaidHours computes the shift's paid hours. Unparseable times read as zero;
// creation validation keeps them out of the store in the first place.
func (s *Shift) PaidHours() float64 {
	hours, err := timecalc.PaidHours(s.StartTime, s.EndTime, s.UnpaidBreakMinutes, s.IsOvernight)
	if err != nil {
		return 0
	}
	return hours
}

// DateKey returns the shift date in the canonical YYYY-MM-DD form used for
// grid cell lookups and DB date comparisons.
func (s *Shift) DateKey() string {
	return s.ShiftDate.Format("2006-01-02")
}

// IsValid checks the shift's structural invariants.
func (s *Shift) IsValid() bool {
	if s.WeekID == 0 {
		return false
	}
	if s.ShiftDate.IsZero() {
		return false
	}
	if s.StartTime == "" || s.EndTime == "" {
		return false
	}
	if _, err := timecalc.ParseClock(s.StartTime); err != nil {
		return false
	}
	if _, err := timecalc.ParseClock(s.EndTime); err != nil {
		return false
	}
	if s.UnpaidBreakMinutes < 0 {
		return false
	}
	if s.Department == "" {
		return false
	}
	if s.Status != ShiftStatusScheduled && s.Status != ShiftStatusSick && s.Status != ShiftStatusCancelled {
		return false
	}
	return true
}
