package models

import (
	"strings"
	"time"
)

// Employee is owned by the HR workflow; the rota engine reads it and never
// mutates scheduling-relevant fields. Deactivated employees stay referenced
// by historical shifts.
type Employee struct {
	ID             uint     `gorm:"primarykey" json:"id"`
	FirstName      string   `gorm:"not null" json:"first_name"`
	LastName       string   `json:"last_name"`
	JobTitle       string   `json:"job_title"`
	MaxWeeklyHours *float64 `json:"max_weekly_hours"`
	IsActive       bool     `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// FullName returns the display name used on the rota grid.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// OverCap reports whether a weekly hour total exceeds the employee's cap.
// Employees without a cap are never over.
func (e *Employee) OverCap(weekHours float64) bool {
	if e.MaxWeeklyHours == nil {
		return false
	}
	return weekHours > *e.MaxWeeklyHours
}
