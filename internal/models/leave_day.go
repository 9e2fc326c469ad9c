package models

import "time"

// Leave day statuses, owned by the leave-request subsystem.
const (
	LeaveStatusApproved = "approved"
	LeaveStatusPending  = "pending"
	LeaveStatusDeclined = "declined"
)

// LeaveDay is consumed read-only from the leave-request subsystem. The rota
// engine flags scheduling conflicts against approved leave but never blocks
// on them and never mutates these rows.
type LeaveDay struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	LeaveDate  time.Time `gorm:"type:date;not null;index" json:"leave_date"`
	Status     string    `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LeaveDay) TableName() string {
	return "leave_days"
}

// IsApproved reports whether this leave day should raise a conflict warning.
func (l *LeaveDay) IsApproved() bool {
	return l.Status == LeaveStatusApproved
}
