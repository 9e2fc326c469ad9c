package models

import (
	"time"
)

// Rota week statuses. There is no unpublish: once staff can see a week it
// stays visible, and drift is signalled via HasUnpublishedChanges until the
// next publish.
const (
	WeekStatusDraft     = "draft"
	WeekStatusPublished = "published"
)

// RotaWeek is one Monday-aligned 7-day scheduling period. Exactly one row
// exists per week start; rows are created lazily on first access.
type RotaWeek struct {
	ID                    uint      `gorm:"primarykey" json:"id"`
	WeekStart             time.Time `gorm:"type:date;uniqueIndex;not null" json:"week_start"`
	Status                string    `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	HasUnpublishedChanges bool      `gorm:"not null;default:false" json:"has_unpublished_changes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RotaWeek) TableName() string {
	return "rota_weeks"
}

// IsPublished reports whether staff can see this week.
func (w *RotaWeek) IsPublished() bool {
	return w.Status == WeekStatusPublished
}

// Dates returns the week's seven sequential dates starting at WeekStart.
func (w *RotaWeek) Dates() [7]time.Time {
	var dates [7]time.Time
	for i := 0; i < 7; i++ {
		dates[i] = w.WeekStart.AddDate(0, 0, i)
	}
	return dates
}

// Contains reports whether a date falls inside the week's seven days.
func (w *RotaWeek) Contains(date time.Time) bool {
	day := date.Format("2006-01-02")
	for _, d := range w.Dates() {
		if d.Format("2006-01-02") == day {
			return true
		}
	}
	return false
}

// IsValid checks the week's structural invariants.
func (w *RotaWeek) IsValid() bool {
	if w.WeekStart.IsZero() {
		return false
	}
	if w.WeekStart.Weekday() != time.Monday {
		return false
	}
	if w.Status != WeekStatusDraft && w.Status != WeekStatusPublished {
		return false
	}
	return true
}
