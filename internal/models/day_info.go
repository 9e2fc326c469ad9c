package models

import "time"

// DayInfo carries per-date context shown above the grid columns: events,
// private bookings, expected covers, calendar notes. Purely decorative; the
// rota engine owns no invariants here.
type DayInfo struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Date            time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Events          string    `json:"events"`
	PrivateBookings int       `gorm:"not null;default:0" json:"private_bookings"`
	TableCovers     int       `gorm:"not null;default:0" json:"table_covers"`
	CalendarNotes   string    `json:"calendar_notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DayInfo) TableName() string {
	return "day_infos"
}
