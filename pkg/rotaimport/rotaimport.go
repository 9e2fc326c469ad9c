package rotaimport

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SiteExport is the JSON shape the booking back-office exports for the rota
// engine: the external collaborators' data (employees, approved leave,
// budgets, day context) in one file.
type SiteExport struct {
	Employees []EmployeeJSON `json:"employees"`
	LeaveDays []LeaveDayJSON `json:"leave_days"`
	Budgets   []BudgetJSON   `json:"budgets"`
	DayInfo   []DayInfoJSON  `json:"day_info"`
}

type EmployeeJSON struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	JobTitle       string   `json:"job_title"`
	MaxWeeklyHours *float64 `json:"max_weekly_hours"`
}

type LeaveDayJSON struct {
	EmployeeID uint   `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

type BudgetJSON struct {
	Department  string  `json:"department"`
	Year        int     `json:"year"`
	AnnualHours float64 `json:"annual_hours"`
}

type DayInfoJSON struct {
	Date            string `json:"date"`
	Events          string `json:"events"`
	PrivateBookings int    `json:"private_bookings"`
	TableCovers     int    `json:"table_covers"`
	CalendarNotes   string `json:"calendar_notes"`
}

// ParseFile reads and validates a site export.
func ParseFile(filePath string) (*SiteExport, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	var export SiteExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to unmarshal export file: %w", err)
	}

	for i, leave := range export.LeaveDays {
		if _, err := ParseDate(leave.Date); err != nil {
			return nil, fmt.Errorf("leave day %d: %w", i, err)
		}
	}
	for i, info := range export.DayInfo {
		if _, err := ParseDate(info.Date); err != nil {
			return nil, fmt.Errorf("day info %d: %w", i, err)
		}
	}

	return &export, nil
}

// ParseDate parses the export's ISO date format.
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date, nil
}
