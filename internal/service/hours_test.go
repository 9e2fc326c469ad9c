package service

import (
	"testing"
	"time"

	"staff-rota/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }

func testShift(employeeID *uint, department, start, end string, breakMins int, status string) *models.Shift {
	return &models.Shift{
		WeekID:             1,
		EmployeeID:         employeeID,
		ShiftDate:          time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime:          start,
		EndTime:            end,
		UnpaidBreakMinutes: breakMins,
		Department:         department,
		Status:             status,
		Version:            1,
	}
}

func TestSummarizeWeek(t *testing.T) {
	ana := uintPtr(1)
	ben := uintPtr(2)

	shifts := []*models.Shift{
		testShift(ana, "bar", "09:00", "17:00", 0, models.ShiftStatusScheduled),     // 8h
		testShift(ana, "kitchen", "18:00", "02:00", 30, models.ShiftStatusSick),     // 7.5h, sick still counts
		testShift(ben, "bar", "12:00", "20:00", 60, models.ShiftStatusScheduled),    // 7h
		testShift(ben, "bar", "09:00", "17:00", 0, models.ShiftStatusCancelled),     // excluded
		testShift(nil, "kitchen", "10:00", "14:00", 0, models.ShiftStatusScheduled), // 4h open
	}

	summary := SummarizeWeek(shifts)

	if got := summary.EmployeeHours[1]; got != 15.5 {
		t.Errorf("ana hours = %v, want 15.5", got)
	}
	if got := summary.EmployeeHours[2]; got != 7 {
		t.Errorf("ben hours = %v, want 7 (cancelled excluded)", got)
	}
	if summary.OpenHours != 4 {
		t.Errorf("open hours = %v, want 4", summary.OpenHours)
	}
	if got := summary.DepartmentHours["bar"]; got != 15 {
		t.Errorf("bar hours = %v, want 15", got)
	}
	if got := summary.DepartmentHours["kitchen"]; got != 11.5 {
		t.Errorf("kitchen hours = %v, want 11.5", got)
	}
	if summary.TotalHours != 26.5 {
		t.Errorf("total hours = %v, want 26.5", summary.TotalHours)
	}
}

func TestOverCapEmployees(t *testing.T) {
	employees := []*models.Employee{
		{ID: 1, FirstName: "Ana", MaxWeeklyHours: float64Ptr(20)},
		{ID: 2, FirstName: "Ben", MaxWeeklyHours: float64Ptr(40)},
		{ID: 3, FirstName: "Cleo"}, // no cap, never over
	}
	summary := HoursSummary{EmployeeHours: map[uint]float64{
		1: 22.5,
		2: 40, // at cap, not over
		3: 80,
	}}

	over := OverCapEmployees(summary, employees)
	if len(over) != 1 {
		t.Fatalf("over-cap count = %d, want 1", len(over))
	}
	if over[0].ID != 1 {
		t.Errorf("over-cap employee = %d, want 1", over[0].ID)
	}
}

func TestDepartmentUsageBands(t *testing.T) {
	budgets := []*models.DepartmentBudget{
		{Department: "bar", BudgetYear: 2024, AnnualHours: 5200},     // 100h/week target
		{Department: "kitchen", BudgetYear: 2024, AnnualHours: 5200}, // 100h/week target
		{Department: "floor", BudgetYear: 2024, AnnualHours: 5200},   // 100h/week target
		{Department: "spa", BudgetYear: 2024, AnnualHours: 0},
	}
	summary := HoursSummary{DepartmentHours: map[string]float64{
		"bar":     50,  // 50% normal
		"kitchen": 90,  // 90% warning
		"floor":   120, // 120% over
	}}

	usages := DepartmentUsage(summary, budgets)
	if len(usages) != 4 {
		t.Fatalf("usage count = %d, want 4", len(usages))
	}

	byDept := map[string]BudgetUsage{}
	for _, usage := range usages {
		byDept[usage.Department] = usage
	}

	if byDept["bar"].Band != BandNormal || byDept["bar"].Percent != 50 {
		t.Errorf("bar: %+v", byDept["bar"])
	}
	if byDept["kitchen"].Band != BandWarning {
		t.Errorf("kitchen band = %s, want warning", byDept["kitchen"].Band)
	}
	if byDept["floor"].Band != BandOver {
		t.Errorf("floor band = %s, want over", byDept["floor"].Band)
	}
	if byDept["spa"].Band != BandNormal || byDept["spa"].Percent != 0 {
		t.Errorf("zero-budget department: %+v", byDept["spa"])
	}
}

func TestDepartmentUsageBoundaries(t *testing.T) {
	budgets := []*models.DepartmentBudget{
		{Department: "bar", BudgetYear: 2024, AnnualHours: 5200},
	}

	cases := []struct {
		hours float64
		band  string
	}{
		{84.9, BandNormal},
		{85, BandWarning},
		{100, BandWarning},
		{100.1, BandOver},
	}

	for _, c := range cases {
		summary := HoursSummary{DepartmentHours: map[string]float64{"bar": c.hours}}
		usages := DepartmentUsage(summary, budgets)
		if usages[0].Band != c.band {
			t.Errorf("%vh -> band %s, want %s", c.hours, usages[0].Band, c.band)
		}
	}
}
