package models

import (
	"testing"
	"time"
)

func TestAssignmentOpenVsAssigned(t *testing.T) {
	open := Unassigned()
	ana := AssignedTo(3)

	if !open.IsOpen() || ana.IsOpen() {
		t.Fatal("open/assigned classification wrong")
	}

	if id, ok := ana.EmployeeID(); !ok || id != 3 {
		t.Errorf("EmployeeID() = %d, %v", id, ok)
	}
	if _, ok := open.EmployeeID(); ok {
		t.Error("open assignment must not yield an employee ID")
	}

	if open.String() != "open" || ana.String() != "employee:3" {
		t.Errorf("String() = %q, %q", open.String(), ana.String())
	}
}

func TestAssignmentEqual(t *testing.T) {
	if !Unassigned().Equal(Unassigned()) {
		t.Error("two open assignments must be equal")
	}
	if !AssignedTo(3).Equal(AssignedTo(3)) {
		t.Error("same employee must be equal")
	}
	if AssignedTo(3).Equal(AssignedTo(4)) {
		t.Error("different employees must not be equal")
	}
	if AssignedTo(3).Equal(Unassigned()) || Unassigned().Equal(AssignedTo(3)) {
		t.Error("open must never equal an assigned row")
	}
}

func TestAssignmentPointerIsDetached(t *testing.T) {
	a := AssignedTo(5)
	p := a.Pointer()
	if p == nil || *p != 5 {
		t.Fatalf("Pointer() = %v", p)
	}

	*p = 9
	if id, _ := a.EmployeeID(); id != 5 {
		t.Error("mutating the pointer copy changed the assignment")
	}

	if Unassigned().Pointer() != nil {
		t.Error("open assignment must store as NULL")
	}
}

func TestAssignmentOfRoundTrip(t *testing.T) {
	if !AssignmentOf(nil).IsOpen() {
		t.Error("nil column must read as open")
	}
	id := uint(7)
	if got, _ := AssignmentOf(&id).EmployeeID(); got != 7 {
		t.Errorf("AssignmentOf(&7) = %d", got)
	}
}

func TestRotaWeekContains(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	week := &RotaWeek{WeekStart: monday, Status: WeekStatusDraft}

	if !week.Contains(monday) {
		t.Error("week start should be contained")
	}
	if !week.Contains(monday.AddDate(0, 0, 6)) {
		t.Error("Sunday should be contained")
	}
	// Time-of-day must not matter.
	if !week.Contains(time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC)) {
		t.Error("late Sunday evening should be contained")
	}
	if week.Contains(monday.AddDate(0, 0, 7)) {
		t.Error("next Monday starts the next week")
	}
	if week.Contains(monday.AddDate(0, 0, -1)) {
		t.Error("preceding Sunday belongs to the previous week")
	}
}

func TestRotaWeekIsValid(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	valid := &RotaWeek{WeekStart: monday, Status: WeekStatusDraft}
	if !valid.IsValid() {
		t.Error("Monday-aligned draft week should be valid")
	}

	tuesday := &RotaWeek{WeekStart: monday.AddDate(0, 0, 1), Status: WeekStatusDraft}
	if tuesday.IsValid() {
		t.Error("non-Monday week start must be invalid")
	}

	badStatus := &RotaWeek{WeekStart: monday, Status: "archived"}
	if badStatus.IsValid() {
		t.Error("unknown status must be invalid")
	}
}
