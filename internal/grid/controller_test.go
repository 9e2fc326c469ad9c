package grid

import (
	"testing"
	"time"

	"staff-rota/internal/models"
	"staff-rota/internal/service"
)

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func uintPtr(v uint) *uint { return &v }

func testView(shifts ...*models.Shift) *service.WeekView {
	week := &models.RotaWeek{ID: 1, WeekStart: monday, Status: models.WeekStatusDraft}
	view := &service.WeekView{
		Week:        week,
		Dates:       week.Dates(),
		Shifts:      shifts,
		FacetErrors: map[string]error{},
	}
	return view
}

func testShift(id uint, employeeID *uint, date time.Time) *models.Shift {
	return &models.Shift{
		ID:         id,
		WeekID:     1,
		EmployeeID: employeeID,
		ShiftDate:  date,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Department: "bar",
		Status:     models.ShiftStatusScheduled,
		Version:    3,
	}
}

func TestGestureLifecycle(t *testing.T) {
	shift := testShift(10, uintPtr(1), monday)
	c := NewController(testView(shift))

	if c.Phase() != PhaseIdle {
		t.Fatal("controller should start idle")
	}

	if !c.PickUp(10) {
		t.Fatal("pick-up of known shift failed")
	}
	if c.Phase() != PhaseDragging || c.Picked().ID != 10 {
		t.Fatalf("phase=%v picked=%v", c.Phase(), c.Picked())
	}

	// Second pick-up during a gesture is ignored.
	if c.PickUp(10) {
		t.Error("pick-up during an active gesture must be rejected")
	}

	c.Cancel()
	if c.Phase() != PhaseIdle || c.Picked() != nil {
		t.Error("cancel must return to idle and release the shift")
	}
}

func TestPickUpUnknownShift(t *testing.T) {
	c := NewController(testView())
	if c.PickUp(99) {
		t.Error("pick-up of unknown shift must fail")
	}
	if c.Phase() != PhaseIdle {
		t.Error("failed pick-up must stay idle")
	}
}

func TestDropOnCurrentPlacementIsNoOp(t *testing.T) {
	shift := testShift(10, uintPtr(1), monday)
	c := NewController(testView(shift))
	c.PickUp(10)

	outcome, _ := c.Drop(Cell{Assignment: models.AssignedTo(1), Date: monday})
	if outcome != DropNoOp {
		t.Fatalf("outcome = %v, want DropNoOp", outcome)
	}
	if c.Phase() != PhaseIdle {
		t.Error("gesture must resolve to idle after a no-op drop")
	}
}

func TestDropOnNewCellRequestsMove(t *testing.T) {
	shift := testShift(10, uintPtr(1), monday)
	c := NewController(testView(shift))
	c.PickUp(10)

	wednesday := monday.AddDate(0, 0, 2)
	outcome, req := c.Drop(Cell{Assignment: models.Unassigned(), Date: wednesday})
	if outcome != DropMove {
		t.Fatalf("outcome = %v, want DropMove", outcome)
	}
	if req.ShiftID != 10 || req.BaseVersion != 3 {
		t.Errorf("request = %+v", req)
	}
	if !req.Target.IsOpen() {
		t.Error("target should be the open row")
	}
	if !req.Date.Equal(wednesday) {
		t.Errorf("target date = %v, want %v", req.Date, wednesday)
	}
}

func TestDropWithoutGestureIsIgnored(t *testing.T) {
	c := NewController(testView())
	outcome, _ := c.Drop(Cell{Assignment: models.Unassigned(), Date: monday})
	if outcome != DropIgnored {
		t.Errorf("outcome = %v, want DropIgnored", outcome)
	}
}

func TestSameEmployeeDifferentDateIsMove(t *testing.T) {
	shift := testShift(10, uintPtr(1), monday)
	c := NewController(testView(shift))
	c.PickUp(10)

	outcome, _ := c.Drop(Cell{Assignment: models.AssignedTo(1), Date: monday.AddDate(0, 0, 1)})
	if outcome != DropMove {
		t.Errorf("date-only move classified as %v", outcome)
	}
}

func TestSingleFlightMutation(t *testing.T) {
	shift := testShift(10, uintPtr(1), monday)
	c := NewController(testView(shift))

	if !c.BeginMutation() {
		t.Fatal("first mutation should acquire the slot")
	}
	if c.BeginMutation() {
		t.Error("second mutation must be refused while one is in flight")
	}
	if c.PickUp(10) {
		t.Error("pick-up must be refused while a mutation is in flight")
	}

	c.FinishMutation()
	if !c.BeginMutation() {
		t.Error("slot not released by FinishMutation")
	}
}

func TestMergeShiftById(t *testing.T) {
	original := testShift(10, uintPtr(1), monday)
	c := NewController(testView(original))

	confirmed := testShift(10, uintPtr(2), monday.AddDate(0, 0, 3))
	confirmed.Version = 4
	c.MergeShift(confirmed)

	if len(c.View().Shifts) != 1 {
		t.Fatalf("merge duplicated the shift: %d entries", len(c.View().Shifts))
	}
	merged := c.View().Shifts[0]
	if merged.Version != 4 || merged.DateKey() != "2024-06-06" {
		t.Errorf("merged = %+v", merged)
	}

	// Unknown IDs append (shift created elsewhere).
	c.MergeShift(testShift(11, nil, monday))
	if len(c.View().Shifts) != 2 {
		t.Errorf("new shift not appended")
	}
}

func TestRemoveShift(t *testing.T) {
	c := NewController(testView(
		testShift(10, uintPtr(1), monday),
		testShift(11, nil, monday),
	))

	c.RemoveShift(10)
	if len(c.View().Shifts) != 1 || c.View().Shifts[0].ID != 11 {
		t.Errorf("remove left %+v", c.View().Shifts)
	}

	c.RemoveShift(99) // unknown ID is a no-op
	if len(c.View().Shifts) != 1 {
		t.Error("removing unknown ID changed state")
	}
}

func TestReplaceViewAbandonsGesture(t *testing.T) {
	shift := testShift(10, uintPtr(1), monday)
	c := NewController(testView(shift))
	c.PickUp(10)

	c.ReplaceView(testView())
	if c.Phase() != PhaseIdle || c.Picked() != nil {
		t.Error("replacing the view must abandon the running gesture")
	}
}

func TestSummaryTracksWorkingCopy(t *testing.T) {
	c := NewController(testView(testShift(10, uintPtr(1), monday)))

	if got := c.Summary().EmployeeHours[1]; got != 8 {
		t.Fatalf("initial hours = %v, want 8", got)
	}

	cancelled := testShift(10, uintPtr(1), monday)
	cancelled.Status = models.ShiftStatusCancelled
	c.MergeShift(cancelled)

	if got := c.Summary().EmployeeHours[1]; got != 0 {
		t.Errorf("hours after cancellation = %v, want 0", got)
	}
}
