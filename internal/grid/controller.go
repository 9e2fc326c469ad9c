package grid

import (
	"time"

	"staff-rota/internal/models"
	"staff-rota/internal/service"

	"github.com/sirupsen/logrus"
)

// Phase is the state of the current pick-up/drop gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

// Cell identifies one grid cell: an assignment row (a named employee or the
// open-shift row) on one of the week's seven dates.
type Cell struct {
	Assignment models.Assignment
	Date       time.Time
}

// DropOutcome classifies what a drop should lead to.
type DropOutcome int

const (
	// DropIgnored: no gesture was in progress, or the grid is busy.
	DropIgnored DropOutcome = iota
	// DropNoOp: dropped on the shift's current placement; no call is made.
	DropNoOp
	// DropMove: dispatch the returned MoveRequest.
	DropMove
)

// MoveRequest is the mutation a valid drop asks for. BaseVersion carries the
// version the gesture picked up, so a concurrent edit surfaces as a conflict
// instead of being overwritten.
type MoveRequest struct {
	ShiftID     uint
	BaseVersion int
	Target      models.Assignment
	Date        time.Time
}

// Controller holds the working copy of a rota week and runs the drag
// gesture state machine. It applies server-confirmed merges only: local
// state never changes before a mutation succeeds, so a failed move snaps
// back for free. A single busy flag gives single-flight discipline over
// structural mutations (moves, auto-populate).
//
// The controller is driven from a single event loop and does no locking of
// its own.
type Controller struct {
	view   *service.WeekView
	phase  Phase
	picked *models.Shift
	busy   bool
	logger *logrus.Logger
}

func NewController(view *service.WeekView) *Controller {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Controller{
		view:   view,
		phase:  PhaseIdle,
		logger: logger,
	}
}

func (c *Controller) View() *service.WeekView {
	return c.view
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// Picked returns the shift held by the current gesture, if any.
func (c *Controller) Picked() *models.Shift {
	return c.picked
}

// Busy reports whether a structural mutation is in flight. While busy, all
// gesture input is ignored.
func (c *Controller) Busy() bool {
	return c.busy
}

// PickUp starts a drag gesture on a shift. Returns false when the grid is
// busy, a gesture is already running, or the shift is not in the view.
func (c *Controller) PickUp(shiftID uint) bool {
	if c.busy || c.phase != PhaseIdle {
		return false
	}

	shift := c.findShift(shiftID)
	if shift == nil {
		c.logger.WithField("shift_id", shiftID).Warn("Pick-up on unknown shift")
		return false
	}

	c.phase = PhaseDragging
	c.picked = shift

	c.logger.WithFields(logrus.Fields{
		"shift_id":   shiftID,
		"assignment": shift.Assignment().String(),
		"date":       shift.DateKey(),
	}).Debug("Shift picked up")

	return true
}

// Cancel abandons the gesture without touching any state.
func (c *Controller) Cancel() {
	c.phase = PhaseIdle
	c.picked = nil
}

// Drop ends the gesture on a target cell. Dropping on the shift's current
// placement is a no-op: the gesture resolves locally with no network call.
// For a real move the caller dispatches the request, bracketed by
// BeginMutation/FinishMutation.
func (c *Controller) Drop(target Cell) (DropOutcome, MoveRequest) {
	if c.phase != PhaseDragging || c.picked == nil {
		return DropIgnored, MoveRequest{}
	}

	shift := c.picked
	c.phase = PhaseIdle
	c.picked = nil

	sameDate := shift.DateKey() == target.Date.Format("2006-01-02")
	if sameDate && shift.Assignment().Equal(target.Assignment) {
		c.logger.WithField("shift_id", shift.ID).Debug("Dropped on current placement, no-op")
		return DropNoOp, MoveRequest{}
	}

	return DropMove, MoveRequest{
		ShiftID:     shift.ID,
		BaseVersion: shift.Version,
		Target:      target.Assignment,
		Date:        target.Date,
	}
}

// BeginMutation takes the single-flight slot. Returns false if a mutation
// is already in flight; the caller must not dispatch in that case.
func (c *Controller) BeginMutation() bool {
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

// FinishMutation releases the single-flight slot.
func (c *Controller) FinishMutation() {
	c.busy = false
}

// MergeShift applies a server-confirmed shift into the working copy by ID,
// appending when it is new. Aggregates are derived from the view, so they
// pick the change up on the next render.
func (c *Controller) MergeShift(confirmed *models.Shift) {
	for i, shift := range c.view.Shifts {
		if shift.ID == confirmed.ID {
			c.view.Shifts[i] = confirmed
			return
		}
	}
	c.view.Shifts = append(c.view.Shifts, confirmed)
}

// RemoveShift drops a deleted shift from the working copy.
func (c *Controller) RemoveShift(shiftID uint) {
	for i, shift := range c.view.Shifts {
		if shift.ID == shiftID {
			c.view.Shifts = append(c.view.Shifts[:i], c.view.Shifts[i+1:]...)
			return
		}
	}
}

// ReplaceView swaps in a freshly assembled week, e.g. after week
// navigation. Any running gesture is abandoned.
func (c *Controller) ReplaceView(view *service.WeekView) {
	c.view = view
	c.phase = PhaseIdle
	c.picked = nil
}

// Summary recomputes the weekly hour rollup over the working copy.
func (c *Controller) Summary() service.HoursSummary {
	return service.SummarizeWeek(c.view.Shifts)
}

func (c *Controller) findShift(shiftID uint) *models.Shift {
	for _, shift := range c.view.Shifts {
		if shift.ID == shiftID {
			return shift
		}
	}
	return nil
}
