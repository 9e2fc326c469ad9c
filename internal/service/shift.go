package service

import (
	"fmt"
	"time"

	"staff-rota/internal/models"
	"staff-rota/internal/permissions"
	"staff-rota/internal/repository"
	"staff-rota/pkg/timecalc"

	"github.com/sirupsen/logrus"
)

// ShiftService owns every shift mutation. Timing fields change through
// UpdateShift; date and assignment change only through MoveShift, so the
// detail form and the grid gesture have non-overlapping contracts.
type ShiftService struct {
	shiftRepo    repository.ShiftRepository
	weekRepo     repository.RotaWeekRepository
	employeeRepo repository.EmployeeRepository
	leaveRepo    repository.LeaveDayRepository
	perms        permissions.Checker
	departments  []string
	logger       *logrus.Logger
}

func NewShiftService(
	shiftRepo repository.ShiftRepository,
	weekRepo repository.RotaWeekRepository,
	employeeRepo repository.EmployeeRepository,
	leaveRepo repository.LeaveDayRepository,
	perms permissions.Checker,
	departments []string,
) *ShiftService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ShiftService{
		shiftRepo:    shiftRepo,
		weekRepo:     weekRepo,
		employeeRepo: employeeRepo,
		leaveRepo:    leaveRepo,
		perms:        perms,
		departments:  departments,
		logger:       logger,
	}
}

type CreateShiftInput struct {
	WeekID             uint
	Assignment         models.Assignment
	ShiftDate          time.Time
	StartTime          string
	EndTime            string
	UnpaidBreakMinutes int
	IsOvernight        bool
	Department         string
	Name               string
	Notes              string
}

// CreateShift validates and inserts a new shift. If the assignee already has
// a non-cancelled shift that day, creation still succeeds and the result
// carries a duplicate advisory.
func (s *ShiftService) CreateShift(actor string, input CreateShiftInput) *ShiftResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Shift creation denied")
		return shiftFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	week, err := s.weekRepo.GetByID(input.WeekID)
	if err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}
	if week == nil {
		return shiftFailure(ResultNotFound, "rota week not found")
	}

	if msg := s.validateTiming(input.StartTime, input.EndTime, input.UnpaidBreakMinutes); msg != "" {
		return shiftFailure(ResultValidation, msg)
	}
	if !week.Contains(input.ShiftDate) {
		return shiftFailure(ResultValidation, "shift date falls outside the rota week")
	}
	if msg := s.validateDepartment(input.Department); msg != "" {
		return shiftFailure(ResultValidation, msg)
	}

	var warnings []string
	if employeeID, ok := input.Assignment.EmployeeID(); ok {
		employee, err := s.employeeRepo.GetByID(employeeID)
		if err != nil {
			return shiftFailure(ResultInternal, err.Error())
		}
		if employee == nil {
			return shiftFailure(ResultNotFound, "employee not found")
		}

		count, err := s.shiftRepo.CountForEmployeeAndDate(employeeID, input.ShiftDate)
		if err != nil {
			return shiftFailure(ResultInternal, err.Error())
		}
		if count > 0 {
			warnings = append(warnings,
				fmt.Sprintf("%s already has a shift on %s", employee.FullName(), input.ShiftDate.Format("Mon 02 Jan")))
		}
	}

	shift := &models.Shift{
		WeekID:             input.WeekID,
		EmployeeID:         input.Assignment.Pointer(),
		ShiftDate:          input.ShiftDate,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		UnpaidBreakMinutes: input.UnpaidBreakMinutes,
		IsOvernight:        input.IsOvernight,
		Department:         input.Department,
		Status:             models.ShiftStatusScheduled,
		Name:               input.Name,
		Notes:              input.Notes,
		Version:            1,
	}

	if err := s.shiftRepo.Create(shift); err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}

	if err := s.flagWeek(week); err != nil {
		s.logger.WithError(err).Error("Failed to flag week after shift creation")
	}

	return &ShiftResult{Success: true, Kind: ResultOK, Warnings: warnings, Shift: shift}
}

type UpdateShiftInput struct {
	StartTime          string
	EndTime            string
	UnpaidBreakMinutes int
	IsOvernight        bool
	Department         string
	Name               string
	Notes              string
}

// UpdateShift edits the timing and detail fields of a shift. A stale base
// version means someone else changed the shift since the caller loaded it;
// the edit is rejected as a conflict instead of silently overwriting.
func (s *ShiftService) UpdateShift(actor string, id uint, baseVersion int, input UpdateShiftInput) *ShiftResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Shift update denied")
		return shiftFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	shift, err := s.shiftRepo.GetByID(id)
	if err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}
	if shift == nil {
		return shiftFailure(ResultNotFound, "shift no longer exists")
	}

	if shift.Version != baseVersion {
		s.logger.WithFields(logrus.Fields{
			"id":           id,
			"base_version": baseVersion,
			"version":      shift.Version,
		}).Warn("Stale shift update rejected")
		return shiftFailure(ResultConflict, "shift was changed by someone else, reload and retry")
	}

	if msg := s.validateTiming(input.StartTime, input.EndTime, input.UnpaidBreakMinutes); msg != "" {
		return shiftFailure(ResultValidation, msg)
	}
	if msg := s.validateDepartment(input.Department); msg != "" {
		return shiftFailure(ResultValidation, msg)
	}

	shift.StartTime = input.StartTime
	shift.EndTime = input.EndTime
	shift.UnpaidBreakMinutes = input.UnpaidBreakMinutes
	shift.IsOvernight = input.IsOvernight
	shift.Department = input.Department
	shift.Name = input.Name
	shift.Notes = input.Notes
	shift.Version++

	if err := s.shiftRepo.Save(shift); err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}

	if err := s.flagWeekByID(shift.WeekID); err != nil {
		s.logger.WithError(err).Error("Failed to flag week after shift update")
	}

	return &ShiftResult{Success: true, Kind: ResultOK, Shift: shift}
}

// MoveShift reassigns a shift to a different employee (or the open row)
// and/or date. Moving a shift onto its current placement is a deliberate
// no-op: no write happens and no version is burned. A move onto approved
// leave succeeds with a warning.
func (s *ShiftService) MoveShift(actor string, id uint, baseVersion int, target models.Assignment, targetDate time.Time) *ShiftResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Shift move denied")
		return shiftFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	shift, err := s.shiftRepo.GetByID(id)
	if err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}
	if shift == nil {
		return shiftFailure(ResultNotFound, "shift no longer exists")
	}

	sameDate := shift.DateKey() == targetDate.Format("2006-01-02")
	if sameDate && shift.Assignment().Equal(target) {
		s.logger.WithField("id", id).Debug("Move to current placement, nothing to do")
		return &ShiftResult{Success: true, Kind: ResultOK, NoOp: true, Shift: shift}
	}

	if shift.Version != baseVersion {
		s.logger.WithFields(logrus.Fields{
			"id":           id,
			"base_version": baseVersion,
			"version":      shift.Version,
		}).Warn("Stale shift move rejected")
		return shiftFailure(ResultConflict, "shift was changed by someone else, reload and retry")
	}

	week, err := s.weekRepo.GetByID(shift.WeekID)
	if err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}
	if week == nil {
		return shiftFailure(ResultNotFound, "rota week not found")
	}
	if !week.Contains(targetDate) {
		return shiftFailure(ResultValidation, "target date falls outside the rota week")
	}

	shift.EmployeeID = target.Pointer()
	shift.ShiftDate = targetDate
	shift.Version++

	if err := s.shiftRepo.Save(shift); err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}

	s.logger.WithFields(logrus.Fields{
		"id":         id,
		"assignment": target.String(),
		"date":       targetDate.Format("2006-01-02"),
	}).Info("Shift moved")

	if err := s.flagWeek(week); err != nil {
		s.logger.WithError(err).Error("Failed to flag week after shift move")
	}

	var warnings []string
	if employeeID, ok := target.EmployeeID(); ok {
		onLeave, err := s.leaveRepo.HasApprovedLeave(employeeID, targetDate)
		if err != nil {
			s.logger.WithError(err).Error("Failed to check leave conflict after move")
		} else if onLeave {
			warnings = append(warnings,
				fmt.Sprintf("employee has approved leave on %s", targetDate.Format("Mon 02 Jan")))
		}
	}

	// Reload so the caller merges the shift with its employee preloaded.
	moved, err := s.shiftRepo.GetByID(id)
	if err != nil || moved == nil {
		moved = shift
	}

	return &ShiftResult{Success: true, Kind: ResultOK, Warnings: warnings, Shift: moved}
}

// MarkShiftSick records sickness without deleting or moving the shift, so
// the original schedule stays on record for payroll.
func (s *ShiftService) MarkShiftSick(actor string, id uint) *ShiftResult {
	return s.setStatus(actor, id, models.ShiftStatusSick)
}

// CancelShift soft-cancels a shift. Cancelled shifts drop out of hour
// totals but remain visible and restorable, unlike a hard delete.
func (s *ShiftService) CancelShift(actor string, id uint) *ShiftResult {
	return s.setStatus(actor, id, models.ShiftStatusCancelled)
}

func (s *ShiftService) setStatus(actor string, id uint, status string) *ShiftResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Shift status change denied")
		return shiftFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	shift, err := s.shiftRepo.GetByID(id)
	if err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}
	if shift == nil {
		return shiftFailure(ResultNotFound, "shift no longer exists")
	}

	shift.Status = status
	shift.Version++

	if err := s.shiftRepo.Save(shift); err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}

	s.logger.WithFields(logrus.Fields{
		"id":     id,
		"status": status,
	}).Info("Shift status changed")

	if err := s.flagWeekByID(shift.WeekID); err != nil {
		s.logger.WithError(err).Error("Failed to flag week after status change")
	}

	return &ShiftResult{Success: true, Kind: ResultOK, Shift: shift}
}

// DeleteShift hard-deletes a shift. Irreversible; soft cancellation is the
// usual path.
func (s *ShiftService) DeleteShift(actor string, id uint) *ShiftResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Shift deletion denied")
		return shiftFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	shift, err := s.shiftRepo.GetByID(id)
	if err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}
	if shift == nil {
		return shiftFailure(ResultNotFound, "shift no longer exists")
	}

	if err := s.shiftRepo.DeleteByID(id); err != nil {
		return shiftFailure(ResultInternal, err.Error())
	}

	if err := s.flagWeekByID(shift.WeekID); err != nil {
		s.logger.WithError(err).Error("Failed to flag week after shift deletion")
	}

	return &ShiftResult{Success: true, Kind: ResultOK, Shift: shift}
}

// ListWeekShifts returns every shift of a week for grid rendering.
func (s *ShiftService) ListWeekShifts(weekID uint) ([]*models.Shift, error) {
	return s.shiftRepo.ListByWeekID(weekID)
}

// ListShiftsBetween enumerates shifts by date range for the calendar feed.
func (s *ShiftService) ListShiftsBetween(from, to time.Time) ([]*models.Shift, error) {
	return s.shiftRepo.ListByDateRange(from, to)
}

func (s *ShiftService) validateTiming(start, end string, breakMinutes int) string {
	if start == "" {
		return "start time is required"
	}
	if end == "" {
		return "end time is required"
	}
	if _, err := timecalc.ParseClock(start); err != nil {
		return "start time must be HH:MM"
	}
	if _, err := timecalc.ParseClock(end); err != nil {
		return "end time must be HH:MM"
	}
	if breakMinutes < 0 {
		return "unpaid break cannot be negative"
	}
	return ""
}

func (s *ShiftService) validateDepartment(department string) string {
	if department == "" {
		return "department is required"
	}
	if len(s.departments) == 0 {
		return ""
	}
	for _, d := range s.departments {
		if d == department {
			return ""
		}
	}
	return fmt.Sprintf("unknown department %q", department)
}

func (s *ShiftService) flagWeek(week *models.RotaWeek) error {
	if !week.IsPublished() {
		return nil
	}
	return s.weekRepo.FlagUnpublishedChanges(week.ID)
}

func (s *ShiftService) flagWeekByID(weekID uint) error {
	week, err := s.weekRepo.GetByID(weekID)
	if err != nil {
		return err
	}
	if week == nil {
		return nil
	}
	return s.flagWeek(week)
}
