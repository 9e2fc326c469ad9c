package service

import (
	"sync"
	"time"

	"staff-rota/internal/models"
	"staff-rota/internal/permissions"
	"staff-rota/internal/repository"

	"github.com/sirupsen/logrus"
)

// Notifier announces rota publication to staff. Delivery mechanics live
// behind this interface; a failed announcement never fails the publish.
type Notifier interface {
	AnnouncePublish(week *models.RotaWeek, shiftCount int) error
}

// WeekView is everything the grid needs to render one rota week. Facets
// that failed to load degrade to empty slices and are recorded in
// FacetErrors; the view always renders with partial data.
type WeekView struct {
	Week        *models.RotaWeek
	Dates       [7]time.Time
	Employees   []*models.Employee
	Shifts      []*models.Shift
	Templates   []*models.ShiftTemplate
	LeaveDays   []*models.LeaveDay
	Budgets     []*models.DepartmentBudget
	DayInfos    []*models.DayInfo
	FacetErrors map[string]error
}

// ShiftsFor returns the week's shifts in one grid cell, ordered as loaded.
func (v *WeekView) ShiftsFor(assignment models.Assignment, date time.Time) []*models.Shift {
	day := date.Format("2006-01-02")
	var cell []*models.Shift
	for _, shift := range v.Shifts {
		if shift.DateKey() == day && shift.Assignment().Equal(assignment) {
			cell = append(cell, shift)
		}
	}
	return cell
}

// HasApprovedLeave reports whether an employee has approved leave on a date.
func (v *WeekView) HasApprovedLeave(employeeID uint, date time.Time) bool {
	day := date.Format("2006-01-02")
	for _, leave := range v.LeaveDays {
		if leave.EmployeeID == employeeID && leave.IsApproved() && leave.LeaveDate.Format("2006-01-02") == day {
			return true
		}
	}
	return false
}

// InfoFor returns the day-context annotation for a date, if any.
func (v *WeekView) InfoFor(date time.Time) *models.DayInfo {
	day := date.Format("2006-01-02")
	for _, info := range v.DayInfos {
		if info.Date.Format("2006-01-02") == day {
			return info
		}
	}
	return nil
}

// WeekService resolves and assembles rota weeks and owns the publish
// transition.
type WeekService struct {
	weekRepo     repository.RotaWeekRepository
	shiftRepo    repository.ShiftRepository
	employeeRepo repository.EmployeeRepository
	templateRepo repository.ShiftTemplateRepository
	leaveRepo    repository.LeaveDayRepository
	budgetRepo   repository.DepartmentBudgetRepository
	dayInfoRepo  repository.DayInfoRepository
	perms        permissions.Checker
	notifier     Notifier
	logger       *logrus.Logger
}

func NewWeekService(
	weekRepo repository.RotaWeekRepository,
	shiftRepo repository.ShiftRepository,
	employeeRepo repository.EmployeeRepository,
	templateRepo repository.ShiftTemplateRepository,
	leaveRepo repository.LeaveDayRepository,
	budgetRepo repository.DepartmentBudgetRepository,
	dayInfoRepo repository.DayInfoRepository,
	perms permissions.Checker,
	notifier Notifier,
) *WeekService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &WeekService{
		weekRepo:     weekRepo,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		templateRepo: templateRepo,
		leaveRepo:    leaveRepo,
		budgetRepo:   budgetRepo,
		dayInfoRepo:  dayInfoRepo,
		perms:        perms,
		notifier:     notifier,
		logger:       logger,
	}
}

// MondayOf snaps any date to the Monday of its ISO week, at midnight UTC.
func MondayOf(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// AssembleWeek resolves a date to its rota week (creating a draft row on
// first access) and fans out the independent reads concurrently. A failed
// facet degrades to empty rather than failing the whole view.
func (s *WeekService) AssembleWeek(date time.Time) (*WeekView, error) {
	monday := MondayOf(date)

	week, err := s.weekRepo.GetOrCreate(monday)
	if err != nil {
		return nil, err
	}

	view := &WeekView{
		Week:        week,
		Dates:       week.Dates(),
		FacetErrors: map[string]error{},
	}
	weekEnd := monday.AddDate(0, 0, 6)

	var mu sync.Mutex
	fail := func(facet string, err error) {
		mu.Lock()
		view.FacetErrors[facet] = err
		mu.Unlock()
		s.logger.WithError(err).WithField("facet", facet).Warn("Week facet failed to load, rendering without it")
	}

	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		defer wg.Done()
		employees, err := s.employeeRepo.ListActive()
		if err != nil {
			fail("employees", err)
			return
		}
		view.Employees = employees
	}()

	go func() {
		defer wg.Done()
		shifts, err := s.shiftRepo.ListByWeekID(week.ID)
		if err != nil {
			fail("shifts", err)
			return
		}
		view.Shifts = shifts
	}()

	go func() {
		defer wg.Done()
		templates, err := s.templateRepo.ListActive()
		if err != nil {
			fail("templates", err)
			return
		}
		view.Templates = templates
	}()

	go func() {
		defer wg.Done()
		leaves, err := s.leaveRepo.ListBetween(monday, weekEnd)
		if err != nil {
			fail("leave", err)
			return
		}
		view.LeaveDays = leaves
	}()

	go func() {
		defer wg.Done()
		budgets, err := s.budgetRepo.ListByYear(monday.Year())
		if err != nil {
			fail("budgets", err)
			return
		}
		view.Budgets = budgets
	}()

	go func() {
		defer wg.Done()
		infos, err := s.dayInfoRepo.ListBetween(monday, weekEnd)
		if err != nil {
			fail("day_info", err)
			return
		}
		view.DayInfos = infos
	}()

	wg.Wait()

	s.logger.WithFields(logrus.Fields{
		"week_start":   monday.Format("2006-01-02"),
		"shifts":       len(view.Shifts),
		"employees":    len(view.Employees),
		"facet_errors": len(view.FacetErrors),
	}).Debug("Week assembled")

	return view, nil
}

// PublishWeek makes a week visible to staff: status becomes published and
// the pending-changes flag clears in one update. There is no unpublish.
func (s *WeekService) PublishWeek(actor string, weekID uint) *PublishResult {
	if !s.perms.CanPublishRota(actor) {
		s.logger.WithField("actor", actor).Warn("Publish denied")
		return &PublishResult{Kind: ResultPermission, Message: "you do not have permission to publish the rota"}
	}

	week, err := s.weekRepo.GetByID(weekID)
	if err != nil {
		return &PublishResult{Kind: ResultInternal, Message: err.Error()}
	}
	if week == nil {
		return &PublishResult{Kind: ResultNotFound, Message: "rota week not found"}
	}

	if err := s.weekRepo.Publish(weekID); err != nil {
		return &PublishResult{Kind: ResultInternal, Message: err.Error()}
	}

	week.Status = models.WeekStatusPublished
	week.HasUnpublishedChanges = false

	if s.notifier != nil {
		shifts, err := s.shiftRepo.ListByWeekID(weekID)
		count := len(shifts)
		if err != nil {
			count = 0
		}
		if err := s.notifier.AnnouncePublish(week, count); err != nil {
			s.logger.WithError(err).Error("Failed to announce rota publication")
		}
	}

	return &PublishResult{Success: true, Kind: ResultOK, Week: week}
}
