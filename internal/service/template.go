package service

import (
	"staff-rota/internal/models"
	"staff-rota/internal/permissions"
	"staff-rota/internal/repository"
	"staff-rota/pkg/timecalc"

	"github.com/sirupsen/logrus"
)

// TemplateService manages shift blueprints and drives week auto-population.
type TemplateService struct {
	templateRepo repository.ShiftTemplateRepository
	shiftRepo    repository.ShiftRepository
	weekRepo     repository.RotaWeekRepository
	perms        permissions.Checker
	logger       *logrus.Logger
}

func NewTemplateService(
	templateRepo repository.ShiftTemplateRepository,
	shiftRepo repository.ShiftRepository,
	weekRepo repository.RotaWeekRepository,
	perms permissions.Checker,
) *TemplateService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &TemplateService{
		templateRepo: templateRepo,
		shiftRepo:    shiftRepo,
		weekRepo:     weekRepo,
		perms:        perms,
		logger:       logger,
	}
}

type TemplateInput struct {
	Name               string
	StartTime          string
	EndTime            string
	UnpaidBreakMinutes int
	Department         string
	Colour             string
	DayOfWeek          *int
	EmployeeID         *uint
}

func (s *TemplateService) CreateTemplate(actor string, input TemplateInput) *TemplateResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Template creation denied")
		return templateFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	template := &models.ShiftTemplate{
		Name:               input.Name,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		UnpaidBreakMinutes: input.UnpaidBreakMinutes,
		Department:         input.Department,
		Colour:             input.Colour,
		DayOfWeek:          input.DayOfWeek,
		EmployeeID:         input.EmployeeID,
		IsActive:           true,
	}

	if !template.IsValid() {
		return templateFailure(ResultValidation, "invalid template: check name, times, department and day of week")
	}

	if err := s.templateRepo.Create(template); err != nil {
		return templateFailure(ResultInternal, err.Error())
	}

	return &TemplateResult{Success: true, Kind: ResultOK, Template: template}
}

func (s *TemplateService) UpdateTemplate(actor string, id uint, input TemplateInput) *TemplateResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Template update denied")
		return templateFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		return templateFailure(ResultInternal, err.Error())
	}
	if template == nil {
		return templateFailure(ResultNotFound, "template no longer exists")
	}

	template.Name = input.Name
	template.StartTime = input.StartTime
	template.EndTime = input.EndTime
	template.UnpaidBreakMinutes = input.UnpaidBreakMinutes
	template.Department = input.Department
	template.Colour = input.Colour
	template.DayOfWeek = input.DayOfWeek
	template.EmployeeID = input.EmployeeID

	if !template.IsValid() {
		return templateFailure(ResultValidation, "invalid template: check name, times, department and day of week")
	}

	if err := s.templateRepo.Save(template); err != nil {
		return templateFailure(ResultInternal, err.Error())
	}

	return &TemplateResult{Success: true, Kind: ResultOK, Template: template}
}

// DeactivateTemplate retires a template from the palette and from
// auto-population. Shifts previously generated from it are never touched.
func (s *TemplateService) DeactivateTemplate(actor string, id uint) *TemplateResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Template deactivation denied")
		return templateFailure(ResultPermission, "you do not have permission to edit the rota")
	}

	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		return templateFailure(ResultInternal, err.Error())
	}
	if template == nil {
		return templateFailure(ResultNotFound, "template no longer exists")
	}

	if err := s.templateRepo.Deactivate(id); err != nil {
		return templateFailure(ResultInternal, err.Error())
	}

	template.IsActive = false
	return &TemplateResult{Success: true, Kind: ResultOK, Template: template}
}

func (s *TemplateService) ListActiveTemplates() ([]*models.ShiftTemplate, error) {
	return s.templateRepo.ListActive()
}

// AutoPopulateWeek generates shifts for every active day-of-week template
// whose exact (assignment, date, time window) slot is still empty. Repeating
// the call never duplicates: a retried invocation only creates the shifts
// still missing.
func (s *TemplateService) AutoPopulateWeek(actor string, weekID uint) *PopulateResult {
	if !s.perms.CanEditRota(actor) {
		s.logger.WithField("actor", actor).Warn("Auto-population denied")
		return &PopulateResult{Kind: ResultPermission, Message: "you do not have permission to edit the rota"}
	}

	week, err := s.weekRepo.GetByID(weekID)
	if err != nil {
		return &PopulateResult{Kind: ResultInternal, Message: err.Error()}
	}
	if week == nil {
		return &PopulateResult{Kind: ResultNotFound, Message: "rota week not found"}
	}

	templates, err := s.templateRepo.ListActive()
	if err != nil {
		return &PopulateResult{Kind: ResultInternal, Message: err.Error()}
	}

	var created []*models.Shift
	for _, template := range templates {
		if !template.AutoScheduled() {
			continue
		}

		date := week.WeekStart.AddDate(0, 0, *template.DayOfWeek)

		exists, err := s.shiftRepo.ExistsForSlot(template.EmployeeID, date, template.StartTime, template.EndTime)
		if err != nil {
			return &PopulateResult{Kind: ResultInternal, Message: err.Error(), Created: created}
		}
		if exists {
			continue
		}

		shift := &models.Shift{
			WeekID:             week.ID,
			EmployeeID:         template.Assignment().Pointer(),
			ShiftDate:          date,
			StartTime:          template.StartTime,
			EndTime:            template.EndTime,
			UnpaidBreakMinutes: template.UnpaidBreakMinutes,
			IsOvernight:        timecalc.CrossesMidnight(template.StartTime, template.EndTime),
			Department:         template.Department,
			Status:             models.ShiftStatusScheduled,
			Name:               template.Name,
			Version:            1,
		}

		if err := s.shiftRepo.Create(shift); err != nil {
			return &PopulateResult{Kind: ResultInternal, Message: err.Error(), Created: created}
		}

		created = append(created, shift)
	}

	if len(created) > 0 && week.IsPublished() {
		if err := s.weekRepo.FlagUnpublishedChanges(week.ID); err != nil {
			s.logger.WithError(err).Error("Failed to flag week after auto-population")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"week_id": weekID,
		"created": len(created),
	}).Info("Week auto-populated from templates")

	return &PopulateResult{Success: true, Kind: ResultOK, Created: created}
}
