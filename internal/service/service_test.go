package service

import (
	"path/filepath"
	"testing"
	"time"

	"staff-rota/internal/models"
	"staff-rota/internal/permissions"
	"staff-rota/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories over a throwaway sqlite file, the same
// storage stack the binary runs on.
type testEnv struct {
	weekRepo     repository.RotaWeekRepository
	shiftRepo    repository.ShiftRepository
	employeeRepo repository.EmployeeRepository
	templateRepo repository.ShiftTemplateRepository
	leaveRepo    repository.LeaveDayRepository
	budgetRepo   repository.DepartmentBudgetRepository
	dayInfoRepo  repository.DayInfoRepository

	shifts    *ShiftService
	templates *TemplateService
	weeks     *WeekService
}

func newTestEnv(t *testing.T, perms permissions.Checker) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "rota.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	weekRepo, err := repository.NewGormRotaWeekRepository(db)
	if err != nil {
		t.Fatalf("week repo: %v", err)
	}
	shiftRepo, err := repository.NewGormShiftRepository(db)
	if err != nil {
		t.Fatalf("shift repo: %v", err)
	}
	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		t.Fatalf("employee repo: %v", err)
	}
	templateRepo, err := repository.NewGormShiftTemplateRepository(db)
	if err != nil {
		t.Fatalf("template repo: %v", err)
	}
	leaveRepo, err := repository.NewGormLeaveDayRepository(db)
	if err != nil {
		t.Fatalf("leave repo: %v", err)
	}
	budgetRepo, err := repository.NewGormDepartmentBudgetRepository(db)
	if err != nil {
		t.Fatalf("budget repo: %v", err)
	}
	dayInfoRepo, err := repository.NewGormDayInfoRepository(db)
	if err != nil {
		t.Fatalf("day info repo: %v", err)
	}

	return &testEnv{
		weekRepo:     weekRepo,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		templateRepo: templateRepo,
		leaveRepo:    leaveRepo,
		budgetRepo:   budgetRepo,
		dayInfoRepo:  dayInfoRepo,
		shifts:       NewShiftService(shiftRepo, weekRepo, employeeRepo, leaveRepo, perms, nil),
		templates:    NewTemplateService(templateRepo, shiftRepo, weekRepo, perms),
		weeks: NewWeekService(weekRepo, shiftRepo, employeeRepo, templateRepo,
			leaveRepo, budgetRepo, dayInfoRepo, perms, nil),
	}
}

// monday2024June3 is a known Monday used across the scheduling tests.
var monday2024June3 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func (e *testEnv) mustWeek(t *testing.T, weekStart time.Time) *models.RotaWeek {
	t.Helper()
	week, err := e.weekRepo.GetOrCreate(weekStart)
	if err != nil {
		t.Fatalf("get-or-create week: %v", err)
	}
	return week
}

func (e *testEnv) mustEmployee(t *testing.T, firstName string, maxHours *float64) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		FirstName:      firstName,
		LastName:       "Test",
		JobTitle:       "Server",
		MaxWeeklyHours: maxHours,
		IsActive:       true,
	}
	if err := e.employeeRepo.Create(employee); err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return employee
}

func (e *testEnv) mustShift(t *testing.T, week *models.RotaWeek, assignment models.Assignment, date time.Time, start, end string) *models.Shift {
	t.Helper()
	result := e.shifts.CreateShift("tester", CreateShiftInput{
		WeekID:     week.ID,
		Assignment: assignment,
		ShiftDate:  date,
		StartTime:  start,
		EndTime:    end,
		Department: "bar",
	})
	if !result.Success {
		t.Fatalf("create shift: %s (%s)", result.Message, result.Kind)
	}
	return result.Shift
}
