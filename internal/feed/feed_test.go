package feed

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staff-rota/internal/models"
	"staff-rota/internal/repository"
)

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	shifts repository.ShiftRepository
	weeks  repository.RotaWeekRepository
	tokens repository.FeedTokenRepository
	server *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "rota.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	shifts, err := repository.NewGormShiftRepository(db)
	if err != nil {
		t.Fatalf("shift repo: %v", err)
	}
	weeks, err := repository.NewGormRotaWeekRepository(db)
	if err != nil {
		t.Fatalf("week repo: %v", err)
	}
	tokens, err := repository.NewGormFeedTokenRepository(db)
	if err != nil {
		t.Fatalf("token repo: %v", err)
	}
	if _, err := repository.NewGormEmployeeRepository(db); err != nil {
		t.Fatalf("employee repo: %v", err)
	}

	server := NewServer(shifts, weeks, tokens, "Riverside")
	server.now = func() time.Time { return monday }

	return &testEnv{shifts: shifts, weeks: weeks, tokens: tokens, server: server}
}

func (env *testEnv) mustWeek(t *testing.T, weekStart time.Time, publish bool) *models.RotaWeek {
	t.Helper()
	week, err := env.weeks.GetOrCreate(weekStart)
	if err != nil {
		t.Fatalf("get or create week: %v", err)
	}
	if publish {
		if err := env.weeks.Publish(week.ID); err != nil {
			t.Fatalf("publish week: %v", err)
		}
	}
	return week
}

func (env *testEnv) mustShift(t *testing.T, weekID uint, employeeID *uint, date time.Time, status string) *models.Shift {
	t.Helper()
	shift := &models.Shift{
		WeekID:     weekID,
		EmployeeID: employeeID,
		ShiftDate:  date,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Department: "bar",
		Status:     status,
		Version:    1,
	}
	if err := env.shifts.Create(shift); err != nil {
		t.Fatalf("create shift: %v", err)
	}
	return shift
}

func (env *testEnv) mustToken(t *testing.T, raw string, employeeID *uint) {
	t.Helper()
	token := &models.FeedToken{Token: raw, EmployeeID: employeeID, IsActive: true}
	if err := env.tokens.Create(token); err != nil {
		t.Fatalf("create token: %v", err)
	}
}

func (env *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func uintPtr(v uint) *uint { return &v }

func TestFeedRejectsMissingAndUnknownTokens(t *testing.T) {
	env := newTestEnv(t)
	env.mustToken(t, "real-token", nil)

	if code, _ := env.get(t, "/rota.ics"); code != http.StatusNotFound {
		t.Errorf("missing token: status = %d, want 404", code)
	}
	if code, _ := env.get(t, "/rota.ics?token=wrong"); code != http.StatusNotFound {
		t.Errorf("unknown token: status = %d, want 404", code)
	}
	if code, _ := env.get(t, "/rota.ics?token=real-token"); code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", code)
	}
}

func TestFeedServesPublishedWeeksOnly(t *testing.T) {
	env := newTestEnv(t)
	env.mustToken(t, "tok", nil)

	published := env.mustWeek(t, monday, true)
	draft := env.mustWeek(t, monday.AddDate(0, 0, 7), false)

	visible := env.mustShift(t, published.ID, nil, monday, models.ShiftStatusScheduled)
	hidden := env.mustShift(t, draft.ID, nil, monday.AddDate(0, 0, 7), models.ShiftStatusScheduled)
	cancelled := env.mustShift(t, published.ID, nil, monday.AddDate(0, 0, 1), models.ShiftStatusCancelled)

	code, body := env.get(t, "/rota.ics?token=tok")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	if !strings.Contains(body, uidLine(visible.ID)) {
		t.Error("published shift missing from feed")
	}
	if strings.Contains(body, uidLine(hidden.ID)) {
		t.Error("draft-week shift leaked into feed")
	}
	if strings.Contains(body, uidLine(cancelled.ID)) {
		t.Error("cancelled shift leaked into feed")
	}
}

func TestEmployeeScopedTokenSeesOwnAndOpenShifts(t *testing.T) {
	env := newTestEnv(t)
	env.mustToken(t, "ana-tok", uintPtr(1))

	week := env.mustWeek(t, monday, true)
	own := env.mustShift(t, week.ID, uintPtr(1), monday, models.ShiftStatusScheduled)
	other := env.mustShift(t, week.ID, uintPtr(2), monday, models.ShiftStatusScheduled)
	open := env.mustShift(t, week.ID, nil, monday.AddDate(0, 0, 2), models.ShiftStatusScheduled)

	_, body := env.get(t, "/rota.ics?token=ana-tok")

	if !strings.Contains(body, uidLine(own.ID)) {
		t.Error("own shift missing from scoped feed")
	}
	if strings.Contains(body, uidLine(other.ID)) {
		t.Error("another employee's shift leaked into scoped feed")
	}
	if !strings.Contains(body, uidLine(open.ID)) {
		t.Error("open shift missing from scoped feed")
	}
}

func TestFeedWindowExcludesDistantWeeks(t *testing.T) {
	env := newTestEnv(t)
	env.mustToken(t, "tok", nil)

	oldWeek := env.mustWeek(t, monday.AddDate(0, 0, -70), true)
	stale := env.mustShift(t, oldWeek.ID, nil, monday.AddDate(0, 0, -70), models.ShiftStatusScheduled)

	_, body := env.get(t, "/rota.ics?token=tok")
	if strings.Contains(body, uidLine(stale.ID)) {
		t.Error("shift far outside the rolling window served")
	}
}

func uidLine(id uint) string {
	return fmt.Sprintf("UID:shift-%d@staff-rota", id)
}

func TestRenderCalendarStructure(t *testing.T) {
	shift := &models.Shift{
		ID:          7,
		WeekID:      1,
		ShiftDate:   monday,
		StartTime:   "18:00",
		EndTime:     "02:00",
		IsOvernight: true,
		Department:  "bar",
		Status:      models.ShiftStatusScheduled,
		Notes:       "bring keys; lock up, then alarm",
	}

	out := RenderCalendar("Riverside", []*models.Shift{shift})

	for _, line := range []string{
		"BEGIN:VCALENDAR\r\n",
		"X-WR-CALNAME:Riverside rota\r\n",
		"UID:shift-7@staff-rota\r\n",
		"DTSTART:20240603T180000\r\n",
		"DTEND:20240604T020000\r\n",
		"SUMMARY:bar (open)\r\n",
		"DESCRIPTION:bring keys\\; lock up\\, then alarm\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("calendar missing %q\n%s", line, out)
		}
	}
}

func TestRenderCalendarSameClockWrapsToNextDay(t *testing.T) {
	shift := &models.Shift{
		ID:         8,
		WeekID:     1,
		ShiftDate:  monday,
		StartTime:  "10:00",
		EndTime:    "10:00",
		Department: "kitchen",
		Status:     models.ShiftStatusScheduled,
	}

	out := RenderCalendar("Riverside", []*models.Shift{shift})
	if !strings.Contains(out, "DTEND:20240604T100000\r\n") {
		t.Errorf("zero-length clock span should end the next day:\n%s", out)
	}
}
