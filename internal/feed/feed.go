package feed

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"staff-rota/internal/models"
	"staff-rota/internal/repository"

	"github.com/sirupsen/logrus"
)

// Feed window around "now": external calendar clients poll continuously, so
// the feed serves a rolling range rather than a single week.
const (
	daysBack    = 7
	daysForward = 60
)

// Server exposes published shifts as a token-authenticated iCalendar feed.
// Read-only: it enumerates shifts, it never mutates them. Draft weeks are
// invisible here, exactly as they are to staff.
type Server struct {
	shiftRepo repository.ShiftRepository
	weekRepo  repository.RotaWeekRepository
	tokenRepo repository.FeedTokenRepository
	siteName  string
	now       func() time.Time
	logger    *logrus.Logger
}

func NewServer(
	shiftRepo repository.ShiftRepository,
	weekRepo repository.RotaWeekRepository,
	tokenRepo repository.FeedTokenRepository,
	siteName string,
) *Server {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Server{
		shiftRepo: shiftRepo,
		weekRepo:  weekRepo,
		tokenRepo: tokenRepo,
		siteName:  siteName,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rota.ics", s.handleFeed)
	return mux
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		http.NotFound(w, r)
		return
	}

	token, err := s.tokenRepo.GetActiveByToken(raw)
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up feed token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if token == nil {
		s.logger.Debug("Feed request with unknown or inactive token")
		http.NotFound(w, r)
		return
	}

	now := s.now()
	from := now.AddDate(0, 0, -daysBack)
	to := now.AddDate(0, 0, daysForward)

	shifts, err := s.shiftRepo.ListByDateRange(from, to)
	if err != nil {
		s.logger.WithError(err).Error("Failed to enumerate shifts for feed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	visible, err := s.filterVisible(shifts, token)
	if err != nil {
		s.logger.WithError(err).Error("Failed to filter feed shifts")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	fmt.Fprint(w, RenderCalendar(s.siteName, visible))

	s.logger.WithFields(logrus.Fields{
		"token_id": token.ID,
		"events":   len(visible),
	}).Debug("Feed served")
}

// filterVisible keeps non-cancelled shifts of published weeks. Employee-
// scoped tokens see their own shifts plus open shifts.
func (s *Server) filterVisible(shifts []*models.Shift, token *models.FeedToken) ([]*models.Shift, error) {
	weekIDs := map[uint]bool{}
	for _, shift := range shifts {
		weekIDs[shift.WeekID] = true
	}

	ids := make([]uint, 0, len(weekIDs))
	for id := range weekIDs {
		ids = append(ids, id)
	}

	weeks, err := s.weekRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}

	published := map[uint]bool{}
	for _, week := range weeks {
		if week.IsPublished() {
			published[week.ID] = true
		}
	}

	var visible []*models.Shift
	for _, shift := range shifts {
		if !published[shift.WeekID] || shift.IsCancelled() {
			continue
		}
		if token.EmployeeID != nil && !shift.IsOpen() {
			if shift.EmployeeID == nil || *shift.EmployeeID != *token.EmployeeID {
				continue
			}
		}
		visible = append(visible, shift)
	}

	return visible, nil
}

// RenderCalendar writes an iCalendar document for a shift set.
func RenderCalendar(siteName string, shifts []*models.Shift) string {
	var b strings.Builder

	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//staff-rota//rota feed//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "X-WR-CALNAME:"+escapeText(siteName+" rota"))

	for _, shift := range shifts {
		start, end := eventTimes(shift)

		summary := shift.Department
		if shift.Name != "" {
			summary = shift.Name
		}
		if shift.Employee != nil {
			summary += " — " + shift.Employee.FullName()
		} else if shift.IsOpen() {
			summary += " (open)"
		}
		if shift.Status == models.ShiftStatusSick {
			summary += " [sick]"
		}

		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, fmt.Sprintf("UID:shift-%d@staff-rota", shift.ID))
		writeLine(&b, "DTSTART:"+start.Format("20060102T150405"))
		writeLine(&b, "DTEND:"+end.Format("20060102T150405"))
		writeLine(&b, "SUMMARY:"+escapeText(summary))
		if shift.Notes != "" {
			writeLine(&b, "DESCRIPTION:"+escapeText(shift.Notes))
		}
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// eventTimes resolves a shift's clock strings to concrete timestamps; an
// overnight shift ends on the following calendar day.
func eventTimes(shift *models.Shift) (time.Time, time.Time) {
	day := shift.ShiftDate
	start := clockOn(day, shift.StartTime)
	end := clockOn(day, shift.EndTime)
	if shift.IsOvernight || !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

func clockOn(day time.Time, clock string) time.Time {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}

// RFC 5545 lines end with CRLF.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}
