package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jackrosenthal/myride-explorer/internal/calendar"
	"github.com/jackrosenthal/myride-explorer/internal/domain"
	"github.com/jackrosenthal/myride-explorer/internal/middleware"
)

// dayCellView is one cell of the month grid as rendered to the frontend.
// Clickable folds the "current month and not in the future" rule so the
// frontend does not re-derive it.
type dayCellView struct {
	Date           int  `json:"date"`
	BoardingCount  int  `json:"boardingCount"`
	IsCurrentMonth bool `json:"isCurrentMonth"`
	Clickable      bool `json:"clickable"`
}

// navTarget is a prev/next navigation link. Disabled is set when navigation
// would move past the current local date.
type navTarget struct {
	Date     string `json:"date"`
	Disabled bool   `json:"disabled"`
}

// monthView is the response of GET /api/history/{YYYY-MM}.
type monthView struct {
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	MonthName string        `json:"monthName"`
	Days      []dayCellView `json:"days"`
	Prev      navTarget     `json:"prev"`
	Next      navTarget     `json:"next"`
}

// boardingView is one tap event in the day-detail response, annotated with
// the viewer-local scan time.
type boardingView struct {
	domain.TapEvent
	LocalTime string `json:"localTime"`
}

// dayView is the response of GET /api/history/{YYYY-MM-DD}.
type dayView struct {
	Date      string         `json:"date"`
	Formatted string         `json:"formatted"`
	Boardings []boardingView `json:"boardings"`
	Prev      navTarget      `json:"prev"`
	Next      navTarget      `json:"next"`
}

// GetHistory handles GET /api/history.
// It renders the month containing the current local date.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	now := s.localNow()
	s.serveMonth(w, r, now.Year(), int(now.Month()))
}

// GetHistoryByDate handles GET /api/history/{date}.
// A YYYY-MM date renders the month calendar; YYYY-MM-DD renders the day
// detail. Anything else is a validation error.
func (s *Server) GetHistoryByDate(w http.ResponseWriter, r *http.Request) {
	year, month, day, hasDay, err := parseHistoryDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	if hasDay {
		s.serveDay(w, r, year, month, day)
		return
	}
	s.serveMonth(w, r, year, month)
}

// serveMonth fetches the month's tap events and renders the calendar grid.
func (s *Server) serveMonth(w http.ResponseWriter, r *http.Request, year, month int) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	events, err := s.client.GetTapHistoryForMonth(r.Context(), &sess, year, month)
	if err != nil {
		s.recordHistoryFetch("error")
		writeError(w, http.StatusBadGateway, "upstream_error", upstreamMessage(err))
		return
	}
	s.recordHistoryFetch("success")

	now := s.localNow()
	cells := calendar.BuildMonthGrid(events, year, month, s.location)
	days := make([]dayCellView, len(cells))
	for i, c := range cells {
		days[i] = dayCellView{
			Date:           c.Date,
			BoardingCount:  c.BoardingCount,
			IsCurrentMonth: c.IsCurrentMonth,
			Clickable:      c.IsCurrentMonth && !calendar.IsFutureDay(year, month, c.Date, now),
		}
	}

	prevYear, prevMonth := calendar.PrevMonth(year, month)
	nextYear, nextMonth := calendar.NextMonth(year, month)

	writeJSON(w, http.StatusOK, monthView{
		Year:      year,
		Month:     month,
		MonthName: time.Month(month).String(),
		Days:      days,
		Prev:      navTarget{Date: formatMonth(prevYear, prevMonth)},
		Next: navTarget{
			Date:     formatMonth(nextYear, nextMonth),
			Disabled: calendar.IsCurrentOrFutureMonth(year, month, now),
		},
	})
}

// serveDay fetches one day's tap events and renders them chronologically.
func (s *Server) serveDay(w http.ResponseWriter, r *http.Request, year, month, day int) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	events, err := s.client.GetTapHistoryForDay(r.Context(), &sess, year, month, day)
	if err != nil {
		s.recordHistoryFetch("error")
		writeError(w, http.StatusBadGateway, "upstream_error", upstreamMessage(err))
		return
	}
	s.recordHistoryFetch("success")

	calendar.SortEventsByTime(events)
	boardings := make([]boardingView, len(events))
	for i, ev := range events {
		boardings[i] = boardingView{
			TapEvent:  ev,
			LocalTime: ev.Time(s.location).Format("3:04:05 PM"),
		}
	}

	now := s.localNow()
	py, pm, pd := calendar.PrevDay(year, month, day, s.location)
	ny, nm, nd := calendar.NextDay(year, month, day, s.location)
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, s.location)

	writeJSON(w, http.StatusOK, dayView{
		Date:      formatDay(year, month, day),
		Formatted: date.Format("Monday, January 2, 2006"),
		Boardings: boardings,
		Prev:      navTarget{Date: formatDay(py, pm, pd)},
		Next: navTarget{
			Date:     formatDay(ny, nm, nd),
			Disabled: calendar.IsToday(year, month, day, now),
		},
	})
}

// parseHistoryDate parses a YYYY-MM or YYYY-MM-DD path segment.
func parseHistoryDate(s string) (year, month, day int, hasDay bool, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, false, fmt.Errorf("date must be YYYY-MM or YYYY-MM-DD")
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil || year < 1970 || year > 9999 {
		return 0, 0, 0, false, fmt.Errorf("invalid year %q", parts[0])
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false, fmt.Errorf("invalid month %q", parts[1])
	}
	if len(parts) == 2 {
		return year, month, 0, false, nil
	}

	day, err = strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > calendar.DaysInMonth(year, month) {
		return 0, 0, 0, false, fmt.Errorf("invalid day %q", parts[2])
	}
	return year, month, day, true, nil
}

func formatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func formatDay(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func (s *Server) recordHistoryFetch(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordHistoryFetch(outcome)
	}
}

// upstreamMessage maps client errors to the generic messages the frontend
// shows in its error banner. Transport failures get a fixed wording so no
// internal detail leaks.
func upstreamMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExchange):
		return domain.ErrTokenExchange.Error()
	case errors.Is(err, domain.ErrHistoryFetch):
		return domain.ErrHistoryFetch.Error()
	default:
		return "history service unavailable"
	}
}
