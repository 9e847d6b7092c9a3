package report

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/clinicpulse/internal/models"
	"github.com/AngelCh415/clinicpulse/internal/store"
	"github.com/AngelCh415/clinicpulse/internal/telemetry"
	"github.com/AngelCh415/clinicpulse/internal/window"
)

type Service struct {
	st  *store.MemoryStore
	tm  *telemetry.Metrics
	now func() time.Time
}

func NewService(st *store.MemoryStore, tm *telemetry.Metrics) *Service {
	return &Service{st: st, tm: tm, now: time.Now}
}

// WithClock replaces the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func csvSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

// QuerySummary reads from/to (YYYY-MM-DD, either may be empty).
func (s *Service) QuerySummary(v url.Values) (models.Summary, error) {
	w, err := window.Parse(v.Get("from"), v.Get("to"))
	if err != nil {
		return models.Summary{}, err
	}
	return s.Summary(w), nil
}

func (s *Service) Summary(w window.Window) models.Summary {
	defer s.tm.Observe("summary", time.Now())
	return Summary(s.st.Snapshot(), w)
}

// QueryGoals lists goal progress; active=true keeps only goals whose window
// contains now.
func (s *Service) QueryGoals(v url.Values) ([]models.GoalProgress, error) {
	defer s.tm.Observe("goals", time.Now())
	rows := Goals(s.st.Snapshot(), s.now())

	unsupported := 0
	for _, r := range rows {
		if !r.Supported {
			unsupported++
		}
	}
	s.tm.UnsupportedGoals(unsupported)

	if active, _ := strconv.ParseBool(v.Get("active")); active {
		out := rows[:0]
		for _, r := range rows {
			if r.Active {
				out = append(out, r)
			}
		}
		rows = out
	}
	return rows, nil
}

// Scan runs the notification rules over the stored snapshot.
func (s *Service) Scan() []models.NotificationEvent {
	defer s.tm.Observe("notifications", time.Now())
	events := Notifications(s.st.Snapshot(), s.now())
	s.tm.Notifications(events)
	return events
}

// QueryNotifications filters by type (comma separated) and pages the result.
func (s *Service) QueryNotifications(v url.Values) ([]models.NotificationEvent, error) {
	types := csvSet(v.Get("type"))
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)

	events := s.Scan()
	if len(types) > 0 {
		out := events[:0]
		for _, e := range events {
			if _, ok := types[string(e.Type)]; ok {
				out = append(out, e)
			}
		}
		events = out
	}
	limit, offset = clampLimitOffset(limit, offset, len(events))
	return paginate(events, limit, offset), nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
