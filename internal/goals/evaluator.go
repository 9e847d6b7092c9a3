// Package goals computes how far each operator-defined Goal has progressed.
// Every formula windows its own sources by the goal's [StartDate, EndDate],
// independently of any report window.
package goals

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/clinicpulse/internal/metrics"
	"github.com/AngelCh415/clinicpulse/internal/models"
	"github.com/AngelCh415/clinicpulse/internal/window"
)

// Sources are the full, unwindowed collections a goal may read.
type Sources struct {
	Leads      []models.Lead
	ExtraSales []models.ExtraSale
	Posts      []models.Post
	Followers  []models.FollowerCount
}

// Result is the achieved value of one goal. Supported is false when the
// objective has no formula; Achieved is then 0 and must not be read as
// "no progress yet".
type Result struct {
	Achieved  float64
	Supported bool
}

type formula func(w window.Window, src Sources) float64

var formulas = map[models.Objective]formula{
	models.ObjectiveSalesOfServices:     salesOfServices,
	models.ObjectiveFollowers:           followers,
	models.ObjectiveTreatmentAcceptance: treatmentAcceptance,
	models.ObjectiveEngagement:          engagement,
}

// Supported reports whether obj has a formula.
func Supported(obj models.Objective) bool {
	_, ok := formulas[obj]
	return ok
}

// Evaluate computes the achieved value of g. It does not modify g.
func Evaluate(g models.Goal, src Sources) Result {
	f, ok := formulas[g.Objective]
	if !ok {
		return Result{}
	}
	return Result{Achieved: f(Window(g), src), Supported: true}
}

// Window is the inclusive day range a goal is measured over.
func Window(g models.Goal) window.Window {
	return window.Window{From: g.StartDate, To: g.EndDate}
}

// IsActive reports whether now falls inside the goal's own window. Goals
// without both dates are never active.
func IsActive(g models.Goal, now time.Time) bool {
	if g.StartDate.IsZero() || g.EndDate.IsZero() {
		return false
	}
	return Window(g).Contains(now)
}

// Completion is achieved/target as a percentage clamped to [0,100].
func Completion(achieved, target float64) float64 {
	c := metrics.Percent(achieved, target)
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// EvaluateAll evaluates every goal, ordered by start date then ID.
func EvaluateAll(gs []models.Goal, src Sources, now time.Time) []models.GoalProgress {
	out := make([]models.GoalProgress, 0, len(gs))
	for _, g := range gs {
		r := Evaluate(g, src)
		out = append(out, models.GoalProgress{
			Goal:       g,
			Achieved:   r.Achieved,
			Supported:  r.Supported,
			Active:     IsActive(g, now),
			Completion: Completion(r.Achieved, g.Target),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Goal, out[j].Goal
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
	return out
}

func salesOfServices(w window.Window, src Sources) float64 {
	total := decimal.Zero
	for _, l := range window.Filter(src.Leads, w, window.LeadAppointment) {
		total = total.Add(metrics.Amount(l.AmountPaid))
		for _, t := range l.Treatments {
			total = total.Add(metrics.Amount(t.AmountPaid))
		}
	}
	for _, s := range window.Filter(src.ExtraSales, w, window.ExtraSaleDate) {
		if !models.IsProductsCategory(s.Category) {
			total = total.Add(metrics.Amount(s.AmountPaid))
		}
	}
	return metrics.Cents(total)
}

func followers(w window.Window, src Sources) float64 {
	net := 0
	for _, f := range window.Filter(src.Followers, w, window.FollowerDate) {
		net += f.NewFollowers - f.Unfollows
	}
	return float64(net)
}

func treatmentAcceptance(w window.Window, src Sources) float64 {
	accepted, decided := 0, 0
	for _, l := range window.Filter(src.Leads, w, window.LeadAppointment) {
		if !l.TreatmentAccepted.Decided() {
			continue
		}
		decided++
		if l.TreatmentAccepted == models.AcceptanceYes {
			accepted++
		}
	}
	return metrics.Percent(float64(accepted), float64(decided))
}

func engagement(w window.Window, src Sources) float64 {
	views, interactions := 0, 0
	for _, p := range window.Filter(src.Posts, w, window.PostDate) {
		views += max0(p.Views)
		interactions += max0(p.Comments) + max0(p.Reactions)
	}
	return metrics.Percent(float64(interactions), float64(views))
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}
