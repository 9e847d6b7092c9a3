// Package report wires the metrics, goals and notify engines to a snapshot.
package report

import (
	"time"

	"github.com/AngelCh415/clinicpulse/internal/goals"
	"github.com/AngelCh415/clinicpulse/internal/metrics"
	"github.com/AngelCh415/clinicpulse/internal/models"
	"github.com/AngelCh415/clinicpulse/internal/notify"
	"github.com/AngelCh415/clinicpulse/internal/window"
)

// Summary windows snap by w and aggregates it. Revenue-side figures use the
// leads whose appointment falls in w; the funnel uses the leads created in w.
func Summary(snap models.Snapshot, w window.Window) models.Summary {
	sum := metrics.Summarize(metrics.Input{
		SalesLeads:  window.Filter(snap.Leads, w, window.LeadAppointment),
		FunnelLeads: window.Filter(snap.Leads, w, window.LeadCreated),
		ExtraSales:  window.Filter(snap.ExtraSales, w, window.ExtraSaleDate),
		Expenses:    window.Filter(snap.Expenses, w, window.ExpenseDue),
		Campaigns:   window.Filter(snap.Campaigns, w, window.CampaignDate),
		Posts:       window.Filter(snap.Posts, w, window.PostDate),
		Followers:   window.Filter(snap.Followers, w, window.FollowerDate),
	})
	sum.From, sum.To = w.FromString(), w.ToString()
	return sum
}

// Goals evaluates every goal of snap against the full collections.
func Goals(snap models.Snapshot, now time.Time) []models.GoalProgress {
	return goals.EvaluateAll(snap.Goals, goals.Sources{
		Leads:      snap.Leads,
		ExtraSales: snap.ExtraSales,
		Posts:      snap.Posts,
		Followers:  snap.Followers,
	}, now)
}

// Notifications scans snap relative to now.
func Notifications(snap models.Snapshot, now time.Time) []models.NotificationEvent {
	return notify.Scan(notify.Sources{Leads: snap.Leads, Expenses: snap.Expenses}, now)
}
