// Package notify scans entity collections against fixed rules relative to
// the current time and emits alert events.
package notify

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/clinicpulse/internal/models"
	"github.com/AngelCh415/clinicpulse/internal/window"
)

const (
	PageExpenses = "expenses"
	PagePatients = "patients"
	PageLeads    = "leads"
	PageCalendar = "calendar"
	PageCalls    = "calls"
)

const (
	paymentDueDays     = 2
	complicationDays   = 7
	callLeadMinutes    = 30
	callOverdueMinutes = 120
)

// eventNamespace seeds the name-based UUIDs so that scanning the same
// records twice yields the same event IDs.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("clinicpulse/notifications"))

type Sources struct {
	Leads    []models.Lead
	Expenses []models.Expense
}

type rule func(src Sources, now time.Time) []models.NotificationEvent

var rules = []rule{
	paymentDue,
	patientComplications,
	newLeads,
	appointmentsToday,
	callReminders,
}

// Scan runs every rule and returns the events newest first. Records missing
// a date a rule needs are skipped by that rule only.
func Scan(src Sources, now time.Time) []models.NotificationEvent {
	now = now.UTC()
	var out []models.NotificationEvent
	for _, r := range rules {
		out = append(out, r(src, now)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func event(typ models.NotificationType, ref string, ordinal int, page string, now time.Time, msg, detail string) models.NotificationEvent {
	key := string(typ) + "|" + ref + "|" + strconv.Itoa(ordinal) + "|" + now.Format(window.DateLayout)
	return models.NotificationEvent{
		ID:        uuid.NewSHA1(eventNamespace, []byte(key)).String(),
		Type:      typ,
		Message:   msg,
		Detail:    detail,
		RefID:     ref,
		Page:      page,
		Timestamp: now,
		Read:      false,
	}
}

func paymentDue(src Sources, now time.Time) []models.NotificationEvent {
	w := window.Days(now, now.AddDate(0, 0, paymentDueDays))
	var out []models.NotificationEvent
	for _, e := range src.Expenses {
		if e.Debt <= 0 || math.IsNaN(e.Debt) || !w.Contains(e.DueDate) {
			continue
		}
		msg := fmt.Sprintf("Payment to %s due %s", orDefault(e.Supplier, "supplier"), e.DueDate.UTC().Format(window.DateLayout))
		detail := fmt.Sprintf("Outstanding debt: %.2f", e.Debt)
		out = append(out, event(models.NotifyPaymentDue, e.ID, 0, PageExpenses, now, msg, detail))
	}
	return out
}

func patientComplications(src Sources, now time.Time) []models.NotificationEvent {
	w := window.Days(now.AddDate(0, 0, -complicationDays), now)
	var out []models.NotificationEvent
	for _, l := range src.Leads {
		for i, f := range l.FollowUps {
			if !f.HasComplication() || !w.Contains(f.Date) {
				continue
			}
			msg := fmt.Sprintf("%s reported complications", orDefault(l.Name, "Patient"))
			detail := strings.Join(f.Symptoms(), ", ")
			if f.Note != "" {
				detail += ": " + f.Note
			}
			out = append(out, event(models.NotifyPatientComplication, l.ID, i, PagePatients, now, msg, detail))
		}
	}
	return out
}

func newLeads(src Sources, now time.Time) []models.NotificationEvent {
	var out []models.NotificationEvent
	for _, l := range src.Leads {
		if !window.SameDay(l.CreatedAt, now) {
			continue
		}
		msg := fmt.Sprintf("New lead: %s", orDefault(l.Name, l.ID))
		out = append(out, event(models.NotifyNewLead, l.ID, 0, PageLeads, now, msg, l.Phone))
	}
	return out
}

func appointmentsToday(src Sources, now time.Time) []models.NotificationEvent {
	var out []models.NotificationEvent
	for _, l := range src.Leads {
		if !window.SameDay(l.AppointmentAt, now) {
			continue
		}
		msg := fmt.Sprintf("Appointment today: %s", orDefault(l.Name, l.ID))
		detail := "at " + l.AppointmentAt.UTC().Format("15:04")
		out = append(out, event(models.NotifyAppointmentToday, l.ID, 0, PageCalendar, now, msg, detail))
	}
	return out
}

func callReminders(src Sources, now time.Time) []models.NotificationEvent {
	var out []models.NotificationEvent
	for _, l := range src.Leads {
		if l.NextCallAt.IsZero() {
			continue
		}
		diff := DiffMinutes(l.NextCallAt, now)
		if diff < -callOverdueMinutes || diff > callLeadMinutes {
			continue
		}
		var msg string
		if diff > 0 {
			msg = fmt.Sprintf("Call %s in %d minutes", orDefault(l.Name, l.ID), diff)
		} else {
			msg = fmt.Sprintf("Call to %s overdue by %d minutes", orDefault(l.Name, l.ID), -diff)
		}
		out = append(out, event(models.NotifyCallReminder, l.ID, 0, PageCalls, now, msg, l.Phone))
	}
	return out
}

// DiffMinutes is the whole number of minutes from now until t, rounded
// toward negative infinity.
func DiffMinutes(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Minutes()))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
