package window

import (
	"time"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

// Selector picks the date a record is windowed by.
type Selector[T any] func(T) time.Time

// Filter returns the records whose selected date is inside w, preserving
// order. The open window returns records unchanged.
func Filter[T any](records []T, w Window, sel Selector[T]) []T {
	if w.IsOpen() {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if w.Contains(sel(r)) {
			out = append(out, r)
		}
	}
	return out
}

func LeadCreated(l models.Lead) time.Time           { return l.CreatedAt }
func LeadAppointment(l models.Lead) time.Time       { return l.AppointmentAt }
func ExtraSaleDate(s models.ExtraSale) time.Time    { return s.Date }
func ExpenseDue(e models.Expense) time.Time         { return e.DueDate }
func CampaignDate(c models.Campaign) time.Time      { return c.Date }
func PostDate(p models.Post) time.Time              { return p.Date }
func FollowerDate(f models.FollowerCount) time.Time { return f.Date }
