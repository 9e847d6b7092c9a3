package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestContains(t *testing.T) {
	w := Window{From: day("2024-03-01"), To: day("2024-03-31")}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start of first day", day("2024-03-01"), true},
		{"last nanosecond of last day", day("2024-04-01").Add(-time.Nanosecond), true},
		{"next day midnight", day("2024-04-01"), false},
		{"day before", day("2024-02-29").Add(23 * time.Hour), false},
		{"zero time", time.Time{}, false},
		{"offset timestamp normalized to utc", time.Date(2024, 3, 31, 20, 0, 0, 0, time.FixedZone("PET", -5*3600)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.t))
		})
	}
}

func TestContainsOpenBounds(t *testing.T) {
	assert.True(t, Open.Contains(time.Time{}))
	assert.True(t, Open.Contains(day("1999-01-01")))

	fromOnly := Window{From: day("2024-03-10")}
	assert.True(t, fromOnly.Contains(day("2030-01-01")))
	assert.False(t, fromOnly.Contains(day("2024-03-09")))
	assert.False(t, fromOnly.Contains(time.Time{}))

	toOnly := Window{To: day("2024-03-10")}
	assert.True(t, toOnly.Contains(day("2000-01-01")))
	assert.False(t, toOnly.Contains(day("2024-03-11")))
}

func TestParse(t *testing.T) {
	w, err := Parse("2024-03-01", "")
	require.NoError(t, err)
	assert.Equal(t, day("2024-03-01"), w.From)
	assert.True(t, w.To.IsZero())
	assert.Equal(t, "2024-03-01..", w.String())

	w, err = Parse(" ", "")
	require.NoError(t, err)
	assert.True(t, w.IsOpen())

	_, err = Parse("03/01/2024", "")
	assert.Error(t, err)
	_, err = Parse("", "2024-13-01")
	assert.Error(t, err)
}

func TestFilterIdentityForOpenWindow(t *testing.T) {
	leads := []models.Lead{
		{ID: "a", CreatedAt: day("2024-01-01")},
		{ID: "b"},
		{ID: "c", CreatedAt: day("2025-06-30")},
	}
	assert.Equal(t, leads, Filter(leads, Open, LeadCreated))
}

func TestFilterInvertedWindowIsEmpty(t *testing.T) {
	w := Window{From: day("2024-03-31"), To: day("2024-03-01")}
	sales := []models.ExtraSale{
		{ID: "1", Date: day("2024-03-01")},
		{ID: "2", Date: day("2024-03-15")},
		{ID: "3", Date: day("2024-03-31")},
	}
	assert.Empty(t, Filter(sales, w, ExtraSaleDate))
	assert.Empty(t, Filter([]models.Expense{{DueDate: day("2024-03-20")}}, w, ExpenseDue))
	assert.Empty(t, Filter([]models.Post{{Date: day("2024-03-20")}}, w, PostDate))
}

func TestFilterUsesSelector(t *testing.T) {
	w := Window{From: day("2024-03-01"), To: day("2024-03-31")}
	leads := []models.Lead{
		{ID: "created-in", CreatedAt: day("2024-03-05"), AppointmentAt: day("2024-04-02")},
		{ID: "appointment-in", CreatedAt: day("2024-02-20"), AppointmentAt: day("2024-03-20")},
		{ID: "no-appointment", CreatedAt: day("2024-03-07")},
	}

	ids := func(ls []models.Lead) []string {
		var out []string
		for _, l := range ls {
			out = append(out, l.ID)
		}
		return out
	}
	assert.Equal(t, []string{"created-in", "no-appointment"}, ids(Filter(leads, w, LeadCreated)))
	assert.Equal(t, []string{"appointment-in"}, ids(Filter(leads, w, LeadAppointment)))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, a.Add(23*time.Hour+59*time.Minute)))
	assert.False(t, SameDay(a, a.Add(24*time.Hour)))
	assert.False(t, SameDay(time.Time{}, time.Time{}))
	assert.Equal(t, a.Add(24*time.Hour-time.Nanosecond), EndOfDay(a.Add(5*time.Hour)))
}
