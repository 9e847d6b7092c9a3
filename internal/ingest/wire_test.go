package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

const sampleDoc = `{
  "leads": [{
    "id": "l1", "name": " Ana ", "created_at": "2024-03-01",
    "appointment_at": "2024-03-15T14:30:00-05:00", "status": "Scheduled",
    "amount_paid": 100, "payment_method": "Yape",
    "treatments": [{"name": "Botox", "amount_paid": 50, "payment_method": "Tarjeta"}],
    "procedures": [{"date": "2024-03-15", "staff": "Dr. Paz", "treatment": "Botox"}],
    "follow_ups": [{"date": "2024-03-17", "bruising": true, "note": "mild"}],
    "next_call_date": "2024-03-20", "next_call_time": "09:15",
    "treatment_accepted": "Yes"
  }, {
    "name": "No id", "created_at": "not a date", "amount_paid": -5
  }],
  "extra_sales": [{"id": "s1", "date": "2024-03-02", "category": "Products", "amount_paid": 20, "payment_method": "Plin"}],
  "expenses": [{"id": "e1", "due_date": "2024-03-16", "amount_paid": 10, "debt": 200, "supplier": "Acme"}],
  "campaigns": [{"id": "c1", "date": "2024-03-01", "amount_spent": 80, "results": 4}],
  "posts": [{"id": "p1", "date": "2024-03-03", "views": 100, "comments": 3, "reactions": 7}],
  "followers": [{"id": "f1", "date": "2024-03-04", "new_followers": 12, "unfollows": 2}],
  "goals": [{"id": "g1", "name": "March services", "area": "Sales", "objective": "Sales of Services",
             "target": 5000, "unit": "count", "start_date": "2024-03-01", "end_date": "2024-03-31"}]
}`

func decodeSample(t *testing.T) models.Snapshot {
	t.Helper()
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))
	return Normalize(doc)
}

func TestNormalizeLead(t *testing.T) {
	snap := decodeSample(t)
	require.Len(t, snap.Leads, 2)

	l := snap.Leads[0]
	assert.Equal(t, "Ana", l.Name)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), l.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 15, 19, 30, 0, 0, time.UTC), l.AppointmentAt)
	assert.Equal(t, time.UTC, l.AppointmentAt.Location())
	assert.Equal(t, models.LeadScheduled, l.Status)
	assert.Equal(t, models.PaymentWallet, l.PaymentMethod)
	assert.Equal(t, models.PaymentCard, l.Treatments[0].PaymentMethod)
	assert.Equal(t, "Dr. Paz", l.Procedures[0].Staff)
	assert.True(t, l.FollowUps[0].Bruising)
	assert.Equal(t, time.Date(2024, 3, 20, 9, 15, 0, 0, time.UTC), l.NextCallAt)
	assert.Equal(t, models.AcceptanceYes, l.TreatmentAccepted)
}

func TestNormalizeDegradesBadFields(t *testing.T) {
	snap := decodeSample(t)
	bad := snap.Leads[1]

	assert.NotEmpty(t, bad.ID)
	assert.True(t, bad.CreatedAt.IsZero())
	assert.Zero(t, bad.AmountPaid)
	assert.Equal(t, models.LeadNew, bad.Status)
	assert.Equal(t, models.AcceptanceUnset, bad.TreatmentAccepted)

	again := decodeSample(t)
	assert.Equal(t, bad.ID, again.Leads[1].ID)
}

func TestNormalizeOtherCollections(t *testing.T) {
	snap := decodeSample(t)

	assert.Equal(t, models.PaymentWallet, snap.ExtraSales[0].PaymentMethod)
	assert.Equal(t, 200.0, snap.Expenses[0].Debt)
	assert.Equal(t, 4, snap.Campaigns[0].Results)
	assert.Equal(t, 7, snap.Posts[0].Reactions)
	assert.Equal(t, 12, snap.Followers[0].NewFollowers)

	g := snap.Goals[0]
	assert.Equal(t, models.ObjectiveSalesOfServices, g.Objective)
	assert.Equal(t, models.AreaSales, g.Area)
	assert.Equal(t, models.UnitCount, g.Unit)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), g.EndDate)
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ParseDate("2024-03-01"))
	assert.Equal(t, time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC), ParseDate("2024-03-01T08:05"))
	assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), ParseDate("2024-03-01T08:00:00-05:00"))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("01/03/2024").IsZero())
}

func TestParseCall(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 1, 17, 45, 0, 0, time.UTC), ParseCall("2024-03-01", "17:45"))
	assert.True(t, ParseCall("2024-03-01", "").IsZero())
	assert.True(t, ParseCall("", "10:00").IsZero())
	assert.True(t, ParseCall("2024-03-01", "25:00").IsZero())
}

func TestGeneratedIDsFollowContent(t *testing.T) {
	exp := ExpenseWire{Supplier: "Lab", DueDate: "2024-03-16", Debt: 20}
	first := Normalize(Document{Expenses: []ExpenseWire{exp}}).Expenses[0].ID
	again := Normalize(Document{Expenses: []ExpenseWire{exp}}).Expenses[0].ID
	assert.Equal(t, first, again)

	exp.Debt = 0
	edited := Normalize(Document{Expenses: []ExpenseWire{exp}}).Expenses[0].ID
	assert.NotEqual(t, first, edited, "records without an upstream id are keyed by content")

	exp.ID = "e1"
	assert.Equal(t, "e1", Normalize(Document{Expenses: []ExpenseWire{exp}}).Expenses[0].ID)
}
