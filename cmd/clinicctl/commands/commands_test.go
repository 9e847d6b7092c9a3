package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

const snapshotJSON = `{
  "leads": [
    {"id": "l1", "name": "Ana", "phone": "999111222", "status": "Agendado",
     "created_at": "2024-03-15T08:00:00Z", "appointment_at": "2024-03-15T16:30:00Z",
     "amount_paid": 120, "payment_method": "Yape",
     "next_call_date": "2024-03-15", "next_call_time": "10:10"}
  ],
  "expenses": [
    {"id": "e1", "supplier": "Lab", "due_date": "2024-03-16", "amount_paid": 40, "debt": 25}
  ],
  "goals": [
    {"id": "g1", "objective": "sales_of_services", "target": 240, "start_date": "2024-03-01", "end_date": "2024-03-31"},
    {"id": "g2", "objective": "new_leads", "target": 10, "start_date": "2024-02-01", "end_date": "2024-02-29"}
  ]
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodeSnapshot(t *testing.T) {
	snap, err := decodeSnapshot(strings.NewReader(snapshotJSON))
	require.NoError(t, err)
	require.Len(t, snap.Leads, 1)
	assert.Equal(t, models.PaymentWallet, snap.Leads[0].PaymentMethod)
	assert.Equal(t, models.LeadScheduled, snap.Leads[0].Status)
	assert.Len(t, snap.Goals, 2)

	_, err = decodeSnapshot(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestSummaryCommand(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "summary", "--snapshot", path, "--from", "2024-03-15", "--to", "2024-03-15")
	require.NoError(t, err)

	var sum models.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, "2024-03-15", sum.From)
	assert.Equal(t, 120.0, sum.TotalSales)
	assert.Equal(t, 120.0, sum.SalesByPaymentMethod[models.PaymentWallet])
	assert.Zero(t, sum.TotalExpenses)

	_, err = run(t, "summary", "--snapshot", path, "--from", "yesterday")
	assert.Error(t, err)
}

func TestGoalsCommand(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "goals", "--snapshot", path, "--now", "2024-03-15T10:00:00Z", "--active")
	require.NoError(t, err)

	var rows []models.GoalProgress
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "g1", rows[0].Goal.ID)
	assert.Equal(t, 120.0, rows[0].Achieved)
	assert.Equal(t, 50.0, rows[0].Completion)
}

func TestNotificationsCommand(t *testing.T) {
	path := writeSnapshot(t)
	out, err := run(t, "notifications", "--snapshot", path, "--now", "2024-03-15T10:00:00Z", "--type", "call_reminder,payment_due")
	require.NoError(t, err)

	var events []models.NotificationEvent
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 2)
	assert.Equal(t, models.NotifyPaymentDue, events[0].Type)
	assert.Equal(t, models.NotifyCallReminder, events[1].Type)
	assert.Equal(t, "Call Ana in 10 minutes", events[1].Message)

	_, err = run(t, "notifications", "--snapshot", path, "--now", "someday")
	assert.Error(t, err)
}

func TestMissingSnapshot(t *testing.T) {
	_, err := run(t, "goals", "--snapshot", filepath.Join(t.TempDir(), "absent.json"), "--now", "2024-03-15")
	assert.Error(t, err)
}
