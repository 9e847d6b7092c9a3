package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

func TestMarkSeen(t *testing.T) {
	st := NewMemoryStore()
	assert.True(t, st.MarkSeen("lead|1", "v1"))
	assert.False(t, st.MarkSeen("lead|1", "v1"))
	assert.True(t, st.MarkSeen("lead|2", "v1"))

	assert.True(t, st.MarkSeen("lead|1", "v2"))
	assert.True(t, st.MarkSeen("lead|1", "v1"), "reverting to older content is a change")
	assert.False(t, st.MarkSeen("lead|1", "v1"))

	st.Replace(models.Snapshot{}, time.Now())
	assert.True(t, st.MarkSeen("lead|2", "v1"), "replace clears seen keys")
}

func TestReplaceAndSnapshot(t *testing.T) {
	st := NewMemoryStore()
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st.Replace(models.Snapshot{
		Leads:    []models.Lead{{ID: "b"}, {ID: "a"}, {ID: "b", Name: "dup wins last"}},
		Expenses: []models.Expense{{ID: "e1"}},
		Goals:    []models.Goal{{ID: "g1"}},
	}, at)

	snap := st.Snapshot()
	require.Len(t, snap.Leads, 2)
	assert.Equal(t, "a", snap.Leads[0].ID)
	assert.Equal(t, "dup wins last", snap.Leads[1].Name)
	assert.Len(t, snap.Expenses, 1)
	assert.Len(t, snap.Goals, 1)
	assert.Empty(t, snap.Posts)
	assert.Equal(t, at, st.LoadedAt())
}

func TestSnapshotCopiesLeadSlices(t *testing.T) {
	st := NewMemoryStore()
	st.UpsertLead(models.Lead{
		ID:         "l1",
		Treatments: []models.Treatment{{Name: "peeling", AmountPaid: 50}},
		Procedures: []models.Procedure{{Staff: "dra. ruiz"}},
		FollowUps:  []models.FollowUp{{Note: "ok"}},
	})

	snap := st.Snapshot()
	snap.Leads[0].Treatments[0].AmountPaid = 0
	snap.Leads[0].Procedures[0].Staff = ""
	snap.Leads[0].FollowUps[0].Headache = true

	again := st.Snapshot().Leads[0]
	assert.Equal(t, 50.0, again.Treatments[0].AmountPaid)
	assert.Equal(t, "dra. ruiz", again.Procedures[0].Staff)
	assert.False(t, again.FollowUps[0].HasComplication())
}

func TestUpserts(t *testing.T) {
	st := NewMemoryStore()
	st.UpsertLead(models.Lead{ID: "l1", AmountPaid: 1})
	st.UpsertLead(models.Lead{ID: "l1", AmountPaid: 2})
	st.UpsertExtraSale(models.ExtraSale{ID: "s1"})
	st.UpsertExpense(models.Expense{ID: "e1"})
	st.UpsertCampaign(models.Campaign{ID: "c1"})
	st.UpsertPost(models.Post{ID: "p1"})
	st.UpsertFollowerCount(models.FollowerCount{ID: "f1"})
	st.UpsertGoal(models.Goal{ID: "g1"})

	snap := st.Snapshot()
	require.Len(t, snap.Leads, 1)
	assert.Equal(t, 2.0, snap.Leads[0].AmountPaid)
	assert.Len(t, snap.ExtraSales, 1)
	assert.Len(t, snap.Campaigns, 1)
	assert.Len(t, snap.Posts, 1)
	assert.Len(t, snap.Followers, 1)
	assert.True(t, st.LoadedAt().IsZero())
}

func TestConcurrentAccess(t *testing.T) {
	st := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			st.UpsertLead(models.Lead{ID: string(rune('a' + i))})
		}(i)
		go func() {
			defer wg.Done()
			_ = st.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, st.Snapshot().Leads, 8)
}
