package store

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

type MemoryStore struct {
	mu         sync.RWMutex
	leads      map[string]models.Lead
	extraSales map[string]models.ExtraSale
	expenses   map[string]models.Expense
	campaigns  map[string]models.Campaign
	posts      map[string]models.Post
	followers  map[string]models.FollowerCount
	goals      map[string]models.Goal
	seen       map[string]string // idempotencia por-record: key -> ultima version
	loadedAt   time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.leads = make(map[string]models.Lead)
	s.extraSales = make(map[string]models.ExtraSale)
	s.expenses = make(map[string]models.Expense)
	s.campaigns = make(map[string]models.Campaign)
	s.posts = make(map[string]models.Post)
	s.followers = make(map[string]models.FollowerCount)
	s.goals = make(map[string]models.Goal)
	s.seen = make(map[string]string)
}

// MarkSeen records version as the latest content merged under key and
// reports whether it differs from the previous one. Only the latest version
// per key is kept, so reverting a record to older content counts as a change.
func (s *MemoryStore) MarkSeen(key, version string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.seen[key]; ok && prev == version {
		return false
	}
	s.seen[key] = version
	return true
}

// Replace swaps in a whole snapshot atomically and clears the seen keys.
func (s *MemoryStore) Replace(snap models.Snapshot, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	for _, v := range snap.Leads {
		s.leads[v.ID] = v
	}
	for _, v := range snap.ExtraSales {
		s.extraSales[v.ID] = v
	}
	for _, v := range snap.Expenses {
		s.expenses[v.ID] = v
	}
	for _, v := range snap.Campaigns {
		s.campaigns[v.ID] = v
	}
	for _, v := range snap.Posts {
		s.posts[v.ID] = v
	}
	for _, v := range snap.Followers {
		s.followers[v.ID] = v
	}
	for _, v := range snap.Goals {
		s.goals[v.ID] = v
	}
	s.loadedAt = at
}

func (s *MemoryStore) UpsertLead(l models.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[l.ID] = l
}

func (s *MemoryStore) UpsertExtraSale(v models.ExtraSale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extraSales[v.ID] = v
}

func (s *MemoryStore) UpsertExpense(v models.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[v.ID] = v
}

func (s *MemoryStore) UpsertCampaign(v models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[v.ID] = v
}

func (s *MemoryStore) UpsertPost(v models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[v.ID] = v
}

func (s *MemoryStore) UpsertFollowerCount(v models.FollowerCount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.followers[v.ID] = v
}

func (s *MemoryStore) UpsertGoal(g models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
}

// LoadedAt is the time of the last Replace, zero if nothing was loaded.
func (s *MemoryStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Snapshot returns copies of every collection ordered by ID. Lead
// sub-slices are copied too, so callers may modify the result freely.
func (s *MemoryStore) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	leads := values(s.leads, func(v models.Lead) string { return v.ID })
	for i := range leads {
		leads[i].Treatments = slices.Clone(leads[i].Treatments)
		leads[i].Procedures = slices.Clone(leads[i].Procedures)
		leads[i].FollowUps = slices.Clone(leads[i].FollowUps)
	}
	return models.Snapshot{
		Leads:      leads,
		ExtraSales: values(s.extraSales, func(v models.ExtraSale) string { return v.ID }),
		Expenses:   values(s.expenses, func(v models.Expense) string { return v.ID }),
		Campaigns:  values(s.campaigns, func(v models.Campaign) string { return v.ID }),
		Posts:      values(s.posts, func(v models.Post) string { return v.ID }),
		Followers:  values(s.followers, func(v models.FollowerCount) string { return v.ID }),
		Goals:      values(s.goals, func(v models.Goal) string { return v.ID }),
	}
}

func values[T any](m map[string]T, id func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
