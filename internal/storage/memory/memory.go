// Package memory is an in-process Repository used by tests and the
// memory backend. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"finovo/internal/core"
	"finovo/internal/storage"
)

type Store struct {
	mu          sync.Mutex
	profiles    map[string]core.Profile
	credentials map[string]core.Credentials // by email
	expenses    map[string]row[core.Expense]
	investments map[string]row[core.Investment]
	goals       map[string]core.Goal
}

type row[T any] struct {
	value  T
	status string
}

func New() *Store {
	return &Store{
		profiles:    map[string]core.Profile{},
		credentials: map[string]core.Credentials{},
		expenses:    map[string]row[core.Expense]{},
		investments: map[string]row[core.Investment]{},
		goals:       map[string]core.Goal{},
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) GetProfile(_ context.Context, userID string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return core.Profile{}, core.ErrNotFound
	}
	p.Goals = s.goalsFor(userID)
	return p, nil
}

func (s *Store) SaveProfile(_ context.Context, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, other := range s.profiles {
		if id != p.ID && strings.EqualFold(other.Email, p.Email) {
			return core.ErrEmailTaken
		}
	}
	for _, g := range p.Goals {
		if cur, ok := s.goals[g.ID]; ok && cur.UserID != p.ID {
			return fmt.Errorf("goal %s: %w", g.ID, core.ErrNotFound)
		}
	}
	for id, g := range s.goals {
		if g.UserID == p.ID {
			delete(s.goals, id)
		}
	}
	for _, g := range p.Goals {
		g.UserID = p.ID
		if g.ID == "" {
			g.ID = core.NewID()
		}
		s.goals[g.ID] = g
	}
	p.Goals = nil
	s.profiles[p.ID] = p
	return nil
}

func (s *Store) CreateCredentials(_ context.Context, c core.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[c.Email]; ok {
		return core.ErrEmailTaken
	}
	s.credentials[c.Email] = c
	return nil
}

func (s *Store) GetCredentialsByEmail(_ context.Context, email string) (core.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credentials[email]
	if !ok {
		return core.Credentials{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) DeleteCredentials(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, c := range s.credentials {
		if c.UserID == userID {
			delete(s.credentials, email)
		}
	}
	return nil
}

// Expenses

func (s *Store) CreateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; ok {
		return fmt.Errorf("create expense: duplicate id %s", e.ID)
	}
	s.expenses[e.ID] = row[core.Expense]{value: e, status: storage.SyncPending}
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.expenses[e.ID]
	if !ok || r.value.UserID != e.UserID {
		return core.ErrNotFound
	}
	e.CreatedAt = r.value.CreatedAt
	s.expenses[e.ID] = row[core.Expense]{value: e, status: storage.SyncPending}
	return nil
}

func (s *Store) GetExpense(_ context.Context, userID, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.expenses[id]
	if !ok || r.value.UserID != userID {
		return core.Expense{}, core.ErrNotFound
	}
	return r.value, nil
}

func (s *Store) DeleteExpense(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.expenses[id]
	if !ok || r.value.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, r := range s.expenses {
		if r.value.UserID == userID {
			out = append(out, r.value)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].Date, out[j].Date, out[i].ID, out[j].ID) })
	return out, nil
}

// Investments

func (s *Store) CreateInvestment(_ context.Context, i core.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.investments[i.ID]; ok {
		return fmt.Errorf("create investment: duplicate id %s", i.ID)
	}
	s.investments[i.ID] = row[core.Investment]{value: i, status: storage.SyncPending}
	return nil
}

func (s *Store) UpdateInvestment(_ context.Context, i core.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.investments[i.ID]
	if !ok || r.value.UserID != i.UserID {
		return core.ErrNotFound
	}
	i.CreatedAt = r.value.CreatedAt
	s.investments[i.ID] = row[core.Investment]{value: i, status: storage.SyncPending}
	return nil
}

func (s *Store) GetInvestment(_ context.Context, userID, id string) (core.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.investments[id]
	if !ok || r.value.UserID != userID {
		return core.Investment{}, core.ErrNotFound
	}
	return r.value, nil
}

func (s *Store) DeleteInvestment(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.investments[id]
	if !ok || r.value.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.investments, id)
	return nil
}

func (s *Store) ListInvestments(_ context.Context, userID string) ([]core.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Investment
	for _, r := range s.investments {
		if r.value.UserID == userID {
			out = append(out, r.value)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].Date, out[j].Date, out[i].ID, out[j].ID) })
	return out, nil
}

// Goals

func (s *Store) CreateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.goals[g.ID]
	if !ok || old.UserID != g.UserID {
		return core.ErrNotFound
	}
	s.goals[g.ID] = g
	return nil
}

func (s *Store) GetGoal(_ context.Context, userID, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goalsFor(userID), nil
}

// goalsFor expects s.mu held.
func (s *Store) goalsFor(userID string) []core.Goal {
	var out []core.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Sync bookkeeping

func (s *Store) PendingSync(_ context.Context, limit int) ([]core.SyncRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.SyncRef
	for id, r := range s.expenses {
		if r.status == storage.SyncPending {
			out = append(out, core.SyncRef{Kind: core.KindExpense, ID: id, UserID: r.value.UserID, CreatedAt: r.value.CreatedAt})
		}
	}
	for id, r := range s.investments {
		if r.status == storage.SyncPending {
			out = append(out, core.SyncRef{Kind: core.KindInvestment, ID: id, UserID: r.value.UserID, CreatedAt: r.value.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) MarkSynced(_ context.Context, kind core.EntryKind, id string) error {
	return s.mark(kind, id, storage.SyncSynced)
}

func (s *Store) MarkSyncError(_ context.Context, kind core.EntryKind, id string) error {
	return s.mark(kind, id, storage.SyncError)
}

func (s *Store) mark(kind core.EntryKind, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case core.KindExpense:
		if r, ok := s.expenses[id]; ok {
			r.status = status
			s.expenses[id] = r
		}
	case core.KindInvestment:
		if r, ok := s.investments[id]; ok {
			r.status = status
			s.investments[id] = r
		}
	default:
		return fmt.Errorf("no sync table for %q", kind)
	}
	return nil
}

// SyncStatus reports the stored status of a ledger row, for tests.
func (s *Store) SyncStatus(kind core.EntryKind, id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == core.KindInvestment {
		return s.investments[id].status
	}
	return s.expenses[id].status
}

func (s *Store) DeleteUserData(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.expenses {
		if r.value.UserID == userID {
			delete(s.expenses, id)
		}
	}
	for id, r := range s.investments {
		if r.value.UserID == userID {
			delete(s.investments, id)
		}
	}
	for id, g := range s.goals {
		if g.UserID == userID {
			delete(s.goals, id)
		}
	}
	delete(s.profiles, userID)
	return nil
}

func newerFirst(a, b core.Date, idA, idB string) bool {
	if !a.Equal(b.Time) {
		return a.After(b.Time)
	}
	return idA < idB
}

var _ storage.Repository = (*Store)(nil)
