package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/theglobal/uren-backend-go/internal/domain/clocksession"
)

// ClockSessionRepository is an in-process session ledger. One mutex guards the
// open-session check and the insert, which makes Append atomic.
type ClockSessionRepository struct {
	mu        sync.RWMutex
	sessions  map[string]clocksession.Session
	positions *PositionLogRepository
}

// NewClockSessionRepository returns a ledger; deleting a session also drops its
// pings from positions when positions is not nil.
func NewClockSessionRepository(positions *PositionLogRepository) *ClockSessionRepository {
	return &ClockSessionRepository{
		sessions:  make(map[string]clocksession.Session),
		positions: positions,
	}
}

var _ clocksession.Repository = (*ClockSessionRepository)(nil)

func (r *ClockSessionRepository) FindOpen(ctx context.Context, workerID string) (*clocksession.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.findOpenLocked(workerID); ok {
		return &s, nil
	}
	return nil, nil
}

func (r *ClockSessionRepository) Append(ctx context.Context, s clocksession.Session) (clocksession.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findOpenLocked(s.WorkerID); ok {
		return clocksession.Session{}, clocksession.ErrAlreadyClockedIn
	}
	r.sessions[s.ID] = s
	return s, nil
}

func (r *ClockSessionRepository) GetByID(ctx context.Context, id string) (clocksession.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return clocksession.Session{}, clocksession.ErrSessionNotFound
	}
	return s, nil
}

func (r *ClockSessionRepository) Close(ctx context.Context, s clocksession.Session) (clocksession.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[s.ID]
	if !ok {
		return clocksession.Session{}, clocksession.ErrSessionNotFound
	}
	if stored.Status != clocksession.StatusOpen {
		return clocksession.Session{}, clocksession.ErrAlreadyClosed
	}
	r.sessions[s.ID] = s
	return s, nil
}

func (r *ClockSessionRepository) List(ctx context.Context, filter clocksession.SessionFilter) ([]clocksession.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]clocksession.Session, 0)
	for _, s := range r.sessions {
		if filter.WorkerID != nil && s.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if !inRange(s.OpenedAt, filter.OpenedFrom, filter.OpenedTo) {
			continue
		}
		result = append(result, s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].OpenedAt.Equal(result[j].OpenedAt) {
			return result[i].OpenedAt.After(result[j].OpenedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *ClockSessionRepository) ListClosed(ctx context.Context, filter clocksession.AggregateFilter) ([]clocksession.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sites := toSet(filter.SiteIDs)
	workers := toSet(filter.WorkerIDs)

	result := make([]clocksession.Session, 0)
	for _, s := range r.sessions {
		if s.Status != clocksession.StatusClosed {
			continue
		}
		if len(sites) > 0 && !sites[s.SiteID] {
			continue
		}
		if len(workers) > 0 && !workers[s.WorkerID] {
			continue
		}
		if !inRange(s.OpenedAt, filter.OpenedFrom, filter.OpenedTo) {
			continue
		}
		result = append(result, s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return sessionOrder(result[i], result[j])
	})
	return result, nil
}

func (r *ClockSessionRepository) ListStaleOpen(ctx context.Context, openedBefore time.Time) ([]clocksession.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]clocksession.Session, 0)
	for _, s := range r.sessions {
		if s.Status == clocksession.StatusOpen && s.OpenedAt.Before(openedBefore) {
			result = append(result, s)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return sessionOrder(result[i], result[j])
	})
	return result, nil
}

func (r *ClockSessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return clocksession.ErrSessionNotFound
	}
	delete(r.sessions, id)
	if r.positions != nil {
		r.positions.deleteBySession(id)
	}
	return nil
}

func (r *ClockSessionRepository) findOpenLocked(workerID string) (clocksession.Session, bool) {
	for _, s := range r.sessions {
		if s.WorkerID == workerID && s.Status == clocksession.StatusOpen {
			return s, true
		}
	}
	return clocksession.Session{}, false
}

// PositionLogRepository keeps GPS pings per session in insertion order.
type PositionLogRepository struct {
	mu        sync.RWMutex
	bySession map[string][]clocksession.PositionLog
}

func NewPositionLogRepository() *PositionLogRepository {
	return &PositionLogRepository{bySession: make(map[string][]clocksession.PositionLog)}
}

var _ clocksession.PositionLogRepository = (*PositionLogRepository)(nil)

func (r *PositionLogRepository) Append(ctx context.Context, p clocksession.PositionLog) (clocksession.PositionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bySession[p.SessionID] = append(r.bySession[p.SessionID], p)
	return p, nil
}

func (r *PositionLogRepository) ListBySession(ctx context.Context, sessionID string) ([]clocksession.PositionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := r.bySession[sessionID]
	result := make([]clocksession.PositionLog, len(logs))
	copy(result, logs)
	return result, nil
}

func (r *PositionLogRepository) deleteBySession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bySession, sessionID)
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// sessionOrder orders sessions by opening time, then id, matching the SQL ledger.
func sessionOrder(a, b clocksession.Session) bool {
	if !a.OpenedAt.Equal(b.OpenedAt) {
		return a.OpenedAt.Before(b.OpenedAt)
	}
	return a.ID < b.ID
}
