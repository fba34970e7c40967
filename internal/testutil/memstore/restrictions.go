// Package memstore holds in-memory implementations of the storage contracts for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/infra/storage/restriction"
)

// Restrictions is an in-memory restriction store with the same filter semantics as the SQL repository
type Restrictions struct {
	mu     sync.Mutex
	seq    int
	rows   map[string]*domain.Restriction
	order  []string
	FailOn string // method name that returns an error, for failure-path tests
}

// NewRestrictions creates a store seeded with rows; ids are assigned when empty
func NewRestrictions(seed ...*domain.Restriction) *Restrictions {
	s := &Restrictions{rows: make(map[string]*domain.Restriction)}
	for _, r := range seed {
		s.insert(r.Clone())
	}
	return s
}

func (s *Restrictions) insert(r *domain.Restriction) *domain.Restriction {
	r.Normalize()
	if r.ID == "" {
		s.seq++
		r.ID = fmt.Sprintf("r%d", s.seq)
	}
	s.rows[r.ID] = r
	s.order = append(s.order, r.ID)
	return r
}

type snapshot struct {
	seq   int
	rows  map[string]*domain.Restriction
	order []string
}

func (s *Restrictions) snapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &snapshot{seq: s.seq, rows: make(map[string]*domain.Restriction, len(s.rows)), order: append([]string(nil), s.order...)}
	for id, r := range s.rows {
		snap.rows[id] = r.Clone()
	}
	return snap
}

func (s *Restrictions) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq, s.rows, s.order = snap.seq, snap.rows, snap.order
}

func (s *Restrictions) fail(method string) error {
	if s.FailOn == method {
		return fmt.Errorf("%w: %s - injected failure", restriction.ErrExecQuery, method)
	}
	return nil
}

// All returns a copy of every stored row in insertion order
func (s *Restrictions) All() []*domain.Restriction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Restriction, 0, len(s.rows))
	for _, id := range s.order {
		if r, ok := s.rows[id]; ok {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (s *Restrictions) GetByID(_ context.Context, hotelID, id string) (*domain.Restriction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("GetByID"); err != nil {
		return nil, err
	}
	r, ok := s.rows[id]
	if !ok || r.HotelID != hotelID {
		return nil, restriction.ErrRestrictionNotFound
	}
	return r.Clone(), nil
}

func (s *Restrictions) Find(_ context.Context, filter domain.RestrictionFilter) ([]*domain.Restriction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("Find"); err != nil {
		return nil, err
	}
	if filter.HotelID == "" {
		return nil, restriction.ErrInvalidFilter
	}

	out := make([]*domain.Restriction, 0)
	for _, id := range s.order {
		r, ok := s.rows[id]
		if !ok || !matches(r, filter) {
			continue
		}
		out = append(out, r.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].FromDate.Before(out[j].FromDate) })
	return out, nil
}

func (s *Restrictions) CreateBatch(_ context.Context, rows []*domain.Restriction) ([]*domain.Restriction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("CreateBatch"); err != nil {
		return nil, err
	}
	for _, r := range rows {
		r.ID = ""
		stored := s.insert(r.Clone())
		r.ID = stored.ID
	}
	return rows, nil
}

func (s *Restrictions) DeleteByIDs(_ context.Context, hotelID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("DeleteByIDs"); err != nil {
		return err
	}
	for _, id := range ids {
		if r, ok := s.rows[id]; ok && r.HotelID == hotelID {
			delete(s.rows, id)
		}
	}
	return nil
}

func (s *Restrictions) Persist(ctx context.Context, hotelID string, toCreate []*domain.Restriction, removeIDs []string) ([]*domain.Restriction, error) {
	if err := s.DeleteByIDs(ctx, hotelID, removeIDs); err != nil {
		return nil, err
	}
	return s.CreateBatch(ctx, toCreate)
}

func matches(r *domain.Restriction, f domain.RestrictionFilter) bool {
	if r.HotelID != f.HotelID {
		return false
	}
	if f.To != nil && r.FromDate.After(domain.DateOnly(*f.To)) {
		return false
	}
	if f.From != nil && r.ToDate.Before(domain.DateOnly(*f.From)) {
		return false
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == r.Type {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if len(f.RoomProductIDs) > 0 && !anyShared(r.RoomProductIDs, f.RoomProductIDs) {
		return false
	}
	if len(f.RatePlanIDs) > 0 && !anyShared(r.RatePlanIDs, f.RatePlanIDs) {
		return false
	}
	if f.ExactScope {
		if !domain.SameIDSet(r.RoomProductIDs, f.ScopeRoomProductIDs) || !domain.SameIDSet(r.RatePlanIDs, f.ScopeRatePlanIDs) {
			return false
		}
	}
	if len(f.Levels) > 0 {
		found := false
		for _, l := range f.Levels {
			if l == r.Level() {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func anyShared(a, b []string) bool {
	for _, id := range a {
		if domain.ContainsID(b, id) {
			return true
		}
	}
	return false
}
