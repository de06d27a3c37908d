package inventory

import (
	"context"
	"sort"
	"sync"
)

// InMemory implements Store with in-process concurrency safety.
// Used when no database DSN is configured and in tests.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]Fields
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[int64]Fields)}
}

func (s *InMemory) List(ctx context.Context) ([]Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDs()
	if len(ids) > ListLimit {
		ids = ids[:ListLimit]
	}

	out := make([]Equipment, 0, len(ids))
	for _, id := range ids {
		out = append(out, Equipment{ID: id, Fields: cloneFields(s.rows[id])})
	}
	return out, nil
}

func (s *InMemory) Create(ctx context.Context, f Fields) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.rows[s.nextID] = cloneFields(f.Normalize())
	return s.nextID, nil
}

func (s *InMemory) Update(ctx context.Context, id int64, f Fields) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return 0, nil
	}
	s.rows[id] = cloneFields(f.Normalize())
	return 1, nil
}

func (s *InMemory) Delete(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func (s *InMemory) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	var order []string
	for _, id := range s.sortedIDs() {
		t := s.rows[id].Type
		if _, seen := counts[t]; !seen {
			order = append(order, t)
		}
		counts[t]++
	}
	out := make([]CategoryCount, 0, len(order))
	for _, t := range order {
		out = append(out, CategoryCount{Category: t, Count: counts[t]})
	}
	return out, nil
}

func (s *InMemory) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Status]int64)
	var order []Status
	for _, id := range s.sortedIDs() {
		st := s.rows[id].Status
		if _, seen := counts[st]; !seen {
			order = append(order, st)
		}
		counts[st]++
	}
	out := make([]StatusCount, 0, len(order))
	for _, st := range order {
		out = append(out, StatusCount{Status: st, Count: counts[st]})
	}
	return out, nil
}

func (s *InMemory) Summary(ctx context.Context) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{Total: int64(len(s.rows))}, nil
}

func (s *InMemory) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var discard int64
	for _, f := range s.rows {
		if f.Status.IsDiscard() {
			discard++
		}
	}
	return NewCounts(int64(len(s.rows)), discard), nil
}

// sortedIDs must be called with mu held.
func (s *InMemory) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneFields(f Fields) Fields {
	out := f
	if f.AssetTag != nil {
		v := *f.AssetTag
		out.AssetTag = &v
	}
	if f.SerialNumber != nil {
		v := *f.SerialNumber
		out.SerialNumber = &v
	}
	if f.LocationID != nil {
		v := *f.LocationID
		out.LocationID = &v
	}
	if f.RegisteredOn != nil {
		v := *f.RegisteredOn
		out.RegisteredOn = &v
	}
	if f.Note != nil {
		v := *f.Note
		out.Note = &v
	}
	return out
}
