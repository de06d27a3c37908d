package client

import (
	"strings"

	"dtiestoque.org/internal/inventory"
)

// Filter is the client-side narrowing of the cached list. Zero values match everything.
type Filter struct {
	Search     string
	Status     inventory.Status
	LocationID *int64
}

// IsZero reports whether f matches every row.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Status == "" && f.LocationID == nil
}

// Matches ANDs the search, status and location predicates.
func (f Filter) Matches(eq inventory.Equipment) bool {
	return f.matchesSearch(eq) && f.matchesStatus(eq) && f.matchesLocation(eq)
}

func (f Filter) matchesSearch(eq inventory.Equipment) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	for _, field := range []string{eq.Type, eq.Brand, eq.Model, deref(eq.AssetTag), deref(eq.SerialNumber)} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (f Filter) matchesStatus(eq inventory.Equipment) bool {
	return f.Status == "" || eq.Status == f.Status
}

func (f Filter) matchesLocation(eq inventory.Equipment) bool {
	if f.LocationID == nil {
		return true
	}
	return eq.LocationID != nil && *eq.LocationID == *f.LocationID
}

// ApplyFilter returns the rows of all matching f, in their original order.
// all is never modified.
func ApplyFilter(all []inventory.Equipment, f Filter) []inventory.Equipment {
	out := make([]inventory.Equipment, 0, len(all))
	for _, eq := range all {
		if f.Matches(eq) {
			out = append(out, eq)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
