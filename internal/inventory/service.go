package inventory

import "context"

// Repository maps each operation onto a single storage statement.
type Repository interface {
	// List returns at most ListLimit rows in storage order.
	List(ctx context.Context) ([]Equipment, error)
	// Create inserts f and returns the storage-assigned id.
	Create(ctx context.Context, f Fields) (int64, error)
	// Update replaces every mutable column of row id and returns the affected-row count.
	Update(ctx context.Context, id int64, f Fields) (int64, error)
	// Delete removes row id and returns the affected-row count (0 when absent).
	Delete(ctx context.Context, id int64) (int64, error)
}

// Reporter runs the read-only grouped count queries behind the dashboard.
type Reporter interface {
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	StatusCounts(ctx context.Context) ([]StatusCount, error)
	Summary(ctx context.Context) (Summary, error)
	Counts(ctx context.Context) (Counts, error)
}

// Store is satisfied by backends serving both interfaces.
type Store interface {
	Repository
	Reporter
}
