package domain

import (
	"context"
	"fmt"
)

// LoadOutcome reports how an adapter obtained the dataset it returned. It lets
// the caller tell a genuine first run apart from a destructive reseed instead
// of conflating every recovery path with "start fresh".
type LoadOutcome string

// Load outcomes.
const (
	// OutcomeLoaded means stored data matched the schema stamp and was
	// returned as-is.
	OutcomeLoaded LoadOutcome = "loaded"
	// OutcomeFreshSeed means the backend had never been initialized.
	OutcomeFreshSeed LoadOutcome = "fresh_seed"
	// OutcomeStaleReseed means a stored stamp mismatched SchemaVersion and
	// the prior dataset was discarded.
	OutcomeStaleReseed LoadOutcome = "stale_reseed"
	// OutcomeCorruptReseed means the stored payload could not be decoded and
	// was discarded.
	OutcomeCorruptReseed LoadOutcome = "corrupt_reseed"
)

// LoadReport accompanies every successful LoadDataset call.
type LoadReport struct {
	Outcome LoadOutcome `json:"outcome"`
	// StoredVersion is the stamp found before loading; zero when absent.
	StoredVersion int `json:"storedVersion"`
}

// Adapter is the two-method capability set every storage backend implements.
// LoadDataset performs its own first-run and stale-version seeding; it errors
// only when the backend itself is unusable. PersistDataset replaces the entire
// stored representation atomically within the backend's own unit of work:
// one transaction for the multi-collection backend, one key write for the
// flat backend. Cross-backend atomicity is not provided.
type Adapter interface {
	LoadDataset(ctx context.Context) (Dataset, LoadReport, error)
	PersistDataset(ctx context.Context, dataset Dataset) error
}

// SeedFunc produces the deterministic baseline dataset used for first-run
// initialization and forced reseeds.
type SeedFunc func() Dataset

// NotFoundError is returned when a referenced record does not exist in its
// collection.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Collection, e.ID)
}
