// Package snapshot implements the flat fallback persistence adapter: the
// entire dataset serialized as one JSON payload under a single blob key, plus
// a second key holding only the schema version stamp. It is the backend of
// last resort when the transactional adapter cannot initialize.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"sync"

	"ascenda/internal/infra/blob"
	"ascenda/pkg/domain"
)

// DefaultPrefix namespaces the two storage keys when no app prefix is given.
const DefaultPrefix = "ascenda"

// StorageFault is returned when the underlying blob backend itself fails
// (as opposed to a corrupt payload, which is recovered by reseeding).
type StorageFault struct {
	Op  string
	Key string
	Err error
}

func (f *StorageFault) Error() string {
	return fmt.Sprintf("snapshot %s %s: %v", f.Op, f.Key, f.Err)
}

func (f *StorageFault) Unwrap() error { return f.Err }

// Store is the flat snapshot adapter. A persist is a single key write; a
// crash mid-write leaves either the old payload or the new one.
type Store struct {
	mu     sync.Mutex
	blobs  blob.Store
	prefix string
	seed   domain.SeedFunc
}

var _ domain.Adapter = (*Store)(nil)

// New constructs a snapshot adapter over the given blob store.
func New(blobs blob.Store, prefix string, seed domain.SeedFunc) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{blobs: blobs, prefix: prefix, seed: seed}
}

func (s *Store) datasetKey() string { return s.prefix + ":dataset" }
func (s *Store) schemaKey() string  { return s.prefix + ":schema" }

// LoadDataset returns the stored dataset when the version stamp matches the
// compiled schema version. An absent or stale stamp, and any payload that
// fails to decode, trigger a destructive reseed through this same adapter
// rather than an error; only blob backend failures propagate.
func (s *Store) LoadDataset(ctx context.Context) (domain.Dataset, domain.LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok, err := s.readVersion(ctx)
	if err != nil {
		return domain.Dataset{}, domain.LoadReport{}, err
	}
	if !ok {
		return s.reseedLocked(ctx, domain.LoadReport{Outcome: domain.OutcomeFreshSeed})
	}
	if stored != domain.SchemaVersion {
		return s.reseedLocked(ctx, domain.LoadReport{Outcome: domain.OutcomeStaleReseed, StoredVersion: stored})
	}

	payload, ok, err := s.readKey(ctx, s.datasetKey())
	if err != nil {
		return domain.Dataset{}, domain.LoadReport{}, err
	}
	if !ok {
		return s.reseedLocked(ctx, domain.LoadReport{Outcome: domain.OutcomeFreshSeed, StoredVersion: stored})
	}
	var ds domain.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		// Corrupt payload is treated as "no prior dataset".
		return s.reseedLocked(ctx, domain.LoadReport{Outcome: domain.OutcomeCorruptReseed, StoredVersion: stored})
	}
	return ds, domain.LoadReport{Outcome: domain.OutcomeLoaded, StoredVersion: stored}, nil
}

// PersistDataset replaces the stored payload and refreshes the version stamp.
func (s *Store) PersistDataset(ctx context.Context, ds domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, ds)
}

func (s *Store) persistLocked(ctx context.Context, ds domain.Dataset) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if _, err := s.blobs.Put(ctx, s.datasetKey(), bytes.NewReader(payload), blob.PutOptions{ContentType: "application/json"}); err != nil {
		return &StorageFault{Op: "put", Key: s.datasetKey(), Err: err}
	}
	stamp := strconv.Itoa(domain.SchemaVersion)
	if _, err := s.blobs.Put(ctx, s.schemaKey(), bytes.NewReader([]byte(stamp)), blob.PutOptions{ContentType: "text/plain"}); err != nil {
		return &StorageFault{Op: "put", Key: s.schemaKey(), Err: err}
	}
	return nil
}

func (s *Store) reseedLocked(ctx context.Context, report domain.LoadReport) (domain.Dataset, domain.LoadReport, error) {
	ds := s.seed()
	if err := s.persistLocked(ctx, ds); err != nil {
		return domain.Dataset{}, domain.LoadReport{}, err
	}
	return ds, report, nil
}

// readVersion parses the schema stamp. An unparseable stamp counts as absent,
// which forces a reseed on the next step.
func (s *Store) readVersion(ctx context.Context) (int, bool, error) {
	raw, ok, err := s.readKey(ctx, s.schemaKey())
	if err != nil || !ok {
		return 0, false, err
	}
	v, convErr := strconv.Atoi(string(bytes.TrimSpace(raw)))
	if convErr != nil {
		return 0, false, nil
	}
	return v, true, nil
}

func (s *Store) readKey(ctx context.Context, key string) ([]byte, bool, error) {
	_, rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		// Blob stores signal missing keys with not-exist errors; only those
		// mean "no prior data". A transient backend fault must not trigger a
		// destructive reseed.
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &StorageFault{Op: "get", Key: key, Err: err}
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, &StorageFault{Op: "read", Key: key, Err: err}
	}
	return data, true, nil
}
