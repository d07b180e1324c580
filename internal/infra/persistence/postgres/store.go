// Package postgres provides a Postgres-backed variant of the transactional
// multi-collection adapter for hosted deployments. Semantics mirror the sqlite
// adapter exactly: one table per collection, full replace inside a single
// transaction, a meta table for the schema stamp and session pointer. It is
// selected only by explicit configuration and never joins the local fallback
// chain.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"ascenda/internal/infra/persistence/codec"
	"ascenda/pkg/domain"
)

const (
	defaultDSN        = "postgres://localhost/ascenda?sslmode=disable"
	metaSchemaVersion = "__schemaVersion"
	metaSession       = "session"
)

// Store is the pgx-backed transactional adapter.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	seed domain.SeedFunc
}

var _ domain.Adapter = (*Store)(nil)

// New opens a connection using the provided DSN (falls back to defaultDSN)
// and ensures the collection and meta tables exist.
func New(ctx context.Context, dsn string, seed domain.SeedFunc) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{db: db, seed: seed}
	if err := s.ensureTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTables(ctx context.Context) error {
	for _, name := range domain.Collections {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			payload JSONB NOT NULL
		)`, name)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT
	)`); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	return nil
}

// LoadDataset reads all collections and assembles the dataset, reseeding on
// an absent or stale schema stamp.
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
	ds, err := s.readDataset(ctx)
	if err != nil {
		return s.reseedLocked(ctx, domain.LoadReport{Outcome: domain.OutcomeCorruptReseed, StoredVersion: stored})
	}
	return ds, domain.LoadReport{Outcome: domain.OutcomeLoaded, StoredVersion: stored}, nil
}

// PersistDataset replaces every collection and the meta rows inside one
// transaction.
func (s *Store) PersistDataset(ctx context.Context, ds domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, ds)
}

func (s *Store) persistLocked(ctx context.Context, ds domain.Dataset) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, name := range domain.Collections {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q`, name)); err != nil {
			retErr = fmt.Errorf("clear %s: %w", name, err)
			return retErr
		}
		rows, err := codec.Rows(ds, name)
		if err != nil {
			retErr = err
			return retErr
		}
		for seq, row := range rows {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT INTO %q (seq, id, payload) VALUES ($1, $2, $3)`, name),
				seq, row.ID, row.Payload); err != nil {
				retErr = fmt.Errorf("insert %s %s: %w", name, row.ID, err)
				return retErr
			}
		}
	}
	if err := upsertMeta(ctx, tx, metaSchemaVersion, sql.NullString{String: strconv.Itoa(domain.SchemaVersion), Valid: true}); err != nil {
		retErr = err
		return retErr
	}
	session := sql.NullString{}
	if ds.Session != nil {
		session = sql.NullString{String: *ds.Session, Valid: true}
	}
	if err := upsertMeta(ctx, tx, metaSession, session); err != nil {
		retErr = err
		return retErr
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func upsertMeta(ctx context.Context, tx *sql.Tx, key string, value sql.NullString) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value); err != nil {
		return fmt.Errorf("upsert meta %s: %w", key, err)
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

func (s *Store) readVersion(ctx context.Context) (int, bool, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = $1`, metaSchemaVersion).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	if !value.Valid {
		return 0, false, nil
	}
	v, convErr := strconv.Atoi(value.String)
	if convErr != nil {
		return 0, false, nil
	}
	return v, true, nil
}

func (s *Store) readDataset(ctx context.Context) (domain.Dataset, error) {
	ds := domain.Dataset{}
	for _, name := range domain.Collections {
		payloads, err := s.readRows(ctx, name)
		if err != nil {
			return domain.Dataset{}, err
		}
		if err := codec.Assign(&ds, name, payloads); err != nil {
			return domain.Dataset{}, err
		}
	}
	var session sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = $1`, metaSession).Scan(&session)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.Dataset{}, fmt.Errorf("read session: %w", err)
	}
	if session.Valid {
		slug := session.String
		ds.Session = &slug
	}
	return ds, nil
}

func (s *Store) readRows(ctx context.Context, name string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT payload FROM %q ORDER BY seq`, name))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()
	var payloads [][]byte
	for rows.Next() {
		var p []byte
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		payloads = append(payloads, p)
	}
	return payloads, rows.Err()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
