// Package store implements the hydration orchestrator for the portal dataset:
// it opens the preferred persistence adapter (falling back to the flat
// snapshot backend), loads or seeds the dataset, resolves the persisted
// session pointer, and funnels every later mutation through a write-through
// persist of the whole dataset.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ascenda/internal/config"
	"ascenda/internal/infra/blob"
	"ascenda/internal/infra/persistence/postgres"
	"ascenda/internal/infra/persistence/snapshot"
	"ascenda/internal/infra/persistence/sqlite"
	"ascenda/internal/seed"
	"ascenda/pkg/domain"
)

// Phase is the store lifecycle state.
type Phase int32

// Lifecycle phases. Hydrate moves the store from uninitialized to ready
// exactly once; calls in any other phase are no-ops.
const (
	PhaseUninitialized Phase = iota
	PhaseHydrating
	PhaseReady
)

// ErrNotHydrated is returned by actions invoked before hydration completes.
var ErrNotHydrated = errors.New("store: not hydrated")

// Store owns the runtime dataset exclusively. It is constructed explicitly
// and passed to consumers; there is no package-level instance, so the
// single-hydrate invariant is held by the value, not by convention.
type Store struct {
	mu      sync.RWMutex
	phase   Phase
	adapter domain.Adapter
	state   domain.Dataset
	current *domain.User

	open    func(ctx context.Context) (domain.Adapter, error)
	log     Logger
	metrics MetricsRecorder
	tracer  Tracer
	nowFn   func() time.Time
	newID   func() string

	users         *Collection[domain.User]
	assignments   *Collection[domain.QuizAssignment]
	activities    *Collection[domain.Activity]
	videos        *Collection[domain.Video]
	progress      *Collection[domain.VideoProgress]
	vacations     *Collection[domain.VacationRequest]
	topics        *Collection[domain.ForumTopic]
	notifications *Collection[domain.Notification]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger installs a logger (noop by default).
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics installs a metrics recorder (noop by default).
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer installs a tracer (noop by default).
func WithTracer(t Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithAdapter pins the storage adapter, bypassing configuration-driven
// selection and fallback. Used by tests and embedders that manage their own
// backend.
func WithAdapter(a domain.Adapter) Option {
	return func(s *Store) {
		s.open = func(context.Context) (domain.Adapter, error) { return a, nil }
	}
}

// WithConfig derives the adapter opener from an explicit configuration
// instead of the process environment.
func WithConfig(cfg config.Config) Option {
	return func(s *Store) {
		s.open = func(ctx context.Context) (domain.Adapter, error) {
			return openAdapter(ctx, cfg, s.log)
		}
	}
}

// WithClock overrides the timestamp source. Tests use it for deterministic
// created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// New constructs an unhydrated store.
func New(opts ...Option) *Store {
	s := &Store{
		log:     noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		nowFn:   func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
	}
	s.open = func(ctx context.Context) (domain.Adapter, error) {
		return openAdapter(ctx, config.Load(), s.log)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bindCollections()
	return s
}

// openAdapter constructs the preferred backend, falling back to the flat
// snapshot adapter when the transactional one cannot initialize. The decision
// is made once per store lifetime and not retried per call.
func openAdapter(ctx context.Context, cfg config.Config, log Logger) (domain.Adapter, error) {
	if cfg.Driver == "postgres" {
		// Explicit hosted selection: no local fallback would preserve the
		// shared data, so errors propagate.
		return postgres.New(ctx, cfg.PostgresDSN, seed.Dataset)
	}
	st, err := sqlite.New(cfg.SQLitePath, seed.Dataset)
	if err == nil {
		return st, nil
	}
	log.Warn("transactional adapter unavailable, falling back to flat snapshot",
		"error", err, "sqlite_path", cfg.SQLitePath)
	blobs, berr := blob.Open(ctx, cfg.BlobOptions())
	if berr != nil {
		return nil, fmt.Errorf("open fallback blob store: %w", berr)
	}
	return snapshot.New(blobs, cfg.AppPrefix, seed.Dataset), nil
}

func (s *Store) bindCollections() {
	s.users = &Collection[domain.User]{
		name:  domain.CollectionUsers,
		items: &s.state.Users,
		id:    func(u *domain.User) string { return u.Slug },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
	s.assignments = &Collection[domain.QuizAssignment]{
		name:  domain.CollectionQuizAssignments,
		items: &s.state.QuizAssignments,
		id:    func(a *domain.QuizAssignment) string { return a.ID },
		base:  func(a *domain.QuizAssignment) *domain.Base { return &a.Base },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
	s.activities = &Collection[domain.Activity]{
		name:  domain.CollectionActivities,
		items: &s.state.Activities,
		id:    func(a *domain.Activity) string { return a.ID },
		base:  func(a *domain.Activity) *domain.Base { return &a.Base },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
	s.videos = &Collection[domain.Video]{
		name:  domain.CollectionVideos,
		items: &s.state.Videos,
		id:    func(v *domain.Video) string { return v.ID },
		base:  func(v *domain.Video) *domain.Base { return &v.Base },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
	s.progress = &Collection[domain.VideoProgress]{
		name:  domain.CollectionVideoProgress,
		items: &s.state.VideoProgress,
		id:    func(p *domain.VideoProgress) string { return p.ID },
		base:  func(p *domain.VideoProgress) *domain.Base { return &p.Base },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
	s.vacations = &Collection[domain.VacationRequest]{
		name:  domain.CollectionVacationRequests,
		items: &s.state.VacationRequests,
		id:    func(r *domain.VacationRequest) string { return r.ID },
		base:  func(r *domain.VacationRequest) *domain.Base { return &r.Base },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
	s.topics = &Collection[domain.ForumTopic]{
		name:  domain.CollectionForumTopics,
		items: &s.state.ForumTopics,
		id:    func(t *domain.ForumTopic) string { return t.ID },
		base:  func(t *domain.ForumTopic) *domain.Base { return &t.Base },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
	s.notifications = &Collection[domain.Notification]{
		name:  domain.CollectionNotifications,
		items: &s.state.Notifications,
		id:    func(n *domain.Notification) string { return n.ID },
		base:  func(n *domain.Notification) *domain.Base { return &n.Base },
		mu:    &s.mu, flush: s.flush, now: s.nowFn, newID: s.newID,
	}
}

// Hydrate transitions the store from uninitialized to ready. It is
// idempotent: a call while ready or while another hydrate is in flight is a
// no-op. A failed hydrate resets to uninitialized so a later call can retry.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseUninitialized {
		s.mu.Unlock()
		return nil
	}
	s.phase = PhaseHydrating
	s.mu.Unlock()

	var retErr error
	_ = s.instrument(ctx, "hydrate", func(ctx context.Context) error {
		retErr = s.hydrate(ctx)
		return retErr
	})
	return retErr
}

func (s *Store) hydrate(ctx context.Context) error {
	adapter, err := s.open(ctx)
	if err != nil {
		s.setPhase(PhaseUninitialized)
		return fmt.Errorf("open storage adapter: %w", err)
	}
	ds, report, err := adapter.LoadDataset(ctx)
	if err != nil {
		s.setPhase(PhaseUninitialized)
		return fmt.Errorf("load dataset: %w", err)
	}
	switch report.Outcome {
	case domain.OutcomeLoaded:
		s.log.Debug("dataset loaded", "users", len(ds.Users))
	case domain.OutcomeFreshSeed:
		s.log.Info("first run, dataset seeded", "users", len(ds.Users))
	default:
		s.log.Warn("stored dataset discarded and reseeded",
			"outcome", string(report.Outcome), "stored_version", report.StoredVersion,
			"schema_version", domain.SchemaVersion)
	}

	s.mu.Lock()
	s.adapter = adapter
	s.state = ds
	s.current = nil
	if ds.Session != nil {
		// A stale slug stays in the dataset untouched; it simply does not
		// resolve until a future login overwrites it.
		if u, ok := ds.UserBySlug(*ds.Session); ok {
			s.current = &u
		} else {
			s.log.Warn("session slug does not resolve, treating as signed out", "slug", *ds.Session)
		}
	}
	s.phase = PhaseReady
	s.mu.Unlock()
	return nil
}

func (s *Store) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// Phase reports the lifecycle state.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Hydrated reports whether the store is ready.
func (s *Store) Hydrated() bool { return s.Phase() == PhaseReady }

// flush writes the whole dataset through the active adapter. Every mutation
// funnels here: the adapters have no partial-write surface, so the persisted
// unit is always the full dataset and the last persist to complete wins.
func (s *Store) flush(ctx context.Context) error {
	s.mu.RLock()
	adapter := s.adapter
	snap := s.state.Clone()
	s.mu.RUnlock()
	if adapter == nil {
		return ErrNotHydrated
	}
	return adapter.PersistDataset(ctx, snap)
}

func (s *Store) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != PhaseReady {
		return ErrNotHydrated
	}
	return nil
}

func (s *Store) instrument(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	start := time.Now()
	err := fn(ctx)
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	span.End(err)
	if err != nil {
		s.log.Error(op+" failed", "error", err)
	}
	return err
}

// Users exposes the user collection (seed-keyed by slug).
func (s *Store) Users() *Collection[domain.User] { return s.users }

// Assignments exposes the quiz assignment collection.
func (s *Store) Assignments() *Collection[domain.QuizAssignment] { return s.assignments }

// Activities exposes the onboarding activity collection.
func (s *Store) Activities() *Collection[domain.Activity] { return s.activities }

// Videos exposes the learning-path video collection.
func (s *Store) Videos() *Collection[domain.Video] { return s.videos }

// Progress exposes the video progress collection.
func (s *Store) Progress() *Collection[domain.VideoProgress] { return s.progress }

// Vacations exposes the vacation request collection.
func (s *Store) Vacations() *Collection[domain.VacationRequest] { return s.vacations }

// Topics exposes the forum topic collection.
func (s *Store) Topics() *Collection[domain.ForumTopic] { return s.topics }

// Notifications exposes the notification collection.
func (s *Store) Notifications() *Collection[domain.Notification] { return s.notifications }
