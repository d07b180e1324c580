package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"ascenda/internal/seed"
	"ascenda/pkg/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "test.db"), seed.Dataset)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestLoadDatasetFreshSeed(t *testing.T) {
	st := newTestStore(t)
	ds, report, err := st.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if report.Outcome != domain.OutcomeFreshSeed {
		t.Fatalf("outcome = %q, want fresh_seed", report.Outcome)
	}
	if len(ds.Users) != 7 || len(ds.QuizLibrary) != 3 {
		t.Fatalf("seeded %d users, %d quizzes", len(ds.Users), len(ds.QuizLibrary))
	}
	if ds.Session != nil {
		t.Fatalf("fresh seed must have nil session")
	}
}

func TestPersistAndReloadAcrossHandles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	first, err := New(path, seed.Dataset)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ds, _, err := first.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	slug := "lucas-oliveira"
	ds.Session = &slug
	ds.VacationRequests = append(ds.VacationRequests, domain.VacationRequest{
		Base: domain.Base{ID: "v1"}, Slug: slug, Days: 3, Status: domain.RequestPending,
	})
	if err := first.PersistDataset(ctx, ds); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := New(path, seed.Dataset)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()
	got, report, err := second.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if report.Outcome != domain.OutcomeLoaded {
		t.Fatalf("outcome = %q, want loaded", report.Outcome)
	}
	if got.Session == nil || *got.Session != slug {
		t.Fatalf("session not restored: %v", got.Session)
	}
	if len(got.VacationRequests) != 1 || got.VacationRequests[0].ID != "v1" {
		t.Fatalf("vacation request not restored: %+v", got.VacationRequests)
	}
	if len(got.Users) != 7 {
		t.Fatalf("users = %d after reload", len(got.Users))
	}
}

func TestLoadDatasetPreservesInsertionOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	ds, _, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := st.PersistDataset(ctx, ds); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, _, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for i := range ds.Users {
		if got.Users[i].Slug != ds.Users[i].Slug {
			t.Fatalf("user order changed at %d: %s vs %s", i, got.Users[i].Slug, ds.Users[i].Slug)
		}
	}
	for i := range ds.Activities {
		if got.Activities[i].ID != ds.Activities[i].ID {
			t.Fatalf("activity order changed at %d", i)
		}
	}
}

func TestLoadDatasetStaleStampReseeds(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	ds, _, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	slug := "lucas-oliveira"
	ds.Session = &slug
	if err := st.PersistDataset(ctx, ds); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if _, err := st.DB().Exec(`UPDATE meta SET value = ? WHERE key = ?`, "1", metaSchemaVersion); err != nil {
		t.Fatalf("downgrade stamp: %v", err)
	}

	got, report, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if report.Outcome != domain.OutcomeStaleReseed || report.StoredVersion != 1 {
		t.Fatalf("report = %+v, want stale_reseed from version 1", report)
	}
	if got.Session != nil {
		t.Fatalf("stale reseed must discard the session")
	}
}

func TestLoadDatasetCorruptRowReseeds(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, _, err := st.LoadDataset(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := st.DB().Exec(`UPDATE "users" SET payload = ? WHERE id = ?`, []byte("{broken"), "lucas-oliveira"); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	ds, report, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if report.Outcome != domain.OutcomeCorruptReseed {
		t.Fatalf("outcome = %q, want corrupt_reseed", report.Outcome)
	}
	if len(ds.Users) != 7 {
		t.Fatalf("reseed returned %d users", len(ds.Users))
	}
}
