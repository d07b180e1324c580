package postgres

import (
	"context"
	"os"
	"testing"

	"ascenda/internal/seed"
	"ascenda/pkg/domain"
)

// Integration tests require a reachable database, e.g.
//
//	ASCENDA_TEST_POSTGRES_DSN=postgres://localhost/ascenda_test?sslmode=disable go test ./...
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("ASCENDA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skipf("ASCENDA_TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}
	st, err := New(context.Background(), dsn, seed.Dataset)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		for _, name := range domain.Collections {
			_, _ = st.DB().ExecContext(ctx, `DROP TABLE IF EXISTS "`+name+`"`)
		}
		_, _ = st.DB().ExecContext(ctx, `DROP TABLE IF EXISTS meta`)
		_ = st.Close()
	})
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
	if len(ds.Users) != 7 {
		t.Fatalf("users = %d, want 7", len(ds.Users))
	}
}

func TestPersistAndReload(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	ds, _, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	slug := "lucas-oliveira"
	ds.Session = &slug
	ds.Notifications = append(ds.Notifications, domain.Notification{
		Base: domain.Base{ID: "n1"}, Slug: slug, Message: "hosted",
	})
	if err := st.PersistDataset(ctx, ds); err != nil {
		t.Fatalf("persist: %v", err)
	}

	got, report, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if report.Outcome != domain.OutcomeLoaded {
		t.Fatalf("outcome = %q, want loaded", report.Outcome)
	}
	if got.Session == nil || *got.Session != slug {
		t.Fatalf("session not restored: %v", got.Session)
	}
	if len(got.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got.Notifications))
	}
}

func TestStaleStampReseeds(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, _, err := st.LoadDataset(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := st.DB().ExecContext(ctx, `UPDATE meta SET value = $1 WHERE key = $2`, "1", metaSchemaVersion); err != nil {
		t.Fatalf("downgrade stamp: %v", err)
	}
	_, report, err := st.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if report.Outcome != domain.OutcomeStaleReseed || report.StoredVersion != 1 {
		t.Fatalf("report = %+v, want stale_reseed from version 1", report)
	}
}
