package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	return map[string]Store{
		"fs":     fsStore,
		"memory": NewMemory(),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			payload := []byte(`{"hello":"world"}`)
			info, err := st.Put(ctx, "app:dataset", bytes.NewReader(payload), PutOptions{
				ContentType: "application/json",
				Metadata:    map[string]string{"source": "test"},
			})
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if info.Size != int64(len(payload)) || info.ETag == "" {
				t.Fatalf("unexpected info %+v", info)
			}
			got, rc, err := st.Get(ctx, "app:dataset")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer func() { _ = rc.Close() }()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !bytes.Equal(data, payload) {
				t.Fatalf("payload mismatch: %q", data)
			}
			if got.ContentType != "application/json" {
				t.Fatalf("content type = %q", got.ContentType)
			}
		})
	}
}

func TestPutOverwrites(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := st.Put(ctx, "key", bytes.NewReader([]byte("old")), PutOptions{}); err != nil {
				t.Fatalf("first put: %v", err)
			}
			if _, err := st.Put(ctx, "key", bytes.NewReader([]byte("new")), PutOptions{}); err != nil {
				t.Fatalf("second put: %v", err)
			}
			_, rc, err := st.Get(ctx, "key")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer func() { _ = rc.Close() }()
			data, _ := io.ReadAll(rc)
			if string(data) != "new" {
				t.Fatalf("got %q, want overwrite", data)
			}
		})
	}
}

func TestGetMissingKey(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, _, err := st.Get(context.Background(), "absent")
			if !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("err = %v, want not-exist", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := st.Put(ctx, "key", bytes.NewReader([]byte("x")), PutOptions{}); err != nil {
				t.Fatalf("put: %v", err)
			}
			ok, err := st.Delete(ctx, "key")
			if err != nil || !ok {
				t.Fatalf("delete = %v, %v", ok, err)
			}
			ok, err = st.Delete(ctx, "key")
			if err != nil || ok {
				t.Fatalf("second delete = %v, %v, want false", ok, err)
			}
		})
	}
}

func TestListByPrefix(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, key := range []string{"app:schema", "app:dataset", "other:thing"} {
				if _, err := st.Put(ctx, key, bytes.NewReader([]byte("x")), PutOptions{}); err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}
			infos, err := st.List(ctx, "app:")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(infos) != 2 {
				t.Fatalf("list returned %d entries, want 2", len(infos))
			}
			// Ordered by key.
			if infos[0].Key != "app:dataset" || infos[1].Key != "app:schema" {
				t.Fatalf("order = %s, %s", infos[0].Key, infos[1].Key)
			}
		})
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "../escape", "/absolute", "a/../../b"} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("sanitizeKey(%q) accepted", key)
		}
	}
	if _, err := sanitizeKey("nested/path/key"); err != nil {
		t.Fatalf("sanitizeKey rejected valid key: %v", err)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, Options{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if st.Driver() != DriverMemory {
		t.Fatalf("driver = %q", st.Driver())
	}
	st, err = Open(ctx, Options{Driver: DriverFilesystem, FSRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if st.Driver() != DriverFilesystem {
		t.Fatalf("driver = %q", st.Driver())
	}
	if _, err := Open(ctx, Options{Driver: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
