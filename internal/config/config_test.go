package config

import (
	"testing"

	"ascenda/internal/infra/blob"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.AppPrefix != "ascenda" {
		t.Fatalf("app prefix = %q", cfg.AppPrefix)
	}
	if cfg.Driver != "sqlite" {
		t.Fatalf("driver = %q", cfg.Driver)
	}
	if cfg.SQLitePath != "./ascenda.db" {
		t.Fatalf("sqlite path = %q", cfg.SQLitePath)
	}
	if cfg.BlobDriver != blob.DriverFilesystem {
		t.Fatalf("blob driver = %q", cfg.BlobDriver)
	}
	if cfg.BlobFSRoot != "./blobdata" {
		t.Fatalf("blob fs root = %q", cfg.BlobFSRoot)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ASCENDA_APP_PREFIX", "staging")
	t.Setenv("ASCENDA_STORAGE_DRIVER", "postgres")
	t.Setenv("ASCENDA_POSTGRES_DSN", "postgres://db.internal/ascenda")
	t.Setenv("ASCENDA_BLOB_DRIVER", "s3")
	t.Setenv("ASCENDA_BLOB_S3_BUCKET", "ascenda-snapshots")
	t.Setenv("ASCENDA_BLOB_S3_REGION", "sa-east-1")
	t.Setenv("ASCENDA_BLOB_S3_PATH_STYLE", "true")

	cfg := Load()
	if cfg.AppPrefix != "staging" {
		t.Fatalf("app prefix = %q", cfg.AppPrefix)
	}
	if cfg.Driver != "postgres" || cfg.PostgresDSN != "postgres://db.internal/ascenda" {
		t.Fatalf("driver = %q dsn = %q", cfg.Driver, cfg.PostgresDSN)
	}
	if cfg.BlobDriver != blob.DriverS3 {
		t.Fatalf("blob driver = %q", cfg.BlobDriver)
	}
	if cfg.S3.Bucket != "ascenda-snapshots" || cfg.S3.Region != "sa-east-1" || !cfg.S3.PathStyle {
		t.Fatalf("s3 config = %+v", cfg.S3)
	}
}

func TestBlobOptionsMapping(t *testing.T) {
	cfg := Config{BlobDriver: blob.DriverMemory, BlobFSRoot: "/tmp/x"}
	opts := cfg.BlobOptions()
	if opts.Driver != blob.DriverMemory || opts.FSRoot != "/tmp/x" {
		t.Fatalf("options = %+v", opts)
	}
}
