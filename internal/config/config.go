// Package config resolves runtime settings for the dataset core from defaults
// and ASCENDA_-prefixed environment variables.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"ascenda/internal/infra/blob"
)

// Config carries the resolved settings.
type Config struct {
	// AppPrefix namespaces the flat adapter's storage keys ("<prefix>:dataset").
	AppPrefix string
	// Driver selects the preferred persistence backend: sqlite (default) or
	// postgres. The flat snapshot adapter is the implicit fallback, never a
	// primary selection.
	Driver      string
	SQLitePath  string
	PostgresDSN string

	BlobDriver blob.Driver
	BlobFSRoot string
	S3         blob.S3Config
}

// Load builds the configuration. Environment variables override defaults:
//
//	ASCENDA_APP_PREFIX         storage key prefix (default ascenda)
//	ASCENDA_STORAGE_DRIVER     sqlite|postgres (default sqlite)
//	ASCENDA_SQLITE_PATH        sqlite file path (default ./ascenda.db)
//	ASCENDA_POSTGRES_DSN       postgres DSN when driver=postgres
//	ASCENDA_BLOB_DRIVER        fs|s3|memory for the fallback adapter (default fs)
//	ASCENDA_BLOB_FS_ROOT       directory root when blob driver=fs
//	ASCENDA_BLOB_S3_BUCKET     bucket when blob driver=s3
//	ASCENDA_BLOB_S3_REGION     region (default us-east-1)
//	ASCENDA_BLOB_S3_ENDPOINT   custom endpoint (MinIO)
//	ASCENDA_BLOB_S3_PATH_STYLE true|false
func Load() Config {
	v := viper.New()
	v.SetDefault("app_prefix", "ascenda")
	v.SetDefault("storage_driver", "sqlite")
	v.SetDefault("sqlite_path", "./ascenda.db")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("blob_driver", string(blob.DriverFilesystem))
	v.SetDefault("blob_fs_root", "./blobdata")
	v.SetDefault("blob_s3_bucket", "")
	v.SetDefault("blob_s3_region", "")
	v.SetDefault("blob_s3_endpoint", "")
	v.SetDefault("blob_s3_path_style", false)

	v.SetEnvPrefix("ASCENDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return Config{
		AppPrefix:   v.GetString("app_prefix"),
		Driver:      v.GetString("storage_driver"),
		SQLitePath:  v.GetString("sqlite_path"),
		PostgresDSN: v.GetString("postgres_dsn"),
		BlobDriver:  blob.Driver(v.GetString("blob_driver")),
		BlobFSRoot:  v.GetString("blob_fs_root"),
		S3: blob.S3Config{
			Bucket:    v.GetString("blob_s3_bucket"),
			Region:    v.GetString("blob_s3_region"),
			Endpoint:  v.GetString("blob_s3_endpoint"),
			PathStyle: v.GetBool("blob_s3_path_style"),
		},
	}
}

// BlobOptions maps the config onto blob.Open options.
func (c Config) BlobOptions() blob.Options {
	return blob.Options{Driver: c.BlobDriver, FSRoot: c.BlobFSRoot, S3: c.S3}
}
