// Package kvstore defines the durable key-value contract the record store is
// written against, plus the backends that implement it.
//
// Values are opaque strings. A missing key is reported with ok=false, never
// as an error, and removing a missing key succeeds.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// Driver identifies a concrete backend.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory (tests, ephemeral sessions)
	DriverFile     Driver = "file"     // one file per key under a directory (default)
	DriverSqlite   Driver = "sqlite"   // modernc.org/sqlite
	DriverPostgres Driver = "postgres" // pgx through database/sql
	DriverS3       Driver = "s3"       // S3 / MinIO compatible
)

// Store is a minimal durable key-value store.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Driver() Driver
	Close() error
}

var ErrUnknownDriver = errors.New("kvstore: unknown driver")
var ErrEmptyKey = errors.New("kvstore: empty key")
var ErrClosed = errors.New("kvstore: closed")

// Config selects and parametrizes a backend.
type Config struct {
	Driver      string `usage:"key-value backend: memory|file|sqlite|postgres|s3"`
	Dir         string `usage:"data directory for the file driver"`
	SqlitePath  string `usage:"database file for the sqlite driver"`
	PostgresDSN string `usage:"connection string for the postgres driver"`
	S3Bucket    string `usage:"bucket for the s3 driver"`
	S3Region    string `usage:"region for the s3 driver"`
	S3Endpoint  string `usage:"custom endpoint for the s3 driver (MinIO)"`
	S3Prefix    string `usage:"object key prefix for the s3 driver"`
	S3PathStyle bool   `usage:"use path style addressing for the s3 driver"`
	S3AccessKey string `usage:"static access key for the s3 driver, default AWS chain when empty"`
	S3SecretKey string `usage:"static secret key for the s3 driver"`
}

// Open builds the backend named by c.Driver.
func Open(ctx context.Context, c *Config) (Store, error) {
	switch Driver(c.Driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return NewFile(c.Dir)
	case DriverSqlite:
		return NewSqlite(ctx, c.SqlitePath)
	case DriverPostgres:
		return NewPostgres(ctx, c.PostgresDSN)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			Prefix:    c.S3Prefix,
			PathStyle: c.S3PathStyle,

			AccessKeyID:     c.S3AccessKey,
			SecretAccessKey: c.S3SecretKey,
		})
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownDriver, c.Driver)
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
