package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

const (
	defaultSqlitePath  = "calorietracker.db"
	defaultPostgresDSN = "postgres://localhost/calorietracker?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// dialect holds the statements that differ between sql engines. Statements
// are written with '?' placeholders and rebound per dialect.
type dialect struct {
	driver      Driver
	sqlDriver   string
	placeholder func(n int) string
}

var sqliteDialect = dialect{
	driver:    DriverSqlite,
	sqlDriver: "sqlite",
	placeholder: func(n int) string {
		return "?"
	},
}

var postgresDialect = dialect{
	driver:    DriverPostgres,
	sqlDriver: "pgx",
	placeholder: func(n int) string {
		return fmt.Sprintf("$%d", n)
	},
}

func (d dialect) rebind(query string) string {
	b := strings.Builder{}
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// SQL keeps keys in a two column table: kv(name, payload).
type SQL struct {
	db      *sql.DB
	dialect dialect
}

// NewSqlite opens (or creates) a sqlite database file.
func NewSqlite(ctx context.Context, path string) (*SQL, error) {
	if path == "" {
		path = defaultSqlitePath
	}
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return openSQL(ctx, sqliteDialect, path)
}

// NewPostgres connects to postgres through pgx.
func NewPostgres(ctx context.Context, dsn string) (*SQL, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	return openSQL(ctx, postgresDialect, dsn)
}

func openSQL(ctx context.Context, d dialect, dsn string) (*SQL, error) {
	openMu.Lock()
	db, err := sqlOpen(d.sqlDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQL{db: db, dialect: d}, nil
}

func (s *SQL) Driver() Driver { return s.dialect.driver }

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	value := ""
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT payload FROM kv WHERE name = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select '%s': %w", key, err)
	}
	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(`INSERT INTO kv (name, payload) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload`), key, value)
	if err != nil {
		return fmt.Errorf("upsert '%s': %w", key, err)
	}
	return nil
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM kv WHERE name = ?`), key)
	if err != nil {
		return fmt.Errorf("delete '%s': %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
