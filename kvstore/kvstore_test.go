package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"
)

func TestStoreImplementations(t *testing.T) {
	tests := []struct {
		name    string
		factory func(t *testing.T) Store
	}{
		{
			name: "Memory",
			factory: func(t *testing.T) Store {
				return NewMemory()
			},
		},
		{
			name: "File",
			factory: func(t *testing.T) Store {
				s, err := NewFile(t.TempDir())
				if err != nil {
					t.Fatalf("new file store: %v", err)
				}
				return s
			},
		},
		{
			name: "Sqlite",
			factory: func(t *testing.T) Store {
				s, err := NewSqlite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
				if err != nil {
					t.Fatalf("new sqlite store: %v", err)
				}
				return s
			},
		},
		{
			name: "Postgres",
			factory: func(t *testing.T) Store {
				restore := overrideSQLOpen(t, newStubConnector())
				defer restore()
				s, err := NewPostgres(context.Background(), "")
				if err != nil {
					t.Fatalf("new postgres store: %v", err)
				}
				return s
			},
		},
		{
			name: "S3",
			factory: func(t *testing.T) Store {
				return newS3ForTests(t, "calorietracker/")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := tt.factory(t)
			defer s.Close()

			// Absent
			value, ok, err := s.Get(ctx, "items")
			biff.AssertNil(err)
			biff.AssertFalse(ok)
			biff.AssertEqual(value, "")

			// Set + Get
			biff.AssertNil(s.Set(ctx, "items", `[{"id":0,"name":"rice","calories":100}]`))
			value, ok, err = s.Get(ctx, "items")
			biff.AssertNil(err)
			biff.AssertTrue(ok)
			biff.AssertEqual(value, `[{"id":0,"name":"rice","calories":100}]`)

			// Overwrite
			biff.AssertNil(s.Set(ctx, "items", `[]`))
			value, ok, err = s.Get(ctx, "items")
			biff.AssertNil(err)
			biff.AssertTrue(ok)
			biff.AssertEqual(value, `[]`)

			// Other keys are independent
			biff.AssertNil(s.Set(ctx, "other", `x`))

			// Remove
			biff.AssertNil(s.Remove(ctx, "items"))
			_, ok, err = s.Get(ctx, "items")
			biff.AssertNil(err)
			biff.AssertFalse(ok)

			value, ok, err = s.Get(ctx, "other")
			biff.AssertNil(err)
			biff.AssertTrue(ok)
			biff.AssertEqual(value, "x")

			// Remove absent
			biff.AssertNil(s.Remove(ctx, "items"))

			// Empty key
			_, _, err = s.Get(ctx, "")
			biff.AssertTrue(errors.Is(err, ErrEmptyKey))
			biff.AssertTrue(errors.Is(s.Set(ctx, "", "x"), ErrEmptyKey))
		})
	}
}

func TestOpen(t *testing.T) {

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, &Config{Driver: string(DriverMemory)})
		biff.AssertNil(err)
		biff.AssertEqual(s.Driver(), DriverMemory)
	})

	t.Run("file by default", func(t *testing.T) {
		s, err := Open(ctx, &Config{Dir: t.TempDir()})
		biff.AssertNil(err)
		biff.AssertEqual(s.Driver(), DriverFile)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(ctx, &Config{Driver: string(DriverSqlite), SqlitePath: filepath.Join(t.TempDir(), "kv.db")})
		biff.AssertNil(err)
		biff.AssertEqual(s.Driver(), DriverSqlite)
		biff.AssertNil(s.Close())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, &Config{Driver: "redis"})
		biff.AssertTrue(errors.Is(err, ErrUnknownDriver))
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		t.Setenv("CALORIETRACKER_S3_BUCKET", "")
		_, err := Open(ctx, &Config{Driver: string(DriverS3)})
		biff.AssertNotNil(err)
	})
}

func TestMemory_Keys(t *testing.T) {

	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "b", "2")
	m.Set(ctx, "c", "3")
	m.Set(ctx, "a", "1")
	m.Remove(ctx, "c")

	biff.AssertEqual(m.Keys(), []string{"a", "b"})
}

func TestMemory_Closed(t *testing.T) {

	ctx := context.Background()
	m := NewMemory()
	m.Set(ctx, "a", "1")

	biff.AssertNil(m.Close())

	_, _, err := m.Get(ctx, "a")
	biff.AssertEqual(err, ErrClosed)
	biff.AssertEqual(m.Set(ctx, "a", "2"), ErrClosed)
}

func TestFile_SanitizeKey(t *testing.T) {

	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	biff.AssertNil(err)

	biff.AssertNotNil(f.Set(ctx, "../escape", "x"))
	biff.AssertNotNil(f.Set(ctx, "/etc/passwd", "x"))

	biff.AssertNil(f.Set(ctx, "nested/items", "x"))
	value, ok, err := f.Get(ctx, "nested/items")
	biff.AssertNil(err)
	biff.AssertTrue(ok)
	biff.AssertEqual(value, "x")
}

func TestFile_Persistent(t *testing.T) {

	ctx := context.Background()
	dir := t.TempDir()

	f1, _ := NewFile(dir)
	biff.AssertNil(f1.Set(ctx, "items", "[]"))

	f2, _ := NewFile(dir)
	value, ok, err := f2.Get(ctx, "items")
	biff.AssertNil(err)
	biff.AssertTrue(ok)
	biff.AssertEqual(value, "[]")
}

func TestSqlite_Persistent(t *testing.T) {

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	s1, err := NewSqlite(ctx, path)
	biff.AssertNil(err)
	biff.AssertNil(s1.Set(ctx, "items", "[1]"))
	biff.AssertNil(s1.Close())

	s2, err := NewSqlite(ctx, path)
	biff.AssertNil(err)
	defer s2.Close()
	value, ok, err := s2.Get(ctx, "items")
	biff.AssertNil(err)
	biff.AssertTrue(ok)
	biff.AssertEqual(value, "[1]")
}
