package kvstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/fulldump/biff"
)

// overrideSQLOpen makes openSQL use the given connector until restore is called.
func overrideSQLOpen(t *testing.T, c *stubConnector) (restore func()) {
	t.Helper()
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = func(_, _ string) (*sql.DB, error) {
		return sql.OpenDB(c), nil
	}
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

// stubConnector is a tiny database/sql driver that understands the kv
// statements only. It records every statement it receives.
type stubConnector struct {
	mutex      *sync.Mutex
	rows       map[string]string
	statements []string
}

func newStubConnector() *stubConnector {
	return &stubConnector{
		mutex: &sync.Mutex{},
		rows:  map[string]string{},
	}
}

func (c *stubConnector) Connect(context.Context) (driver.Conn, error) {
	return &stubConn{c: c}, nil
}

func (c *stubConnector) Driver() driver.Driver {
	return stubDriver{c: c}
}

type stubDriver struct{ c *stubConnector }

func (d stubDriver) Open(string) (driver.Conn, error) {
	return &stubConn{c: d.c}, nil
}

type stubConn struct{ c *stubConnector }

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{c: c.c, query: query}, nil
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("transactions not supported")
}

type stubStmt struct {
	c     *stubConnector
	query string
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.c.mutex.Lock()
	defer s.c.mutex.Unlock()
	s.c.statements = append(s.c.statements, s.query)

	q := strings.TrimSpace(s.query)
	switch {
	case strings.HasPrefix(q, "CREATE TABLE"):
	case strings.HasPrefix(q, "INSERT INTO kv"):
		s.c.rows[args[0].(string)] = args[1].(string)
	case strings.HasPrefix(q, "DELETE FROM kv"):
		delete(s.c.rows, args[0].(string))
	default:
		return nil, fmt.Errorf("unexpected exec: %s", q)
	}
	return driver.RowsAffected(1), nil
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.c.mutex.Lock()
	defer s.c.mutex.Unlock()
	s.c.statements = append(s.c.statements, s.query)

	if !strings.HasPrefix(strings.TrimSpace(s.query), "SELECT payload FROM kv") {
		return nil, fmt.Errorf("unexpected query: %s", s.query)
	}
	rows := &stubRows{}
	if value, ok := s.c.rows[args[0].(string)]; ok {
		rows.values = []string{value}
	}
	return rows, nil
}

type stubRows struct {
	values []string
	i      int
}

func (r *stubRows) Columns() []string { return []string{"payload"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.i >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.i]
	r.i++
	return nil
}

func TestPostgres_Placeholders(t *testing.T) {

	ctx := context.Background()
	c := newStubConnector()
	restore := overrideSQLOpen(t, c)
	defer restore()

	s, err := NewPostgres(ctx, "")
	biff.AssertNil(err)
	defer s.Close()
	biff.AssertEqual(s.Driver(), DriverPostgres)

	biff.AssertNil(s.Set(ctx, "items", "[]"))
	biff.AssertNil(s.Remove(ctx, "items"))

	sawCreate := false
	for _, statement := range c.statements {
		if strings.Contains(statement, "CREATE TABLE") {
			sawCreate = true
			continue
		}
		biff.AssertTrue(strings.Contains(statement, "$1"))
		biff.AssertFalse(strings.Contains(statement, "?"))
	}
	biff.AssertTrue(sawCreate)
}

func TestDialect_Rebind(t *testing.T) {
	biff.AssertEqual(sqliteDialect.rebind("a = ? AND b = ?"), "a = ? AND b = ?")
	biff.AssertEqual(postgresDialect.rebind("a = ? AND b = ?"), "a = $1 AND b = $2")
}
