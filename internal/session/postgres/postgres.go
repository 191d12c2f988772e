// Package postgres implements session.Session for PostgreSQL using pgx
// through its database/sql adapter, so materialization is shared with the
// MySQL driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register the "pgx" driver

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/logger"
	"github.com/hawkdb/hawkdb/internal/result"
	"github.com/hawkdb/hawkdb/internal/session"
)

// DefaultPort is used when the operator enters a bare host.
const DefaultPort = 5432

// Session holds at most one live PostgreSQL connection.
type Session struct {
	mu      sync.Mutex
	log     *logger.Logger
	db      *sql.DB
	version string
}

// New returns a disconnected PostgreSQL session.
func New(log *logger.Logger) *Session {
	return &Session{log: log}
}

// Connect establishes the connection, requiring TLS first and retrying
// exactly once with sslmode=disable on any failure — the same downgrade
// contract as the MySQL driver.
func (s *Session) Connect(ctx context.Context, p session.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	db, version, err := open(ctx, p, true)
	if err != nil {
		s.log.Debugf("TLS connect to %s failed, retrying with sslmode=disable: %v", p.Addr(), err)
		db, version, err = open(ctx, p, false)
	}
	if err != nil {
		return classifyConnectError(err, p)
	}

	s.db = db
	s.version = version
	s.log.With().Str("host", p.Host).Int("port", p.Port).Str("user", p.User).Logger().
		Infof("connected, server version %s", version)
	return nil
}

func open(ctx context.Context, p session.Params, secure bool) (*sql.DB, string, error) {
	db, err := sql.Open("pgx", dsn(p, secure))
	if err != nil {
		return nil, "", err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	probeCtx, cancel := context.WithTimeout(ctx, session.ConnectTimeout)
	defer cancel()

	var version sql.NullString
	if err := db.QueryRowContext(probeCtx, "SELECT version()").Scan(&version); err != nil {
		_ = db.Close()
		return nil, "", err
	}

	v := version.String
	if v == "" {
		v = "unknown"
	}
	return db, v, nil
}

// dsn builds a postgres:// URL. The database name defaults to the user's
// own database when not given, matching psql behavior.
func dsn(p session.Params, secure bool) string {
	sslmode := "disable"
	if secure {
		sslmode = "require"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Addr(),
		Path:     "/" + p.Database,
		RawQuery: fmt.Sprintf("sslmode=%s&connect_timeout=%d", sslmode, int(session.ConnectTimeout.Seconds())),
	}
	return u.String()
}

// Disconnect closes the connection. Safe to call on an already-closed
// session.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return nil
}

func (s *Session) closeLocked() {
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
		s.version = ""
	}
}

// State reports whether the session holds a live connection.
func (s *Session) State() session.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return session.Connected
	}
	return session.Disconnected
}

// ExecuteQuery submits the SQL verbatim and materializes the full result set.
func (s *Session) ExecuteQuery(ctx context.Context, query string) (*result.Set, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()

	if db == nil {
		return nil, errs.New(errs.ErrKindNotConnected, "not connected to a database")
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapQueryError(err)
	}
	return session.Materialize(rows)
}

// ServerInfo returns the version captured by the connect-time probe.
func (s *Session) ServerInfo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", false
	}
	return s.version, true
}

// ListTables returns the base tables in the public schema.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	s.mu.Lock()
	db := s.db
	s.mu.Unlock()

	if db == nil {
		return nil, errs.New(errs.ErrKindNotConnected, "not connected to a database")
	}

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapQueryError(err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan table name", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "error iterating tables", err)
	}
	return tables, nil
}
