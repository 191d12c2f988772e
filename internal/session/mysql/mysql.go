// Package mysql implements session.Session for MySQL on top of
// database/sql and go-sql-driver.
package mysql

import (
	"context"
	"database/sql"
	"sync"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/logger"
	"github.com/hawkdb/hawkdb/internal/result"
	"github.com/hawkdb/hawkdb/internal/session"
)

// DefaultPort is used when the operator enters a bare host.
const DefaultPort = 3306

// Session holds at most one live MySQL connection. The mutex protects the
// connect/disconnect transitions; query execution itself is serialized by
// the runner layer.
type Session struct {
	mu      sync.Mutex
	log     *logger.Logger
	db      *sql.DB
	version string
}

// New returns a disconnected MySQL session.
func New(log *logger.Logger) *Session {
	return &Session{log: log}
}

// Connect establishes the connection. The first attempt uses TLS; if it
// fails for any reason, exactly one retry is made with TLS disabled before
// the error surfaces. The retry is unconditional, auth failures included.
func (s *Session) Connect(ctx context.Context, p session.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reconnecting must not leak the prior connection.
	s.closeLocked()

	db, version, err := open(ctx, p, true)
	if err != nil {
		s.log.Debugf("encrypted connect to %s failed, retrying without TLS: %v", p.Addr(), err)
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

// open dials the server and verifies liveness by requesting its version.
// On any failure the pool is closed before returning, so a half-open handle
// never escapes.
func open(ctx context.Context, p session.Params, secure bool) (*sql.DB, string, error) {
	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = p.Addr()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.DBName = p.Database
	cfg.Timeout = session.ConnectTimeout
	cfg.ParseTime = true
	if secure {
		// Encrypt the transport without verifying the server certificate —
		// the plaintext retry below is the downgrade path.
		cfg.TLSConfig = "skip-verify"
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, "", err
	}

	// One interactive session means one server connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	probeCtx, cancel := context.WithTimeout(ctx, session.ConnectTimeout)
	defer cancel()

	var version sql.NullString
	if err := db.QueryRowContext(probeCtx, "SELECT VERSION()").Scan(&version); err != nil {
		_ = db.Close()
		return nil, "", err
	}

	v := version.String
	if v == "" {
		v = "unknown"
	}
	return db, v, nil
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

// ExecuteQuery submits the SQL verbatim and materializes the full result
// set. No built-in timeout; bound it through ctx if needed.
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

// ListTables returns the base tables of the connection's current schema.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
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
