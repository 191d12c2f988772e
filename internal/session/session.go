// Package session defines the contract every database session driver must
// implement. A session owns at most one live connection; all layers above
// talk only to this interface and never import the mysql or postgres
// packages directly.
package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/result"
)

// State is the session's connection state. The only transitions are
// Disconnected → Connected via a successful Connect, and Connected →
// Disconnected via Disconnect. A failed Connect leaves the state at
// Disconnected — no half-open handle is ever exposed.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// ConnectTimeout bounds each connection attempt. After this the attempt
// fails with errs.ErrKindTimeout.
const ConnectTimeout = 10 * time.Second

// Params are the credentials for one connection attempt. Database may be
// empty; the session then connects without a default schema.
type Params struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Addr returns the host:port form of the target server.
func (p Params) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// Session is the live, stateful handle to one open database connection.
// Implementations are single-writer, single-reader: at most one query runs
// at a time (the runner package enforces this for callers).
type Session interface {
	// Connect establishes the connection, trying an encrypted transport
	// first and retrying exactly once with encryption disabled on any
	// failure. On success the server version has been verified. Connecting
	// while already connected fully disconnects the prior connection first.
	Connect(ctx context.Context, p Params) error

	// Disconnect closes the connection. Idempotent: disconnecting an
	// already-closed session is a no-op, never an error.
	Disconnect() error

	// State reports whether the session currently holds a live connection.
	State() State

	// ExecuteQuery submits the SQL verbatim and returns the fully
	// materialized result set. The caller is the trust boundary — no
	// sanitization is applied here. Fails with errs.ErrKindNotConnected
	// when the session is closed. Query execution has no built-in timeout;
	// callers wanting bounded time must impose it through ctx.
	ExecuteQuery(ctx context.Context, query string) (*result.Set, error)

	// ServerInfo returns the server version captured at connect time.
	// ok is false only when the session is disconnected.
	ServerInfo() (info string, ok bool)

	// ListTables returns the user-defined tables visible to the connection.
	ListTables(ctx context.Context) ([]string, error)
}

// ParseHostPort splits a user-entered "host" or "host:port" string. When no
// port is given, defaultPort is used. A malformed port segment fails with
// errs.ErrKindInvalidInput rather than defaulting silently. The split is on
// the last colon, matching how operators paste host:port pairs.
func ParseHostPort(input string, defaultPort int) (string, int, error) {
	s := strings.TrimSpace(input)
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return s, defaultPort, nil
	}

	host := strings.TrimSpace(s[:idx])
	port, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if err != nil || port < 1 || port > 65535 {
		return "", 0, errs.New(errs.ErrKindInvalidInput,
			fmt.Sprintf("invalid address %q: use host or host:port", input))
	}
	return host, port, nil
}
