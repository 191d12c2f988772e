package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/session"
)

// PostgreSQL SQLSTATE codes this driver classifies.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrInvalidAuthSpec = "28000"
	pgErrInvalidPassword = "28P01"
)

// classifyConnectError mirrors the MySQL driver's connect-time taxonomy.
// SQLSTATE codes are strings, so the raw code rides in the message instead
// of the numeric Code field.
func classifyConnectError(err error, p session.Params) error {
	if err == nil {
		return nil
	}

	target := fmt.Sprintf("%s as %q", p.Addr(), p.User)

	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrKindTimeout,
			fmt.Sprintf("connect to %s timed out after %s", target, session.ConnectTimeout), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrInvalidAuthSpec, pgErrInvalidPassword:
			return errs.Wrap(errs.ErrKindAuthFailed,
				fmt.Sprintf("access denied connecting to %s (%s)", target, pgErr.Code), err)
		default:
			return errs.Wrap(errs.ErrKindUnknown,
				fmt.Sprintf("connect to %s failed (%s): %s", target, pgErr.Code, pgErr.Message), err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.Wrap(errs.ErrKindTimeout,
			fmt.Sprintf("connect to %s timed out after %s", target, session.ConnectTimeout), err)
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return errs.Wrap(errs.ErrKindHostUnreachable,
			fmt.Sprintf("server %s is unreachable", p.Addr()), err)
	}

	return errs.Wrap(errs.ErrKindUnknown,
		fmt.Sprintf("connect to %s failed", target), err)
}

func mapQueryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, "query cancelled or timed out", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(errs.ErrKindQueryFailed,
			fmt.Sprintf("server rejected query (%s): %s", pgErr.Code, pgErr.Message), err)
	}

	return errs.Wrap(errs.ErrKindUnknown, "query failed", err)
}
