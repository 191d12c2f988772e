package mysql

import (
	"context"
	"errors"
	"fmt"
	"net"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/session"
)

// MySQL server error numbers this driver classifies.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDBAccessDenied  = 1044
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errBadFieldError   = 1054
	errSyntaxError     = 1064
	errNoSuchTable     = 1146
)

// classifyConnectError maps a connect-time failure to an error kind: auth
// failure, unreachable host, timeout, or unknown carrying the raw server
// code. p is folded into the message so the caller can render an actionable
// error without re-deriving context.
func classifyConnectError(err error, p session.Params) error {
	if err == nil {
		return nil
	}

	target := fmt.Sprintf("%s as %q", p.Addr(), p.User)

	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrKindTimeout,
			fmt.Sprintf("connect to %s timed out after %s", target, session.ConnectTimeout), err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		code := int(mysqlErr.Number)
		switch mysqlErr.Number {
		case errDBAccessDenied, errAccessDenied:
			return errs.WrapCode(errs.ErrKindAuthFailed,
				fmt.Sprintf("access denied connecting to %s", target), code, err)
		default:
			// Unknown server codes surface as-is, code preserved.
			return errs.WrapCode(errs.ErrKindUnknown,
				fmt.Sprintf("connect to %s failed: %s", target, mysqlErr.Message), code, err)
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

// mapQueryError maps an execution-time failure: server rejections keep their
// raw code, everything else falls through as-is.
func mapQueryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, "query cancelled or timed out", err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.WrapCode(errs.ErrKindQueryFailed,
			fmt.Sprintf("server rejected query: %s", mysqlErr.Message), int(mysqlErr.Number), err)
	}

	return errs.Wrap(errs.ErrKindUnknown, "query failed", err)
}
