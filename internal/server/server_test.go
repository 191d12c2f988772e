package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/logger"
	"github.com/hawkdb/hawkdb/internal/profile"
	"github.com/hawkdb/hawkdb/internal/result"
	"github.com/hawkdb/hawkdb/internal/runner"
	"github.com/hawkdb/hawkdb/internal/session"
)

type stubSession struct {
	state      session.State
	version    string
	set        *result.Set
	execErr    error
	tables     []string
	lastParams session.Params
}

func (s *stubSession) Connect(_ context.Context, p session.Params) error {
	s.lastParams = p
	s.state = session.Connected
	return nil
}

func (s *stubSession) Disconnect() error {
	s.state = session.Disconnected
	return nil
}

func (s *stubSession) State() session.State { return s.state }

func (s *stubSession) ExecuteQuery(context.Context, string) (*result.Set, error) {
	if s.execErr != nil {
		return nil, s.execErr
	}
	return s.set, nil
}

func (s *stubSession) ServerInfo() (string, bool) {
	if s.state != session.Connected {
		return "", false
	}
	return s.version, true
}

func (s *stubSession) ListTables(context.Context) ([]string, error) {
	return s.tables, nil
}

func sampleSet() *result.Set {
	return &result.Set{
		Columns: []string{"id", "name"},
		Rows: [][]result.Value{
			{result.Int(1), result.Text("alice")},
			{result.Int(2), result.Text("bob")},
		},
	}
}

type fixture struct {
	ts        *httptest.Server
	sess      *stubSession
	exportDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	store, err := profile.NewStore(filepath.Join(dir, "profiles.ini"))
	require.NoError(t, err)

	log := logger.New(&logger.Config{Level: "error", Output: io.Discard})
	sess := &stubSession{version: "8.0.36", tables: []string{"users", "orders"}, set: sampleSet()}

	exportDir := filepath.Join(dir, "exports")
	srv := New(log, Options{
		Profiles:    store,
		Session:     sess,
		Runner:      runner.New(log),
		ExportDir:   exportDir,
		DefaultPort: 3306,
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &fixture{ts: ts, sess: sess, exportDir: exportDir}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.ts.URL+path, &buf)
	require.NoError(t, err)

	resp, err := f.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestProfileLifecycle(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/profiles", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["profiles"])

	status, _ = f.do(t, http.MethodPost, "/api/profiles", map[string]string{
		"name": "staging", "host": "db.internal:3307", "user": "app", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = f.do(t, http.MethodGet, "/api/profiles", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"staging"}, body["profiles"])

	status, body = f.do(t, http.MethodGet, "/api/profiles/staging", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "db.internal:3307", body["host"])
	assert.Equal(t, "app", body["user"])

	status, _ = f.do(t, http.MethodDelete, "/api/profiles/staging", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = f.do(t, http.MethodDelete, "/api/profiles/staging", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, errs.ErrKindNotFound.String(), body["kind"])
}

func TestSaveProfileRequiresFields(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/profiles", map[string]string{
		"name": "", "host": "db", "user": "app",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errs.ErrKindInvalidInput.String(), body["kind"])
}

func TestLoadMissingProfile(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/profiles/absent", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, errs.ErrKindNotFound.String(), body["kind"])
}

func TestConnectParsesAddress(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/connect", map[string]string{
		"host": "db.example:3307", "user": "root", "password": "pw",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "connected", body["status"])
	assert.Equal(t, "8.0.36", body["server_version"])
	assert.Equal(t, "db.example", body["host"])
	assert.Equal(t, float64(3307), body["port"])
	assert.Equal(t, "db.example", f.sess.lastParams.Host)
	assert.Equal(t, 3307, f.sess.lastParams.Port)
}

func TestConnectDefaultsPort(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/connect", map[string]string{
		"host": "db.example", "user": "root",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3306), body["port"])
}

func TestConnectRejectsBadPort(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/connect", map[string]string{
		"host": "db.example:notaport", "user": "root",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errs.ErrKindInvalidInput.String(), body["kind"])
}

func TestConnectViaProfile(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/profiles", map[string]string{
		"name": "prod", "host": "prod-db:3308", "user": "svc", "password": "pw",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodPost, "/api/connect", map[string]string{"profile": "prod"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "prod-db", f.sess.lastParams.Host)
	assert.Equal(t, 3308, f.sess.lastParams.Port)
	assert.Equal(t, "svc", f.sess.lastParams.User)
	assert.Equal(t, "pw", f.sess.lastParams.Password)
}

func TestConnectUnknownProfile(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/connect", map[string]string{"profile": "ghost"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServerInfoRequiresConnection(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/server-info", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, errs.ErrKindNotConnected.String(), body["kind"])

	status, _ = f.do(t, http.MethodPost, "/api/connect", map[string]string{
		"host": "db", "user": "root",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = f.do(t, http.MethodGet, "/api/server-info", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "8.0.36", body["server_version"])
}

func TestDisconnect(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/connect", map[string]string{
		"host": "db", "user": "root",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := f.do(t, http.MethodPost, "/api/disconnect", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "disconnected", body["status"])
	assert.Equal(t, session.Disconnected, f.sess.State())
}

func TestListTables(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/tables", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"users", "orders"}, body["tables"])
}

func TestQueryReturnsMaterializedRows(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/query", map[string]string{
		"sql": "SELECT id, name FROM users",
	})
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, []any{"id", "name"}, body["columns"])
	assert.Equal(t, float64(2), body["row_count"])

	rows, ok := body["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{float64(1), "alice"}, rows[0])

	assert.Equal(t, []any{float64(2), "bob"}, body["last_row"])
}

func TestQueryRequiresSQL(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/query", map[string]string{"sql": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errs.ErrKindInvalidInput.String(), body["kind"])
}

func TestQueryFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.sess.execErr = errs.WrapCode(errs.ErrKindQueryFailed, "syntax error", 1064, nil)

	status, body := f.do(t, http.MethodPost, "/api/query", map[string]string{
		"sql": "SELEC oops",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errs.ErrKindQueryFailed.String(), body["kind"])
	assert.Equal(t, float64(1064), body["code"])
}

func TestExportWithoutResult(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/export", map[string]string{"format": "csv"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, fmt.Sprint(body["error"]), "run a query first")
}

func TestExportCSVWritesFile(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/query", map[string]string{
		"sql": "SELECT id, name FROM users",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := f.do(t, http.MethodPost, "/api/export", map[string]string{
		"format": "csv", "filename": "users",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["rows"])

	path := filepath.Join(f.exportDir, "users.csv")
	assert.Equal(t, path, body["path"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alice\n2,bob\n", string(data))
}

func TestExportFilenameCannotEscapeDir(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/query", map[string]string{
		"sql": "SELECT 1",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := f.do(t, http.MethodPost, "/api/export", map[string]string{
		"format": "csv", "filename": "../../etc/evil.csv",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, filepath.Join(f.exportDir, "evil.csv"), body["path"])
}

func TestExportUnsupportedFormat(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/query", map[string]string{
		"sql": "SELECT 1",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := f.do(t, http.MethodPost, "/api/export", map[string]string{"format": "pdf"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errs.ErrKindUnsupportedFormat.String(), body["kind"])
}
