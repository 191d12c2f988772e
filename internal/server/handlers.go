package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/export"
	"github.com/hawkdb/hawkdb/internal/result"
	"github.com/hawkdb/hawkdb/internal/session"
)

// presignTTL bounds how long a published export's download URL stays valid.
const presignTTL = 24 * time.Hour

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.opts.Profiles.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": names})
}

type saveProfileRequest struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req saveProfileRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Host) == "" || strings.TrimSpace(req.User) == "" {
		s.writeError(w, errs.New(errs.ErrKindInvalidInput,
			"profile name, host, and user are required"))
		return
	}

	if err := s.opts.Profiles.Save(req.Name, req.Host, req.User, req.Password); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Infof("profile %q saved", req.Name)
	writeJSON(w, http.StatusOK, map[string]any{"saved": req.Name})
}

func (s *Server) handleLoadProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.opts.Profiles.Load(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":     p.Name,
		"host":     p.Host,
		"user":     p.User,
		"password": p.Password,
	})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	deleted, err := s.opts.Profiles.Delete(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, errs.New(errs.ErrKindNotFound,
			fmt.Sprintf("profile %q not found", name)))
		return
	}
	s.log.Infof("profile %q deleted", name)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

type connectRequest struct {
	Profile  string `json:"profile"`
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// handleConnect opens the session. The caller either names a saved profile
// or supplies host and user inline; inline fields override the profile's.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if req.Profile != "" {
		p, err := s.opts.Profiles.Load(req.Profile)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if req.Host == "" {
			req.Host = p.Host
		}
		if req.User == "" {
			req.User = p.User
		}
		if req.Password == "" {
			req.Password = p.Password
		}
	}

	if strings.TrimSpace(req.Host) == "" || strings.TrimSpace(req.User) == "" {
		s.writeError(w, errs.New(errs.ErrKindInvalidInput, "host and user are required"))
		return
	}

	host, port, err := session.ParseHostPort(req.Host, s.opts.DefaultPort)
	if err != nil {
		s.writeError(w, err)
		return
	}

	params := session.Params{
		Host:     host,
		Port:     port,
		User:     req.User,
		Password: req.Password,
		Database: req.Database,
	}
	if err := s.opts.Session.Connect(r.Context(), params); err != nil {
		s.writeError(w, err)
		return
	}

	version, _ := s.opts.Session.ServerInfo()
	s.log.With().Str("host", host).Int("port", port).Logger().
		Infof("connected, server version %s", version)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         session.Connected.String(),
		"server_version": version,
		"host":           host,
		"port":           port,
	})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Session.Disconnect(); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("disconnected")
	writeJSON(w, http.StatusOK, map[string]any{
		"status": session.Disconnected.String(),
	})
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	version, ok := s.opts.Session.ServerInfo()
	if !ok {
		s.writeError(w, errs.New(errs.ErrKindNotConnected, "no open connection"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"server_version": version})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.opts.Session.ListTables(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

type queryRequest struct {
	SQL string `json:"sql"`
}

// handleQuery submits the SQL through the runner and waits for its single
// terminal outcome. The handler blocks for the duration of the query; a
// concurrent second query is rejected with 409 by the runner's guard.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		s.writeError(w, errs.New(errs.ErrKindInvalidInput, "sql is required"))
		return
	}

	out, err := s.opts.Runner.Run(r.Context(), s.opts.Session, req.SQL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	outcome := <-out
	if outcome.Err != nil {
		s.writeError(w, outcome.Err)
		return
	}

	s.setLastResult(outcome.Set, outcome.Elapsed)

	writeJSON(w, http.StatusOK, map[string]any{
		"columns":    outcome.Set.Columns,
		"rows":       nativeRows(outcome.Set),
		"row_count":  outcome.Set.RowCount(),
		"elapsed_ms": outcome.Elapsed.Milliseconds(),
		"last_row":   nativeRow(outcome.Set.LastRow()),
	})
}

func nativeRows(set *result.Set) [][]any {
	rows := make([][]any, len(set.Rows))
	for i, row := range set.Rows {
		rows[i] = nativeRow(row)
	}
	return rows
}

func nativeRow(row []result.Value) []any {
	if row == nil {
		return nil
	}
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v.Native()
	}
	return out
}

type exportRequest struct {
	Format   string `json:"format"`
	Filename string `json:"filename"`
	Table    string `json:"table"`
}

// handleExport writes the held result set to a file under ExportDir and,
// when a publisher is configured, uploads it and returns a download URL.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	set := s.lastResult()
	if set == nil || set.Empty() {
		s.writeError(w, errs.New(errs.ErrKindNotConnected,
			"no result set to export: run a query first"))
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := strings.TrimSpace(req.Filename)
	if name == "" {
		name = "export" + format.Extension()
	} else if filepath.Ext(name) == "" {
		name += format.Extension()
	}
	// Exports never escape ExportDir regardless of what the caller sends.
	name = filepath.Base(name)
	path := filepath.Join(s.opts.ExportDir, name)

	if err := os.MkdirAll(s.opts.ExportDir, 0o755); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrKindIOFailure,
			"cannot create export directory", err))
		return
	}
	if err := export.Export(set, format, path, req.Table); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Infof("exported %d row(s) to %s", set.RowCount(), path)

	resp := map[string]any{
		"path":   path,
		"format": format.String(),
		"rows":   set.RowCount(),
	}

	if s.opts.Publisher != nil {
		if _, err := s.opts.Publisher.Publish(r.Context(), s.opts.Bucket, name, path,
			contentTypeFor(format)); err != nil {
			s.writeError(w, err)
			return
		}
		url, err := s.opts.Publisher.PresignGetURL(r.Context(), s.opts.Bucket, name, presignTTL)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp["url"] = url
	}

	writeJSON(w, http.StatusOK, resp)
}

func contentTypeFor(f export.Format) string {
	switch f {
	case export.FormatCSV:
		return "text/csv"
	case export.FormatSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/sql"
	}
}
