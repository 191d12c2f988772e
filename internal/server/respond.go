package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hawkdb/hawkdb/internal/errs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to an HTTP status. Busy and NotConnected are
// conflicts with the session's current state, not client mistakes.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindInvalidInput, errs.ErrKindUnsupportedFormat, errs.ErrKindQueryFailed:
		return http.StatusBadRequest
	case errs.ErrKindBusy, errs.ErrKindNotConnected:
		return http.StatusConflict
	case errs.ErrKindAuthFailed:
		return http.StatusUnauthorized
	case errs.ErrKindHostUnreachable:
		return http.StatusBadGateway
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWith("request failed", err)
	} else {
		s.log.Debugf("request rejected: %v", err)
	}

	body := map[string]any{
		"error": err.Error(),
		"kind":  errs.KindOf(err).String(),
	}
	var e *errs.Error
	if errors.As(err, &e) && e.Code != 0 {
		body["code"] = e.Code
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "malformed request body", err)
	}
	return nil
}
