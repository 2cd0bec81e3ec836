package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/overtimestaff/marketboard/internal/access"
	"github.com/overtimestaff/marketboard/internal/currency"
	"github.com/overtimestaff/marketboard/internal/feed"
	"github.com/overtimestaff/marketboard/internal/forms"
	"github.com/overtimestaff/marketboard/internal/market"
	"github.com/overtimestaff/marketboard/internal/session"
)

// maxBody caps request bodies.
const maxBody = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	view := s.board.View()

	health := struct {
		Status string     `json:"status"`
		State  feed.State `json:"state"`
		Items  int        `json:"items"`
		Stale  bool       `json:"stale"`
	}{
		Status: "healthy",
		State:  view.State,
		Items:  len(view.Items),
		Stale:  view.Stale,
	}
	if view.Stale || view.State != feed.StateLive {
		health.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.View())
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.writer == nil {
		writeError(w, http.StatusNotImplemented, "publishing is disabled")
		return
	}

	role, ok := s.resolveRole(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}
	if role != access.RolePlatformAdmin {
		writeError(w, http.StatusForbidden, "platform admin role required")
		return
	}

	var f forms.ListingForm
	if !s.decode(w, r, &f) {
		return
	}
	in, err := forms.ValidateListing(f)
	if err != nil {
		s.writeValidation(w, err)
		return
	}

	row, err := s.writer.Insert(r.Context(), in)
	if err != nil {
		s.logger.Error("failed to publish listing", "error", err)
		writeError(w, http.StatusBadGateway, "failed to publish listing")
		return
	}

	s.logger.Info("listing published", "id", string(row.ID), "type", row.Type)
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.board.Refresh(r.Context())
	switch {
	case errors.Is(err, market.ErrClosed), errors.Is(err, market.ErrDiscarded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		// The board keeps its last-known-good list and shows a banner.
		s.logger.Warn("refresh failed", "error", err)
	}
	writeJSON(w, http.StatusOK, s.board.View())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	err := s.board.Resume(r.Context())
	switch {
	case errors.Is(err, market.ErrNotPaused):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, market.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.logger.Warn("resume failed", "error", err)
	}
	writeJSON(w, http.StatusOK, s.board.View())
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.board.DismissBanner()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currency.Available())
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	from, to := vars["from"], vars["to"]

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	converted := currency.Convert(amount, from, to, s.rates)
	writeJSON(w, http.StatusOK, map[string]any{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
		"display":   currency.Format(converted, to, currency.Rates{}),
	})
}

type sessionBody struct {
	Phase string        `json:"phase"`
	User  *session.User `json:"user"`
	Home  string        `json:"home"`
}

func (s *Server) sessionView() sessionBody {
	body := sessionBody{
		Phase: s.sessions.Phase().String(),
		Home:  access.RouteLogin,
	}
	if u, ok := s.sessions.Current(); ok {
		body.User = &u
		body.Home = access.DetermineInitialDashboard(u.Role.AccessRole())
	}
	return body
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "sessions are disabled")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "sessions are disabled")
		return
	}

	var u session.User
	if !s.decode(w, r, &u) {
		return
	}

	err := s.sessions.SetUser(r.Context(), u)
	switch {
	case errors.Is(err, session.ErrInvalidRole), errors.Is(err, session.ErrMissingUserID):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "sessions are disabled")
		return
	}
	if err := s.sessions.Clear(r.Context()); err != nil {
		s.logger.Error("failed to clear session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	var err error
	switch mux.Vars(r)["form"] {
	case "profile":
		var f forms.ProfileForm
		if !s.decode(w, r, &f) {
			return
		}
		err = forms.ValidateProfile(f)
	case "shift":
		var f forms.ShiftForm
		if !s.decode(w, r, &f) {
			return
		}
		err = forms.ValidateShift(f)
	case "application":
		var f forms.ApplicationForm
		if !s.decode(w, r, &f) {
			return
		}
		err = forms.ValidateApplication(f)
	default:
		writeError(w, http.StatusNotFound, "unknown form")
		return
	}

	if err != nil {
		s.writeValidation(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	role, _ := s.resolveRole(r)
	writeJSON(w, http.StatusOK, map[string]string{
		"route": r.URL.Path,
		"role":  string(role),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeValidation(w http.ResponseWriter, err error) {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, verr)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
