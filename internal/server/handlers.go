package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/install"
	"github.com/ankushthakur2007/sqp/internal/repository"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBody = 1 << 16

// DayRequest is the body of PUT /api/days/{date}. Omitted fields clear the
// stored value; an all-empty body removes the day.
type DayRequest struct {
	Production   *float64 `json:"production"`
	Quality      *float64 `json:"quality"`
	SafetyStatus *string  `json:"safetyStatus"`
}

// Reading validates the request and converts it.
func (d DayRequest) Reading() (domain.Reading, error) {
	r := domain.Reading{Production: d.Production, Quality: d.Quality}
	if d.SafetyStatus != nil && *d.SafetyStatus != "" {
		s, err := domain.ParseSafetyStatus(*d.SafetyStatus)
		if err != nil {
			return domain.Reading{}, err
		}
		r.Safety = s.Ptr()
	}
	if err := r.Validate(); err != nil {
		return domain.Reading{}, err
	}
	return r.Clone(), nil
}

// DayResponse is returned by the day endpoints.
type DayResponse struct {
	Date      string         `json:"date"`
	Reading   domain.Reading `json:"reading"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// InstallResponse reports the install affordance state.
type InstallResponse struct {
	Available  bool `json:"available"`
	Standalone bool `json:"standalone"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid month %d", month))
		return
	}
	m := domain.Month{Year: year, Month: time.Month(month)}

	days, err := s.Readings.ListMonth(r.Context(), m)
	if err != nil {
		s.Log.Error("list month failed", zap.String("month", m.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BuildMonthView(m, days, s.Thresholds.Current(), s.Layouts))
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entry, err := s.Readings.Get(r.Context(), date)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("no entry for %s", date))
		return
	}
	if err != nil {
		s.Log.Error("get day failed", zap.String("date", date.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	updated := entry.UpdatedAt
	resp := DayResponse{Date: date.String(), Reading: entry.Reading}
	if !updated.IsZero() {
		resp.UpdatedAt = &updated
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePutDay(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req DayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	reading, err := req.Reading()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Readings.Save(r.Context(), date, reading); err != nil {
		s.Log.Error("save day failed", zap.String("date", date.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.Hub.Broadcast(Event{Type: EventSaved, Date: date.String()})
	writeJSON(w, http.StatusOK, DayResponse{Date: date.String(), Reading: reading})
}

func (s *Server) handleGetThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Thresholds.Current())
}

func (s *Server) handlePatchThresholds(w http.ResponseWriter, r *http.Request) {
	var patch domain.ThresholdPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if patch.Mode != nil {
		mode, err := domain.ParseThresholdMode(string(*patch.Mode))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		patch.Mode = &mode
	}
	if err := thresholds.ValidatePatch(s.Thresholds.Current(), patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Thresholds.Update(patch))
}

func (s *Server) handleGetInstall(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.installState())
}

// handleOfferInstall registers the environment's install capability. The
// prompt is delivered to connected clients as an install event.
func (s *Server) handleOfferInstall(w http.ResponseWriter, r *http.Request) {
	s.Install.Offer(func(context.Context) error {
		if s.Hub.Clients() == 0 {
			return errors.New("no client connected to show the install prompt")
		}
		s.Hub.Broadcast(Event{Type: EventInstall})
		return nil
	})
	writeJSON(w, http.StatusOK, s.installState())
}

func (s *Server) handleTriggerInstall(w http.ResponseWriter, r *http.Request) {
	err := s.Install.Trigger(r.Context())
	switch {
	case errors.Is(err, install.ErrUnavailable):
		writeError(w, http.StatusConflict, err)
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, s.installState())
}

func (s *Server) installState() InstallResponse {
	return InstallResponse{Available: s.Install.Available(), Standalone: s.Install.Standalone()}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
