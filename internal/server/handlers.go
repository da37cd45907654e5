package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/service/draft"
	"github.com/dearpower/dearpower-go/internal/service/geocode"
	"github.com/dearpower/dearpower-go/internal/service/representative"
	"github.com/dearpower/dearpower-go/internal/util"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"mapboxToken": s.deps.MapboxToken,
	})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"topics": draft.Topics})
}

func (s *Server) handleRepresentative(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	record, err := s.deps.Representatives.ResolveRepresentative(r.Context(), query)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	kind := errors.KindOf(err)
	if kind == "" {
		s.logger.Error("Representative lookup failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, representative.UserMessage(err))
		return
	}

	status := kind.HTTPStatus()
	if status >= 500 {
		s.logger.Warn("Representative lookup failed",
			zap.String("kind", string(kind)),
			zap.String("stage", string(errors.StageOf(err))),
			zap.Error(err),
		)
	}

	s.writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Kind:    string(kind),
		Stage:   string(errors.StageOf(err)),
		Message: representative.UserMessage(err),
	})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	partial := mux.Vars(r)["partial"]
	s.writeJSON(w, http.StatusOK, map[string][]string{
		"result": s.deps.Postcodes.Autocomplete(r.Context(), partial),
	})
}

// featureResponse adds the postcode read from a geocoding feature.
type featureResponse struct {
	geocode.Feature
	Postcode string `json:"postcode,omitempty"`
}

func toFeatureResponses(features []geocode.Feature) []featureResponse {
	out := make([]featureResponse, 0, len(features))
	for _, f := range features {
		pc, _ := f.Postcode()
		out = append(out, featureResponse{Feature: f, Postcode: pc})
	}
	return out
}

func (s *Server) handleGeocodeSearch(w http.ResponseWriter, r *http.Request) {
	if !s.geocoderReady(w) {
		return
	}

	features, err := s.deps.Geocoder.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeValidationError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"features": toFeatureResponses(features)})
}

func (s *Server) handleGeocodeReverse(w http.ResponseWriter, r *http.Request) {
	if !s.geocoderReady(w) {
		return
	}
	lng, lat, ok := s.parsePoint(w, r)
	if !ok {
		return
	}

	feature, err := s.deps.Geocoder.Reverse(r.Context(), lng, lat)
	if err != nil {
		s.writeValidationError(w, err)
		return
	}

	var body struct {
		Feature *featureResponse `json:"feature"`
	}
	if feature != nil {
		resp := toFeatureResponses([]geocode.Feature{*feature})[0]
		body.Feature = &resp
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleGeocodeNearby(w http.ResponseWriter, r *http.Request) {
	if !s.geocoderReady(w) {
		return
	}
	lng, lat, ok := s.parsePoint(w, r)
	if !ok {
		return
	}

	features, err := s.deps.Geocoder.Nearby(r.Context(), lng, lat)
	if err != nil {
		s.writeValidationError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"features": toFeatureResponses(features)})
}

func (s *Server) geocoderReady(w http.ResponseWriter) bool {
	if s.deps.Geocoder == nil || !s.deps.Geocoder.Configured() {
		s.writeError(w, http.StatusServiceUnavailable, "address search is not configured")
		return false
	}
	return true
}

func (s *Server) parsePoint(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	q := r.URL.Query()
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lng")), 64)
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	if lngErr != nil || latErr != nil {
		s.writeError(w, http.StatusBadRequest, "lng and lat must be numbers")
		return 0, 0, false
	}
	return lng, lat, true
}

type mpPayload struct {
	domain.RepresentativeRecord
	Name string `json:"name"`
}

type generateEmailRequest struct {
	MP           *mpPayload `json:"mp"`
	Topic        string     `json:"topic"`
	Reference    string     `json:"reference"`
	Constituency string     `json:"constituency"`
	FullName     string     `json:"fullName"`
	Address      string     `json:"address"`
}

func (req generateEmailRequest) toDraftRequest() domain.DraftRequest {
	out := domain.DraftRequest{
		Topic:            req.Topic,
		ReferenceURL:     req.Reference,
		ConstituencyName: req.Constituency,
		SenderName:       req.FullName,
		SenderAddress:    req.Address,
	}
	if req.MP != nil {
		record := req.MP.RepresentativeRecord
		record.DisplayName = util.FirstNonEmpty(record.DisplayName, req.MP.Name)
		out.Representative = &record
	}
	return out
}

func (s *Server) handleGenerateEmail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.ServerConfig.MaxDraftBodyBytes)

	var req generateEmailRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		if stderrors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, "request body is required")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.deps.Drafter.Generate(r.Context(), req.toDraftRequest())
	if err != nil {
		var validation *errors.ValidationError
		if stderrors.As(err, &validation) {
			s.writeValidationError(w, err)
			return
		}
		s.logger.Error("Draft generation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to generate email")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeValidationError(w http.ResponseWriter, err error) {
	var validation *errors.ValidationError
	if stderrors.As(err, &validation) {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Field:   validation.Field,
			Message: validation.Message,
		})
		return
	}
	s.logger.Error("Request failed", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "no such endpoint")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := make(map[string]bool, len(s.deps.HealthChecks))
	for name, check := range s.deps.HealthChecks {
		healthy := check(ctx)
		checks[name] = healthy
		if !healthy {
			status = "degraded"
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
