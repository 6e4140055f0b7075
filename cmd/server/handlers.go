//go:build !js && !wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/catalog"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/lilypond"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/storage"
	"github.com/himanishpuri/StringHarmonics/pkg/logger"
)

// maxBodySize bounds chart creation requests.
const maxBodySize = 1 << 20

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service harmonics.Service
	catalog *catalog.Catalog
	config  *ServerConfig
	log     harmonics.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	DBPath         string
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service harmonics.Service, charts *catalog.Catalog, config *ServerConfig) *Server {
	return &Server{
		service: service,
		catalog: charts,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// respondFailure maps a query or storage error to its status code.
func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, harmonics.ErrParse), errors.Is(err, harmonics.ErrDomain):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrChartNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Errorf("Request failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Internal error")
	}
}

// serviceFor returns the server's service, or one bound to another
// harmonic limit when the request asks for it.
func (s *Server) serviceFor(r *http.Request) (harmonics.Service, error) {
	raw := r.URL.Query().Get("max")
	if raw == "" {
		return s.service, nil
	}
	maxN, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: max must be an integer, got %q", harmonics.ErrDomain, raw)
	}
	if maxN == s.service.Config().MaxHarmonic {
		return s.service, nil
	}
	cfg := s.service.Config()
	return harmonics.NewService(
		harmonics.WithMaxHarmonic(maxN),
		harmonics.WithTolerance(cfg.Tolerance),
		harmonics.WithTie(cfg.Tie),
		harmonics.WithSpelling(cfg.Spelling),
		harmonics.WithLogger(cfg.Logger),
	)
}

func parseNote(name string) (pitch.Pitch, error) {
	p, err := pitch.ParseAbsolute(name)
	if err == nil {
		return p, nil
	}
	if lp, lerr := lilypond.ParsePitch(name); lerr == nil {
		return lp, nil
	}
	return 0, err
}

func nodeDTO(svc harmonics.Service, node harmonics.Node) NodeDTO {
	return NodeDTO{
		Index:        node.Index,
		Position:     node.Position,
		FingeredNote: svc.Format(node.Match.Pitch),
		Cents:        node.Match.Cents,
		Octave:       node.Region + 1,
	}
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "StringHarmonics API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":      "GET /health",
			"harmonics":   "GET /api/harmonics?string=A3&max=8&octave=2",
			"positions":   "GET /api/positions?pitch=D5&strings=cello&tolerance=50",
			"pitch":       "GET /api/pitch/{name}",
			"listCharts":  "GET /api/charts",
			"createChart": "POST /api/charts",
			"getChart":    "GET /api/charts/{id}",
			"chartHTML":   "GET /api/charts/{id}/html",
			"deleteChart": "DELETE /api/charts/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleHarmonics handles GET /api/harmonics
func (s *Server) handleHarmonics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("string")
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "string parameter is required")
		return
	}
	open, err := parseNote(name)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	svc, err := s.serviceFor(r)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	octave := 0
	var rows []harmonics.HarmonicRow
	if raw := q.Get("octave"); raw != "" {
		octave, err = strconv.Atoi(raw)
		if err != nil || octave < 1 {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("octave must be a positive integer, got %q", raw))
			return
		}
		rows, err = svc.TableInRegion(open, octave-1)
	} else {
		rows, err = svc.Table(open)
	}
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	dtos := make([]HarmonicDTO, len(rows))
	for i, row := range rows {
		nodes := make([]NodeDTO, len(row.Nodes))
		for j, node := range row.Nodes {
			nodes[j] = nodeDTO(svc, node)
		}
		dtos[i] = HarmonicDTO{
			Harmonic: row.Harmonic,
			Interval: row.Interval,
			Sounds:   svc.Format(row.Sounding.Pitch),
			Cents:    row.Sounding.Cents,
			Nodes:    nodes,
		}
	}

	s.respondJSON(w, http.StatusOK, HarmonicsResponse{
		String:      svc.Format(open),
		MaxHarmonic: svc.Config().MaxHarmonic,
		Octave:      octave,
		Harmonics:   dtos,
	})
}

// handlePositions handles GET /api/positions
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("pitch")
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "pitch parameter is required")
		return
	}
	target, err := parseNote(name)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	strs := q.Get("strings")
	if strs == "" {
		strs = q.Get("instrument")
	}
	if strs == "" {
		s.respondError(w, http.StatusBadRequest, "strings or instrument parameter is required")
		return
	}
	tuning, err := harmonics.ResolveTuning(strs)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	svc, err := s.serviceFor(r)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	tolerance := svc.Config().Tolerance
	if raw := q.Get("tolerance"); raw != "" {
		tolerance, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("tolerance must be a number, got %q", raw))
			return
		}
	}

	positions, err := svc.PositionsWithin(tuning, target, tolerance)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	dtos := make([]PositionDTO, len(positions))
	for i, p := range positions {
		dtos[i] = PositionDTO{
			String:   p.String + 1,
			Open:     svc.Format(p.Open),
			Harmonic: p.Harmonic,
			Sounds:   svc.Format(p.Sounding.Pitch),
			Cents:    p.Sounding.Cents,
			Node:     nodeDTO(svc, p.Node),
		}
	}

	s.respondJSON(w, http.StatusOK, PositionsResponse{
		Pitch:       svc.Format(target),
		Strings:     tuning.Names(svc.Config().Spelling),
		MaxHarmonic: svc.Config().MaxHarmonic,
		Tolerance:   tolerance,
		Positions:   dtos,
		Count:       len(dtos),
	})
}

// handlePitch handles GET /api/pitch/{name}
func (s *Server) handlePitch(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid pitch name")
		return
	}
	p, err := parseNote(name)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, PitchResponse{
		Name:      s.service.Format(p),
		Semitone:  pitch.Semitone(p),
		Octave:    p.Octave(),
		Frequency: p.Hz(),
		Spellings: map[string]string{
			"fifths": pitch.Format(p, pitch.Fifths),
			"sharp":  pitch.Format(p, pitch.Sharp),
			"flat":   pitch.Format(p, pitch.Flat),
		},
		LilyPond: lilypond.FormatPitch(p, s.service.Config().Spelling),
	})
}

func chartDTO(c storage.Chart, full bool) ChartDTO {
	dto := ChartDTO{
		ID:          c.ID,
		Kind:        c.Kind,
		Title:       c.Title,
		Strings:     c.Strings,
		Notes:       c.Notes,
		MaxHarmonic: c.MaxHarmonic,
		CreatedAt:   c.CreatedAt,
	}
	if c.Kind == storage.KindHarmonics && c.Region != harmonics.NoRegion {
		dto.Octave = c.Region + 1
	}
	if full {
		dto.Body = c.Body
		dto.Markdown = c.Markdown
	}
	return dto
}

// handleListCharts handles GET /api/charts
func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxListLimit {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", MaxListLimit))
			return
		}
		limit = n
	}

	charts, err := s.catalog.List(r.URL.Query().Get("kind"), limit)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	dtos := make([]ChartDTO, len(charts))
	for i, c := range charts {
		dtos[i] = chartDTO(c, false)
	}
	s.respondJSON(w, http.StatusOK, ListChartsResponse{
		Charts: dtos,
		Count:  len(dtos),
	})
}

// handleCreateChart handles POST /api/charts
func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	var req CreateChartRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	region := harmonics.NoRegion
	if req.Octave > 0 {
		region = req.Octave - 1
	}
	chart, err := s.catalog.Save(catalog.Request{
		Kind:    req.Kind,
		Title:   strings.TrimSpace(req.Title),
		Strings: req.Strings,
		Notes:   req.Notes,
		Region:  region,
	})
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	w.Header().Set("Location", "/api/charts/"+chart.ID)
	s.respondJSON(w, http.StatusCreated, chartDTO(*chart, true))
}

// handleGetChart handles GET /api/charts/{id}
func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	chart, err := s.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, chartDTO(*chart, true))
}

// handleChartHTML handles GET /api/charts/{id}/html
func (s *Server) handleChartHTML(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.HTML(chi.URLParam(r, "id"))
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, page); err != nil {
		s.log.Errorf("Failed to write chart page: %v", err)
	}
}

// handleDeleteChart handles DELETE /api/charts/{id}
func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.Delete(id); err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, DeleteChartResponse{
		Message: "Chart deleted successfully",
		ID:      id,
	})
}
