//go:build !js && !wasm

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/storage"
)

// MaxListLimit caps GET /api/charts?limit=.
const MaxListLimit = 500

// NodeDTO is one touch point of a harmonic.
type NodeDTO struct {
	Index        int     `json:"index"`
	Position     float64 `json:"position"`
	FingeredNote string  `json:"fingered_note"`
	Cents        float64 `json:"cents"`
	Octave       int     `json:"octave"` // 1-based fingering-position octave
}

// HarmonicDTO is one row of a harmonics table.
type HarmonicDTO struct {
	Harmonic int       `json:"harmonic"`
	Interval float64   `json:"interval"`
	Sounds   string    `json:"sounds"`
	Cents    float64   `json:"cents"`
	Nodes    []NodeDTO `json:"nodes"`
}

// HarmonicsResponse is the response for GET /api/harmonics
type HarmonicsResponse struct {
	String      string        `json:"string"`
	MaxHarmonic int           `json:"max_harmonic"`
	Octave      int           `json:"octave,omitempty"`
	Harmonics   []HarmonicDTO `json:"harmonics"`
}

// PositionDTO is one way to play the requested pitch.
type PositionDTO struct {
	String   int     `json:"string"` // 1-based, highest string first for named instruments
	Open     string  `json:"open"`
	Harmonic int     `json:"harmonic"`
	Sounds   string  `json:"sounds"`
	Cents    float64 `json:"cents"`
	Node     NodeDTO `json:"node"`
}

// PositionsResponse is the response for GET /api/positions
type PositionsResponse struct {
	Pitch       string        `json:"pitch"`
	Strings     []string      `json:"strings"`
	MaxHarmonic int           `json:"max_harmonic"`
	Tolerance   float64       `json:"tolerance"`
	Positions   []PositionDTO `json:"positions"`
	Count       int           `json:"count"`
}

// PitchResponse is the response for GET /api/pitch/{name}
type PitchResponse struct {
	Name      string            `json:"name"`
	Semitone  int               `json:"semitone"`
	Octave    int               `json:"octave"`
	Frequency float64           `json:"frequency"`
	Spellings map[string]string `json:"spellings"`
	LilyPond  string            `json:"lilypond"`
}

// CreateChartRequest is the request body for POST /api/charts
type CreateChartRequest struct {
	Kind    string   `json:"kind"`
	Title   string   `json:"title,omitempty"`
	Strings string   `json:"strings"`
	Notes   []string `json:"notes,omitempty"`
	// Octave limits a harmonics chart to one 1-based fingering-position
	// octave. Zero means the whole string.
	Octave int `json:"octave,omitempty"`
}

// Validate checks if the request is valid
func (r *CreateChartRequest) Validate() error {
	switch r.Kind {
	case storage.KindHarmonics, storage.KindNotes:
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("kind must be %q or %q, got %q", storage.KindHarmonics, storage.KindNotes, r.Kind)
	}
	if strings.TrimSpace(r.Strings) == "" {
		return fmt.Errorf("strings is required")
	}
	if r.Kind == storage.KindNotes && len(r.Notes) == 0 {
		return fmt.Errorf("notes is required for a notes chart")
	}
	if r.Octave < 0 {
		return fmt.Errorf("octave must not be negative, got %d", r.Octave)
	}
	return nil
}

// ChartDTO represents a stored chart in API responses
type ChartDTO struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Strings     string    `json:"strings"`
	Notes       string    `json:"notes,omitempty"`
	MaxHarmonic int       `json:"max_harmonic"`
	Octave      int       `json:"octave,omitempty"`
	Body        string    `json:"body,omitempty"`
	Markdown    string    `json:"markdown,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListChartsResponse is the response for GET /api/charts
type ListChartsResponse struct {
	Charts []ChartDTO `json:"charts"`
	Count  int        `json:"count"`
}

// DeleteChartResponse is the response for DELETE /api/charts/{id}
type DeleteChartResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
