package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/porenet/pkg/buildinfo"
	"github.com/matzehuels/porenet/pkg/errors"
	porenetio "github.com/matzehuels/porenet/pkg/io"
	"github.com/matzehuels/porenet/pkg/pipeline"
	"github.com/matzehuels/porenet/pkg/store"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Uptime    string         `json:"uptime"`
	Build     buildinfo.Info `json:"build"`
}

// ListResponse is the body of GET /sweeps.
type ListResponse struct {
	Runs []pipeline.Summary `json:"runs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Build:     buildinfo.Current(),
	})
}

func (s *Server) handleCreateSweep(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var opts pipeline.Options
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil && !stderrors.Is(err, io.EOF) {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode options"))
		return
	}
	if err := opts.CheckLimits(); err != nil {
		writeError(w, err)
		return
	}
	opts.Workers = min(max(opts.Workers, 1), runtime.NumCPU())

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		if !errors.IsInvalid(err) {
			s.logger.Error("sweep failed", "err", err)
		}
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), res); err != nil {
		s.logger.Error("store run", "id", res.ID, "err", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/sweeps/"+res.ID)
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListSweeps(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be an integer, got %q", raw))
			return
		}
		limit = n
	}

	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Runs: runs})
}

func (s *Server) handleGetSweep(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := errors.ValidateFormat(format, pipeline.SeriesFormats...); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if format == pipeline.FormatCSV {
		w.Header().Set("Content-Type", contentTypes[format])
		w.WriteHeader(http.StatusOK)
		if err := porenetio.WriteSeriesCSV(res.Series, w); err != nil {
			s.logger.Warn("write csv", "id", res.ID, "err", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ro := pipeline.RenderOptions{Variant: q.Get("variant")}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	ro.Formats = []string{format}

	var err error
	if raw := q.Get("level"); raw != "" {
		if ro.Level, err = strconv.ParseFloat(raw, 64); err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "level must be a number, got %q", raw))
			return
		}
	}
	if ro.Detailed, err = parseBool(q.Get("detailed")); err != nil {
		writeError(w, err)
		return
	}
	if ro.Compact, err = parseBool(q.Get("compact")); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := res.Options
	opts.Refresh = false

	artifacts, err := s.runner.Render(r.Context(), opts, ro)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", raw)
	}
	return b, nil
}
