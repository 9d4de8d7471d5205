package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/proaptus/tanklab/pkg/analysis"
	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/reliability"
	"github.com/proaptus/tanklab/pkg/vessel"
)

func (s *Server) handleCreateDesign(w http.ResponseWriter, req *http.Request) {
	var d vessel.Design
	if err := json.NewDecoder(req.Body).Decode(&d); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed design body"))
		return
	}
	if err := d.Validate(); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.store.Put(req.Context(), &d)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("design registered", "design", id, "name", d.Name)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListDesigns(w http.ResponseWriter, req *http.Request) {
	ids, err := s.store.List(req.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"designs": ids})
}

func (s *Server) handleGetDesign(w http.ResponseWriter, req *http.Request) {
	d, err := s.store.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := s.store.Delete(req.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("design removed", "design", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStress(w http.ResponseWriter, req *http.Request) {
	d, err := s.store.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	q := req.URL.Query()
	loadCase, err := vessel.ParseLoadCase(q.Get("load_case"))
	if err != nil {
		writeError(w, err)
		return
	}
	stressType, err := vessel.ParseStressType(q.Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	seed, err := parseUint(q.Get("seed"))
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Stress(req.Context(), analysis.Request{
		Design:             d,
		LoadCase:           loadCase,
		StressType:         stressType,
		IncludeFlatContour: q.Get("flat") == "true",
		Seed:               seed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReliability(w http.ResponseWriter, req *http.Request) {
	d, err := s.store.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	q := req.URL.Query()
	opts := reliability.Options{}
	if v := q.Get("samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidQuery, "samples %q is not an integer", v))
			return
		}
		opts.Samples = n
	}
	opts.Seed, err = parseUint(q.Get("seed"))
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Reliability(req.Context(), d, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func parseUint(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidQuery, "seed %q is not an unsigned integer", v)
	}
	return n, nil
}
