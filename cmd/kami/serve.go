package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ughe/kami/config"
	"github.com/ughe/kami/editdist"
	"github.com/ughe/kami/metrics"
	"github.com/ughe/kami/pipeline"
	"github.com/ughe/kami/transform"
)

// scoreRequest overrides the server settings for one evaluation.
type scoreRequest struct {
	Reference   string   `json:"reference"`
	Prediction  string   `json:"prediction"`
	Transforms  *string  `json:"transforms,omitempty"`
	Insertion   *float64 `json:"insertion_cost,omitempty"`
	Deletion    *float64 `json:"deletion_cost,omitempty"`
	Substitute  *float64 `json:"substitution_cost,omitempty"`
	Percent     *bool    `json:"percent,omitempty"`
	Truncate    *bool    `json:"truncate,omitempty"`
	RoundDigits *string  `json:"round_digits,omitempty"`
}

type scoreResponse struct {
	Scores                *pipeline.Report `json:"scores"`
	ReferenceTransformed  string           `json:"reference_transformed,omitempty"`
	PredictionTransformed string           `json:"prediction_transformed,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// options applies the overrides of req to a copy of cfg.
func (req *scoreRequest) options(cfg config.Config) (pipeline.Options, error) {
	if req.Transforms != nil {
		cfg.Transforms = *req.Transforms
	}
	if req.Insertion != nil {
		cfg.Costs.Insertion = *req.Insertion
	}
	if req.Deletion != nil {
		cfg.Costs.Deletion = *req.Deletion
	}
	if req.Substitute != nil {
		cfg.Costs.Substitution = *req.Substitute
	}
	if req.Percent != nil {
		cfg.Display.Percent = *req.Percent
	}
	if req.Truncate != nil {
		cfg.Display.Truncate = *req.Truncate
	}
	if req.RoundDigits != nil {
		cfg.Display.RoundDigits = *req.RoundDigits
	}
	return pipelineOptions(&cfg)
}

func scoreHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 32<<20))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		opts, err := req.options(*cfg)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		report, err := pipeline.Evaluate(r.Context(), req.Reference, req.Prediction, opts)
		switch {
		case errors.Is(err, metrics.ErrEmptyReference):
			respondError(w, http.StatusUnprocessableEntity, err)
			return
		case errors.Is(err, editdist.ErrAlignmentOverflow):
			respondError(w, http.StatusRequestEntityTooLarge, err)
			return
		case err != nil:
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		respondJSON(w, http.StatusOK, scoreResponse{
			Scores:                report,
			ReferenceTransformed:  report.ReferenceTransformed,
			PredictionTransformed: report.PredictionTransformed,
		})
	}
}

func transformsHandler(w http.ResponseWriter, r *http.Request) {
	type code struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	codes := make([]code, 0, len(transform.All))
	for _, t := range transform.All {
		codes = append(codes, code{string(t.Code), t.Name})
	}
	respondJSON(w, http.StatusOK, codes)
}

func newRouter(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Serve.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(ar chi.Router) {
		ar.Post("/score", scoreHandler(cfg))
		ar.Get("/transforms", transformsHandler)
	})
	if cfg.Serve.Static != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Serve.Static)))
	}
	return r
}

func serveCommand(s *settings, addr, static string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Serve.Addr = addr
	}
	if static != "" {
		cfg.Serve.Static = static
	}
	log.Printf("Serving HTTP on http://0.0.0.0%s/ ...\n", cfg.Serve.Addr)
	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           newRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
