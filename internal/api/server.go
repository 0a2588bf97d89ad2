// Package api exposes the lead store and ingestion pipeline over HTTP.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow-cli/internal/ingest"
	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/revenue"
	"github.com/leadflow/leadflow-cli/internal/store"
)

const maxImportBody = 10 << 20

type server struct {
	store    store.Store
	pipeline *ingest.Pipeline
}

// NewHandler builds the HTTP routing tree.
func NewHandler(st store.Store, p *ingest.Pipeline) http.Handler {
	s := &server{store: st, pipeline: p}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/leads", s.handleListLeads)
		r.Post("/leads", s.handleCreateLead)
		r.Patch("/leads/{id}/stage", s.handleUpdateStage)
		r.Get("/stats", s.handleStats)
		r.Post("/sync", s.handleSync)
		r.Post("/import", s.handleImport)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOptions{
		Page:        intParam(q.Get("page"), 1),
		PageSize:    intParam(q.Get("page_size"), store.DefaultPageSize),
		Temperature: model.Temperature(q.Get("temperature")),
		Tier:        model.Tier(q.Get("tier")),
		Stage:       model.PipelineStage(q.Get("stage")),
		Search:      q.Get("search"),
	}

	page, err := s.store.ListLeads(r.Context(), opts)
	if err != nil {
		zap.L().Error("list leads", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type createLeadRequest struct {
	BusinessName string `json:"business_name"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	State        string `json:"state"`
	Industry     string `json:"industry"`
	Revenue      string `json:"revenue"`
}

func (s *server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		writeError(w, http.StatusBadRequest, "business_name is required")
		return
	}

	lead := &model.Lead{
		BusinessName: req.BusinessName,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		State:        req.State,
		Industry:     req.Industry,
		Revenue:      revenue.Normalize(req.Revenue),
	}
	if err := s.pipeline.CreateLead(r.Context(), lead); err != nil {
		zap.L().Error("create lead", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create lead")
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

func (s *server) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	stage := model.PipelineStage(req.Stage)
	if !model.ValidStage(stage) {
		writeError(w, http.StatusBadRequest, "invalid pipeline stage: "+req.Stage)
		return
	}

	if err := s.store.UpdateLeadStage(r.Context(), id, stage); err != nil {
		if strings.Contains(err.Error(), "lead not found") {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		zap.L().Error("update lead stage", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update stage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "stage": req.Stage})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetLeadStats(r.Context())
	if err != nil {
		zap.L().Error("get lead stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *server) handleSync(w http.ResponseWriter, r *http.Request) {
	res := s.pipeline.SyncSheets(r.Context())
	if !res.Success {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	res, err := s.pipeline.SmartImport(r.Context(), string(body))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
