// Package chi holds the hand-written HTTP transport: chat, image analysis,
// disease administration, health, and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
	healthuc "github.com/animora/vetassist/internal/usecase/health"
	"github.com/animora/vetassist/internal/usecase/vision"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// chatService handles one chat exchange.
type chatService interface {
	Respond(ctx context.Context, req domain.ChatRequest) (domain.ChatReply, error)
}

// visionService runs the image-analysis pipeline.
type visionService interface {
	Analyze(ctx context.Context, req vision.Request) (vision.Result, error)
}

// healthService aggregates component health checks.
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// DiseaseStore is the admin CRUD surface of the primary record store.
type DiseaseStore interface {
	Upsert(ctx context.Context, rec *domain.DiseaseRecord) (bool, error)
	Get(ctx context.Context, id string) (*domain.DiseaseRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.DiseaseRecord, error)
}

// Server is the HTTP API server.
type Server struct {
	chat          chatService
	vision        visionService
	health        healthService
	diseases      DiseaseStore // nil in snapshot-only mode
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. diseases may be nil when no primary
// store is configured; the admin routes then answer 503.
func NewServer(chatSvc chatService, visionSvc visionService, healthSvc healthService, diseases DiseaseStore, logger *zap.Logger) *Server {
	s := &Server{
		chat:     chatSvc,
		vision:   visionSvc,
		health:   healthSvc,
		diseases: diseases,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrProviderAuth, http.StatusInternalServerError),
		sentinelHandler(domain.ErrProviderBadRequest, http.StatusInternalServerError),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusServiceUnavailable),
		sentinelHandler(domain.ErrProviderTimeout, http.StatusGatewayTimeout),
		sentinelHandler(domain.ErrVisionNotRunning, http.StatusServiceUnavailable),
		sentinelHandler(domain.ErrStoreUnreachable, http.StatusServiceUnavailable),
	}
	return s
}

// Register mounts all routes on the router. Write routes on /api/diseases go
// through the auth middleware; read routes and the pipeline stay open.
func (s *Server) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/image/analyze", s.handleImageAnalyze)

	r.Route("/api/diseases", func(r chi.Router) {
		r.Get("/", s.handleListDiseases)
		r.Get("/{id}", s.handleGetDisease)
		r.Group(func(r chi.Router) {
			if auth != nil {
				r.Use(auth)
			}
			r.Post("/", s.handleUpsertDisease)
			r.Put("/{id}", s.handleUpdateDisease)
			r.Delete("/{id}", s.handleDeleteDisease)
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleChat handles POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	useAI := true
	if req.UseAI != nil {
		useAI = *req.UseAI
	}

	reply, err := s.chat.Respond(r.Context(), domain.ChatRequest{
		Message:   req.message(),
		SessionID: req.SessionID,
		History:   turnsFromDTO(req.ConversationHistory),
		UseAI:     useAI,
	})
	if err != nil {
		s.handleChatError(w, req.SessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:               reply.Reply,
		SessionID:           reply.SessionID,
		Source:              string(reply.Source),
		DiseaseFound:        reply.DiseaseFound,
		WebSearchUsed:       reply.WebSearchUsed,
		ConversationHistory: turnsToDTO(reply.History),
		Degraded:            reply.Degraded,
	})
}

// handleChatError gives chat failures a reply-shaped body so conversational
// clients can render them inline.
func (s *Server) handleChatError(w http.ResponseWriter, sessionID string, err error) {
	if errors.Is(err, domain.ErrEmptyQuery) {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Reply:     "❌ Please enter a message or question.",
			SessionID: sessionID,
		})
		return
	}

	s.logger.Warn("chat exchange failed", zap.Error(err))

	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrProviderUnavailable) || errors.Is(err, domain.ErrProviderTimeout) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, chatResponse{
		Reply: "⚠️ I'm having trouble generating a response right now.\n\nPlease try:\n" +
			"- Using simpler, more specific questions\n" +
			"- Asking about specific animal diseases\n" +
			"- Trying again in a moment",
		SessionID: sessionID,
	})
}

// handleImageAnalyze handles POST /api/image/analyze.
func (s *Server) handleImageAnalyze(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, `no image provided, send a base64 encoded image in the "image" field`)
		return
	}

	res, err := s.vision.Analyze(r.Context(), vision.Request{
		ImageBase64: req.Image,
		Species:     req.Species,
		Question:    req.Question,
		History:     turnsFromDTO(req.ConversationHistory),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, imageResponseFrom(res))
}

// handleListDiseases handles GET /api/diseases.
func (s *Server) handleListDiseases(w http.ResponseWriter, r *http.Request) {
	if s.diseases == nil {
		writeError(w, http.StatusServiceUnavailable, "record store not configured")
		return
	}

	records, err := s.diseases.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if records == nil {
		records = []domain.DiseaseRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleGetDisease handles GET /api/diseases/{id}.
func (s *Server) handleGetDisease(w http.ResponseWriter, r *http.Request) {
	if s.diseases == nil {
		writeError(w, http.StatusServiceUnavailable, "record store not configured")
		return
	}

	rec, err := s.diseases.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleUpsertDisease handles POST /api/diseases.
func (s *Server) handleUpsertDisease(w http.ResponseWriter, r *http.Request) {
	s.upsertDisease(w, r, "")
}

// handleUpdateDisease handles PUT /api/diseases/{id}.
func (s *Server) handleUpdateDisease(w http.ResponseWriter, r *http.Request) {
	s.upsertDisease(w, r, chi.URLParam(r, "id"))
}

func (s *Server) upsertDisease(w http.ResponseWriter, r *http.Request, id string) {
	if s.diseases == nil {
		writeError(w, http.StatusServiceUnavailable, "record store not configured")
		return
	}

	var rec domain.DiseaseRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if id != "" {
		rec.ID = id
	}
	if rec.ID == "" || rec.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required")
		return
	}

	created, err := s.diseases.Upsert(r.Context(), &rec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, rec)
}

// handleDeleteDisease handles DELETE /api/diseases/{id}.
func (s *Server) handleDeleteDisease(w http.ResponseWriter, r *http.Request) {
	if s.diseases == nil {
		writeError(w, http.StatusServiceUnavailable, "record store not configured")
		return
	}

	if err := s.diseases.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Message: "disease deleted"})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrNotFound,
		domain.ErrProviderAuth,
		domain.ErrProviderBadRequest,
		domain.ErrProviderUnavailable,
		domain.ErrProviderTimeout,
		domain.ErrVisionNotRunning,
		domain.ErrStoreUnreachable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
