// Package chi exposes the ingestion, audit, idea, and space operations over
// HTTP. The surface is deliberately thin: handlers decode, delegate to the
// use cases, and map sentinel errors to status codes.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/decision"
	healthuc "github.com/noema-labs/noema/internal/usecase/health"
	"github.com/noema-labs/noema/internal/usecase/ingest"
)

const (
	maxBatchSize    = 100
	defaultLogLimit = 50
)

// Error codes returned in the response body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeIdeaNotFound     = "idea_not_found"
	codeFragmentNotFound = "fragment_not_found"
	codeSpaceNotFound    = "space_not_found"
	codeProviderError    = "provider_error"
	codeNetworkError     = "provider_unreachable"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server hosts the HTTP handlers.
type Server struct {
	ingestor      Ingestor
	replayer      Replayer
	audit         AuditLog
	ideas         IdeaReader
	spaces        SpaceStore
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingestor Ingestor,
	replayer Replayer,
	audit AuditLog,
	ideas IdeaReader,
	spaces SpaceStore,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		ingestor: ingestor,
		replayer: replayer,
		audit:    audit,
		ideas:    ideas,
		spaces:   spaces,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIdeaNotFound, http.StatusNotFound, codeIdeaNotFound),
		sentinelHandler(domain.ErrFragmentNotFound, http.StatusNotFound, codeFragmentNotFound),
		sentinelHandler(domain.ErrSpaceNotFound, http.StatusNotFound, codeSpaceNotFound),
		sentinelHandler(domain.ErrInvalidMode, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNoEmbedding, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNetwork, http.StatusServiceUnavailable, codeNetworkError),
		sentinelHandler(domain.ErrEmbedding, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrModel, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r gochi.Router) {
	r.Route("/api/v1", func(r gochi.Router) {
		r.Post("/ingest", s.Ingest)
		r.Post("/ingest/batch", s.IngestBatch)

		r.Get("/ideas", s.ListIdeas)
		r.Get("/ideas/{id}", s.GetIdea)
		r.Get("/ideas/{id}/versions", s.ListIdeaVersions)

		r.Get("/audit/fragments/{id}", s.FragmentHistory)
		r.Post("/audit/replay/{id}", s.ReplayFragment)
		r.Get("/audit/logs", s.RecentLogs)

		r.Post("/spaces", s.CreateSpace)
		r.Get("/spaces", s.ListSpaces)
		r.Get("/spaces/{id}", s.GetSpace)
		r.Delete("/spaces/{id}", s.DeleteSpace)
	})

	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
}

type ingestRequest struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Mode     string `json:"mode"`
	SpaceID  string `json:"space_id"`
	Language string `json:"language"`
}

// Ingest handles POST /api/v1/ingest.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "text is required")
		return
	}

	mode, err := decision.ParseMode(req.Mode)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	spaceID, err := parseOptionalUUID(req.SpaceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "space_id must be a UUID")
		return
	}

	dec, err := s.ingestor.ProcessText(r.Context(), req.Text, req.Source, mode, spaceID, req.Language)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decisionToResponse(domain.FragmentID(req.Text), dec))
}

type batchRequest struct {
	Mode    string `json:"mode"`
	SpaceID string `json:"space_id"`
	Items   []struct {
		Text     string `json:"text"`
		Source   string `json:"source"`
		Language string `json:"language"`
	} `json:"items"`
}

type batchItemResult struct {
	Decision *decisionResponse `json:"decision,omitempty"`
	Error    *errorResponse    `json:"error,omitempty"`
}

type batchResponse struct {
	Items     []batchItemResult `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// IngestBatch handles POST /api/v1/ingest/batch. Items are processed
// sequentially; one failing item does not abort the rest.
func (s *Server) IngestBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 || len(req.Items) > maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("items count must be between 1 and %d", maxBatchSize))
		return
	}

	mode, err := decision.ParseMode(req.Mode)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	spaceID, err := parseOptionalUUID(req.SpaceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "space_id must be a UUID")
		return
	}

	items := make([]ingest.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = ingest.Item{Text: it.Text, Source: it.Source, Language: it.Language}
	}

	results := s.ingestor.ProcessBatch(r.Context(), items, mode, spaceID)

	resp := batchResponse{Items: make([]batchItemResult, len(results))}
	for i, res := range results {
		if res.Err != nil {
			resp.Failed++
			resp.Items[i] = batchItemResult{Error: &errorResponse{
				Code:    errorCode(res.Err),
				Message: safeDomainMessage(res.Err),
			}}
			continue
		}
		resp.Succeeded++
		dec := decisionToResponse(domain.FragmentID(req.Items[i].Text), res.Decision)
		resp.Items[i] = batchItemResult{Decision: &dec}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListIdeas handles GET /api/v1/ideas?space_id=...
func (s *Server) ListIdeas(w http.ResponseWriter, r *http.Request) {
	spaceID, err := parseOptionalUUID(r.URL.Query().Get("space_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "space_id must be a UUID")
		return
	}

	ideas, err := s.ideas.ListIdeas(r.Context(), spaceID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	now := time.Now()
	items := make([]ideaResponse, len(ideas))
	for i := range ideas {
		items[i] = s.ideaToResponse(r, ideas[i], now)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// GetIdea handles GET /api/v1/ideas/{id}.
func (s *Server) GetIdea(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	idea, err := s.ideas.GetIdea(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.ideaToResponse(r, idea, time.Now()))
}

// ListIdeaVersions handles GET /api/v1/ideas/{id}/versions.
func (s *Server) ListIdeaVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if _, err := s.ideas.GetIdea(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	versions, err := s.ideas.ListIdeaVersions(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]versionResponse, len(versions))
	for i := range versions {
		items[i] = versionToResponse(&versions[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// FragmentHistory handles GET /api/v1/audit/fragments/{id}.
func (s *Server) FragmentHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	entries, err := s.audit.HistoryFor(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, codeFragmentNotFound, domain.ErrNoHistory.Error())
		return
	}

	items := make([]logEntryResponse, len(entries))
	for i := range entries {
		items[i] = logEntryToResponse(&entries[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fragment_id": id.String(),
		"items":       items,
	})
}

// ReplayFragment handles POST /api/v1/audit/replay/{id}.
func (s *Server) ReplayFragment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	report, err := s.replayer.Replay(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, replayToResponse(report))
}

// RecentLogs handles GET /api/v1/audit/logs?limit=...
func (s *Server) RecentLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.audit.Recent(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]logEntryResponse, len(entries))
	for i := range entries {
		items[i] = logEntryToResponse(&entries[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type spaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// CreateSpace handles POST /api/v1/spaces.
func (s *Server) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req spaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sp, err := domain.NewSpace(req.Name, req.Description, req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.spaces.SaveSpace(r.Context(), &sp); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, spaceToResponse(&sp))
}

// ListSpaces handles GET /api/v1/spaces.
func (s *Server) ListSpaces(w http.ResponseWriter, r *http.Request) {
	spaces, err := s.spaces.ListSpaces(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]spaceResponse, len(spaces))
	for i := range spaces {
		items[i] = spaceToResponse(&spaces[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// GetSpace handles GET /api/v1/spaces/{id}.
func (s *Server) GetSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	sp, err := s.spaces.GetSpace(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, spaceToResponse(&sp))
}

// DeleteSpace handles DELETE /api/v1/spaces/{id}.
func (s *Server) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := s.spaces.DeleteSpace(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(gochi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID maps the empty string to the default (nil) space.
func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

var sentinels = []error{
	domain.ErrIdeaNotFound,
	domain.ErrFragmentNotFound,
	domain.ErrSpaceNotFound,
	domain.ErrInvalidMode,
	domain.ErrNoEmbedding,
	domain.ErrNoHistory,
	domain.ErrDimensionMismatch,
	domain.ErrNetwork,
	domain.ErrEmbedding,
	domain.ErrModel,
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrIdeaNotFound):
		return codeIdeaNotFound
	case errors.Is(err, domain.ErrFragmentNotFound):
		return codeFragmentNotFound
	case errors.Is(err, domain.ErrSpaceNotFound):
		return codeSpaceNotFound
	case errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrNoEmbedding),
		errors.Is(err, domain.ErrDimensionMismatch):
		return codeValidationFailed
	case errors.Is(err, domain.ErrNetwork):
		return codeNetworkError
	case errors.Is(err, domain.ErrEmbedding), errors.Is(err, domain.ErrModel):
		return codeProviderError
	default:
		return codeInternalError
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
