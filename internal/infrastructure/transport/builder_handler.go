package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aibuilder/app/usecase"
	"aibuilder/internal/domain/entity"
	"aibuilder/internal/infrastructure/metrics"
)

// StoreGateway is the transport-side view of the document store, used
// only by the diagnostic endpoint.
type StoreGateway interface {
	Name() string
	Ping(ctx context.Context) error
	ListCollections(ctx context.Context, limit int) ([]string, error)
}

type BuilderHandler struct {
	chatService usecase.ChatUsecase
	planService usecase.PlanUsecase
	store       StoreGateway // nil when the database is unavailable
	logger      *slog.Logger
}

func NewBuilderHandler(
	chatService usecase.ChatUsecase,
	planService usecase.PlanUsecase,
	store StoreGateway,
	logger *slog.Logger,
) *BuilderHandler {
	return &BuilderHandler{
		chatService: chatService,
		planService: planService,
		store:       store,
		logger:      logger,
	}
}

// Middleware для метрик
func (h *BuilderHandler) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		method := r.Method

		w.Header().Set("X-Request-ID", uuid.New().String())

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		statusStr := strconv.Itoa(rw.status)
		metrics.ObserveHTTPRequest(method, path, statusStr, time.Since(start))
		if rw.status >= 400 {
			metrics.IncHTTPError(method, path, statusStr)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *BuilderHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.withMetrics(h.handleRoot)).Methods(http.MethodGet)
	r.HandleFunc("/api/hello", h.withMetrics(h.handleHello)).Methods(http.MethodGet)
	r.HandleFunc("/test", h.withMetrics(h.handleTest)).Methods(http.MethodGet)
	r.HandleFunc("/api/chat", h.withMetrics(h.handleChat)).Methods(http.MethodPost)
	r.HandleFunc("/api/plan", h.withMetrics(h.handlePlan)).Methods(http.MethodPost)

	// Prometheus
	r.Handle("/metrics", promhttp.Handler())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// GET /
func (h *BuilderHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from the AI builder backend!"})
}

// GET /api/hello
func (h *BuilderHandler) handleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from the backend API!"})
}

// GET /test
func (h *BuilderHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := map[string]interface{}{
		"backend":           "✅ Running",
		"database":          "❌ Not Available",
		"database_url":      envFlag("DATABASE_URL"),
		"database_name":     envFlag("DATABASE_NAME"),
		"connection_status": "Not Connected",
		"collections":       []string{},
	}

	if h.store != nil {
		resp["database"] = "✅ Available"
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("store ping failed", "err", err)
			resp["database"] = "⚠️  Connected but Error: " + truncate(err.Error(), 50)
		} else {
			resp["connection_status"] = "Connected"
			names, err := h.store.ListCollections(ctx, 10)
			if err != nil {
				h.logger.Warn("list collections failed", "err", err)
				resp["database"] = "⚠️  Connected but Error: " + truncate(err.Error(), 50)
			} else {
				resp["database"] = "✅ Connected & Working"
				resp["collections"] = names
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func envFlag(key string) string {
	if os.Getenv(key) != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

// truncate caps s at n characters without splitting a rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type chatMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatReq struct {
	Message string           `json:"message"`
	History []chatMessageDTO `json:"history"`
}

type chatResp struct {
	Reply string `json:"reply"`
}

// POST /api/chat
func (h *BuilderHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}

	history := make([]entity.ChatMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, entity.ChatMessage{Role: entity.Role(m.Role), Content: m.Content})
	}

	reply, err := h.chatService.Reply(req.Message, history)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		h.logger.Error("chat failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResp{Reply: reply})
}

type planReq struct {
	Idea     string   `json:"idea"`
	Features []string `json:"features"`
}

type planResp struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Plan   *entity.Plan `json:"plan"`
}

// POST /api/plan
func (h *BuilderHandler) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}

	result, err := h.planService.BuildPlan(r.Context(), req.Idea, req.Features)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		h.logger.Error("plan failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, planResp{
		ID:     result.ID,
		Status: result.Status,
		Plan:   result.Plan,
	})
}
