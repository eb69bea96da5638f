// Package api exposes stored conversation data over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/quietloop/dailies/pkg/embed"
	"github.com/quietloop/dailies/pkg/logging"
	"github.com/quietloop/dailies/pkg/stats"
	"github.com/quietloop/dailies/pkg/store"
)

// Server serves read-only queries over the conversation store. Semantic
// search routes are registered only when an embedder is provided.
type Server struct {
	router   *chi.Mux
	store    *store.Store
	embedder *embed.Embedder
	logger   *logging.Logger
	port     int
}

// NewServer wires routes against the store. embedder may be nil, in which
// case /api/v1/search reports the feature as unavailable.
func NewServer(port int, st *store.Store, embedder *embed.Embedder, logger *logging.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		store:    st,
		embedder: embedder,
		logger:   logger,
		port:     port,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", s.summary)
		r.Get("/insights", s.insights)
		r.Get("/conversations/{id}", s.conversation)
		r.Get("/search", s.search)
	})

	return s
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("API server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type summaryResponse struct {
	Conversations int           `json:"conversations"`
	Messages      int           `json:"messages"`
	Days          int           `json:"days"`
	UserTokens    int           `json:"user_tokens"`
	LLMTokens     int           `json:"assistant_tokens"`
	FirstDate     string        `json:"first_date,omitempty"`
	LastDate      string        `json:"last_date,omitempty"`
	TopDays       []dayResponse `json:"top_days"`
}

type dayResponse struct {
	Date          string `json:"date"`
	Messages      int    `json:"messages"`
	Conversations int    `json:"conversations"`
	Tokens        int    `json:"tokens"`
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Reads the daily_stats table refreshed at ingest time rather than
	// re-aggregating the messages on every request.
	daily, err := s.store.GetDailyStats(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	sum := stats.Summarize(daily)

	resp := summaryResponse{
		Conversations: sum.TotalConversations,
		Messages:      sum.TotalMessages,
		Days:          sum.TotalDays,
		UserTokens:    sum.UserTokens,
		LLMTokens:     sum.AssistantTokens,
	}
	if !sum.FirstDate.IsZero() {
		resp.FirstDate = sum.FirstDate.Format("2006-01-02")
		resp.LastDate = sum.LastDate.Format("2006-01-02")
	}
	for _, day := range stats.TopDays(daily, 5) {
		resp.TopDays = append(resp.TopDays, dayResponse{
			Date:          day.Date.Format("2006-01-02"),
			Messages:      day.TotalMessages,
			Conversations: day.ConversationCount,
			Tokens:        day.UserTokens + day.AssistantTokens,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type insightResponse struct {
	Category   string   `json:"category"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
	Topic      string   `json:"topic,omitempty"`
	Date       string   `json:"date,omitempty"`
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	category := r.URL.Query().Get("category")

	rows, err := s.store.ListInsights(r.Context(), category, limit, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := make([]insightResponse, 0, len(rows))
	for _, row := range rows {
		ir := insightResponse{
			Category:   row.Category,
			Title:      row.Title,
			Summary:    row.Summary,
			Tags:       row.Tags,
			Confidence: row.Confidence,
			Topic:      row.Topic,
		}
		if !row.Date.IsZero() {
			ir.Date = row.Date.Format("2006-01-02")
		}
		resp = append(resp, ir)
	}
	writeJSON(w, http.StatusOK, resp)
}

type messageResponse struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`
}

type conversationResponse struct {
	ID       string            `json:"id"`
	Topic    string            `json:"topic,omitempty"`
	Date     string            `json:"date,omitempty"`
	Model    string            `json:"model,omitempty"`
	FilePath string            `json:"file_path"`
	Messages []messageResponse `json:"messages"`
}

func (s *Server) conversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid conversation id"))
		return
	}

	conv, err := s.store.GetConversation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("conversation not found"))
		return
	}

	resp := conversationResponse{
		ID:       id.String(),
		Topic:    conv.Topic,
		Model:    conv.Model,
		FilePath: conv.FilePath,
	}
	if !conv.Date.IsZero() {
		resp.Date = conv.Date.Format("2006-01-02")
	}
	for _, msg := range conv.Messages {
		resp.Messages = append(resp.Messages, messageResponse{
			Role:       string(msg.Role),
			Content:    msg.Content,
			TokenCount: msg.TokenCount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type searchResponse struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic,omitempty"`
	Date       string   `json:"date,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	KeyTopics  []string `json:"key_topics,omitempty"`
	Similarity float64  `json:"similarity"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	if s.embedder == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("semantic search not configured"))
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing query parameter q"))
		return
	}
	limit := queryInt(r, "limit", 10)

	results, err := s.embedder.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := make([]searchResponse, 0, len(results))
	for _, res := range results {
		sr := searchResponse{
			ID:         res.ID.String(),
			Topic:      res.Topic,
			Summary:    res.Summary,
			KeyTopics:  res.KeyTopics,
			Similarity: res.Similarity,
		}
		if !res.Date.IsZero() {
			sr.Date = res.Date.Format("2006-01-02")
		}
		resp = append(resp, sr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
