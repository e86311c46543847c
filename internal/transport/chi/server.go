// Package chi serves the chat API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"moviebot/internal/domain"
	"moviebot/internal/metrics"
	"moviebot/internal/service"
)

const maxMessageBytes = 16 << 10

// ChatPort is the HTTP-facing subset of the bot.
type ChatPort interface {
	Handle(ctx context.Context, message string) service.Response
}

// IndexStatus reports whether search is available.
type IndexStatus interface {
	Available() bool
	Len() int
}

// Server exposes the bot as a JSON API.
type Server struct {
	bot    ChatPort
	index  IndexStatus
	logger *zap.Logger
}

func NewServer(bot ChatPort, index IndexStatus, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{bot: bot, index: index, logger: logger}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/chat", s.Chat)
	return r
}

type chatRequest struct {
	Message string `json:"message"`
}

type matchDTO struct {
	Title     *string  `json:"title"`
	TitleType *string  `json:"title_type"`
	Year      *string  `json:"year"`
	Genres    *string  `json:"genres"`
	Rating    *float64 `json:"rating"`
	Score     float64  `json:"score"`
}

type chatResponse struct {
	MessageID  string     `json:"message_id"`
	Reply      string     `json:"reply"`
	Route      string     `json:"route"`
	Intent     string     `json:"intent,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
	Source     string     `json:"source,omitempty"`
	Matches    []matchDTO `json:"matches,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Chat handles POST /v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	resp := s.bot.Handle(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, toChatResponse(resp))
}

// Health handles GET /healthz. The process is healthy even when search is
// unavailable; the payload reports the index state.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]string{"status": "ok", "index": "unavailable", "rows": "0"}
	if s.index != nil && s.index.Available() {
		body["index"] = "ready"
		body["rows"] = strconv.Itoa(s.index.Len())
	}
	writeJSON(w, http.StatusOK, body)
}

func toChatResponse(resp service.Response) chatResponse {
	out := chatResponse{
		MessageID:  resp.MessageID,
		Reply:      resp.Text,
		Route:      string(resp.Route),
		Intent:     string(resp.Intent.Intent),
		Confidence: resp.Intent.Confidence,
		Source:     string(resp.Intent.Source),
	}
	for _, m := range resp.Matches {
		out.Matches = append(out.Matches, toMatchDTO(m))
	}
	return out
}

func toMatchDTO(m domain.Match) matchDTO {
	return matchDTO{
		Title:     m.Movie.Title,
		TitleType: m.Movie.TitleType,
		Year:      m.Movie.Year,
		Genres:    m.Movie.Genres,
		Rating:    m.Movie.Rating,
		Score:     m.Score,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
