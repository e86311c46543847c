package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moviebot/internal/domain"
	"moviebot/internal/logger"
	"moviebot/internal/metrics"
)

// SystemPrompt frames conversational replies.
const SystemPrompt = "You are a helpful movie assistant. When users ask for recommendations or IMDB facts, " +
	"prefer using the provided dataset rather than hallucinating. If you can't find the info, " +
	"be honest and suggest alternative ways to search."

// User-facing replies.
const (
	GreetingHi    = "Hi, I'm here to help you find movies and movie details. Text me what are looking for today."
	GreetingHello = "Hello, I'm here to help you find movies and movie details. Text me what are looking for today."
	GreetingHey   = "Hey, I'm here to help you find movies and movie details. Text me what are looking for today."

	RecommendFailed = "Sorry, I couldn't produce recommendations right now."
	LookupFailed    = "Sorry, lookup failed."
	ReplyEmpty      = "Sorry, I couldn't generate a reply."
	LLMUnreachable  = "Sorry, LLM is unreachable. Please check your Ollama setup."
)

// Route names the handler that answered a message.
type Route string

const (
	RouteGreeting  Route = "greeting"
	RouteRecommend Route = "recommend"
	RouteLookup    Route = "lookup"
	RouteChat      Route = "chat"
)

// Response is the outcome of one user message.
type Response struct {
	MessageID string
	Text      string
	Route     Route
	Intent    domain.IntentResult
	Matches   []domain.Match
}

// Bot routes a classified message to search or to the conversational fallback.
type Bot struct {
	classifier domain.IntentClassifier
	searcher   domain.MovieSearcher
	replier    domain.Replier
	topN       int
	logger     *zap.Logger
}

// NewBot wires the router. searcher may be nil when no catalog is available;
// search intents then fall to the conversational reply.
func NewBot(classifier domain.IntentClassifier, searcher domain.MovieSearcher, replier domain.Replier, topN int, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topN <= 0 {
		topN = 5
	}
	return &Bot{classifier: classifier, searcher: searcher, replier: replier, topN: topN, logger: logger}
}

// Handle answers one message. It never returns raw errors to the caller;
// failures become fixed apology strings.
func (b *Bot) Handle(ctx context.Context, message string) Response {
	id := uuid.NewString()
	log := b.logger.With(zap.String("message_id", id))
	ctx = logger.ContextWithLogger(ctx, log)

	if greeting, ok := greet(message); ok {
		metrics.MessagesTotal.WithLabelValues(string(RouteGreeting), "ok").Inc()
		return Response{MessageID: id, Text: greeting, Route: RouteGreeting}
	}

	res := b.classifier.Classify(ctx, message)
	log.Info("intent classified",
		zap.String("intent", string(res.Intent)),
		zap.String("source", string(res.Source)),
		zap.Float64("confidence", res.Confidence),
	)

	resp := Response{MessageID: id, Intent: res}
	searchable := b.searcher != nil && b.searcher.Available()
	switch {
	case res.Intent == domain.IntentRecommendation && searchable:
		resp.Route = RouteRecommend
		matches, err := b.searcher.Recommend(ctx, message, b.topN)
		if err != nil {
			log.Error("recommendation failed", zap.Error(err))
			resp.Text = RecommendFailed
			break
		}
		resp.Matches = matches
		resp.Text = "I found the following matches for your request:\n" + RenderTable(matches)
	case res.Intent == domain.IntentLookup && searchable:
		resp.Route = RouteLookup
		matches, err := b.searcher.LookupFacts(ctx, message, b.topN)
		if err != nil {
			log.Error("lookup failed", zap.Error(err))
			resp.Text = LookupFailed
			break
		}
		resp.Matches = matches
		resp.Text = fmt.Sprintf("Here are top %d likely matches for your query:\n%s", b.topN, RenderTable(matches))
	default:
		resp.Route = RouteChat
		resp.Text = b.reply(ctx, log, message)
	}

	status := "ok"
	if isApology(resp.Text) {
		status = "error"
	}
	metrics.MessagesTotal.WithLabelValues(string(resp.Route), status).Inc()
	return resp
}

func (b *Bot) reply(ctx context.Context, log *zap.Logger, message string) string {
	if b.replier == nil {
		return LLMUnreachable
	}
	out, err := b.replier.Reply(ctx, SystemPrompt, message)
	if err != nil {
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			log.Error("unexpected reply generation error", zap.Error(err))
		} else {
			log.Error("LLM generation failed", zap.Error(err))
		}
		return LLMUnreachable
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return ReplyEmpty
	}
	return out
}

// greet short-circuits empty messages and short greetings.
func greet(message string) (string, bool) {
	lower := strings.ToLower(message)
	n := utf8.RuneCountInString(message)
	switch {
	case message == "":
		return GreetingHi, true
	case strings.Contains(lower, "hi") && n < 12:
		return GreetingHi, true
	case strings.Contains(lower, "hello") && n < 15:
		return GreetingHello, true
	case strings.Contains(lower, "hey") && n < 13:
		return GreetingHey, true
	}
	return "", false
}

func isApology(text string) bool {
	switch text {
	case RecommendFailed, LookupFailed, ReplyEmpty, LLMUnreachable:
		return true
	}
	return false
}
