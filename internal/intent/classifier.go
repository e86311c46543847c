// Package intent classifies user messages. The backend is asked first; the
// keyword rules answer when it is unavailable or unsure.
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"moviebot/internal/domain"
	"moviebot/internal/logger"
	"moviebot/internal/metrics"
)

// MinConfidence is the backend confidence a result must exceed to be accepted.
const MinConfidence = 0.5

const instruction = "You are an intent classification assistant. Given the user's input, output a JSON object " +
	"with fields: intent (one of: chit_chat, recommendation, imdb_lookup, unknown), " +
	"confidence (0-1), and optionally reasons. Only output JSON and nothing else.\n\n" +
	"User input: %q\n\nRespond with JSON."

// Classifier runs the backend stage followed by the rule stage.
type Classifier struct {
	backend domain.Completer
	logger  *zap.Logger
}

// NewClassifier creates a classifier. A nil backend means rules only.
func NewClassifier(backend domain.Completer, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{backend: backend, logger: logger}
}

type judgment struct {
	Intent     string     `json:"intent"`
	Confidence confidence `json:"confidence"`
	Reasons    any        `json:"reasons,omitempty"`
}

// confidence accepts a JSON number or a numeric string.
type confidence float64

func (c *confidence) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("confidence %s: %w", b, err)
	}
	*c = confidence(f)
	return nil
}

// Classify returns the intent of text. It never fails.
func (c *Classifier) Classify(ctx context.Context, text string) domain.IntentResult {
	res, ok := c.classifyLLM(ctx, text)
	if !ok {
		res = ClassifyRules(text)
	}
	metrics.IntentsTotal.WithLabelValues(string(res.Intent), string(res.Source)).Inc()
	return res
}

// classifyLLM reports ok=false when the rule stage should decide.
func (c *Classifier) classifyLLM(ctx context.Context, text string) (domain.IntentResult, bool) {
	if c.backend == nil {
		return domain.IntentResult{}, false
	}
	log := logger.FromContextOr(ctx, c.logger)

	raw, err := c.backend.Complete(ctx, fmt.Sprintf(instruction, text))
	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) {
			log.Warn("LLM intent classification failed; using fallback", zap.Error(err))
		} else {
			log.Error("unexpected error during LLM intent classification", zap.Error(err))
		}
		return domain.IntentResult{}, false
	}

	j, err := parseJudgment(raw)
	switch {
	case errors.Is(err, domain.ErrResponseParse):
		// A reply that is not JSON is answered directly and does not reach the rules.
		log.Error("failed to parse JSON from LLM response", zap.Error(err), zap.String("raw", raw))
		return domain.IntentResult{Intent: domain.IntentUnknown, Confidence: 0, Source: domain.SourceLLMRaw, Raw: raw}, true
	case err != nil:
		log.Warn("LLM intent reply has unexpected fields; using fallback", zap.Error(err), zap.String("raw", raw))
		return domain.IntentResult{}, false
	}

	label := strings.ToLower(strings.TrimSpace(j.Intent))
	conf := clamp(float64(j.Confidence))
	if label != "" && conf > MinConfidence {
		return domain.IntentResult{Intent: knownIntent(label), Confidence: conf, Source: domain.SourceLLM}, true
	}
	log.Debug("LLM intent below threshold; using fallback", zap.String("intent", label), zap.Float64("confidence", conf))
	return domain.IntentResult{}, false
}

// errJudgmentShape marks a reply that is valid JSON but not a judgment object.
var errJudgmentShape = errors.New("unexpected judgment shape")

// parseJudgment wraps domain.ErrResponseParse for syntax errors and
// errJudgmentShape for well-formed JSON carrying the wrong types.
func parseJudgment(raw string) (judgment, error) {
	data := []byte(strings.TrimSpace(raw))
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return judgment{}, fmt.Errorf("%w: %w", domain.ErrResponseParse, err)
	}
	var j judgment
	if err := json.Unmarshal(data, &j); err != nil {
		return judgment{}, fmt.Errorf("%w: %w", errJudgmentShape, err)
	}
	return j, nil
}

// knownIntent maps labels outside the supported set to unknown.
func knownIntent(label string) domain.Intent {
	switch in := domain.Intent(label); in {
	case domain.IntentRecommendation, domain.IntentLookup, domain.IntentChitChat, domain.IntentUnknown:
		return in
	}
	return domain.IntentUnknown
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
