package followup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Afifibytes/simple-survey-tool/internal/ai"
	"github.com/Afifibytes/simple-survey-tool/internal/cache"
	"github.com/Afifibytes/simple-survey-tool/internal/errors"
)

// Generator synthesizes one contextual follow-up question for an open-text answer.
//
// Generation is a non-essential enhancement: every failure mode, from a missing
// credential to the model ignoring its instructions, resolves to "no follow-up" so
// that response submission is never blocked.
type Generator struct {
	completer ai.Completer
	cache     cache.Cache
	logger    *slog.Logger
}

func NewGenerator(completer ai.Completer, questionCache cache.Cache, logger *slog.Logger) *Generator {
	return &Generator{
		completer: completer,
		cache:     questionCache,
		logger:    logger.With("source", "followup.Generator"),
	}
}

const (
	cacheKeyPrefix = "ai_followup_"
	cacheTTL       = 24 * time.Hour

	// Validation bounds for the generated question. The model is not contractually
	// guaranteed to follow instructions, so the output is checked at the boundary.
	minWords  = 3
	maxWords  = 25
	maxLength = 200
)

// Generate returns a follow-up question for the respondent's answer, or the empty
// string when none could be produced. Identical (question, answer) pairs share a
// cached result for 24 hours, which also keeps repeated inputs working while the
// external service is unreachable.
func (g *Generator) Generate(ctx context.Context, originalQuestion, answer string) string {
	key := cacheKey(originalQuestion, answer)
	if cached, ok := g.cache.Get(ctx, key); ok {
		return cached
	}

	text, err := g.completer.Complete(ctx, buildPrompt(originalQuestion, answer))
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			g.logger.LogAttrs(ctx, slog.LevelWarn, "AI credential not configured, skipping follow-up generation")
		} else {
			g.logger.LogAttrs(ctx, slog.LevelError, "follow-up generation failed",
				errors.SlogError(errors.Wrap(err, "generate follow-up question")))
		}
		return ""
	}

	question := strings.TrimSpace(text)
	if !validQuestion(question) {
		g.logger.LogAttrs(ctx, slog.LevelWarn, "discarding malformed follow-up question",
			slog.String("question", question))
		return ""
	}

	g.cache.Set(ctx, key, question, cacheTTL)
	return question
}

func buildPrompt(originalQuestion, answer string) string {
	return fmt.Sprintf(`You are a survey follow-up question generator. Your task is to create a single, relevant follow-up question based on a respondent's answer.

Original Question: %q
Respondent's Answer: %q

Guidelines:
- Create ONE follow-up question that digs deeper into their response
- Keep it conversational and engaging
- Make it specific to their answer, not generic
- Limit to 20 words or less
- Don't repeat information they already provided
- Focus on understanding their perspective better

Follow-up Question:`, originalQuestion, answer)
}

func validQuestion(question string) bool {
	wordCount := len(strings.Fields(question))
	return wordCount >= minWords &&
		wordCount <= maxWords &&
		len(question) <= maxLength &&
		strings.HasSuffix(question, "?")
}

// cacheKey hashes the (question, answer) pair. The "|" separator keeps distinct
// pairs from colliding before hashing.
func cacheKey(originalQuestion, answer string) string {
	sum := sha256.Sum256([]byte(originalQuestion + "|" + answer))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
