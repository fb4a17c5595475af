package followup_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Afifibytes/simple-survey-tool/internal/ai"
	"github.com/Afifibytes/simple-survey-tool/internal/cache"
	"github.com/Afifibytes/simple-survey-tool/internal/followup"
	"github.com/Afifibytes/simple-survey-tool/internal/testhelpers"
)

// completerStub counts calls and plays back a canned result.
type completerStub struct {
	text  string
	err   error
	calls int
}

func (s *completerStub) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

const (
	originalQuestion = "What can we do to improve your experience with our service?"
	answerText       = "Could improve checkout speed"
)

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		want string
	}{
		{
			name: "valid question",
			text: "What slows the checkout down for you?",
			want: "What slows the checkout down for you?",
		},
		{
			name: "surrounding whitespace is trimmed",
			text: "  What slows the checkout down for you?\n",
			want: "What slows the checkout down for you?",
		},
		{
			name: "completer error degrades to no follow-up",
			err:  ai.ErrNotConfigured,
			want: "",
		},
		{
			name: "missing question mark is rejected",
			text: "Tell me more about the checkout speed",
			want: "",
		},
		{
			name: "too few words is rejected",
			text: "Why though?",
			want: "",
		},
		{
			name: "too many words is rejected",
			text: strings.Repeat("word ", 26) + "ok?",
			want: "",
		},
		{
			name: "overlong question is rejected",
			text: "Why is " + strings.Repeat("a", 200) + "?",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &completerStub{text: tt.text, err: tt.err}
			generator := followup.NewGenerator(stub, cache.NewMemory(), testhelpers.NewLogger(io.Discard))

			got := generator.Generate(context.Background(), originalQuestion, answerText)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGenerator_CacheRoundTrip(t *testing.T) {
	stub := &completerStub{text: "What slows the checkout down for you?"}
	generator := followup.NewGenerator(stub, cache.NewMemory(), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	first := generator.Generate(ctx, originalQuestion, answerText)
	second := generator.Generate(ctx, originalQuestion, answerText)

	require.Equal(t, first, second)
	require.Equal(t, 1, stub.calls, "identical inputs should hit the cache, not the external service")

	// Different answer text misses the cache.
	generator.Generate(ctx, originalQuestion, "Another answer entirely")
	require.Equal(t, 2, stub.calls)
}

func TestGenerator_CacheHitSurvivesOutage(t *testing.T) {
	questionCache := cache.NewMemory()
	logger := testhelpers.NewLogger(io.Discard)
	ctx := context.Background()

	working := followup.NewGenerator(
		&completerStub{text: "What slows the checkout down for you?"}, questionCache, logger)
	question := working.Generate(ctx, originalQuestion, answerText)
	require.NotEmpty(t, question)

	// The same cache with a dead completer still serves the stored question.
	broken := followup.NewGenerator(
		&completerStub{err: context.DeadlineExceeded}, questionCache, logger)
	require.Equal(t, question, broken.Generate(ctx, originalQuestion, answerText))
}

func TestGenerator_RejectedQuestionIsNotCached(t *testing.T) {
	stub := &completerStub{text: "no question mark here"}
	generator := followup.NewGenerator(stub, cache.NewMemory(), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	require.Empty(t, generator.Generate(ctx, originalQuestion, answerText))
	require.Empty(t, generator.Generate(ctx, originalQuestion, answerText))
	require.Equal(t, 2, stub.calls, "rejected output must not be cached")
}
