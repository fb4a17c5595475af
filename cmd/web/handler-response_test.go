package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Afifibytes/simple-survey-tool/internal/e2etest"
)

func TestSubmitResponseScoreOnlyCompletesImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := server.Client()

	surveyID := createSurvey(t, ctx, client, "Score Only", true)
	primeSession(t, ctx, client, surveyID)

	resp, err := client.PostJSON(ctx, fmt.Sprintf("/api/survey/%d/response", surveyID), map[string]any{
		"npsScore": 9,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope responseEnvelope
	require.NoError(t, e2etest.DecodeJSON(resp, &envelope))
	require.True(t, envelope.Success)
	require.False(t, envelope.HasFollowUp)
	require.NotNil(t, envelope.Response.CompletedAt, "a score-only response needs no follow-up")
	require.NotZero(t, envelope.ResponseID)
}

func TestSubmitResponseValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := server.Client()

	surveyID := createSurvey(t, ctx, client, "Validation", true)
	primeSession(t, ctx, client, surveyID)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{name: "score above scale", body: map[string]any{"npsScore": 11}, field: "npsScore"},
		{name: "negative score", body: map[string]any{"npsScore": -1}, field: "npsScore"},
		{name: "overlong open text", body: map[string]any{"openText": strings.Repeat("a", 1001)}, field: "openText"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.PostJSON(ctx, fmt.Sprintf("/api/survey/%d/response", surveyID), tt.body)
			require.NoError(t, err)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			var envelope responseEnvelope
			require.NoError(t, e2etest.DecodeJSON(resp, &envelope))
			require.False(t, envelope.Success)
			require.Contains(t, envelope.Errors, tt.field)
		})
	}
}

func TestSubmitResponseInactiveSurvey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := server.Client()

	activeID := createSurvey(t, ctx, client, "Active", true)
	inactiveID := createSurvey(t, ctx, client, "Inactive", false)
	primeSession(t, ctx, client, activeID)

	resp, err := client.PostJSON(ctx, fmt.Sprintf("/api/survey/%d/response", inactiveID), map[string]any{
		"npsScore": 5,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var envelope responseEnvelope
	require.NoError(t, e2etest.DecodeJSON(resp, &envelope))
	require.False(t, envelope.Success)
	require.Equal(t, "This survey is not currently accepting responses.", envelope.Message)
}

func TestSubmitResponseUnknownSurvey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := server.Client()

	surveyID := createSurvey(t, ctx, client, "Known", true)
	primeSession(t, ctx, client, surveyID)

	resp, err := client.PostJSON(ctx, "/api/survey/99999/response", map[string]any{"npsScore": 5})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitResponseWithoutAIConfigured(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := server.Client()

	surveyID := createSurvey(t, ctx, client, "No AI", true)
	primeSession(t, ctx, client, surveyID)

	// With no API key the generation degrades gracefully and the response
	// completes without a follow-up.
	resp, err := client.PostJSON(ctx, fmt.Sprintf("/api/survey/%d/response", surveyID), map[string]any{
		"npsScore": 7,
		"openText": "The onboarding was confusing.",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope responseEnvelope
	require.NoError(t, e2etest.DecodeJSON(resp, &envelope))
	require.True(t, envelope.Success)
	require.False(t, envelope.HasFollowUp)
	require.NotNil(t, envelope.Response.CompletedAt)
}

func TestSubmitResponseMergesIntoOneRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := server.Client()

	surveyID := createSurvey(t, ctx, client, "Merge", true)
	primeSession(t, ctx, client, surveyID)

	first, err := client.PostJSON(ctx, fmt.Sprintf("/api/survey/%d/response", surveyID), map[string]any{
		"npsScore": 3,
	})
	require.NoError(t, err)
	var firstEnvelope responseEnvelope
	require.NoError(t, e2etest.DecodeJSON(first, &firstEnvelope))

	second, err := client.PostJSON(ctx, fmt.Sprintf("/api/survey/%d/response", surveyID), map[string]any{
		"npsScore": 8,
	})
	require.NoError(t, err)
	var secondEnvelope responseEnvelope
	require.NoError(t, e2etest.DecodeJSON(second, &secondEnvelope))

	require.Equal(t, firstEnvelope.ResponseID, secondEnvelope.ResponseID,
		"resubmissions from the same session merge into one row")
	require.NotNil(t, secondEnvelope.Response.NPSScore)
	require.EqualValues(t, 8, *secondEnvelope.Response.NPSScore)
}

func TestSubmitResponseRequiresCSRFToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := startTestServer(t, nil)
	client := server.Client()

	surveyID := createSurvey(t, ctx, client, "CSRF", true)

	resp, err := client.PostJSON(ctx, fmt.Sprintf("/api/survey/%d/response", surveyID), map[string]any{
		"npsScore": 5,
	})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
