package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Afifibytes/simple-survey-tool/internal/e2etest"
	"github.com/Afifibytes/simple-survey-tool/internal/models"
)

// startTestServer runs the real server with an in-memory database on a
// dynamically allocated port. Extra environment variables override defaults.
func startTestServer(t *testing.T, env map[string]string) *e2etest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	vars := map[string]string{
		"SURVEY_ADDR":       "localhost:0",
		"SURVEY_SQLITE_URL": ":memory:",
	}
	for k, v := range env {
		vars[k] = v
	}
	lookupEnv := func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}

	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server
}

// startOpenAIStub serves chat completion responses shaped like the OpenAI API.
// The server's base URL goes into OPENAI_API_URL.
func startOpenAIStub(t *testing.T, content string) *httptest.Server {
	t.Helper()

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]any{{
				"index": 0,
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			}},
		})
		require.NoError(t, err)
	}))
	t.Cleanup(stub.Close)
	return stub
}

type surveyEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Survey  *models.Survey    `json:"survey"`
}

type responseEnvelope struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Errors      map[string]string `json:"errors"`
	ResponseID  int64             `json:"responseId"`
	HasFollowUp bool              `json:"hasFollowUp"`
	Response    *models.Response  `json:"response"`
}

func createSurvey(t *testing.T, ctx context.Context, client *e2etest.Client, name string, active bool) int64 {
	t.Helper()

	resp, err := client.PostJSON(ctx, "/api/admin/surveys", map[string]any{
		"name":     name,
		"isActive": active,
		"questions": []map[string]string{
			{"type": "nps", "text": "How likely are you to recommend us to a friend?"},
			{"type": "text", "text": "What could we do better?"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope surveyEnvelope
	require.NoError(t, e2etest.DecodeJSON(resp, &envelope))
	require.True(t, envelope.Success)
	require.NotNil(t, envelope.Survey)
	return envelope.Survey.ID
}

// primeSession visits the survey page like a browser would, so that the client
// holds the CSRF token the response endpoints verify.
func primeSession(t *testing.T, ctx context.Context, client *e2etest.Client, surveyID int64) {
	t.Helper()

	doc, err := client.GetDoc(ctx, fmt.Sprintf("/survey/%d", surveyID))
	require.NoError(t, err)
	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	require.True(t, ok, "survey page must render a CSRF token")
	client.SetCSRFToken(token)
}
