package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
	"github.com/Afifibytes/simple-survey-tool/internal/testhelpers"
)

func newResponseRepo(t *testing.T) *repositories.ResponseRepository {
	t.Helper()
	return repositories.NewResponseRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))
}

func ptrInt64(v int64) *int64 {
	return &v
}

func ptrString(v string) *string {
	return &v
}

func TestResponseRepository_Upsert(t *testing.T) {
	repo := newResponseRepo(t)
	ctx := context.Background()

	// First submission creates the row.
	created, err := repo.Upsert(ctx, 1, "session-new", repositories.ResponseFields{
		NPSScore: ptrInt64(8),
		OpenText: nil,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, created.SurveyID)
	require.Equal(t, "session-new", created.SessionID)
	require.Equal(t, int64(8), *created.NPSScore)
	require.Nil(t, created.OpenText)
	require.False(t, created.IsCompleted())

	// Second submission for the same pair merges into the same row: absent fields
	// keep their stored values.
	merged, err := repo.Upsert(ctx, 1, "session-new", repositories.ResponseFields{
		NPSScore: nil,
		OpenText: ptrString("Could improve checkout speed"),
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, merged.ID, "resubmission must not create a second row")
	require.Equal(t, int64(8), *merged.NPSScore, "absent field keeps prior value")
	require.Equal(t, "Could improve checkout speed", *merged.OpenText)

	// Overlapping fields: last write wins.
	overwritten, err := repo.Upsert(ctx, 1, "session-new", repositories.ResponseFields{
		NPSScore: ptrInt64(3),
		OpenText: nil,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, overwritten.ID)
	require.Equal(t, int64(3), *overwritten.NPSScore)
	require.Equal(t, "Could improve checkout speed", *overwritten.OpenText)
}

func TestResponseRepository_UpsertKeepsPairsSeparate(t *testing.T) {
	repo := newResponseRepo(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, 1, "session-a", repositories.ResponseFields{NPSScore: ptrInt64(10)})
	require.NoError(t, err)

	// Same session on a different survey gets its own row.
	second, err := repo.Upsert(ctx, 2, "session-a", repositories.ResponseFields{NPSScore: ptrInt64(1)})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, int64(10), *first.NPSScore)
	require.Equal(t, int64(1), *second.NPSScore)
}

func TestResponseRepository_SetFollowUpQuestion(t *testing.T) {
	repo := newResponseRepo(t)
	ctx := context.Background()

	response, err := repo.Upsert(ctx, 1, "session-followup", repositories.ResponseFields{
		OpenText: ptrString("Could improve checkout speed"),
	})
	require.NoError(t, err)

	// Completing first makes sure a later generated question clears completed_at.
	response, err = repo.Complete(ctx, response.ID)
	require.NoError(t, err)
	require.True(t, response.IsCompleted())

	withQuestion, err := repo.SetFollowUpQuestion(ctx, response.ID, "What slows the checkout down for you?")
	require.NoError(t, err)
	require.Equal(t, "What slows the checkout down for you?", *withQuestion.AIFollowUpQuestion)
	require.False(t, withQuestion.IsCompleted(), "an unanswered follow-up question reopens the response")

	// The question is set at most once; a later attempt leaves the stored one in place.
	unchanged, err := repo.SetFollowUpQuestion(ctx, response.ID, "A different question?")
	require.NoError(t, err)
	require.Equal(t, "What slows the checkout down for you?", *unchanged.AIFollowUpQuestion)
}

func TestResponseRepository_CompleteWithFollowUpAnswer(t *testing.T) {
	tests := []struct {
		name       string
		surveyID   int64
		sessionID  string
		responseID *int64
		wantErr    error
	}{
		{
			name:      "matched by pair",
			surveyID:  1,
			sessionID: "session-awaiting",
		},
		{
			name:       "matched by pair and id",
			surveyID:   1,
			sessionID:  "session-awaiting",
			responseID: ptrInt64(2),
		},
		{
			name:       "id from another session does not match",
			surveyID:   1,
			sessionID:  "session-awaiting",
			responseID: ptrInt64(1),
			wantErr:    repositories.ErrNotFound,
		},
		{
			name:      "no row for session",
			surveyID:  1,
			sessionID: "session-unknown",
			wantErr:   repositories.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newResponseRepo(t)

			response, err := repo.CompleteWithFollowUpAnswer(
				context.Background(), tt.surveyID, tt.sessionID, tt.responseID, "The initial response time could be quicker.")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "The initial response time could be quicker.", *response.AIFollowUpAnswer)
			require.True(t, response.IsCompleted())
		})
	}
}

func TestResponseRepository_ListCompleted(t *testing.T) {
	repo := newResponseRepo(t)
	ctx := context.Background()

	responses, err := repo.ListCompleted(ctx, 1)
	require.NoError(t, err)
	require.Len(t, responses, 1, "only completed responses are listed")
	require.Equal(t, "session-completed", responses[0].SessionID)

	// Completing the awaiting response makes it show up, newest first.
	_, err = repo.CompleteWithFollowUpAnswer(ctx, 1, "session-awaiting", nil, "More personalized attention.")
	require.NoError(t, err)

	responses, err = repo.ListCompleted(ctx, 1)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	require.Equal(t, "session-awaiting", responses[0].SessionID)
}
