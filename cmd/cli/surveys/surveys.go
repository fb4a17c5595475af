// Package surveys holds the CLI commands for managing surveys from a
// terminal with direct database access.
package surveys

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
	"github.com/Afifibytes/simple-survey-tool/internal/sqlite"
)

var Group = &cobra.Group{
	ID:    "surveys",
	Title: "Survey administration",
}

type repos struct {
	surveys   *repositories.SurveyRepository
	responses *repositories.ResponseRepository
	close     func()
}

func openRepos(ctx context.Context) (*repos, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	url := os.Getenv("SURVEY_SQLITE_URL")
	if url == "" {
		url = "./survey.sqlite"
	}
	dbs, err := sqlite.NewDatabase(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database %s: %w", url, err)
	}
	return &repos{
		surveys:   repositories.NewSurveyRepository(dbs, logger),
		responses: repositories.NewResponseRepository(dbs, logger),
		close: func() {
			_ = dbs.Close()
		},
	}, nil
}

var List = &cobra.Command{
	Use:     "list",
	GroupID: "surveys",
	Short:   "List surveys",
	Long:    `Lists all surveys with their response counts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		r, err := openRepos(ctx)
		if err != nil {
			return err
		}
		defer r.close()

		summaries, err := r.surveys.List(ctx)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			status := "inactive"
			if s.Active {
				status = "active"
			}
			cmd.Printf("%d\t%s\t%s\t%d responses (%d completed)\n",
				s.ID, s.Name, status, s.ResponseCount, s.CompletedResponseCount)
		}
		return nil
	},
}

var Activate = &cobra.Command{
	Use:     "activate [survey-id]",
	GroupID: "surveys",
	Short:   "Open a survey for responses",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], true)
	},
}

var Deactivate = &cobra.Command{
	Use:     "deactivate [survey-id]",
	GroupID: "surveys",
	Short:   "Close a survey to responses",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], false)
	},
}

func setActive(cmd *cobra.Command, rawID string, active bool) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid survey ID %q", rawID)
	}
	ctx := cmd.Context()
	r, err := openRepos(ctx)
	if err != nil {
		return err
	}
	defer r.close()

	if err = r.surveys.SetActive(ctx, id, active); err != nil {
		return err
	}
	if active {
		cmd.Printf("survey %d is now accepting responses\n", id)
	} else {
		cmd.Printf("survey %d is closed to responses\n", id)
	}
	return nil
}

var Seed = &cobra.Command{
	Use:     "seed",
	GroupID: "surveys",
	Short:   "Insert sample surveys",
	Long:    `Inserts sample surveys with a few completed responses for local development.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		r, err := openRepos(ctx)
		if err != nil {
			return err
		}
		defer r.close()

		if err = seed(ctx, r); err != nil {
			return err
		}
		cmd.Println("sample surveys created")
		return nil
	},
}

func seed(ctx context.Context, r *repos) error {
	description := "Help us improve our service by sharing your feedback."
	survey, err := r.surveys.Create(ctx, repositories.NewSurvey{
		Name:        "Customer Satisfaction Survey",
		Description: &description,
		Active:      true,
		Questions: []repositories.NewQuestion{
			{Type: "nps", Text: "How likely are you to recommend our service to a friend or colleague?"},
			{Type: "text", Text: "What can we do to improve your experience with our service?"},
		},
	})
	if err != nil {
		return err
	}

	samples := []struct {
		npsScore int64
		openText string
		question string
		answer   string
	}{
		{9, "Great service overall, very satisfied with the quality.",
			"What specific aspect of our service quality impressed you the most?",
			"The customer support team was incredibly helpful and responsive."},
		{7, "Good service but could be faster.",
			"Which part of our service would you like to see improved for speed?",
			"The initial response time could be quicker."},
		{5, "Average experience, nothing special.",
			"What would make your experience more memorable and positive?",
			"More personalized attention and follow-up."},
	}
	for i, sample := range samples {
		sessionID := fmt.Sprintf("sample_session_%d", i+1)
		score := sample.npsScore
		openText := sample.openText
		response, err := r.responses.Upsert(ctx, survey.ID, sessionID, repositories.ResponseFields{
			NPSScore: &score,
			OpenText: &openText,
		})
		if err != nil {
			return err
		}
		if _, err = r.responses.SetFollowUpQuestion(ctx, response.ID, sample.question); err != nil {
			return err
		}
		if _, err = r.responses.CompleteWithFollowUpAnswer(ctx, survey.ID, sessionID, &response.ID, sample.answer); err != nil {
			return err
		}
	}

	description2 := "Tell us what you think about our latest product."
	_, err = r.surveys.Create(ctx, repositories.NewSurvey{
		Name:        "Product Feedback Survey",
		Description: &description2,
		Active:      true,
		Questions: []repositories.NewQuestion{
			{Type: "nps", Text: "How likely are you to recommend this product to others?"},
			{Type: "text", Text: "What features would you like to see added to this product?"},
		},
	})
	return err
}
