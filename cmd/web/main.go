package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Afifibytes/simple-survey-tool/internal/ai"
	"github.com/Afifibytes/simple-survey-tool/internal/cache"
	"github.com/Afifibytes/simple-survey-tool/internal/envstruct"
	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/followup"
	"github.com/Afifibytes/simple-survey-tool/internal/logging"
	"github.com/Afifibytes/simple-survey-tool/internal/pprofserver"
	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
	"github.com/Afifibytes/simple-survey-tool/internal/services"
	"github.com/Afifibytes/simple-survey-tool/internal/sqlite"
)

type application struct {
	logger          *slog.Logger
	sessionManager  *scs.SessionManager
	surveys         *repositories.SurveyRepository
	responseService *services.ResponseService
}

type config struct {
	Addr                 string `env:"SURVEY_ADDR" envDefault:"localhost:4000"`
	SQLiteURL            string `env:"SURVEY_SQLITE_URL" envDefault:"./survey.sqlite"`
	PprofAddr            string `env:"SURVEY_PPROF_ADDR" envDefault:""`
	OpenAIAPIKey         string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIAPIURL         string `env:"OPENAI_API_URL" envDefault:"https://api.openai.com/v1"`
	OpenAITimeoutSeconds int    `env:"OPENAI_TIMEOUT_SECONDS" envDefault:"30"`
	RedisAddr            string `env:"REDIS_ADDR" envDefault:""`
}

func main() {
	// A missing .env file is fine; the environment can come from elsewhere.
	_ = godotenv.Load()

	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})))

	ctx := context.Background()
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server error", errors.SlogError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse config")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(cfg.PprofAddr, logger)
	}

	dbs, err := sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "connect to database", slog.String("url", cfg.SQLiteURL))
	}
	defer func() {
		_ = dbs.Close()
	}()
	go dbs.StartOptimizer(ctx)

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	var questionCache cache.Cache
	if cfg.RedisAddr != "" {
		questionCache = cache.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), logger)
	} else {
		questionCache = cache.NewMemory()
	}

	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, follow-up questions are disabled")
	}
	completer := ai.NewClient(ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIAPIURL,
		Timeout: time.Duration(cfg.OpenAITimeoutSeconds) * time.Second,
	})
	generator := followup.NewGenerator(completer, questionCache, logger)

	responses := repositories.NewResponseRepository(dbs, logger)

	app := &application{
		logger:          logger,
		sessionManager:  sessionManager,
		surveys:         repositories.NewSurveyRepository(dbs, logger),
		responseService: services.NewResponseService(responses, generator, logger),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}
