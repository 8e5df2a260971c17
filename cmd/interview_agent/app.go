package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/db/memory"
	"github.com/jonathan/interview-coach/internal/evaluation"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/transcription"
)

// loadConfig reads the config file and environment, with the persistent
// --debug and --json flags taking precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if err := v.BindPFlag("log.debug", cmd.Flags().Lookup("debug")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("log.json", cmd.Flags().Lookup("json")); err != nil {
		return nil, err
	}
	if err := config.ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	return config.Decode(v)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return logger, nil
}

// app holds the wired collaborators shared by the serve and practice commands.
type app struct {
	orchestrator *interview.Orchestrator
	database     *db.DB
	client       llm.Client
}

// buildApp wires storage, the language model and the orchestrator. Without
// a database URL sessions live in memory; without an API key every model
// step uses its fallback.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	var (
		store interview.SessionStore
		bank  interview.QuestionBank
	)
	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.database = database
		if err := database.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
		store = database.Sessions()
		bank = database.Questions()
	} else {
		logger.Info("no database configured, using in-memory storage")
		seed, err := questions.DefaultSeed()
		if err != nil {
			return nil, err
		}
		store = memory.NewStore()
		bank = memory.NewBank(seed)
	}

	if cfg.LLM.Enabled() {
		client, err := llm.NewClient(ctx, cfg.LLM.ClientConfig(), cfg.LLM.APIKey())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
		a.client = client
	} else {
		logger.Warn("no llm api key configured, using static questions and heuristic scoring",
			zap.String("provider", cfg.LLM.Provider))
	}

	staticBank, err := questions.DefaultStaticBank()
	if err != nil {
		a.Close()
		return nil, err
	}

	count := cfg.Interview.QuestionCount
	var transcriber interview.Transcriber
	if a.client != nil {
		transcriber = transcription.NewAdapter(a.client, cfg.LLM.Timeout, logger.Named("transcription"))
	}

	orchestrator, err := interview.New(interview.Deps{
		Store:         store,
		Bank:          bank,
		Questions:     questions.NewNegotiator(a.client, staticBank, count, cfg.LLM.Timeout, logger.Named("questions")),
		Scorer:        evaluation.NewEvaluator(a.client, cfg.LLM.Timeout, logger.Named("evaluation")),
		Transcriber:   transcriber,
		Logger:        logger.Named("interview"),
		QuestionCount: count,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.orchestrator = orchestrator
	return a, nil
}

// Close releases the database pool and model client.
func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
}
