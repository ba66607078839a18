package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Candra0x6/stara-match/internal/ai"
	"github.com/Candra0x6/stara-match/internal/ai/gemini"
	"github.com/Candra0x6/stara-match/internal/jobboard"
	"github.com/Candra0x6/stara-match/internal/logger"
	"github.com/Candra0x6/stara-match/internal/recommend"
	"github.com/Candra0x6/stara-match/internal/secrets"
	"github.com/Candra0x6/stara-match/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptQuestions       = "Show follow-up questions"
	PromptReportByCompany = "Report by company"
	PromptJobsToFile      = "Dump evaluated jobs to file"
	PromptExit            = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptQuestions, PromptReportByCompany, PromptJobsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate recommendations for a single profile and print them",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("profile", "p", "", "path to a profile JSON file (defaults to a database lookup by --profile-id)")
	runCmd.Flags().String("profile-id", "", "profile id to load from the database")
	runCmd.Flags().String("jobs", "", "path to a jobs JSON file (defaults to the database's open jobs)")
	runCmd.Flags().BoolP("non-interactive", "y", false, "print the recommendations and exit without the action prompt")
}

// run is the one-shot CLI path: resolve a profile and candidate jobs,
// generate recommendations and offer follow-up actions.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting "+app, zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	db := openStore(ctx, config, logger)
	if db != nil {
		defer db.Close()
	}

	profile, err := resolveProfile(ctx, cmd, db)
	if err != nil {
		logger.Fatal("loading the profile", zap.Error(err))
	}

	jobs, err := resolveJobs(ctx, cmd, db)
	if err != nil {
		logger.Fatal("loading candidate jobs", zap.Error(err))
	}

	logger.Info("evaluating jobs", zap.String("profile", profile.ID), zap.Int("count", jobs.Len()))

	input := recommend.Input{
		Profile:     profile,
		Jobs:        jobs.Items,
		Preferences: preferencesFromConfig(config.Recommend),
	}

	if db != nil && profile.ID != "" {
		applied, err := db.ListAppliedJobIDs(ctx, profile.ID)
		if err != nil {
			logger.Warn("skipping applied-job exclusion", zap.Error(err))
		} else if len(applied) > 0 {
			if input.Preferences == nil {
				input.Preferences = &recommend.Preferences{}
			}
			input.Preferences.ExcludeAppliedJobs = applied
		}
	}

	engine := newRecommender(ctx, config, logger)

	output := engine.GenerateRecommendations(ctx, input)

	if db != nil && profile.ID != "" {
		if _, err := db.SaveRun(ctx, profile.ID, output); err != nil {
			logger.Warn("failed to persist the run", zap.Error(err))
		}
	}

	printOutput(output)

	if cmd.Flag("non-interactive").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, engine, logger, profile, jobs, output); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, engine ai.Recommender, logger *zap.Logger, profile *jobboard.UserProfile, jobs *jobboard.Jobs, output *recommend.Output) error {
	switch action {
	case PromptQuestions:
		questions := engine.GenerateFollowUpQuestions(ctx, profile, output)
		for i, q := range questions {
			fmt.Printf("%d. %s\n", i+1, q)
		}
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(jobs.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("job count", jobs.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := jobs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump jobs to file: %w", err)
		}
		logger.Info("dumped jobs to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printOutput(output *recommend.Output) {
	pretty, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(pretty))
}

func resolveProfile(ctx context.Context, cmd *cobra.Command, db *store.Store) (*jobboard.UserProfile, error) {
	if path := cmd.Flag("profile").Value.String(); path != "" {
		return jobboard.ProfileFromFile(path)
	}

	profileID := cmd.Flag("profile-id").Value.String()
	if profileID == "" {
		return nil, errors.New("either --profile or --profile-id is required")
	}
	if db == nil {
		return nil, errors.New("--profile-id requires a configured database")
	}

	return db.GetProfile(ctx, profileID)
}

func resolveJobs(ctx context.Context, cmd *cobra.Command, db *store.Store) (*jobboard.Jobs, error) {
	if path := cmd.Flag("jobs").Value.String(); path != "" {
		return jobboard.JobsFromFile(path)
	}
	if db == nil {
		return nil, errors.New("either --jobs or a configured database is required")
	}

	return db.ListOpenJobs(ctx, 0)
}

func preferencesFromConfig(cfg *RecommendConfig) *recommend.Preferences {
	if cfg == nil {
		return nil
	}

	return &recommend.Preferences{
		MaxRecommendations:       cfg.MaxRecommendations,
		MinMatchScore:            cfg.MinMatchScore,
		PrioritizeAccommodations: cfg.PrioritizeAccommodations,
	}
}

// openStore connects to the database when one is configured. A missing or
// unreachable database is not fatal for the CLI path.
func openStore(ctx context.Context, config *Config, logger *zap.Logger) *store.Store {
	url, err := resolveDatabaseURL(config)
	if err != nil {
		logger.Warn("skipping database", zap.Error(err))
		return nil
	}
	if url == "" {
		return nil
	}

	db, err := store.Connect(ctx, url)
	if err != nil {
		logger.Warn("skipping database", zap.Error(err))
		return nil
	}
	return db
}

func resolveDatabaseURL(config *Config) (string, error) {
	if config.Database == nil {
		return "", nil
	}
	if config.Database.URLFile == "" && config.Database.URL == "" {
		return "", nil
	}

	return secrets.Load(secrets.Source{
		Name:  "database url",
		Value: config.Database.URL,
		File:  config.Database.URLFile,
		Env:   "DATABASE_URL",
	})
}

// newRecommender builds the engine. A missing or broken model configuration
// degrades to the deterministic generator instead of failing.
func newRecommender(ctx context.Context, config *Config, logger *zap.Logger) ai.Recommender {
	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("running without a model, recommendations will use the deterministic generator",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or ai.gemini.api-key-file in the configuration file"),
		)
	}

	maxLogLength := 0
	if config.AI != nil && config.AI.Gemini != nil {
		maxLogLength = config.AI.Gemini.MaxLogLength
	}

	return recommend.NewEngine(generator, logger, maxLogLength)
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (recommend.ContentGenerator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is missing")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, timeout, genLogger)
	if err != nil {
		return nil, err
	}
	return generator, nil
}
