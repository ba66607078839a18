package cmd

import (
	"context"
	"log"
	"time"

	"github.com/Candra0x6/stara-match/internal/cache"
	"github.com/Candra0x6/stara-match/internal/logger"
	"github.com/Candra0x6/stara-match/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP for the job board backend",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "P", 8080, "port to listen on")
}

func serve(cmd *cobra.Command) {
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

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		logger.Fatal("reading the port flag", zap.Error(err))
	}

	db := openStore(ctx, config, logger)
	if db != nil {
		defer db.Close()
	}

	results := openCache(ctx, config, logger)
	if results != nil {
		defer results.Close()
	}

	cfg := server.Config{
		Port:        port,
		Recommender: newRecommender(ctx, config, logger),
		Logger:      logger,
	}
	if db != nil {
		cfg.Store = db
	}
	if results != nil {
		cfg.Cache = results
	}

	srv, err := server.New(cfg)
	if err != nil {
		logger.Fatal("creating the server", zap.Error(err))
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// openCache connects to Redis when one is configured. A missing or
// unreachable cache only disables result caching.
func openCache(ctx context.Context, config *Config, logger *zap.Logger) *cache.Cache {
	if config.Cache == nil || config.Cache.Address == "" {
		return nil
	}

	results := cache.New(cache.Config{
		Address:  config.Cache.Address,
		Password: config.Cache.Password,
		DB:       config.Cache.DB,
		TTL:      time.Duration(config.Cache.TTLMinutes) * time.Minute,
	})

	if err := results.Ping(ctx); err != nil {
		logger.Warn("skipping result cache", zap.Error(err))
		results.Close()
		return nil
	}
	return results
}
