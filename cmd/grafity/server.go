package grafity

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundprediction/grafity"
	"github.com/soundprediction/grafity/pkg/config"
	"github.com/soundprediction/grafity/pkg/driver"
	"github.com/soundprediction/grafity/pkg/ledger"
	"github.com/soundprediction/grafity/pkg/llm"
	"github.com/soundprediction/grafity/pkg/logger"
	"github.com/soundprediction/grafity/pkg/relations"
	"github.com/soundprediction/grafity/pkg/server"
	"github.com/soundprediction/grafity/pkg/telemetry"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Grafity HTTP server",
	Long: `Start the Grafity HTTP server to provide REST API access to the knowledge graph.

The server provides endpoints for:
- Ingesting episodes (single and batch)
- Searching the knowledge graph
- Clearing all graph data
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	serverCmd.Flags().String("db-uri", "", "Neo4j URI (bolt://...)")
	serverCmd.Flags().String("db-username", "", "Neo4j username")
	serverCmd.Flags().String("db-password", "", "Neo4j password")
	serverCmd.Flags().String("db-database", "", "Neo4j database name")

	serverCmd.Flags().String("llm-model", "", "LLM model")
	serverCmd.Flags().String("llm-api-key", "", "LLM API key")
	serverCmd.Flags().String("llm-base-url", "", "LLM base URL for OpenAI-compatible services")

	serverCmd.Flags().String("ledger-path", "", "Path to the local ingestion ledger (empty disables)")
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for error telemetry parquet files")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, flushTelemetry := buildLogger(cfg)
	defer flushTelemetry()
	slog.SetDefault(log)

	grafityClient, cleanup, err := initializeGrafity(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize grafity: %w", err)
	}
	defer cleanup()

	srv := server.New(cfg, grafityClient, log)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		log.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}
	if cmd.Flags().Changed("db-uri") {
		cfg.Database.URI, _ = cmd.Flags().GetString("db-uri")
	}
	if cmd.Flags().Changed("db-username") {
		cfg.Database.Username, _ = cmd.Flags().GetString("db-username")
	}
	if cmd.Flags().Changed("db-password") {
		cfg.Database.Password, _ = cmd.Flags().GetString("db-password")
	}
	if cmd.Flags().Changed("db-database") {
		cfg.Database.Database, _ = cmd.Flags().GetString("db-database")
	}
	if cmd.Flags().Changed("llm-model") {
		cfg.LLM.Model, _ = cmd.Flags().GetString("llm-model")
	}
	if cmd.Flags().Changed("llm-api-key") {
		cfg.LLM.APIKey, _ = cmd.Flags().GetString("llm-api-key")
	}
	if cmd.Flags().Changed("llm-base-url") {
		cfg.LLM.BaseURL, _ = cmd.Flags().GetString("llm-base-url")
	}
	if cmd.Flags().Changed("ledger-path") {
		cfg.Ledger.Path, _ = cmd.Flags().GetString("ledger-path")
	}
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

// buildLogger constructs the process logger, layering the parquet error
// telemetry handler on top when a telemetry path is configured. The returned
// flush func must run at shutdown so buffered error records reach disk.
func buildLogger(cfg *config.Config) (*slog.Logger, func()) {
	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(log.Handler(), cfg.Telemetry.ParquetPath)
		if err != nil {
			log.Warn("failed to initialize error telemetry", "error", err)
			return log, func() {}
		}
		log = slog.New(parquetHandler)
		log.Info("error telemetry enabled", "path", cfg.Telemetry.ParquetPath)
		return log, func() {
			if err := parquetHandler.Flush(); err != nil {
				log.Error("failed to flush error telemetry", "error", err)
			}
		}
	}
	return log, func() {}
}

// initializeGrafity constructs the shared graph driver and LLM client and
// wires them into a Grafity client. Both are created once here and reused
// for the lifetime of the process.
func initializeGrafity(cfg *config.Config, log *slog.Logger) (grafity.Grafity, func(), error) {
	graphDriver, err := driver.NewNeo4jDriver(
		cfg.Database.URI,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.Timeout,
	)
	if err != nil {
		return nil, nil, err
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := graphDriver.VerifyConnectivity(startupCtx); err != nil {
		graphDriver.Close(startupCtx)
		return nil, nil, err
	}
	if err := graphDriver.CreateIndices(startupCtx); err != nil {
		log.Warn("failed to create indices", "error", err)
	}

	llmClient, err := buildLLMClient(cfg, log)
	if err != nil {
		graphDriver.Close(startupCtx)
		return nil, nil, err
	}

	var led *ledger.Ledger
	if cfg.Ledger.Path != "" {
		led, err = ledger.Open(cfg.Ledger.Path)
		if err != nil {
			graphDriver.Close(startupCtx)
			llmClient.Close()
			return nil, nil, err
		}
		log.Info("ingestion ledger enabled", "path", cfg.Ledger.Path)
	}

	vocab := relations.New(relations.DefaultTypes, cfg.Ingestion.NormalizeEntities)

	client := grafity.NewClient(graphDriver, llmClient, vocab, led, grafity.Config{
		SearchLimit:   cfg.Ingestion.SearchLimit,
		SkipProcessed: cfg.Ingestion.SkipProcessed,
	}, log)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			log.Error("failed to close grafity client", "error", err)
		}
	}

	log.Info("grafity initialized",
		"database", cfg.Database.URI,
		"model", cfg.LLM.Model)

	return client, cleanup, nil
}

// buildLLMClient stacks the OpenAI client with retry and, when enabled,
// circuit breaking.
func buildLLMClient(cfg *config.Config, log *slog.Logger) (llm.Client, error) {
	base, err := llm.NewOpenAIClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}

	var client llm.Client = llm.NewRetryClient(base, &llm.RetryConfig{
		MaxRetries: cfg.LLM.MaxRetries,
	})

	if cfg.CircuitBreaker.Enabled {
		client = llm.NewCircuitBreakerClient(client, llm.BreakerConfig{
			Enabled:          true,
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, "llm", log)
	}

	return client, nil
}
