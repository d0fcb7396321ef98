package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"voxtral-server/internal/api/server"
	"voxtral-server/internal/app/api"
	"voxtral-server/internal/app/api/mistral"
	"voxtral-server/internal/app/api/voxtral"
	"voxtral-server/internal/app/service"
	"voxtral-server/internal/config"
	"voxtral-server/internal/logging"
)

var (
	host     string
	port     int
	reload   bool
	logLevel string
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Host to bind to")
	Cmd.Flags().IntVar(&port, "port", 8080, "Port to bind to")
	Cmd.Flags().BoolVar(&reload, "reload", false, "Enable development mode (verbose router diagnostics)")
	Cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warning, error)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription HTTP server",
	Long: `Start the transcription HTTP server.

The model backend is initialized once at startup. Initialization failure
is not fatal: the process keeps serving so /health can report the
problem. Invalid configuration, by contrast, exits immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.FromEnv()

		if cmd.Flags().Changed("host") || cfg.Host == "" {
			cfg.Host = host
		}
		cfg.Port = port
		cfg.Reload = reload
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}

		logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		logger.Info("starting Voxtral transcription server",
			zap.String("addr", cfg.Addr()),
			zap.String("backend", cfg.Backend),
			zap.String("model_id", cfg.ModelID),
			zap.Bool("reload", cfg.Reload),
			zap.String("log_level", cfg.LogLevel),
		)

		svc := service.New(backendFactory(cfg, logger), logger).WithTempDir(cfg.TempDir)
		if err := svc.Initialize(); err != nil {
			// Keep running so health checks can report the failure.
			logger.Error("model initialization failed, serving in unhealthy state", zap.Error(err))
		}

		srv := server.NewServer(cfg, svc, logger)
		errCh := srv.Start()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
		case err := <-errCh:
			if err != nil {
				logger.Error("http server error", zap.Error(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", zap.Error(err))
		}

		logger.Info("voxtral-server stopped")
	},
}

// backendFactory defers backend construction so the serve command can
// treat initialization failure as a health problem instead of a crash.
func backendFactory(cfg *config.ServerConfig, logger *zap.Logger) service.BackendFactory {
	switch cfg.Backend {
	case config.BackendMistral:
		return func() (api.Transcriber, error) {
			return mistral.NewRemoteTranscriber(cfg.MistralAPIKey, cfg.MistralBaseURL)
		}
	default:
		return func() (api.Transcriber, error) {
			return voxtral.NewLocalTranscriber(cfg.RunnerPath, logger)
		}
	}
}
