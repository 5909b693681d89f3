package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ppiankov/piitier/internal/logger"
	"github.com/ppiankov/piitier/internal/pipeline"
	"github.com/ppiankov/piitier/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes document analysis over HTTP:

  GET  /health        analyzer readiness
  GET  /v1/entities   entity catalog
  POST /v1/analyze    one document
  POST /v1/batch      many documents, results in request order

Changes to logging.level in the config file apply without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	watchLogLevel(viper.GetViper(), log)

	processor := pipeline.Build(ctx, cfg, log.Logger)
	srv := server.New(cfg, processor, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// watchLogLevel applies logging.level edits from the config file
func watchLogLevel(v *viper.Viper, log *logger.Logger) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		applyLogLevel(v, log)
	})
	v.WatchConfig()
}

func applyLogLevel(v *viper.Viper, log *logger.Logger) {
	level := v.GetString("logging.level")
	if level == log.Level().String() {
		return
	}
	if err := log.SetLevel(level); err != nil {
		log.Warn("Ignoring invalid log level from config", zap.String("level", level), zap.Error(err))
		return
	}
	log.Info("Log level changed", zap.String("level", level))
}
