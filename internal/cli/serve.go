package cli

import (
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/internal/server"
	"github.com/yaklabco/gomdhelp/pkg/config"
)

func newServeCommand(globals *globalFlags) *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve module help pages over HTTP",
		Long: `Start an HTTP server rendering module help pages on request.

Routes:
  GET /help          index of help topics
  GET /help/{name}   rendered README of a module (?lang=fr selects the language)
  GET /api/topics    help topics as JSON
  GET /health        liveness check

Image and link URLs are generated from the scheme and Host of each request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, globals, &cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Server.Addr, "addr", "", "listen address (default "+config.DefaultServerAddr+")")
	cmd.Flags().DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", 0,
		"graceful shutdown timeout (default "+config.DefaultShutdownTimeout.String()+")")

	return cmd
}

func runServe(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, globals, cliCfg)
	if err != nil {
		return err
	}

	level := "info"
	if logging.Default().GetLevel() <= log.DebugLevel {
		level = "debug"
	}
	logger := logging.NewServer(cmd.ErrOrStderr(), level)
	ctx = logging.WithLogger(ctx, logger)

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Info("help topics indexed",
		logging.FieldRoot, cfg.Root,
		logging.FieldModulesDiscovered, len(sess.index.Topics()),
	)

	srv := server.New(sess.converter, sess.index, server.Options{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Language:        cfg.Language,
		Logger:          logger,
	})

	return srv.ListenAndServe(ctx)
}
