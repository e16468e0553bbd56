package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhelp/internal/configloader"
	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/config"
	"github.com/yaklabco/gomdhelp/pkg/modules"
	"github.com/yaklabco/gomdhelp/pkg/readme"
)

// globalFlags holds the persistent flags shared by all commands.
type globalFlags struct {
	configPath  string
	root        string
	host        string
	language    string
	modulePaths []string
}

// apply copies the global flags into a CLI-level config overlay.
func (g *globalFlags) apply(cfg *config.Config) {
	cfg.Root = g.root
	cfg.Host = g.host
	cfg.Language = g.language
	if len(g.modulePaths) > 0 {
		cfg.ModulePaths = g.modulePaths
	}
}

// session bundles the loaded configuration with the objects built from it.
type session struct {
	cfg       *config.Config
	index     *modules.Index
	converter *readme.Converter
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.EnsureLogger(ctx, logging.Default())
}

// loadConfig merges all configuration layers with the CLI overlay.
func loadConfig(ctx context.Context, globals *globalFlags, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	if cliCfg == nil {
		cliCfg = &config.Config{}
	}
	globals.apply(cliCfg)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globals.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPaths, loadResult.LoadedFrom)
	}

	finalCfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldRoot, finalCfg.Root,
		logging.FieldHost, finalCfg.Host,
		logging.FieldLanguage, finalCfg.Language,
		logging.FieldJobs, finalCfg.Jobs,
	)

	return finalCfg, nil
}

// openSession builds the module index and converter for cfg.
func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	index, err := modules.Build(ctx, modules.Options{
		Root:        cfg.Root,
		SearchDirs:  cfg.ModulePaths,
		ReadmeFiles: cfg.ReadmeFiles,
		Selected:    cfg.Modules,
	})
	if err != nil {
		return nil, fmt.Errorf("build module index: %w", err)
	}

	converter := readme.NewConverter(cfg,
		readme.WithResolver(index),
		readme.WithLogger(logging.FromContext(ctx)),
	)

	return &session{cfg: cfg, index: index, converter: converter}, nil
}

// loadSession loads configuration and opens a session in one step.
func loadSession(ctx context.Context, globals *globalFlags, cliCfg *config.Config) (*session, error) {
	cfg, err := loadConfig(ctx, globals, cliCfg)
	if err != nil {
		return nil, err
	}
	return openSession(ctx, cfg)
}
