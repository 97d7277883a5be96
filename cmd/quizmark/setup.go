package main

import (
	"errors"
	"fmt"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/config"
	"github.com/alnah/go-quizmark/internal/fileutil"
	"github.com/alnah/go-quizmark/internal/hints"
	"github.com/alnah/go-quizmark/internal/logging"
)

// setup resolves the configuration (defaults < config file < env vars <
// flags), validates it, builds the logger and sizes GOMAXPROCS to the
// container's CPU quota. override applies the command's own flags.
func setup(common *commonFlags, env *Environment, override func(*config.Config)) (*config.Config, *zap.Logger, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)

	if common.logLevel != "" {
		cfg.Log.Level = common.logLevel
	}
	if common.verbose {
		cfg.Log.Level = "debug"
	}
	if common.quiet {
		cfg.Log.Level = "error"
	}
	if override != nil {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, env.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf))

	return cfg, logger, nil
}

// rendererOptions maps the render config to library options.
func rendererOptions(cfg *config.Config, logger *zap.Logger) []quizmark.Option {
	opts := []quizmark.Option{
		quizmark.WithEngineName(cfg.Render.Engine),
		quizmark.WithLogger(logger),
	}
	if cfg.Render.Policy {
		opts = append(opts, quizmark.WithPolicy())
	}
	if cfg.Render.Highlight.Enabled {
		opts = append(opts, quizmark.WithHighlighting(cfg.Render.Highlight.Style))
	}
	return opts
}

// newPool creates the renderer pool, adding hints to engine errors.
func newPool(cfg *config.Config, logger *zap.Logger, workers int) (*quizmark.RendererPool, error) {
	size := quizmark.ResolvePoolSize(workers)
	logger.Debug("renderer pool", zap.Int("size", size), zap.String("engine", cfg.Render.Engine))

	pool, err := quizmark.NewRendererPool(size, rendererOptions(cfg, logger)...)
	switch {
	case errors.Is(err, quizmark.ErrEngineUnavailable):
		return nil, fmt.Errorf("%w%s", err, hints.ForEngineUnavailable())
	case errors.Is(err, quizmark.ErrUnknownEngine):
		return nil, fmt.Errorf("%w%s", err, hints.ForUnknownEngine([]string{quizmark.EngineMathML, quizmark.EngineKaTeX}))
	case err != nil:
		return nil, err
	}
	return pool, nil
}
