package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/assets"
	"github.com/alnah/go-quizmark/internal/config"
	"github.com/alnah/go-quizmark/internal/fileutil"
	"github.com/alnah/go-quizmark/internal/hints"
	"github.com/alnah/go-quizmark/internal/pipeline"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for render operations.
var (
	ErrReadInput    = errors.New("failed to read input file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrRenderFailed = errors.New("some files failed to render")
)

// renderParams holds settings shared by every job of a batch.
type renderParams struct {
	append   string
	title    string
	fragment bool
	page     pipeline.PageRenderer
	style    string // page stylesheet, prepended to highlight CSS
	logger   *zap.Logger
}

// renderResult holds the outcome of a single render.
type renderResult struct {
	InputPath  string
	OutputPath string
	Failures   int
	Err        error
	Duration   time.Duration
}

// runRender implements the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := setup(&flags.common, env, func(c *config.Config) {
		flags.engine.apply(c)
		flags.page.apply(c)
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	jobs, err := discoverFiles(positional, flags.output)
	if err != nil {
		return err
	}

	params := &renderParams{
		append:   flags.append,
		title:    flags.title,
		fragment: flags.fragment,
		logger:   logger,
	}
	if !flags.fragment {
		params.page, params.style, err = loadPage(cfg.Page)
		if err != nil {
			return err
		}
	}

	workers := flags.workers
	if workers == 0 {
		workers = loadEnvConfig().Workers
	}
	pool, err := newPool(cfg, logger, workers)
	if err != nil {
		return err
	}
	defer pool.Close()

	results := renderBatch(ctx, pool, jobs, params)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)

	if flags.watch {
		logger.Info("watching for changes", zap.Int("files", len(jobs)))
		return watchAndRender(ctx, jobs, logger, func(ctx context.Context, changed []renderJob) {
			printResults(renderBatch(ctx, pool, changed, params), flags.common.quiet, flags.common.verbose, env)
		})
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRenderFailed, failed, len(results))
	}
	return nil
}

// loadPage resolves the page template and stylesheet named by the config.
// Custom assets under AssetPath shadow the embedded ones.
func loadPage(cfg config.PageConfig) (pipeline.PageRenderer, string, error) {
	resolver, err := assets.NewAssetResolver(cfg.AssetPath)
	if err != nil {
		return nil, "", err
	}

	name := cmp.Or(cfg.Template, assets.DefaultTemplateName)
	content, err := resolver.LoadTemplate(name)
	if err != nil {
		return nil, "", err
	}
	page, err := pipeline.NewPageTemplate(content)
	if err != nil {
		return nil, "", fmt.Errorf("template %q: %w", name, err)
	}

	if cfg.Plain {
		return page, "", nil
	}
	style, err := resolver.LoadStyle(cmp.Or(cfg.Style, assets.DefaultStyleName))
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return nil, "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.Styles()))
		}
		return nil, "", err
	}
	return page, style, nil
}

// renderBatch renders jobs concurrently, bounded by the pool size.
// Failures are reported per job; one failure does not stop the others.
func renderBatch(ctx context.Context, pool *quizmark.RendererPool, jobs []renderJob, params *renderParams) []renderResult {
	results := make([]renderResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(pool.Size())
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = renderJobWithPool(ctx, pool, job, params)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// renderJobWithPool acquires a renderer for one job.
func renderJobWithPool(ctx context.Context, pool *quizmark.RendererPool, job renderJob, params *renderParams) renderResult {
	r, err := pool.Acquire(ctx)
	if err != nil {
		return renderResult{InputPath: job.InputPath, OutputPath: job.OutputPath, Err: err}
	}
	defer pool.Release(r)
	return renderFile(ctx, r, job, params)
}

// renderFile renders a single file and writes its output.
func renderFile(ctx context.Context, r *quizmark.Renderer, job renderJob, params *renderParams) renderResult {
	start := time.Now()
	result := renderResult{
		InputPath:  job.InputPath,
		OutputPath: job.OutputPath,
	}
	fail := func(err error) renderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	input := quizmark.Input{Markup: string(content), Append: params.append}
	if job.Markdown {
		input = quizmark.Input{Markdown: string(content), Append: params.append}
	}

	res, err := r.Render(ctx, input)
	if err != nil {
		return fail(err)
	}
	result.Failures = len(res.Failures)

	out := res.HTML + "\n"
	if !params.fragment {
		highlight, err := r.CSS()
		if err != nil {
			return fail(err)
		}
		css := params.style
		if highlight != "" {
			css = strings.TrimSpace(css + "\n" + highlight)
		}
		title := params.title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(job.InputPath), filepath.Ext(job.InputPath))
		}
		out, err = params.page.RenderPage(ctx, pipeline.PageData{Title: title, Body: res.HTML, CSS: css})
		if err != nil {
			return fail(err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory()))
	}
	if err := fileutil.WriteFileAtomic(job.OutputPath, []byte(out), filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	params.logger.Debug("rendered",
		zap.String("input", job.InputPath),
		zap.String("output", job.OutputPath),
		zap.Int("failures", result.Failures),
	)
	result.Duration = time.Since(start)
	return result
}

// printResults outputs render results and returns the number of failed files.
func printResults(results []renderResult, quiet, verbose bool, env *Environment) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		note := ""
		if r.Failures > 0 {
			note = fmt.Sprintf(" [%d math expression(s) left raw]", r.Failures)
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)%s\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), note)
		} else {
			fmt.Fprintf(env.Stdout, "Created %s%s\n", r.OutputPath, note)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}
