package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/assets"
	"github.com/alnah/go-quizmark/internal/config"
)

// ErrUsage reports invalid flags or arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	logLevel string
	quiet    bool
	verbose  bool
}

// engineFlags holds display pipeline flags shared by render and serve.
type engineFlags struct {
	engine    string
	policy    bool
	highlight string // chroma style; "" = disabled
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common   commonFlags
	engine   engineFlags
	output   string
	append   string
	title    string
	workers  int
	watch    bool
	fragment bool
	page     pageFlags
}

// pageFlags holds the view page asset flags.
type pageFlags struct {
	style     string
	template  string
	assetPath string
	noStyle   bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	engine  engineFlags
	addr    string
	workers int
}

// editFlags holds all flags for the edit command.
type editFlags struct {
	common   commonFlags
	debounce int // milliseconds; 0 = config or default
	initial  string
	markdown bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addEngineFlags adds display pipeline flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "math engine: mathml, katex")
	fs.BoolVar(&f.policy, "policy", false, "filter markup through the UGC content policy")
	fs.StringVar(&f.highlight, "highlight", "", "highlight code blocks with a chroma style")
	fs.Lookup("highlight").NoOptDefVal = quizmark.DefaultHighlightStyle
}

// apply overrides the render config with flags that were set.
func (f *engineFlags) apply(cfg *config.Config) {
	if f.engine != "" {
		cfg.Render.Engine = f.engine
	}
	if f.policy {
		cfg.Render.Policy = true
	}
	if f.highlight != "" {
		cfg.Render.Highlight.Enabled = true
		cfg.Render.Highlight.Style = f.highlight
	}
}

// apply overrides the page config with flags that were set.
func (f *pageFlags) apply(cfg *config.Config) {
	if f.style != "" {
		cfg.Page.Style = f.style
	}
	if f.template != "" {
		cfg.Page.Template = f.template
	}
	if f.assetPath != "" {
		cfg.Page.AssetPath = f.assetPath
	}
	if f.noStyle {
		cfg.Page.Plain = true
	}
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseError wraps pflag errors so they map to the usage exit code.
// flag.ErrHelp is returned as is.
func parseError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := newFlagSet("render", printRenderUsage, stderr)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to each input)")
	fs.StringVarP(&f.append, "append", "a", "", "fragment appended after each rendered document")
	fs.StringVar(&f.title, "title", "", "page title (default: input file name)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "re-render inputs when they change")
	fs.BoolVar(&f.fragment, "fragment", false, "write the rendered markup only, without the page wrapper")
	fs.StringVarP(&f.page.style, "style", "s", "", "page stylesheet name (default: "+assets.DefaultStyleName+")")
	fs.StringVar(&f.page.template, "template", "", "page template name (default: "+assets.DefaultTemplateName+")")
	fs.StringVar(&f.page.assetPath, "asset-path", "", "directory with styles/ and templates/ overrides")
	fs.BoolVar(&f.page.noStyle, "no-style", false, "omit the page stylesheet")

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	if f.workers < 0 {
		return nil, nil, fmt.Errorf("%w: --workers must be >= 0, got %d", ErrUsage, f.workers)
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := newFlagSet("serve", printServeUsage, stderr)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default: "+config.DefaultAddr+")")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	if f.workers < 0 {
		return nil, fmt.Errorf("%w: --workers must be >= 0, got %d", ErrUsage, f.workers)
	}
	return f, nil
}

// parseEditFlags parses edit command flags.
func parseEditFlags(args []string, stderr io.Writer) (*editFlags, error) {
	fs := newFlagSet("edit", printEditUsage, stderr)
	f := &editFlags{}

	fs.IntVar(&f.debounce, "debounce", 0, "debounce window in milliseconds (default: 500)")
	fs.StringVar(&f.initial, "initial", "", "initial content, taken as plain text")
	fs.BoolVar(&f.markdown, "markdown", false, "treat --initial as Markdown")

	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: edit reads its script from stdin, got arguments %q", ErrUsage, fs.Args())
	}
	if f.debounce < 0 {
		return nil, fmt.Errorf("%w: --debounce must be >= 0, got %d", ErrUsage, f.debounce)
	}
	return f, nil
}
