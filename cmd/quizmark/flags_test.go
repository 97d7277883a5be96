package main

// Notes:
// - parseRenderFlags/parseServeFlags/parseEditFlags: we test defaults,
//   short and long forms, validation and positional argument handling.
// - --highlight: we test the bare form picks the default chroma style.
// - engineFlags.apply, pageFlags.apply: we test only set flags override the config.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseRenderFlags - Render command flags
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseRenderFlags([]string{"quiz.html"}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(args) != 1 || args[0] != "quiz.html" {
			t.Errorf("args = %v, want [quiz.html]", args)
		}
		if f.output != "" || f.append != "" || f.workers != 0 || f.watch || f.fragment {
			t.Errorf("unexpected non-default flags: %+v", f)
		}
		if f.engine.highlight != "" {
			t.Errorf("highlight should be disabled by default, got %q", f.engine.highlight)
		}
	})

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseRenderFlags([]string{
			"-o", "out", "-a", "<b>1</b>", "--title", "Quiz", "-w", "4",
			"--watch", "--fragment", "-e", "katex", "--policy", "--highlight=monokai",
			"-c", "work", "--log-level", "warn", "-q",
			"a.html", "b.md",
		}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(args) != 2 {
			t.Errorf("args = %v, want 2 inputs", args)
		}
		if f.output != "out" || f.append != "<b>1</b>" || f.title != "Quiz" || f.workers != 4 {
			t.Errorf("output flags = %+v", f)
		}
		if !f.watch || !f.fragment {
			t.Errorf("watch=%v fragment=%v, want both true", f.watch, f.fragment)
		}
		if f.engine.engine != "katex" || !f.engine.policy || f.engine.highlight != "monokai" {
			t.Errorf("engine flags = %+v", f.engine)
		}
		if f.common.config != "work" || f.common.logLevel != "warn" || !f.common.quiet {
			t.Errorf("common flags = %+v", f.common)
		}
	})

	t.Run("bare highlight uses default style", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseRenderFlags([]string{"--highlight", "quiz.html"}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.engine.highlight != quizmark.DefaultHighlightStyle {
			t.Errorf("highlight = %q, want %q", f.engine.highlight, quizmark.DefaultHighlightStyle)
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseRenderFlags([]string{"-w", "-1"}, io.Discard)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseRenderFlags([]string{"--bogus"}, io.Discard)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("help is not a usage error", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseRenderFlags([]string{"-h"}, io.Discard)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
		if errors.Is(err, ErrUsage) {
			t.Error("help should not map to ErrUsage")
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseServeFlags - Serve command flags
// ---------------------------------------------------------------------------

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantAddr string
		wantErr  error
	}{
		{"defaults", nil, "", nil},
		{"addr", []string{"--addr", ":9000"}, ":9000", nil},
		{"positional rejected", []string{"extra"}, "", ErrUsage},
		{"negative workers", []string{"-w", "-2"}, "", ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := parseServeFlags(tt.args, io.Discard)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", f.addr, tt.wantAddr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseEditFlags - Edit command flags
// ---------------------------------------------------------------------------

func TestParseEditFlags(t *testing.T) {
	t.Parallel()

	t.Run("values", func(t *testing.T) {
		t.Parallel()

		f, err := parseEditFlags([]string{"--debounce", "50", "--initial", "# Q", "--markdown"}, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.debounce != 50 || f.initial != "# Q" || !f.markdown {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("positional rejected", func(t *testing.T) {
		t.Parallel()

		_, err := parseEditFlags([]string{"script.txt"}, io.Discard)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("negative debounce", func(t *testing.T) {
		t.Parallel()

		_, err := parseEditFlags([]string{"--debounce=-5"}, io.Discard)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestEngineFlags_Apply - Flag overrides
// ---------------------------------------------------------------------------

func TestEngineFlags_Apply(t *testing.T) {
	t.Parallel()

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Engine = "katex"
		(&engineFlags{}).apply(cfg)

		if cfg.Render.Engine != "katex" || cfg.Render.Policy || cfg.Render.Highlight.Enabled {
			t.Errorf("config changed by empty flags: %+v", cfg.Render)
		}
	})

	t.Run("set flags override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		(&engineFlags{engine: "katex", policy: true, highlight: "dracula"}).apply(cfg)

		if cfg.Render.Engine != "katex" {
			t.Errorf("Engine = %q, want katex", cfg.Render.Engine)
		}
		if !cfg.Render.Policy {
			t.Error("Policy should be enabled")
		}
		if !cfg.Render.Highlight.Enabled || cfg.Render.Highlight.Style != "dracula" {
			t.Errorf("Highlight = %+v, want enabled dracula", cfg.Render.Highlight)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPageFlags - View page asset flags
// ---------------------------------------------------------------------------

func TestPageFlags(t *testing.T) {
	t.Parallel()

	f, _, err := parseRenderFlags([]string{
		"-s", "compact", "--template", "exam", "--asset-path", "theme", "--no-style", "q.html",
	}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := pageFlags{style: "compact", template: "exam", assetPath: "theme", noStyle: true}
	if f.page != want {
		t.Errorf("page = %+v, want %+v", f.page, want)
	}

	cfg := config.DefaultConfig()
	cfg.Page.Style = "default"
	(&pageFlags{}).apply(cfg)
	if cfg.Page != (config.PageConfig{Style: "default"}) {
		t.Errorf("config changed by empty flags: %+v", cfg.Page)
	}

	f.page.apply(cfg)
	if cfg.Page != (config.PageConfig{Template: "exam", Style: "compact", AssetPath: "theme", Plain: true}) {
		t.Errorf("Page = %+v", cfg.Page)
	}
}
