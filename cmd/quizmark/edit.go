package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/hints"
)

// ErrEditScript reports a malformed or rejected edit script line.
var ErrEditScript = errors.New("invalid edit script")

// maxScriptLine bounds a single script line.
const maxScriptLine = 1 << 20

// runEdit implements the edit command.
func runEdit(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseEditFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := setup(&flags.common, env, nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	debounce := quizmark.DefaultDebounce
	switch {
	case flags.debounce > 0:
		debounce = time.Duration(flags.debounce) * time.Millisecond
	case cfg.Editor.DebounceMs > 0:
		debounce = cfg.Editor.Debounce()
	}

	var mu sync.Mutex
	emit := func(markup string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(env.Stdout, markup)
	}

	ed := quizmark.NewEditor(emit,
		quizmark.WithDebounce(debounce),
		quizmark.WithEditorLogger(logger),
	)
	// Close flushes: a change still inside its window is not dropped.
	defer func() { _ = ed.Close() }()

	if flags.initial != "" {
		if flags.markdown {
			err = ed.ImportMarkdown(flags.initial)
		} else {
			err = ed.SetInitialContent(flags.initial)
		}
		if err != nil {
			return err
		}
	}

	logger.Debug("editing", zap.Duration("debounce", debounce))
	return runEditScript(ctx, ed, env)
}

// runEditScript applies stdin commands to ed until EOF or ctx is done.
func runEditScript(ctx context.Context, ed *quizmark.Editor, env *Environment) error {
	scanner := bufio.NewScanner(env.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScriptLine)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := applyEditCommand(ctx, ed, scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w%s", line, err, hints.ForEditScript())
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return nil
}

// applyEditCommand parses and applies one script line.
// Text arguments are taken verbatim after the first space.
func applyEditCommand(ctx context.Context, ed *quizmark.Editor, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	cmd, arg, _ := strings.Cut(strings.TrimLeft(raw, " \t"), " ")
	switch cmd {
	case "text":
		return ed.InsertText(arg)
	case "bold":
		return ed.ToggleMark(quizmark.Bold)
	case "italic":
		return ed.ToggleMark(quizmark.Italic)
	case "code":
		return ed.ToggleMark(quizmark.Code)
	case "math":
		return ed.InsertMath(arg, false)
	case "display":
		return ed.InsertMath(arg, true)
	case "br":
		return ed.InsertHardBreak()
	case "para":
		return ed.SplitBlock()
	case "paragraph":
		return ed.SetParagraph()
	case "heading":
		level, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return fmt.Errorf("%w: heading level %q is not a number", ErrEditScript, arg)
		}
		return ed.SetHeading(level)
	case "codeblock":
		return ed.SetCodeBlock(strings.TrimSpace(arg))
	case "markdown":
		return ed.ImportMarkdown(arg)
	case "replace":
		return ed.Replace(arg)
	case "wait":
		ms, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || ms < 0 {
			return fmt.Errorf("%w: wait needs milliseconds, got %q", ErrEditScript, arg)
		}
		return sleep(ctx, time.Duration(ms)*time.Millisecond)
	case "flush":
		ed.Flush()
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrEditScript, cmd)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
