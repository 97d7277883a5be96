// Package quizmark renders and edits the rich content of quiz questions.
//
// # Quick Start
//
// Create a renderer and render stored markup for display:
//
//	r, err := quizmark.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.Render(ctx, quizmark.Input{
//	    Markup: `<p>Solve <span data-type="math" latex="x^2=4">x^2=4</span></p>`,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//
// Render only fails when ctx is cancelled or an internal panic is recovered.
// Malformed markup is repaired by the parser, and math that cannot be
// typeset keeps its raw expression; those expressions are reported in
// result.Failures.
//
// # Display Pipeline
//
// Every render runs the whole pipeline on a fresh tree:
//
//  1. Sanitize: plain text detection, fragment parsing, <br> removal,
//     and the optional bluemonday policy (WithPolicy)
//  2. Highlight: chroma highlighting of code blocks (WithHighlighting)
//  3. Typeset: every span[data-type="math"][latex] is typeset by the engine
//  4. Append: Input.Append is attached inside the last node when it can
//     hold content, or wrapped in a new <span>
//
// # Math Engines
//
// The default engine emits MathML through latex2mathml and is pure Go.
// WithEngineName("katex") selects KaTeX HTML output, which needs cgo.
// Any typeset.Engine can be passed with WithEngine.
//
// # Editing
//
// NewEditor returns a structured document editor. Each mutation schedules a
// trailing commit; the onChange callback receives the serialized markup
// once per debounce window (DefaultDebounce, 500ms):
//
//	ed := quizmark.NewEditor(func(markup string) {
//	    store.Save(id, markup)
//	})
//	defer ed.Close()
//
//	ed.InsertText("Solve ")
//	ed.InsertMath(`x^2 = 4`, false)
//
// Close flushes a pending commit before releasing the editor.
//
// # Parallel Processing
//
// For batch rendering, use RendererPool to bound concurrency:
//
//	pool, err := quizmark.NewRendererPool(4)
//	r, err := pool.Acquire(ctx)
//	defer pool.Release(r)
package quizmark
