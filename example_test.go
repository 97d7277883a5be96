package quizmark_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-quizmark"
)

// Example renders stored markup for display with the default MathML engine.
func Example() {
	r, err := quizmark.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := r.Render(context.Background(), quizmark.Input{
		Markup: `<p>Solve <span data-type="math" latex="x^2=4">x^2=4</span></p>`,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(result.HTML, "<math") {
		fmt.Println("math typeset")
	}
	// Output: math typeset
}

// Example_failures shows that an expression that cannot be typeset stays
// visible and is reported.
func Example_failures() {
	r, err := quizmark.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := r.Render(context.Background(), quizmark.Input{
		Markup: `<p><span data-type="math" latex="\frac{1}{2">\frac{1}{2</span></p>`,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(result.HTML)
	for _, f := range result.Failures {
		fmt.Println("failed:", f.Latex)
	}
	// Output:
	// <p><span data-type="math" latex="\frac{1}{2">\frac{1}{2</span></p>
	// failed: \frac{1}{2
}

// Example_append attaches a trailing fragment inside the last paragraph.
func Example_append() {
	r, err := quizmark.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := r.Render(context.Background(), quizmark.Input{
		Markup: "<p>Which is prime?</p>",
		Append: " <b>(2 points)</b>",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(result.HTML)
	// Output: <p>Which is prime? <b>(2 points)</b></p>
}

// Example_editor builds a question in the editor. Close flushes the
// pending commit, so the callback fires once.
func Example_editor() {
	ed := quizmark.NewEditor(func(markup string) {
		fmt.Println(markup)
	}, quizmark.WithDebounce(time.Hour))

	_ = ed.InsertText("Solve ")
	_ = ed.InsertMath("x+1=2", false)
	_ = ed.InsertText(" for ")
	_ = ed.ToggleMark(quizmark.Italic)
	_ = ed.InsertText("x")
	_ = ed.Close()
	// Output: <p>Solve <span data-type="math" latex="x+1=2">x+1=2</span> for <em>x</em></p>
}

// ExampleMarkdownToMarkup imports Markdown with math into stored markup.
func ExampleMarkdownToMarkup() {
	fmt.Println(quizmark.MarkdownToMarkup("**Area**: $\\pi r^2$"))
	// Output: <p><strong>Area</strong>: <span data-type="math" latex="\pi r^2">\pi r^2</span></p>
}
