package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quizmark <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render quiz markup or markdown files to HTML")
	fmt.Fprintln(w, "  serve      Serve the display pipeline over HTTP")
	fmt.Fprintln(w, "  edit       Drive the structured editor from a script on stdin")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'quizmark help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printEngineUsage prints the display pipeline flags.
func printEngineUsage(w io.Writer) {
	fmt.Fprintln(w, "Display:")
	fmt.Fprintln(w, "  -e, --engine <s>          Math engine: mathml, katex")
	fmt.Fprintln(w, "      --policy              Filter markup through the UGC content policy")
	fmt.Fprintln(w, "      --highlight[=style]   Highlight code blocks (default style: github)")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quizmark render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sanitize quiz markup, typeset its math and write <name>.view.html.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .html, .htm, .md or .markdown file, or a directory of them")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each input)")
	fmt.Fprintln(w, "  -a, --append <html>       Fragment appended after each document")
	fmt.Fprintln(w, "      --title <s>           Page title (default: input file name)")
	fmt.Fprintln(w, "      --fragment            Write the rendered markup only")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "      --watch               Re-render inputs when they change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -s, --style <name>        Page stylesheet: compact, default")
	fmt.Fprintln(w, "      --template <name>     Page template (default: page)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/<name>.css and templates/<name>.html")
	fmt.Fprintln(w, "      --no-style            Omit the page stylesheet")
	fmt.Fprintln(w)
	printEngineUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quizmark serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the display pipeline over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  POST /render       {\"markup\", \"markdown\", \"append\"} -> {\"html\", \"failures\"}")
	fmt.Fprintln(w, "  POST /serialize    editor JSON document -> {\"markup\"}")
	fmt.Fprintln(w, "  POST /parse        {\"markup\"} -> editor JSON document")
	fmt.Fprintln(w, "  GET  /healthz      Liveness probe")
	fmt.Fprintln(w, "  GET  /metrics      Prometheus metrics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default: 127.0.0.1:8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w)
	printEngineUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printEditUsage prints usage for the edit command.
func printEditUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quizmark edit [flags] < script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Apply editing commands read from stdin, one per line. Every debounced")
	fmt.Fprintln(w, "change is printed to stdout as serialized markup.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Script commands:")
	fmt.Fprintln(w, "  text <s>            Insert text at the cursor")
	fmt.Fprintln(w, "  bold|italic|code    Toggle a mark for subsequent text")
	fmt.Fprintln(w, "  math <latex>        Insert an inline math node")
	fmt.Fprintln(w, "  display <latex>     Insert a display math node")
	fmt.Fprintln(w, "  br                  Insert a hard break")
	fmt.Fprintln(w, "  para                Start a new paragraph")
	fmt.Fprintln(w, "  heading <1-6>       Turn the current block into a heading")
	fmt.Fprintln(w, "  codeblock [lang]    Turn the current block into a code block")
	fmt.Fprintln(w, "  paragraph           Turn the current block back into a paragraph")
	fmt.Fprintln(w, "  markdown <s>        Replace the document with imported markdown")
	fmt.Fprintln(w, "  replace <markup>    Replace the document with parsed markup")
	fmt.Fprintln(w, "  wait <ms>           Sleep, letting the debounce window elapse")
	fmt.Fprintln(w, "  flush               Emit any pending change now")
	fmt.Fprintln(w, "  # ...               Comment")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Editor:")
	fmt.Fprintln(w, "      --debounce <ms>       Debounce window (default: 500)")
	fmt.Fprintln(w, "      --initial <s>         Initial content, taken as plain text")
	fmt.Fprintln(w, "      --markdown            Treat --initial as markdown")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "edit":
		printEditUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: quizmark version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: quizmark help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
