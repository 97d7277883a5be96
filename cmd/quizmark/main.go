package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand reports a command name that run does not dispatch.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run dispatches args to a command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	var err error
	switch args[0] {
	case "render":
		err = runRender(ctx, args[1:], env)
	case "serve":
		err = runServe(ctx, args[1:], env)
	case "edit":
		err = runEdit(ctx, args[1:], env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "quizmark %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
		fmt.Fprintln(env.Stderr, "error:", err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}
