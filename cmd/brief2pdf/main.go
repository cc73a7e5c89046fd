package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Parse flags first to get verbose; runMain reports parse errors.
	verbose := false
	if flags, _, err := parseFlags(os.Args[1:]); err == nil {
		verbose = flags.verbose
	}

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain parses arguments, runs the conversion and returns the exit code.
func runMain(args []string, env *Environment) int {
	flags, positional, err := parseFlags(args[1:])
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v: %v\n\n", ErrUsage, err)
		printUsage(env.Stderr)
		return exitCodeFor(ErrUsage)
	}

	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "brief2pdf %s\n", Version)
		return ExitSuccess
	}

	// Exactly <input> and <output>; nothing is read before this check.
	if len(positional) != 2 {
		fmt.Fprintf(env.Stderr, "error: %v: expected 2 arguments, got %d\n\n", ErrUsage, len(positional))
		printUsage(env.Stderr)
		return exitCodeFor(ErrUsage)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, positional[0], positional[1], flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
