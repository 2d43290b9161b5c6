package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/five82/maitre/internal/app"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("maitre", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "override maitre config path (optional)")
	prefsPath := flags.String("prefs", "", "override UI preferences path (optional)")
	apiURL := flags.String("api", "", "queue API address, e.g. 127.0.0.1:5000 (optional)")
	logFile := flags.String("log-file", "", "write JSON logs to this file (optional)")
	poll := flags.Duration("poll", 0, "refresh interval, e.g. 30s (optional, defaults to config)")
	once := flags.Bool("once", false, "print the queue once and exit")
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() { printUsage(stderr, flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "maitre: %v\n", err)
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "maitre %s\n", version)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		APIURL:     *apiURL,
		LogFile:    *logFile,
		PollEvery:  *poll,
		Version:    version,
		Stdout:     stdout,
		Stderr:     stderr,
	}

	var err error
	switch rest := flags.Args(); {
	case len(rest) > 0 && rest[0] == "status":
		if len(rest) != 2 {
			fmt.Fprintln(stderr, "usage: maitre status <queue-number>")
			return 2
		}
		err = app.Status(ctx, opts, rest[1])
	case len(rest) > 0:
		fmt.Fprintf(stderr, "maitre: unexpected argument %q\n", rest[0])
		return 2
	case *once || !isTerminal(stdout):
		err = app.RunOnce(ctx, opts)
	default:
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(stderr, "maitre: %v\n", err)
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, `maitre: host-stand terminal for the restaurant queue.

Usage:
  maitre [flags]                   interactive queue (plain table when not a terminal)
  maitre status <queue-number>     look up one customer

Flags:
%s`, flags.FlagUsages())
}
