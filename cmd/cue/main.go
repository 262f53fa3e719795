package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/k0kubun/go-ansi"

	"github.com/jaki95/tracklist-cue/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := env{
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   ansi.NewAnsiStderr(),
		prompter: ui.NewHuhPrompter(),
	}

	if err := newApp(e).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
