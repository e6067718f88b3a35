// Package main compiles an obstacle project or script into trigger text.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	compilecmd "github.com/louisbranch/obstacle-studio/internal/cmd/compile"
	"github.com/louisbranch/obstacle-studio/internal/platform/config"
)

func main() {
	cfg, err := compilecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := compilecmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		config.ExitErr(err)
	}
}
