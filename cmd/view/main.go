// Package main pages through an obstacle's compiled triggers in the
// terminal.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	viewcmd "github.com/louisbranch/obstacle-studio/internal/cmd/view"
	"github.com/louisbranch/obstacle-studio/internal/platform/config"
)

func main() {
	cfg, err := viewcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := viewcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		config.ExitErr(err)
	}
}
