// Package main manages the obstacle library: list, import, export, delete.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	librarycmd "github.com/louisbranch/obstacle-studio/internal/cmd/library"
	"github.com/louisbranch/obstacle-studio/internal/platform/config"
)

func main() {
	cfg, err := librarycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := librarycmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		config.ExitErr(err)
	}
}
