// SPDX-License-Identifier: MIT

// Command tasreso computes neutron spectrometer resolution functions from a
// YAML instrument file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/tasreso/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.DefaultDependencies()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
