// Command iqt broadcasts a query to the iqt agent on every resolved host.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"iqt/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
