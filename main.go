// pulse-widgets is a terminal gallery of themed, resizable widgets that share
// one appearance hub. Theme and size changes fan out to every attached
// widget; detached widgets stop listening.
//
// Usage:
//
//	pulse-widgets [gallery]        interactive gallery (default)
//	pulse-widgets preview          print one frame of the gallery and exit
//	pulse-widgets themes           list themes with a color swatch
//	pulse-widgets weather <place>  fetch and print one weather report
//	pulse-widgets version          print version information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "pulse-widgets:", err)
		stop()
		os.Exit(1)
	}
}
