// Unix signal handling for stopping watch mode.
//
// SIGTERM is the conventional stop signal from process managers and
// container runtimes, alongside SIGINT from the terminal.

//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// notifyContext returns a context canceled on SIGINT or SIGTERM.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
