// Windows signal handling for stopping watch mode.
//
// Windows has no SIGTERM; the Go runtime maps CTRL_BREAK_EVENT and
// console-close events to os.Interrupt.

//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext returns a context canceled on os.Interrupt.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
