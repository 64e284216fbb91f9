//go:build !unix && !windows

package main

import "os"

// lockFile is a no-op on platforms without advisory file locks (js, wasip1,
// plan9).
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
