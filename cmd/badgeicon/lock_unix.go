// Unix file locking using flock(2).
//
// This file is compiled on Linux, macOS and the BSDs. It uses advisory locking
// via [unix.Flock] so that concurrent runs against one output directory fail
// fast.

//go:build unix

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockFile acquires an exclusive, non-blocking advisory lock on f. LOCK_NB
// makes a held lock an immediate EWOULDBLOCK error.
func lockFile(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return fmt.Errorf("lock file %s: %w", f.Name(), err)
	}
	return nil
}

// unlockFile releases the flock held on f. Closing the descriptor also
// releases it.
func unlockFile(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("unlock file %s: %w", f.Name(), err)
	}
	return nil
}
