package main

import (
	"fmt"
	"os"
)

// ///////////////////////////////////////////////
// Output Lock
// ///////////////////////////////////////////////

// dirLock is an exclusive advisory lock on the output directory's lock file.
// Two runs writing the same icon set fail fast instead of interleaving.
type dirLock struct {
	f *os.File
}

// acquireLock creates or opens the lock file at path and locks it without
// blocking. It fails immediately if another process holds the lock.
func acquireLock(path string) (*dirLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, err
	}
	return &dirLock{f: f}, nil
}

// release unlocks and removes the lock file so a finished run leaves only
// the icons behind.
func (l *dirLock) release() {
	if l == nil || l.f == nil {
		return
	}
	name := l.f.Name()
	_ = unlockFile(l.f)
	l.f.Close()
	os.Remove(name)
	l.f = nil
}
