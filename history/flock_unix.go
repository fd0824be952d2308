//go:build !windows

package history

import (
	"fmt"
	"os"
	"syscall"
)

// lockFile blocks until an exclusive advisory lock on f is held.
func lockFile(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("history: lock %s: %w", f.Name(), err)
	}
	return nil
}

func unlockFile(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("history: unlock %s: %w", f.Name(), err)
	}
	return nil
}
