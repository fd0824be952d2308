//go:build windows

package history

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

var (
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	procLockFileEx   = kernel32.NewProc("LockFileEx")
	procUnlockFileEx = kernel32.NewProc("UnlockFileEx")
)

const lockfileExclusiveLock = 0x00000002

// lockFile blocks until an exclusive lock on the first byte of f is held.
func lockFile(f *os.File) error {
	var ol syscall.Overlapped
	ret, _, err := procLockFileEx.Call(
		f.Fd(),
		uintptr(lockfileExclusiveLock),
		0, 1, 0,
		uintptr(unsafe.Pointer(&ol)),
	)
	if ret == 0 {
		return fmt.Errorf("history: lock %s: %w", f.Name(), err)
	}
	return nil
}

func unlockFile(f *os.File) error {
	var ol syscall.Overlapped
	ret, _, err := procUnlockFileEx.Call(
		f.Fd(),
		0, 1, 0,
		uintptr(unsafe.Pointer(&ol)),
	)
	if ret == 0 {
		return fmt.Errorf("history: unlock %s: %w", f.Name(), err)
	}
	return nil
}
