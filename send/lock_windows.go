//go:build windows

package send

import (
	"fmt"
	"os"
)

// Windows: syscall.Flock is unavailable, so the lock file is opened but no
// cross-process lock is taken.

func tryLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("send: open lock file: %w", err)
	}
	return f, nil
}

func releaseLock(f *os.File) {
	_ = f.Close()
}
