package send

import (
	"fmt"
	"os"
	"path/filepath"
)

// LockFileName is the lock file created inside a wallet's data directory.
const LockFileName = "send.lock"

// WalletLock is an exclusive, cross-process lock held for the duration of a
// send. Two sends from the same wallet would select the same UTXO and one of
// them would be rejected as a double spend.
type WalletLock struct {
	f *os.File
}

// TryLockWallet takes the send lock of the wallet stored in dataDir without
// blocking. It fails with ErrSendInProgress when another process holds it.
// On Windows the lock is only advisory within one process.
func TryLockWallet(dataDir string) (*WalletLock, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("send: create data directory: %w", err)
	}
	f, err := tryLock(filepath.Join(dataDir, LockFileName))
	if err != nil {
		return nil, err
	}
	return &WalletLock{f: f}, nil
}

// Release frees the lock. It is safe to call more than once.
func (l *WalletLock) Release() {
	if l == nil || l.f == nil {
		return
	}
	releaseLock(l.f)
	l.f = nil
}
