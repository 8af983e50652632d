package snapstore

import (
	"fmt"
	"os"
	"time"
)

// lockPollInterval is how often lock acquisition retries while waiting for
// another process to release the store.
const lockPollInterval = 25 * time.Millisecond

// fileLock holds an exclusive advisory lock on a store's sidecar file.
// The sidecar (store path + ".lock") is locked rather than the store file
// itself so the atomic rename of the store never invalidates a held lock.
type fileLock struct {
	f *os.File
}

// acquireLock takes the exclusive lock for the store at path, retrying
// until timeout and then failing with *LockTimeoutError.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", lockPath, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := flockExclusive(f)
		if err == nil {
			return &fileLock{f: f}, nil
		}
		if err != errWouldBlock {
			f.Close()
			return nil, fmt.Errorf("lock %s: %w", lockPath, err)
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, &LockTimeoutError{Path: path, Timeout: timeout}
		}
		time.Sleep(lockPollInterval)
	}
}

// release drops the lock. Safe to call once per acquire.
func (l *fileLock) release() {
	if l == nil || l.f == nil {
		return
	}
	_ = flockRelease(l.f)
	_ = l.f.Close()
	l.f = nil
}
