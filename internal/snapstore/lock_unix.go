//go:build unix

package snapstore

import (
	"errors"
	"os"
	"syscall"
)

// errWouldBlock signals that another process currently holds the lock.
var errWouldBlock = errors.New("lock held by another process")

// flockExclusive attempts a non-blocking exclusive lock via flock(2).
// Advisory locks are released on close or process exit, so a crashed
// holder never wedges the store.
func flockExclusive(f *os.File) error {
	err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err == syscall.EWOULDBLOCK {
		return errWouldBlock
	}
	return err
}

func flockRelease(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
