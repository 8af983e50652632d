//go:build unix

package snapstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edopica/expect-test/internal/canon"
)

func TestAcquireLockTimesOutWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders"+FileSuffix)

	held, err := acquireLock(path, time.Second)
	require.NoError(t, err)
	defer held.release()

	_, err = acquireLock(path, 50*time.Millisecond)
	var lerr *LockTimeoutError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, path, lerr.Path)
}

func TestAcquireLockSucceedsAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders"+FileSuffix)

	held, err := acquireLock(path, time.Second)
	require.NoError(t, err)
	held.release()

	again, err := acquireLock(path, 50*time.Millisecond)
	require.NoError(t, err)
	again.release()
}

func TestFlushFailsWhileStoreLocked(t *testing.T) {
	dir := t.TempDir()

	store, err := Load(dir, "orders", Options{LockTimeout: 50 * time.Millisecond})
	require.NoError(t, err)
	store.Put("k", canon.Int(1), "f.go", 1, fixedTime)

	held, err := acquireLock(store.Path(), time.Second)
	require.NoError(t, err)
	defer held.release()

	err = store.Flush()
	var lerr *LockTimeoutError
	require.ErrorAs(t, err, &lerr)
	assert.True(t, store.Dirty(), "failed flush must keep the working copy dirty")
}
