//go:build (!unix && !windows) || ci

package runtime

import (
	"errors"
	"sync"
)

var errAlreadyLocked = errors.New("runtime: lock already held in this process")

// processLocker is a deterministic in-process lock used on platforms
// without a native advisory-lock primitive, and in CI builds where no
// native GUI/file-lock dependency is available. A package-level map keyed
// by path stands in for the OS lock table within a single process.
var (
	processLocksMu sync.Mutex
	processLocks   = map[string]bool{}
)

type processLocker struct {
	path string
}

func newPlatformLocker() InstanceLocker {
	return &processLocker{}
}

func (l *processLocker) Acquire(path string) error {
	processLocksMu.Lock()
	defer processLocksMu.Unlock()
	if processLocks[path] {
		return errAlreadyLocked
	}
	processLocks[path] = true
	l.path = path
	return nil
}

func (l *processLocker) Release() error {
	processLocksMu.Lock()
	defer processLocksMu.Unlock()
	delete(processLocks, l.path)
	return nil
}
