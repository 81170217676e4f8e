package runtime

import (
	"fmt"
	"os"
	"path/filepath"
)

const lockNamespace = "voicekey"

// DuplicateInstanceStartup is raised when acquire() finds another process
// already holding the lock.
type DuplicateInstanceStartup struct {
	LockPath string
}

func (e *DuplicateInstanceStartup) Error() string {
	return fmt.Sprintf("voicekey: another instance is already running (lock held at %s)", e.LockPath)
}

// InstanceLocker is the OS-specific backend a single-instance guard
// delegates to.
type InstanceLocker interface {
	Acquire(path string) error
	Release() error
}

// InstanceGuard owns a namespaced lock file under a per-user directory and
// prevents a second process from starting concurrently.
type InstanceGuard struct {
	locker   InstanceLocker
	lockPath string
	acquired bool
}

// lockDir returns the per-user, 0o700 directory lock files live under.
func lockDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, lockNamespace)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// NewInstanceGuard builds a guard using the platform's default locker (see
// instance_unix.go / instance_windows.go / instance_other.go).
func NewInstanceGuard() (*InstanceGuard, error) {
	dir, err := lockDir()
	if err != nil {
		return nil, err
	}
	return &InstanceGuard{
		locker:   newPlatformLocker(),
		lockPath: filepath.Join(dir, lockNamespace+".lock"),
	}, nil
}

// NewInstanceGuardWithLocker builds a guard over an explicit locker and
// path, for tests.
func NewInstanceGuardWithLocker(locker InstanceLocker, lockPath string) *InstanceGuard {
	return &InstanceGuard{locker: locker, lockPath: lockPath}
}

// Acquire takes the exclusive lock, returning a typed
// DuplicateInstanceStartup when another process already holds it.
func (g *InstanceGuard) Acquire() error {
	if err := g.locker.Acquire(g.lockPath); err != nil {
		return &DuplicateInstanceStartup{LockPath: g.lockPath}
	}
	g.acquired = true
	return nil
}

// Release is idempotent: releasing an unacquired or already-released guard
// is a no-op.
func (g *InstanceGuard) Release() error {
	if !g.acquired {
		return nil
	}
	g.acquired = false
	return g.locker.Release()
}

// LockPath returns the path an acquire() failure would report.
func (g *InstanceGuard) LockPath() string { return g.lockPath }
