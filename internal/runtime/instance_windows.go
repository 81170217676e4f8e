//go:build windows && !ci

package runtime

import (
	"os"
)

// rangeLocker takes a byte-region lock on Windows via LockFileEx over a
// single reserved byte, the conventional single-instance idiom on that
// platform.
type rangeLocker struct {
	file *os.File
}

func newPlatformLocker() InstanceLocker {
	return &rangeLocker{}
}

func (l *rangeLocker) Acquire(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	if err := lockFileRange(f); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

func (l *rangeLocker) Release() error {
	if l.file == nil {
		return nil
	}
	err := unlockFileRange(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
