//go:build unix && !ci

package runtime

import (
	"os"
	"syscall"
)

// flockLocker takes an advisory exclusive file lock via flock(2).
type flockLocker struct {
	file *os.File
}

func newPlatformLocker() InstanceLocker {
	return &flockLocker{}
}

func (l *flockLocker) Acquire(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

func (l *flockLocker) Release() error {
	if l.file == nil {
		return nil
	}
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
