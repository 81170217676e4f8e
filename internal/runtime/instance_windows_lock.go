//go:build windows && !ci

package runtime

import (
	"os"

	"golang.org/x/sys/windows"
)

// lockFileRange locks a single reserved byte of f, the conventional
// Windows single-instance idiom (a whole-file exclusive lock would also
// block the process's own later reads).
func lockFileRange(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(
		windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, 1, 0, ol,
	)
}

func unlockFileRange(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, ol)
}
