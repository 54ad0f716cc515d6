//go:build unix

package ledger

import (
	"os"
	"syscall"
)

// Advisory locking via flock(2). Locks are process-scoped and released on
// file close or process exit. Calls block until the lock is granted;
// holders are expected to release quickly, and no lock is ever held
// across the inter-attempt delay.

func lockShared(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_SH)
}

func lockExclusive(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

func unlock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
