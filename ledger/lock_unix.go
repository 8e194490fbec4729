//go:build unix

package ledger

import (
	"os"

	"golang.org/x/sys/unix"
)

// lock blocks until the exclusive advisory lock on f is held.
func lock(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err != unix.EINTR {
			return err
		}
	}
}

func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
