//go:build !unix

package ledger

import "os"

// lock is a no-op where flock(2) is unavailable; O_APPEND still keeps single writes whole.
func lock(f *os.File) error {
	return nil
}

func unlock(f *os.File) error {
	return nil
}
