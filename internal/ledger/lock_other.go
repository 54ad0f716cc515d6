//go:build !unix

package ledger

import "os"

// Advisory file locking is unavailable on this platform; the CSV store
// degrades to plain appends.

func lockShared(*os.File) error { return nil }

func lockExclusive(*os.File) error { return nil }

func unlock(*os.File) error { return nil }
