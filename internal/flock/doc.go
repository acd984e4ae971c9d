// Package flock provides cross-platform advisory file locks.
//
// The file store uses one lock file per task so concurrent CLI invocations
// never interleave a read-modify-write of the same task file. Locks are
// exclusive and non-blocking at the OS level; Acquire layers a bounded retry
// loop on top.
//
// Usage:
//
//	lock, err := flock.Acquire(ctx, path, 5*time.Second)
//	if err != nil {
//	    return err // wraps errors.ErrLockTimeout when the lock stays busy
//	}
//	defer func() { _ = lock.Release() }()
package flock
