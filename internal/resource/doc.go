// Package resource implements a memory budget shared by cached results.
//
// Memory tracking uses a weighted semaphore for the hard limit and an
// atomic counter for usage. Acquisition never blocks; it reports failure
// so the caller can decide to skip the work:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 10 << 20,
//	})
//
//	if !rc.TryAcquireMemory(size) {
//	    // over budget, do not cache
//	}
//	defer rc.ReleaseMemory(size)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully. A nil Controller tracks
// nothing and admits everything.
package resource
