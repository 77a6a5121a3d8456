package common

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"
)

var (
	// goroutineCounter counts goroutines spawned via SafeGo
	goroutineCounter int64

	// inFlight tracks SafeGo goroutines that have not yet returned
	inFlight sync.WaitGroup
)

// GetGoroutineCount returns the number of goroutines spawned via SafeGo
func GetGoroutineCount() int64 {
	return atomic.LoadInt64(&goroutineCounter)
}

// SafeGo runs fn in a goroutine with panic recovery. Panics are logged and
// the service keeps running.
//
// Example:
//
//	common.SafeGo(logger, "recordHistory", func() {
//	    storage.SaveRecord(ctx, record)
//	})
func SafeGo(logger arbor.ILogger, name string, fn func()) {
	atomic.AddInt64(&goroutineCounter, 1)
	inFlight.Add(1)

	go func() {
		defer inFlight.Done()
		defer func() {
			if r := recover(); r != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				stackTrace := string(buf[:n])

				if logger != nil {
					logger.Error().
						Str("goroutine", name).
						Str("panic", fmt.Sprintf("%v", r)).
						Str("stack", stackTrace).
						Msg("Recovered from panic in goroutine - continuing service operation")
				} else {
					fmt.Fprintf(os.Stderr, "PANIC in goroutine %s: %v\n%s\n", name, r, stackTrace)
				}
			}
		}()

		fn()
	}()
}

// WaitForGoroutines blocks until every SafeGo goroutine has returned or the
// timeout elapses. It reports whether all goroutines finished.
func WaitForGoroutines(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
