// Package buffer provides a thread-safe text buffer built on top of the
// piece-table engine in internal/piecetree. It is the primary interface
// editor components use for text manipulation: it adds the mutex-guarded
// access pattern and revision tracking the raw tree doesn't need to know
// about, while forwarding every read and write straight through.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//	buf.Delete(0, 7)            // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // Process text...
//	}()
//
// Thread Safety:
//
// All Buffer methods are thread-safe: read operations take a read lock,
// write operations take the exclusive write lock. For a consistent view
// across several reads with no risk of an intervening write, take a
// Snapshot first.
package buffer
