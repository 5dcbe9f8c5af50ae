// Package notification holds the in-memory notification directory and the
// dispatcher that turns task status transitions into notification records.
//
// The directory is process-wide shared state with multiple writers, so all
// access, including ID assignment, is serialized behind a single mutex.
// It is injected explicitly into both the dispatcher (write side) and the
// API handlers (read side); there is no package-level instance.
package notification
