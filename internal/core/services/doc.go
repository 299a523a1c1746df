// Package services contains the core sync engine: the time-budget guard,
// the shared resumable run loop, the pull and push jobs, the run-scoped
// remote dedup set, and the background scheduler.
package services
