// Package domain contains the core types for subscription synchronisation:
// channels and candidates, checkpoints, run outcomes, failure classification
// and scheduler state. It has no dependencies on adapters or external APIs.
package domain
