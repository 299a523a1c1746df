// Package driven defines the outbound ports: interfaces the core services
// depend on and adapters implement (state store, remote membership API,
// tabular mirror, scheduler store, configuration).
package driven
