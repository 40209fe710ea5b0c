// Package stress runs a concurrent allocation and locking workload against
// an Allocator and reports whether every block came back intact, the shared
// counter saw every increment, and usage returned to where it started.
package stress
