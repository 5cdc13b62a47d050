// Package storage provides the durable key-value medium the database
// serializes itself into. All implementations are best-effort: a failing
// medium must never take the process down, the in-memory state stays
// authoritative.
package storage

// Medium is a namespaced key-value blob store. Get returns false for absent
// or unreadable keys; write failures are reported but non-fatal.
type Medium interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Remove(key string) error
	Clear() error
	Exists(key string) bool
}
