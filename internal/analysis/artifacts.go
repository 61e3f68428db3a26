package analysis

import (
	"reflect"
	"sync"
)

// ArtifactStore is a type-indexed, thread-safe store of pass outputs: one
// value per concrete type, insert-replaces. Grounded on
// original_source/src/bsharp_analysis/src/framework/session.rs's
// ArtifactStore (a RwLock<HashMap<TypeId, Box<dyn Any>>>); Go lacks TypeId
// but reflect.Type serves the identical role as a map key.
//
// Artifacts are always stored and retrieved as pointers (*SymbolIndex,
// *Metrics, ...) so a read returns a shared handle rather than a copy, the
// same "clone cheaply" property the Rust Arc<T> retrieval gives passes.
type ArtifactStore struct {
	mu    sync.RWMutex
	items map[reflect.Type]any
}

// NewArtifactStore returns an empty store. A store's lifetime matches its
// owning Session: created empty, discarded with the session.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{items: make(map[reflect.Type]any)}
}

// PutArtifact inserts v, replacing any prior value of the same type.
func PutArtifact[T any](s *ArtifactStore, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[reflect.TypeOf(v)] = v
}

// GetArtifact retrieves the value of type T, if a pass has published one.
func GetArtifact[T any](s *ArtifactStore) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	v, ok := s.items[reflect.TypeOf(zero)]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// HasArtifact reports whether a value of type T is present, without
// retrieving it. Rules use this to degrade gracefully when a producing
// pass was disabled.
func HasArtifact[T any](s *ArtifactStore) bool {
	_, ok := GetArtifact[T](s)
	return ok
}
