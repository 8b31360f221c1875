package cm

import "sync"

// ConcurrentMap wraps around sync.Map
type ConcurrentMap[K comparable, V any] struct {
	m sync.Map
}

// Set adds or updates a value in the map for a given key.
func (cm *ConcurrentMap[K, V]) Set(key K, value V) {
	cm.m.Store(key, value)
}

// Get retrieves a value from the map for a given key.
func (cm *ConcurrentMap[K, V]) Get(key K) (V, bool) {
	var zeroValue V
	value, ok := cm.m.Load(key)
	if !ok {
		return zeroValue, false
	}
	return value.(V), true
}

func (cm *ConcurrentMap[K, V]) Delete(key K) {
	cm.m.Delete(key)
}

// Keys returns a snapshot of the keys currently present.
func (cm *ConcurrentMap[K, V]) Keys() []K {
	keys := make([]K, 0)
	cm.m.Range(func(k, _ any) bool {
		keys = append(keys, k.(K))
		return true
	})
	return keys
}
