package cmap

// Range calls fn for every key-value pair until fn returns false.
//
// Shards are locked one at a time, so the view is not a snapshot across
// shards. fn must not call back into the map.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}
