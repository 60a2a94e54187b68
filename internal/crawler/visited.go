package crawler

import "sync"

// Visited is the set of URLs already claimed by a worker. It is the single
// synchronization point that prevents duplicate fetches: the membership
// check and the insert happen inside one critical section.
type Visited struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisited returns an empty registry.
func NewVisited() *Visited {
	return &Visited{seen: make(map[string]struct{})}
}

// CheckAndMark atomically records url if absent. It returns true exactly
// once per unique url across any number of concurrent callers.
func (v *Visited) CheckAndMark(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}

// Len reports the number of marked URLs.
func (v *Visited) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

// WithSeen runs fn while holding the registry lock, passing the live set.
// Link scoring reads visited contents through this hook so the read and
// any concurrent CheckAndMark are serialized. fn must not retain the map.
func (v *Visited) WithSeen(fn func(seen map[string]struct{})) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v.seen)
}
