package locks

import (
	"sort"
	"sync"
)

// KeyedMutex serialises operations per key while letting unrelated keys
// proceed concurrently. Entries are reference counted and removed once the
// last holder releases, so the map does not grow with the key space.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	lock sync.Mutex
	refs int
}

// ContentKey names the exclusive section for one content item. Version
// writes and lifecycle stage changes for the same content id all drain
// through this single key.
func ContentKey(contentID string) string {
	return "content:" + contentID
}

// BranchKey names the exclusive section for one branch.
func BranchKey(name string) string {
	return "branch:" + name
}

// NewKeyedMutex constructs an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Lock acquires the exclusive section for the supplied key.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.lock.Lock()
}

// Unlock releases the exclusive section for the supplied key.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if ok {
		e.refs--
		if e.refs <= 0 {
			delete(k.entries, key)
		}
	}
	k.mu.Unlock()

	if ok {
		e.lock.Unlock()
	}
}

// LockAll acquires every supplied key in lexical order, which keeps
// multi-key sections (branch merges) deadlock free. The returned function
// releases the keys in reverse order. Duplicate keys are collapsed.
func (k *KeyedMutex) LockAll(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)

	for _, key := range unique {
		k.Lock(key)
	}
	return func() {
		for i := len(unique) - 1; i >= 0; i-- {
			k.Unlock(unique[i])
		}
	}
}
