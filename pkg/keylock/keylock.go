// Package keylock provides mutual exclusion scoped to a string key.
// Entries are created on demand and dropped once the last holder releases,
// so idle rooms cost nothing.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{
		entries: make(map[string]*entry),
	}
}

// Lock blocks until the key's mutex is held and returns the release func.
func (kl *KeyLock) Lock(key string) func() {
	kl.mu.Lock()
	e, ok := kl.entries[key]
	if !ok {
		e = &entry{}
		kl.entries[key] = e
	}
	e.refs++
	kl.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		kl.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(kl.entries, key)
		}
		kl.mu.Unlock()
	}
}
