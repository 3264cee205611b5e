package session

import "sync"

// keyedMutex serializes work per client id. Entries are dropped once unused.
type keyedMutex struct {
	mutex sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: map[string]*refMutex{},
	}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mutex.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mutex.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mutex.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mutex.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	return len(k.locks)
}
