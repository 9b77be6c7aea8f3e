// SPDX-License-Identifier: EPL-2.0

package engine

import "sync"

// keyLocks hands out one mutex per key. Entries live only while someone
// holds or waits for them.
type keyLocks struct {
	mtx   sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func (k *keyLocks) lock(key string) (unlock func()) {
	k.mtx.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mtx.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		k.mtx.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mtx.Unlock()
	}
}

func (k *keyLocks) size() int {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	return len(k.locks)
}
