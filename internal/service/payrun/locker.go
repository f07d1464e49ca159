package payrun

import "sync"

// orgLocker hands out one mutex per organization. Entries are dropped once no
// caller holds or waits on them.
type orgLocker struct {
	mu    sync.Mutex
	locks map[string]*orgLock
}

type orgLock struct {
	mu   sync.Mutex
	refs int
}

func newOrgLocker() *orgLocker {
	return &orgLocker{locks: make(map[string]*orgLock)}
}

// Lock blocks until the organization's mutex is held and returns its release func.
func (l *orgLocker) Lock(organizationID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[organizationID]
	if !ok {
		lock = &orgLock{}
		l.locks[organizationID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, organizationID)
		}
		l.mu.Unlock()
	}
}
