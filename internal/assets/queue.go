package assets

import "sync"

// ticketLock is a mutex that is handed to waiters in the order they called
// Lock. The zero value is unlocked.
type ticketLock struct {
	mu      sync.Mutex
	cond    sync.Cond
	next    uint64
	serving uint64
}

func (l *ticketLock) Lock() {
	l.mu.Lock()
	if l.cond.L == nil {
		l.cond.L = &l.mu
	}
	ticket := l.next
	l.next++
	for ticket != l.serving {
		l.cond.Wait()
	}
	l.mu.Unlock()
}

func (l *ticketLock) Unlock() {
	l.mu.Lock()
	l.serving++
	l.mu.Unlock()
	l.cond.Broadcast()
}

// pending is the number of holders and waiters.
func (l *ticketLock) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int(l.next - l.serving)
}
