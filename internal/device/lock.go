package device

import "time"

// LockTimeout bounds every attempt to take the state lock.
const LockTimeout = 100 * time.Millisecond

// stateLock is a mutex that can be tried with a deadline.
type stateLock struct {
	ch chan struct{}
}

func newStateLock() *stateLock {
	return &stateLock{ch: make(chan struct{}, 1)}
}

// TryAcquire takes the lock, giving up after d.
func (l *stateLock) TryAcquire(d time.Duration) bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case l.ch <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

func (l *stateLock) Release() {
	<-l.ch
}
