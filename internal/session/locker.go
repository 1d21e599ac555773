package session

import "sync"

// Locker serializes event handling per chat so concurrent updates for one
// chat cannot interleave the get-state / handle / set-state sequence.
// Locks are allocated lazily and never reclaimed; the map grows with the
// number of distinct chats, matching the lifetime of their sessions.
type Locker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewLocker constructs an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given chat, creating it on first use.
func (l *Locker) Lock(chatID int64) {
	l.chatMutex(chatID).Lock()
}

// Unlock releases the mutex for the given chat.
func (l *Locker) Unlock(chatID int64) {
	l.chatMutex(chatID).Unlock()
}

func (l *Locker) chatMutex(chatID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[chatID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[chatID] = m
	}
	return m
}
