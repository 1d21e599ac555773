package session

import (
	"sync"
	"testing"
)

func TestLockerSerializesPerChat(t *testing.T) {
	l := NewLocker()
	var mu sync.Mutex
	counters := map[int64]int{}

	var wg sync.WaitGroup
	for chat := int64(1); chat <= 4; chat++ {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(chat int64) {
				defer wg.Done()
				l.Lock(chat)
				defer l.Unlock(chat)
				mu.Lock()
				counters[chat]++
				mu.Unlock()
			}(chat)
		}
	}
	wg.Wait()

	for chat := int64(1); chat <= 4; chat++ {
		if counters[chat] != 50 {
			t.Fatalf("chat %d: %d increments", chat, counters[chat])
		}
	}
}

func TestLockerReusesMutexPerChat(t *testing.T) {
	l := NewLocker()
	a := l.chatMutex(1)
	b := l.chatMutex(1)
	if a != b {
		t.Fatal("expected the same mutex for one chat")
	}
	if l.chatMutex(2) == a {
		t.Fatal("expected distinct mutexes for distinct chats")
	}
}
