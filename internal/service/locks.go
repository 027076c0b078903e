package service

import "sync"

// userLocks сериализует сделки одного юзера: проверка баланса и запись лота
// должны видеть согласованное состояние, конкурентные покупки/продажи одного
// юзера исполняются по очереди.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock блокирует мьютекс юзера userID и возвращает функцию разблокировки.
func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = new(sync.Mutex)
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
