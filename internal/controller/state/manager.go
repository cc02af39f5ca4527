package state

import (
	"sync"
	"time"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]Session // telegramID -> Session
	now      func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]Session),
		now:      time.Now,
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, exists := sm.sessions[telegramID]; exists {
		return session.State
	}
	return StateNone
}

// Get получает сессию пользователя
func (sm *Manager) Get(telegramID int64) (Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, ok := sm.sessions[telegramID]
	return session, ok
}

// Set сохраняет сессию, состояние None удаляет её
func (sm *Manager) Set(telegramID int64, session Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session.State == StateNone {
		delete(sm.sessions, telegramID)
		return
	}
	session.UpdatedAt = sm.now()
	sm.sessions[telegramID] = session
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
}

// Expire удаляет диалоги без активности дольше ttl и возвращает их количество
func (sm *Manager) Expire(ttl time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	deadline := sm.now().Add(-ttl)
	expired := 0
	for id, session := range sm.sessions {
		if session.UpdatedAt.Before(deadline) {
			delete(sm.sessions, id)
			expired++
		}
	}
	return expired
}
