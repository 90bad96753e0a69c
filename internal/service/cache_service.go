package service

import (
	"sync"
	"time"

	"github.com/ignatzorin/jobledger/internal/goroutine"
)

// CacheService — in-memory кэш с TTL. Служит хранилищем одноразовых
// вызовов аутентификации и других короткоживущих значений.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// NewCacheService создаёт кэш и запускает фоновую очистку.
func NewCacheService() *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
	}

	goroutine.SafeGo(cs.cleanup)

	return cs
}

// Get возвращает значение по ключу, если оно ещё не истекло.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.cache[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		// Удаление оставляем фоновой очистке.
		return nil, false
	}

	return entry.data, true
}

// Set сохраняет значение с TTL.
func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[key] = &cacheEntry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete удаляет ключ.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
}

// Take возвращает значение и сразу удаляет ключ. Одноразовые значения
// (nonce вызова аутентификации) читаются только через Take.
func (cs *CacheService) Take(key string) (interface{}, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	entry, exists := cs.cache[key]
	if !exists {
		return nil, false
	}
	delete(cs.cache, key)

	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.data, true
}

// cleanup периодически удаляет истёкшие записи.
func (cs *CacheService) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cs.mu.Lock()
		now := time.Now()
		for key, entry := range cs.cache {
			if now.After(entry.expiresAt) {
				delete(cs.cache, key)
			}
		}
		cs.mu.Unlock()
	}
}
