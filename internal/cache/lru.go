package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRU - кэш в памяти процесса
type LRU struct {
	mu          sync.Mutex
	generations map[uuid.UUID]Generation
	cache       *expirable.LRU[string, []string]
}

// NewLRU создаёт кэш на size значений, ttl <= 0 отключает истечение
func NewLRU(size int, ttl time.Duration) *LRU {
	if ttl < 0 {
		ttl = 0
	}
	return &LRU{
		generations: make(map[uuid.UUID]Generation),
		cache:       expirable.NewLRU[string, []string](size, nil, ttl),
	}
}

func (c *LRU) Get(_ context.Context, eventTypeID uuid.UUID, key string) ([]string, Generation, bool) {
	gen := c.generation(eventTypeID)
	values, ok := c.cache.Get(entryKey(eventTypeID, gen, key))
	if !ok {
		return nil, gen, false
	}
	return slices.Clone(values), gen, true
}

// Set сохраняет значение, если поколение не изменилось с момента Get
func (c *LRU) Set(_ context.Context, eventTypeID uuid.UUID, gen Generation, key string, values []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[eventTypeID] != gen {
		return
	}
	c.cache.Add(entryKey(eventTypeID, gen, key), slices.Clone(values))
}

// Invalidate переключает тип встречи на новое поколение ключей
func (c *LRU) Invalidate(_ context.Context, eventTypeID uuid.UUID) {
	c.mu.Lock()
	c.generations[eventTypeID]++
	c.mu.Unlock()
}

// Len возвращает количество значений в кэше
func (c *LRU) Len() int {
	return c.cache.Len()
}

func (c *LRU) generation(eventTypeID uuid.UUID) Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[eventTypeID]
}
