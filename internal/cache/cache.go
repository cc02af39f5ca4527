// Package cache хранит рассчитанную доступность между запросами
//
// Ключи версионируются поколением типа встречи: любое изменение расписания
// или записей увеличивает поколение, и старые значения больше не читаются.
package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Generation - поколение ключей типа встречи на момент чтения из кэша
type Generation uint64

// Cache - хранилище рассчитанных слотов и дат
//
// Get возвращает поколение, в котором выполнялось чтение. Значение, рассчитанное
// после промаха, записывается через Set с этим поколением: если между Get и Set
// был Invalidate, запись не попадёт в текущее поколение.
type Cache interface {
	Get(ctx context.Context, eventTypeID uuid.UUID, key string) ([]string, Generation, bool)
	Set(ctx context.Context, eventTypeID uuid.UUID, gen Generation, key string, values []string)
	Invalidate(ctx context.Context, eventTypeID uuid.UUID)
}

func entryKey(eventTypeID uuid.UUID, generation Generation, key string) string {
	return fmt.Sprintf("%s:%d:%s", eventTypeID, generation, key)
}

// Noop ничего не хранит
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID, string) ([]string, Generation, bool) { return nil, 0, false }
func (Noop) Set(context.Context, uuid.UUID, Generation, string, []string)        {}
func (Noop) Invalidate(context.Context, uuid.UUID)                               {}
