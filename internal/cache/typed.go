package cache

import "time"

// Typed типизированное представление кэша с префиксом ключей.
// Несколько Typed могут делить один Cache.
type Typed[V any] struct {
	c      *Cache
	prefix string
}

// NewTyped создает типизированное представление
func NewTyped[V any](c *Cache, prefix string) *Typed[V] {
	return &Typed[V]{c: c, prefix: prefix}
}

// Get получает значение по ключу
func (t *Typed[V]) Get(key string) (V, bool) {
	var zero V
	val, found := t.c.Get(t.prefix + key)
	if !found {
		return zero, false
	}
	v, ok := val.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set сохраняет значение с TTL по умолчанию
func (t *Typed[V]) Set(key string, v V) {
	t.c.Set(t.prefix+key, v)
}

// SetWithTTL сохраняет значение с указанным TTL
func (t *Typed[V]) SetWithTTL(key string, v V, ttl time.Duration) {
	t.c.SetWithTTL(t.prefix+key, v, ttl)
}

// GetOrSet получает значение или создает его через fn
func (t *Typed[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	var zero V
	val, err := t.c.GetOrSet(t.prefix+key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	v, ok := val.(V)
	if !ok {
		return zero, nil
	}
	return v, nil
}

// Delete удаляет значение
func (t *Typed[V]) Delete(key string) {
	t.c.Delete(t.prefix + key)
}
