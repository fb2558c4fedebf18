package cache

import (
	"sync"
	"time"
)

// Item элемент кэша
type Item struct {
	Value      interface{}
	Expiration int64
	ttl        time.Duration
}

// IsExpired проверяет, истек ли срок жизни элемента
func (i *Item) IsExpired() bool {
	return i.expiredAt(time.Now().UnixNano())
}

func (i *Item) expiredAt(now int64) bool {
	if i.Expiration == 0 {
		return false
	}
	return now > i.Expiration
}

// Cache in-memory кэш с TTL.
// В режиме Sliding каждое чтение продлевает срок жизни элемента.
type Cache struct {
	items             map[string]*Item
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	sliding           bool
	stopCleanup       chan struct{}
	stopOnce          sync.Once
	maxItems          int
	onEvicted         func(key string, value interface{})
}

// Config конфигурация кэша
type Config struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
	MaxItems          int
	Sliding           bool
	OnEvicted         func(key string, value interface{})
}

// New создает новый кэш
func New(config Config) *Cache {
	if config.DefaultExpiration == 0 {
		config.DefaultExpiration = 5 * time.Minute
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.MaxItems == 0 {
		config.MaxItems = 10000
	}

	c := &Cache{
		items:             make(map[string]*Item),
		defaultExpiration: config.DefaultExpiration,
		cleanupInterval:   config.CleanupInterval,
		sliding:           config.Sliding,
		stopCleanup:       make(chan struct{}),
		maxItems:          config.MaxItems,
		onEvicted:         config.OnEvicted,
	}

	go c.cleanupLoop()

	return c
}

// Set добавляет элемент в кэш с TTL по умолчанию
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL добавляет элемент с указанным TTL (0 - без срока)
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	var evicted []evictedItem

	c.mu.Lock()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		evicted = c.evictOldest()
	}
	c.items[key] = &Item{
		Value:      value,
		Expiration: expiration(ttl),
		ttl:        ttl,
	}
	c.mu.Unlock()

	c.notify(evicted)
}

// Get получает элемент из кэша
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}

	if item.IsExpired() {
		c.Delete(key)
		return nil, false
	}

	if c.sliding && item.ttl > 0 {
		c.mu.Lock()
		item.Expiration = expiration(item.ttl)
		c.mu.Unlock()
	}

	return item.Value, true
}

// GetOrSet получает элемент или создает новый через функцию.
// Создание выполняется под блокировкой, поэтому fn вызывается не более одного раза на ключ.
func (c *Cache) GetOrSet(key string, fn func() (interface{}, error)) (interface{}, error) {
	if val, found := c.Get(key); found {
		return val, nil
	}

	c.mu.Lock()
	if item, found := c.items[key]; found && !item.IsExpired() {
		c.mu.Unlock()
		return item.Value, nil
	}

	val, err := fn()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	var evicted []evictedItem
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		evicted = c.evictOldest()
	}
	c.items[key] = &Item{
		Value:      val,
		Expiration: expiration(c.defaultExpiration),
		ttl:        c.defaultExpiration,
	}
	c.mu.Unlock()

	c.notify(evicted)
	return val, nil
}

// Delete удаляет элемент из кэша
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	item, found := c.items[key]
	if found {
		delete(c.items, key)
	}
	c.mu.Unlock()

	if found {
		c.notify([]evictedItem{{key: key, value: item.Value}})
	}
}

// Clear очищает кэш
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := make([]evictedItem, 0, len(c.items))
	for key, item := range c.items {
		evicted = append(evicted, evictedItem{key: key, value: item.Value})
	}
	c.items = make(map[string]*Item)
	c.mu.Unlock()

	c.notify(evicted)
}

// Count возвращает количество элементов в кэше
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Keys возвращает все ключи
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// Stop останавливает фоновую очистку
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

// Stats возвращает статистику кэша
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now().UnixNano()
	expired := 0
	for _, item := range c.items {
		if item.expiredAt(now) {
			expired++
		}
	}

	return CacheStats{
		Items:        len(c.items),
		MaxItems:     c.maxItems,
		ExpiredItems: expired,
	}
}

// CacheStats статистика кэша
type CacheStats struct {
	Items        int `json:"items"`
	MaxItems     int `json:"max_items"`
	ExpiredItems int `json:"expired_items"`
}

type evictedItem struct {
	key   string
	value interface{}
}

// notify вызывает OnEvicted вне блокировки
func (c *Cache) notify(items []evictedItem) {
	if c.onEvicted == nil {
		return
	}
	for _, it := range items {
		c.onEvicted(it.key, it.value)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCleanup:
			return
		case <-ticker.C:
			c.DeleteExpired()
		}
	}
}

// DeleteExpired удаляет просроченные элементы
func (c *Cache) DeleteExpired() {
	now := time.Now().UnixNano()

	c.mu.Lock()
	var evicted []evictedItem
	for key, item := range c.items {
		if item.expiredAt(now) {
			evicted = append(evicted, evictedItem{key: key, value: item.Value})
			delete(c.items, key)
		}
	}
	c.mu.Unlock()

	c.notify(evicted)
}

// evictOldest освобождает место: первый просроченный элемент,
// иначе элемент с ближайшим сроком истечения. Вызывается под c.mu
func (c *Cache) evictOldest() []evictedItem {
	now := time.Now().UnixNano()
	var keyToDelete string
	var soonest int64

	for key, item := range c.items {
		if item.expiredAt(now) {
			keyToDelete = key
			break
		}
		if item.Expiration == 0 {
			continue
		}
		if keyToDelete == "" || item.Expiration < soonest {
			keyToDelete = key
			soonest = item.Expiration
		}
	}
	if keyToDelete == "" {
		for key := range c.items {
			keyToDelete = key
			break
		}
	}
	if keyToDelete == "" {
		return nil
	}

	item := c.items[keyToDelete]
	delete(c.items, keyToDelete)
	return []evictedItem{{key: keyToDelete, value: item.Value}}
}

func expiration(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return time.Now().Add(ttl).UnixNano()
}
