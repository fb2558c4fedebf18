package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Префиксы ключей для разных типов данных
const (
	prefixGrant = "grant:"
)

// Store обертка над BadgerDB в режиме in-memory.
// Данные живут только в памяти процесса.
type Store struct {
	db *badger.DB
}

// NewMemoryStore создает хранилище в памяти
func NewMemoryStore() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close закрывает хранилище
func (s *Store) Close() error {
	return s.db.Close()
}

// === Доступ к закрытым галереям ===

// SaveGrant сохраняет доступ на время ttl
func (s *Store) SaveGrant(key string, g *ShareGrant, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(g)
		if err != nil {
			return err
		}

		entry := badger.NewEntry([]byte(prefixGrant+key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// GetGrant получает доступ по ключу. Возвращает nil, если доступа нет или он истек
func (s *Store) GetGrant(key string) (*ShareGrant, error) {
	var grant ShareGrant
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixGrant + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &grant)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// DeleteGrant удаляет доступ
func (s *Store) DeleteGrant(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixGrant + key))
	})
}

// GetStats возвращает статистику хранилища
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixGrant)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stats.Grants++
		}
		return nil
	})

	stats.LSMSize, stats.VlogSize = s.db.Size()
	return stats, err
}
