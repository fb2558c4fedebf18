package config

import (
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Live хранит актуальную конфигурацию с возможностью горячей замены
type Live struct {
	current atomic.Pointer[Config]
}

// NewLive создает контейнер с начальной конфигурацией
func NewLive(cfg *Config) *Live {
	l := &Live{}
	l.current.Store(cfg)
	return l
}

// Get возвращает текущую конфигурацию
func (l *Live) Get() *Config {
	return l.current.Load()
}

// Set заменяет конфигурацию
func (l *Live) Set(cfg *Config) {
	l.current.Store(cfg)
}

// Watcher перечитывает файл конфигурации при изменении
type Watcher struct {
	path    string
	live    *Live
	watcher *fsnotify.Watcher
	onLoad  func(*Config)

	stopOnce sync.Once
	stopChan chan struct{}

	// Debouncing - редакторы пишут файл несколькими событиями
	debounce      time.Duration
	debounceTimer *time.Timer
	debounceMu    sync.Mutex
}

// Watch начинает наблюдение за файлом конфигурации
func Watch(path string, live *Live, onLoad func(*Config)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Наблюдаем за директорией: при атомарной записи файл заменяется
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		live:     live,
		watcher:  fsWatcher,
		onLoad:   onLoad,
		stopChan: make(chan struct{}),
		debounce: 200 * time.Millisecond,
	}

	go w.loop()
	return w, nil
}

// Stop останавливает наблюдение
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.path)

	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("Config reload failed: %v", err)
		return
	}

	w.live.Set(cfg)
	log.Printf("Config reloaded from %s", w.path)

	if w.onLoad != nil {
		w.onLoad(cfg)
	}
}
