package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/photocore/eventgallery/internal/logger"
)

// TaskType определяет тип задачи
type TaskType string

const (
	TaskBuildArchive TaskType = "build_archive"
)

// ErrQueueFull очередь переполнена, задача не принята
var ErrQueueFull = errors.New("task queue is full")

// ErrStopped пул остановлен
var ErrStopped = errors.New("worker pool is stopped")

// Task задача для обработки
type Task struct {
	ID        string
	Type      TaskType
	Payload   interface{}
	CreatedAt time.Time
	// NoTimeout задача выполняется без таймаута пула
	NoTimeout bool
}

// TaskResult результат выполнения задачи
type TaskResult struct {
	TaskID   string
	Type     TaskType
	Success  bool
	Error    error
	Duration time.Duration
}

// Handler обрабатывает задачи определенного типа
type Handler func(ctx context.Context, task *Task) error

// Options параметры пула
type Options struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
	// OnResult вызывается воркером после каждой задачи
	OnResult func(*TaskResult)
}

// Pool управляет пулом воркеров
type Pool struct {
	numWorkers  int
	taskTimeout time.Duration
	taskQueue   chan *Task
	handlers    map[TaskType]Handler
	onResult    func(*TaskResult)
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	stopOnce    sync.Once

	stats Stats
}

// Stats статистика пула
type Stats struct {
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	FailedTasks    int64 `json:"failed_tasks"`
	QueuedTasks    int64 `json:"queued_tasks"`
	ActiveWorkers  int64 `json:"active_workers"`
}

// NewPool создает новый пул воркеров
func NewPool(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		numWorkers:  opts.Workers,
		taskTimeout: opts.TaskTimeout,
		taskQueue:   make(chan *Task, opts.QueueSize),
		handlers:    make(map[TaskType]Handler),
		onResult:    opts.OnResult,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// RegisterHandler регистрирует обработчик для типа задачи
func (p *Pool) RegisterHandler(taskType TaskType, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[taskType] = handler
}

// Start запускает воркеры
func (p *Pool) Start() {
	logger.InfoLog.Printf("Starting worker pool with %d workers", p.numWorkers)

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop останавливает пул. Задачи в работе получают отмененный контекст
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		logger.InfoLog.Println("Stopping worker pool...")
		p.cancel()
		p.wg.Wait()
		logger.InfoLog.Println("Worker pool stopped")
	})
}

// Submit добавляет задачу в очередь без блокировки
func (p *Pool) Submit(task *Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	select {
	case <-p.ctx.Done():
		return ErrStopped
	default:
	}

	select {
	case p.taskQueue <- task:
		atomic.AddInt64(&p.stats.TotalTasks, 1)
		atomic.AddInt64(&p.stats.QueuedTasks, 1)
		return nil
	default:
		logger.ErrorLog.Printf("Task queue full, dropping task %s", task.ID)
		return ErrQueueFull
	}
}

// Stats возвращает статистику пула
func (p *Pool) Stats() Stats {
	return Stats{
		TotalTasks:     atomic.LoadInt64(&p.stats.TotalTasks),
		CompletedTasks: atomic.LoadInt64(&p.stats.CompletedTasks),
		FailedTasks:    atomic.LoadInt64(&p.stats.FailedTasks),
		QueuedTasks:    atomic.LoadInt64(&p.stats.QueuedTasks),
		ActiveWorkers:  atomic.LoadInt64(&p.stats.ActiveWorkers),
	}
}

// QueueLength возвращает текущую длину очереди
func (p *Pool) QueueLength() int {
	return len(p.taskQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.taskQueue:
			p.processTask(id, task)
		}
	}
}

func (p *Pool) processTask(workerID int, task *Task) {
	atomic.AddInt64(&p.stats.ActiveWorkers, 1)
	atomic.AddInt64(&p.stats.QueuedTasks, -1)
	defer atomic.AddInt64(&p.stats.ActiveWorkers, -1)

	start := time.Now()

	p.mu.RLock()
	handler, ok := p.handlers[task.Type]
	p.mu.RUnlock()

	var err error
	if !ok {
		err = fmt.Errorf("no handler for task type %s", task.Type)
	} else {
		err = p.run(handler, task)
	}

	result := &TaskResult{
		TaskID:   task.ID,
		Type:     task.Type,
		Success:  err == nil,
		Error:    err,
		Duration: time.Since(start),
	}

	if result.Success {
		atomic.AddInt64(&p.stats.CompletedTasks, 1)
	} else {
		atomic.AddInt64(&p.stats.FailedTasks, 1)
		logger.ErrorLog.Printf("Worker %d: task %s failed: %v (took %v)", workerID, task.ID, err, result.Duration)
	}

	if p.onResult != nil {
		p.onResult(result)
	}
}

// run выполняет обработчик с таймаутом и перехватом паники
func (p *Pool) run(handler Handler, task *Task) (err error) {
	var ctx context.Context
	var cancel context.CancelFunc
	if task.NoTimeout {
		ctx, cancel = context.WithCancel(p.ctx)
	} else {
		ctx, cancel = context.WithTimeout(p.ctx, p.taskTimeout)
	}
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return handler(ctx, task)
}
