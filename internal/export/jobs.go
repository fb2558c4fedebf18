package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/photocore/eventgallery/internal/cache"
	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/logger"
	"github.com/photocore/eventgallery/internal/worker"
)

// JobStatus состояние фоновой сборки архива
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job фоновая сборка архива
type Job struct {
	ID         string     `json:"id"`
	Status     JobStatus  `json:"status"`
	Name       string     `json:"name,omitempty"`
	Report     Report     `json:"report"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	owner string
	file  *File
}

// Owner возвращает ID зрителя, запустившего задачу
func (j *Job) Owner() string {
	return j.owner
}

// File возвращает собранный архив (nil, пока задача не завершена)
func (j *Job) File() *File {
	return j.file
}

// archivePayload данные задачи сборки архива
type archivePayload struct {
	jobID     string
	entries   []gallery.SelectedAsset
	pageTitle string
	selection *gallery.Selection
	notifier  gallery.Notifier
}

// JobService собирает архивы в пуле воркеров. Результаты живут в кэше jobTTL
// и не зависят от того, открыт ли UI.
type JobService struct {
	engine *Engine
	pool   *worker.Pool
	jobs   *cache.Typed[*Job]
	ttl    time.Duration
	mu     sync.Mutex
}

// NewJobService создает сервис и регистрирует обработчик в пуле
func NewJobService(engine *Engine, pool *worker.Pool, c *cache.Cache, ttl time.Duration) *JobService {
	s := &JobService{
		engine: engine,
		pool:   pool,
		jobs:   cache.NewTyped[*Job](c, "export:"),
		ttl:    ttl,
	}

	pool.RegisterHandler(worker.TaskBuildArchive, s.handleArchive)

	return s
}

// SubmitArchive ставит сборку архива из текущего выбора в очередь
func (s *JobService) SubmitArchive(owner string, sel *gallery.Selection, pageTitle string, n gallery.Notifier) (*Job, error) {
	if n == nil {
		n = gallery.Discard
	}

	entries := sel.Entries()
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", gallery.ErrValidation)
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobQueued,
		Report:    Report{Total: len(entries)},
		CreatedAt: time.Now(),
		owner:     owner,
	}
	s.jobs.SetWithTTL(job.ID, job, s.ttl)

	task := &worker.Task{
		ID:   job.ID,
		Type: worker.TaskBuildArchive,
		// Сборка не ограничена по времени, загрузки ограничены таймаутом клиента
		NoTimeout: true,
		Payload: archivePayload{
			jobID:     job.ID,
			entries:   entries,
			pageTitle: pageTitle,
			selection: sel,
			notifier:  n,
		},
	}
	if err := s.pool.Submit(task); err != nil {
		s.jobs.Delete(job.ID)
		return nil, fmt.Errorf("failed to queue archive: %w", err)
	}

	logger.InfoLog.Printf("Export: queued archive job %s (%d assets)", job.ID, len(entries))
	return s.snapshot(job), nil
}

// Get возвращает состояние задачи
func (s *JobService) Get(id string) (*Job, bool) {
	job, ok := s.jobs.Get(id)
	if !ok {
		return nil, false
	}
	return s.snapshot(job), true
}

func (s *JobService) handleArchive(ctx context.Context, task *worker.Task) error {
	p, ok := task.Payload.(archivePayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", task.Payload)
	}

	job, ok := s.jobs.Get(p.jobID)
	if !ok {
		return fmt.Errorf("job %s expired before start", p.jobID)
	}
	s.update(job, func(j *Job) { j.Status = JobRunning })

	file, report, err := s.engine.Archive(ctx, p.entries, p.pageTitle)
	notifyArchive(p.notifier, report, err)

	now := time.Now()
	s.update(job, func(j *Job) {
		j.Report = report
		j.FinishedAt = &now
		if err != nil {
			j.Status = JobFailed
			j.Error = err.Error()
			return
		}
		j.Status = JobDone
		j.Name = file.Name
		j.file = file
	})
	if err != nil {
		return err
	}

	// Ассеты, выбранные после постановки задачи, остаются выбранными
	p.selection.Remove(entryIDs(p.entries)...)
	logger.InfoLog.Printf("Export: archive job %s done (%s)", p.jobID, report)
	return nil
}

func (s *JobService) update(job *Job, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(job)
}

func (s *JobService) snapshot(job *Job) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	return &cp
}
