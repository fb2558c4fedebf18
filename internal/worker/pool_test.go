package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsHandlers(t *testing.T) {
	results := make(chan *TaskResult, 4)
	p := NewPool(Options{Workers: 2, QueueSize: 4, OnResult: func(r *TaskResult) { results <- r }})

	var mu sync.Mutex
	var seen []string
	p.RegisterHandler(TaskBuildArchive, func(ctx context.Context, task *Task) error {
		mu.Lock()
		seen = append(seen, task.Payload.(string))
		mu.Unlock()
		if task.Payload == "bad" {
			return errors.New("boom")
		}
		return nil
	})
	p.Start()
	defer p.Stop()

	require.NoError(t, p.Submit(&Task{ID: "1", Type: TaskBuildArchive, Payload: "ok"}))
	require.NoError(t, p.Submit(&Task{ID: "2", Type: TaskBuildArchive, Payload: "bad"}))

	byID := map[string]*TaskResult{}
	for i := 0; i < 2; i++ {
		select {
		case r := <-results:
			byID[r.TaskID] = r
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}

	assert.True(t, byID["1"].Success)
	assert.False(t, byID["2"].Success)
	assert.EqualError(t, byID["2"].Error, "boom")

	stats := p.Stats()
	assert.Equal(t, int64(2), stats.TotalTasks)
	assert.Equal(t, int64(1), stats.CompletedTasks)
	assert.Equal(t, int64(1), stats.FailedTasks)
}

func TestPool_UnknownTaskAndPanic(t *testing.T) {
	results := make(chan *TaskResult, 2)
	p := NewPool(Options{Workers: 1, OnResult: func(r *TaskResult) { results <- r }})
	p.RegisterHandler(TaskBuildArchive, func(ctx context.Context, task *Task) error {
		panic("kaboom")
	})
	p.Start()
	defer p.Stop()

	require.NoError(t, p.Submit(&Task{ID: "x", Type: "unknown"}))
	require.NoError(t, p.Submit(&Task{ID: "y", Type: TaskBuildArchive}))

	for i := 0; i < 2; i++ {
		r := <-results
		assert.False(t, r.Success)
		assert.Error(t, r.Error)
	}
}

func TestPool_QueueFull(t *testing.T) {
	p := NewPool(Options{Workers: 1, QueueSize: 1})

	// Воркеры не запущены, очередь не разбирается
	require.NoError(t, p.Submit(&Task{ID: "1", Type: TaskBuildArchive}))
	assert.ErrorIs(t, p.Submit(&Task{ID: "2", Type: TaskBuildArchive}), ErrQueueFull)
	assert.Equal(t, 1, p.QueueLength())

	p.Stop()
	assert.ErrorIs(t, p.Submit(&Task{ID: "3", Type: TaskBuildArchive}), ErrStopped)
}

func TestPool_TaskTimeout(t *testing.T) {
	results := make(chan *TaskResult, 2)
	p := NewPool(Options{Workers: 1, TaskTimeout: 20 * time.Millisecond, OnResult: func(r *TaskResult) { results <- r }})
	p.RegisterHandler(TaskBuildArchive, func(ctx context.Context, task *Task) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
			return nil
		}
	})
	p.Start()
	defer p.Stop()

	require.NoError(t, p.Submit(&Task{ID: "bounded", Type: TaskBuildArchive}))
	require.NoError(t, p.Submit(&Task{ID: "unbounded", Type: TaskBuildArchive, NoTimeout: true}))

	byID := map[string]*TaskResult{}
	for i := 0; i < 2; i++ {
		select {
		case r := <-results:
			byID[r.TaskID] = r
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}

	assert.ErrorIs(t, byID["bounded"].Error, context.DeadlineExceeded)
	assert.True(t, byID["unbounded"].Success)
}
