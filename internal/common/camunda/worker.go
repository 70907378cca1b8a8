// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"college-advisor/internal/common/config"
	"college-advisor/internal/common/logger"
)

// JobHandler is what every advisor worker package exposes.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Recorder receives one call per handled job.
type Recorder interface {
	RecordJob(ctx context.Context, taskType, status string, duration time.Duration)
}

// Workers keeps the open job workers so they can be closed together on shutdown.
type Workers struct {
	client   zbc.Client
	recorder Recorder
	log      logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

// NewWorkers returns an empty set of workers. recorder may be nil.
func NewWorkers(client zbc.Client, recorder Recorder, log logger.Logger) *Workers {
	return &Workers{
		client:   client,
		recorder: recorder,
		log:      log,
		workers:  make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless the worker is disabled.
// It reports whether a worker was opened.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		w.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(w.timed(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.mu.Lock()
	w.workers[taskType] = jw
	w.mu.Unlock()

	w.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

func (w *Workers) timed(taskType string, handler JobHandler) worker.JobHandler {
	if w.recorder == nil {
		return handler.Handle
	}
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler.Handle(client, job)
		w.recorder.RecordJob(context.Background(), taskType, "handled", time.Since(start))
	}
}

// Running lists the task types with an open worker, sorted.
func (w *Workers) Running() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.workers))
	for t := range w.workers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Close stops every worker and waits for in-flight jobs to finish.
func (w *Workers) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for taskType, jw := range w.workers {
		w.log.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
		jw.AwaitClose()
		delete(w.workers, taskType)
	}
}
