// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"underwriting-workers/internal/common/config"
	"underwriting-workers/internal/common/logger"
	"underwriting-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is the signature every worker package exposes as Handle.
type JobHandler func(client worker.JobClient, job entities.Job)

// WorkerSet opens job workers and closes them together on shutdown.
type WorkerSet struct {
	client  zbc.Client
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerSet(client zbc.Client, log logger.Logger) *WorkerSet {
	return &WorkerSet{
		client:  client,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled in config.
func (s *WorkerSet) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		s.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jobWorker := s.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType).
		Open()

	s.mu.Lock()
	s.workers[taskType] = jobWorker
	s.mu.Unlock()

	s.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Running returns the task types with an open worker.
func (s *WorkerSet) Running() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.workers))
	for taskType := range s.workers {
		out = append(out, taskType)
	}
	return out
}

// Close stops polling and waits for in-flight jobs of every worker.
func (s *WorkerSet) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for taskType, w := range s.workers {
		w.Close()
		w.AwaitClose()
		s.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	s.workers = make(map[string]worker.JobWorker)
}

// Instrument wraps handler with the active-jobs gauge and the duration
// histogram. Outcome counters are recorded by the handlers themselves.
func Instrument(taskType string, handler JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		defer func() {
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		}()

		handler(client, job)
	}
}
