package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"visa-predictor/internal/common/logger"
)

// JobHandlerFunc is the signature every task handler exposes.
type JobHandlerFunc func(client worker.JobClient, job entities.Job)

// WorkerOptions tunes the job activation of one task type.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. Handlers are expected to answer
// every job themselves (complete, fail or throw).
func NewWorker(client zbc.Client, taskType string, opts WorkerOptions, handler JobHandlerFunc, log logger.Logger) *CamundaWorker {
	step := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler))

	if opts.MaxJobsActive > 0 {
		step = step.MaxJobsActive(opts.MaxJobsActive)
	}
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}

	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})

	return &CamundaWorker{
		worker:   step.Open(),
		logger:   log,
		taskType: taskType,
	}
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the worker and waits for in-flight jobs. The shared client is
// closed by its owner.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
