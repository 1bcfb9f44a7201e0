package predictvisaapproval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"visa-predictor/internal/common/camunda"
	"visa-predictor/internal/common/config"
	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/metrics"
	"visa-predictor/internal/common/validation"
	"visa-predictor/internal/visa"
)

const TaskType = "predict-visa-approval"

// ErrorCodes lists the codes a job of this type can fail with.
func ErrorCodes() []string {
	return []string{
		string(errors.ErrCodeValidationFailed),
		string(errors.ErrCodeInputParsingFailed),
		string(errors.ErrCodeUnknownDestination),
		string(errors.ErrCodeClassifierUnavailable),
		string(errors.ErrCodeClassifierTimeout),
		string(errors.ErrCodeClassifierInvalidResponse),
	}
}

type Handler struct {
	config       *Config
	engine       *visa.Engine
	schema       validation.JSONSchema
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	newID        func() string
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Engine       *visa.Engine
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("%s: decision engine is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       workerConfig,
		engine:       opts.Engine,
		schema:       GetInputSchema(opts.Engine.Table()),
		logger:       log,
		errorHandler: errors.NewErrorHandler(log).WithMaxRetries(workerConfig.MaxRetries),
		newID:        uuid.NewString,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing visa decision job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute decides one profile and stamps the result with a decision id.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.engine.Decide(ctx, input.Profile)
	if err != nil {
		return nil, err
	}

	output := &Output{Result: result, DecisionID: h.newID()}
	h.logger.Info("Visa decision made", map[string]interface{}{
		"decisionId":  output.DecisionID,
		"destination": input.Profile.DestinationCountry,
		"status":      string(result.Status),
		"probability": result.ApprovalProbability,
	})
	return output, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, h.schema)
	if !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	fields := make(map[string]interface{}, len(ProfileFields))
	for _, name := range ProfileFields {
		fields[name] = variables[name]
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	var input Input
	if err := json.Unmarshal(raw, &input.Profile); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Completed visa decision job", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"decisionId": output.DecisionID,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, extractErrorCode(err)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// WorkerOptions returns the activation settings for camunda.NewWorker.
func (h *Handler) WorkerOptions() camunda.WorkerOptions {
	return camunda.WorkerOptions{
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	return string(errors.AsStandardError(err).Code)
}
