// internal/workers/admission/classify-query/handler.go
package classifyquery

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"college-advisor/internal/admission"
	apperrors "college-advisor/internal/common/errors"
	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/metrics"
)

const (
	TaskType = "classify-query"
)

var ErrParametersMissing = errors.New("query parameters missing")

type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInvalidJobVariablesError(err))
		return
	}

	output, err := h.execute(&input)
	if err != nil {
		h.failJob(ctx, client, job, apperrors.NewInvalidJobVariablesError(err))
		return
	}

	h.logger.Info("query classified", map[string]interface{}{
		"jobKey":    job.Key,
		"queryType": string(output.QueryType),
	})

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err.Error()})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(input *Input) (*Output, error) {
	if input.Parameters == nil {
		return nil, ErrParametersMissing
	}
	return &Output{QueryType: admission.Classify(input.Parameters)}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := h.errors.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
}

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	return h.execute(input)
}
