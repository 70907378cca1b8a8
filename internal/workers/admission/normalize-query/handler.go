// internal/workers/admission/normalize-query/handler.go
package normalizequery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"college-advisor/internal/admission"
	apperrors "college-advisor/internal/common/errors"
	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/metrics"
)

const (
	TaskType = "normalize-query"
)

var ErrQueryMissing = errors.New("QUERY_MISSING")

type Handler struct {
	config     *Config
	normalizer *admission.Normalizer
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, normalizer *admission.Normalizer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		normalizer: normalizer,
		errors:     apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInvalidJobVariablesError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, apperrors.NewNormalizationFailedError(err))
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	payload, err := queryPayload(input.Query)
	if err != nil {
		return nil, err
	}

	params, err := h.normalizer.NormalizePayload(payload)
	if err != nil {
		return nil, err
	}

	return &Output{
		QueryID:       uuid.New().String(),
		Parameters:    params,
		RankPredicted: params.Rank != nil,
	}, nil
}

// queryPayload unwraps a query passed as a JSON string so the normalizer sees the text itself.
func queryPayload(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrQueryMissing
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" {
			return nil, ErrQueryMissing
		}
		return []byte(text), nil
	}
	return raw, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := h.errors.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
}

// Execute runs the normalization without a job, for tests and the CLI.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	out, err := h.execute(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("normalize query: %w", err)
	}
	return out, nil
}
