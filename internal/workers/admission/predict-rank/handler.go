// internal/workers/admission/predict-rank/handler.go
package predictrank

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"college-advisor/internal/admission"
	apperrors "college-advisor/internal/common/errors"
	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/metrics"
)

const (
	TaskType = "predict-rank"
)

type Handler struct {
	config    *Config
	predictor *admission.Predictor
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, predictor *admission.Predictor, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		predictor: predictor,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
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
		stdErr := h.errors.HandleJobError(ctx, client, job, apperrors.NewInvalidJobVariablesError(err))
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		return
	}

	output := h.execute(&input)

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute never fails: missing marks or an unavailable table yield an unpredicted output.
func (h *Handler) execute(input *Input) *Output {
	exam := admission.ResolveExam(input.Exam, input.Institute)
	output := &Output{Exam: string(exam)}

	marks := admission.ToNumber(input.Marks)
	if marks == nil {
		return output
	}
	if rank, ok := h.predictor.Predict(*marks, exam); ok {
		output.Rank = &rank
		output.Predicted = true
	}
	return output
}

func (h *Handler) Execute(_ context.Context, input *Input) *Output {
	return h.execute(input)
}
