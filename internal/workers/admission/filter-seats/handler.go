// internal/workers/admission/filter-seats/handler.go
package filterseats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"college-advisor/internal/admission"
	apperrors "college-advisor/internal/common/errors"
	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/metrics"
	"college-advisor/internal/models"
)

const (
	TaskType = "filter-seats"

	cacheKeyPrefix = "seats"
)

var (
	ErrParametersMissing = errors.New("query parameters missing")
	ErrNotStructured     = errors.New("query is not structured")
)

type Handler struct {
	config  *Config
	advisor *admission.Advisor
	redis   *redis.Client
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

// NewHandler builds the seat filter worker. A nil redis client disables result caching.
func NewHandler(config *Config, advisor *admission.Advisor, rdb *redis.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		advisor: advisor,
		redis:   rdb,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
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
		switch {
		case errors.Is(err, ErrNotStructured):
			h.failJob(ctx, client, job, apperrors.NewQueryNotStructuredError(err.Error()))
		default:
			h.failJob(ctx, client, job, apperrors.NewInvalidJobVariablesError(err))
		}
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	params := input.Parameters
	if params == nil {
		return nil, ErrParametersMissing
	}
	if admission.Classify(params) != models.QueryTypeStructured {
		return nil, fmt.Errorf("%w: a rank and an institute or program are required", ErrNotStructured)
	}

	key := CacheKey(params)
	if seats, ok := h.getCached(ctx, key); ok {
		return buildOutput(seats, true), nil
	}

	seats := h.advisor.SelectSeats(params)
	h.setCached(ctx, key, seats)

	h.logger.Debug("seats filtered", map[string]interface{}{
		"exam":    string(params.Exam),
		"rank":    *params.Rank,
		"matches": len(seats),
	})
	return buildOutput(seats, false), nil
}

func buildOutput(seats []models.SeatRecord, cached bool) *Output {
	return &Output{
		Seats:      admission.ToSeatOptions(seats),
		MatchCount: len(seats),
		Summary:    admission.Summarize(seats),
		Cached:     cached,
	}
}

// CacheKey identifies a filter result by the inputs the filter actually uses: the exam's table,
// the rank, the routed preference and the gender category.
func CacheKey(params *models.QueryParameters) string {
	var pref string
	if params.Institute != nil {
		pref = "institute=" + *params.Institute
	} else if params.Program != nil {
		pref = "program=" + strings.ToLower(*params.Program)
	}
	rank := 0
	if params.Rank != nil {
		rank = *params.Rank
	}
	gender := params.Gender
	if gender == "" {
		gender = models.GenderNeutral
	}
	return fmt.Sprintf("%s:%s:%d:%s:%s", cacheKeyPrefix, params.Exam.TableKey(), rank, pref, strings.ToLower(gender))
}

func (h *Handler) getCached(ctx context.Context, key string) ([]models.SeatRecord, bool) {
	if h.redis == nil {
		return nil, false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		metrics.SeatCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		h.cacheFailed("get", key, err)
		return nil, false
	}

	var seats []models.SeatRecord
	if err := json.Unmarshal([]byte(val), &seats); err != nil {
		h.cacheFailed("decode", key, err)
		return nil, false
	}
	metrics.SeatCacheLookups.WithLabelValues("hit").Inc()
	return seats, true
}

func (h *Handler) setCached(ctx context.Context, key string, seats []models.SeatRecord) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(seats)
	if err != nil {
		h.cacheFailed("encode", key, err)
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.cacheFailed("set", key, err)
	}
}

// cacheFailed logs a cache problem. The filter result is still served from the tables.
func (h *Handler) cacheFailed(op, key string, err error) {
	stdErr := apperrors.NewSeatCacheFailedError(err)
	metrics.SeatCacheLookups.WithLabelValues("error").Inc()
	h.logger.Warn("seat cache unavailable", map[string]interface{}{
		"op":        op,
		"key":       key,
		"errorCode": string(stdErr.Code),
		"error":     err.Error(),
	})
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
