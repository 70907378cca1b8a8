// internal/common/camunda/worker_test.go
package camunda

import (
	"context"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college-advisor/internal/common/config"
	"college-advisor/internal/common/logger"
)

type recordedJob struct {
	taskType string
	status   string
}

type fakeRecorder struct {
	jobs []recordedJob
}

func (r *fakeRecorder) RecordJob(_ context.Context, taskType, status string, _ time.Duration) {
	r.jobs = append(r.jobs, recordedJob{taskType: taskType, status: status})
}

type countingHandler struct {
	keys []int64
}

func (h *countingHandler) Handle(_ worker.JobClient, job entities.Job) {
	h.keys = append(h.keys, job.Key)
}

func TestWorkers_StartDisabled(t *testing.T) {
	w := NewWorkers(nil, nil, logger.NewTestLogger(t))

	started := w.Start("predict-rank", config.WorkerConfig{Enabled: false}, &countingHandler{})
	assert.False(t, started)
	assert.Empty(t, w.Running())

	w.Close()
}

func TestWorkers_TimedRecordsEachJob(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewWorkers(nil, rec, logger.NewTestLogger(t))
	h := &countingHandler{}

	handle := w.timed("filter-seats", h)
	handle(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7}})
	handle(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 8}})

	assert.Equal(t, []int64{7, 8}, h.keys)
	require.Len(t, rec.jobs, 2)
	assert.Equal(t, recordedJob{taskType: "filter-seats", status: "handled"}, rec.jobs[0])
}

func TestWorkers_TimedWithoutRecorder(t *testing.T) {
	w := NewWorkers(nil, nil, logger.NewTestLogger(t))
	h := &countingHandler{}

	w.timed("classify-query", h)(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1}})
	assert.Equal(t, []int64{1}, h.keys)
}
