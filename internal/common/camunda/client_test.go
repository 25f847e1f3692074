package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
	}}
}

// ==========================
// ExecuteWithRetry
// ==========================

func TestExecuteWithRetry_RecoversFromTransientError(t *testing.T) {
	c := testClient(3)
	calls := 0
	result, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, fmt.Errorf("rpc error: code = Unavailable")
		}
		return "ok", nil
	}, "topology")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_MapsErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  errors.ErrorCode
		wantCalls int
	}{
		{"unavailable exhausts retries", fmt.Errorf("connection refused"), errors.ErrCodeExternalService, 3},
		{"deadline", fmt.Errorf("context deadline exceeded"), errors.ErrCodeTimeout, 3},
		{"not found is not retried", fmt.Errorf("job not found"), errors.ErrCodeUnexpected, 1},
		{"unknown is not retried", fmt.Errorf("invalid argument"), errors.ErrCodeExternalService, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(2)
			calls := 0
			_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
				calls++
				return nil, tt.err
			}, "complete-job")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestExecuteWithRetry_StopsOnCancel(t *testing.T) {
	c := testClient(5)
	c.config.RetryConfig.BaseDelay = time.Hour
	c.config.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fmt.Errorf("connection reset by peer")
	}, "topology")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// ==========================
// Instrument
// ==========================

func TestInstrument_TracksActiveJobs(t *testing.T) {
	const taskType = "instrument-test"
	var during float64

	handler := Instrument(taskType, func(client worker.JobClient, job entities.Job) {
		during = testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType))
	})
	handler(nil, entities.Job{})

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.WorkerJobDuration, "worker_job_duration_seconds"))
}
