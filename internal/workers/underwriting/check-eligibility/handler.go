// internal/workers/underwriting/check-eligibility/handler.go
package checkeligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/common/logger"
	"underwriting-workers/internal/common/metrics"
	"underwriting-workers/internal/common/observability"
	"underwriting-workers/internal/common/validation"
	"underwriting-workers/internal/models"
	"underwriting-workers/internal/underwriting/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "check-eligibility"

type Handler struct {
	config       *Config
	validator    *validation.Validator
	gate         *eligibility.Gate
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, gate *eligibility.Gate, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if gate == nil {
		return nil, fmt.Errorf("%s: eligibility gate is required", TaskType)
	}
	validator, err := validation.NewSubmissionValidator()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TaskType, err)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    validator,
		gate:         gate,
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewParseError(err), start)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil || len(input.Submission) == 0 || string(input.Submission) == "null" {
		return nil, apperrors.NewMissingFieldError("submission")
	}

	result, err := h.validator.ValidateJSON(input.Submission)
	if err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	var sub models.Submission
	if err := json.Unmarshal(input.Submission, &sub); err != nil {
		return nil, apperrors.NewParseError(err)
	}

	verdict, err := h.gate.Check(&sub)
	if err != nil {
		return nil, err
	}
	metrics.EligibilityVerdicts.WithLabelValues(strconv.FormatBool(verdict.Eligible), string(verdict.Rule)).Inc()

	if !verdict.Eligible {
		h.logger.Info("submission outside appetite", map[string]interface{}{
			"applicant":    sub.Applicant.Name,
			"violatedRule": string(verdict.Rule),
			"reason":       verdict.Reason,
		})
	}

	return &Output{
		Eligible:     verdict.Eligible,
		ViolatedRule: string(verdict.Rule),
		Reason:       verdict.Reason,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, apperrors.NewUnexpectedError("complete", err), start)
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
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
