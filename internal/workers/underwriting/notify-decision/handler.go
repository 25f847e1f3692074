// internal/workers/underwriting/notify-decision/handler.go
package notifydecision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/common/logger"
	"underwriting-workers/internal/common/metrics"
	"underwriting-workers/internal/common/observability"
	"underwriting-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType  = "notify-decision"
	eventType = "underwriting.decision"
)

// Publisher is satisfied by *aws.SNSClient.
type Publisher interface {
	PublishJSON(ctx context.Context, topicARN, subject string, message interface{}, attributes map[string]string) (string, error)
}

type Handler struct {
	config       *Config
	publisher    Publisher
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, publisher Publisher, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if config.Enabled && (publisher == nil || config.TopicARN == "") {
		return nil, fmt.Errorf("%s: notifications enabled without a publisher and topic", TaskType)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		publisher:    publisher,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.DecisionRecord == nil {
		return nil, apperrors.NewMissingFieldError("decisionRecord")
	}
	rec := input.DecisionRecord

	if !h.config.Enabled {
		h.logger.Debug("notifications disabled", map[string]interface{}{"decisionId": rec.DecisionID})
		return &Output{Notified: false}, nil
	}

	event := NewDecisionEvent(rec)
	subject := fmt.Sprintf("Underwriting %s: %s", rec.Decision, rec.ApplicantName)
	attributes := map[string]string{
		"eventType": eventType,
		"decision":  rec.Decision,
		"source":    rec.Source,
	}

	messageID, err := h.publisher.PublishJSON(ctx, h.config.TopicARN, truncate(subject, 100), event, attributes)
	if err != nil {
		return nil, apperrors.NewNotificationSendFailedError("sns", err)
	}

	h.logger.Info("decision published", map[string]interface{}{
		"decisionId": rec.DecisionID,
		"messageId":  messageID,
	})
	return &Output{Notified: true, MessageID: messageID}, nil
}

func NewDecisionEvent(rec *models.DecisionRecord) DecisionEvent {
	return DecisionEvent{
		EventType:      eventType,
		DecisionID:     rec.DecisionID,
		Decision:       rec.Decision,
		Source:         rec.Source,
		ViolatedRule:   rec.ViolatedRule,
		ApplicantName:  rec.ApplicantName,
		NAICS:          rec.NAICS,
		State:          rec.State,
		BrokerName:     rec.BrokerName,
		BrokerOrg:      rec.BrokerOrg,
		ModelVersion:   rec.ModelVersion,
		SubmissionHash: rec.SubmissionHash,
		EvaluatedAt:    rec.EvaluatedAt.UTC().Format(time.RFC3339),
	}
}

// SNS subjects are limited to 100 characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
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
