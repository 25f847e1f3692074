// internal/workers/underwriting/record-decision/handler.go
package recorddecision

import (
	"context"
	"database/sql"
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
	"github.com/google/uuid"
)

const TaskType = "record-decision"

const insertDecisionSQL = `
		INSERT INTO underwriting_decisions (
			decision_id, submission_hash, decision, source, violated_rule,
			applicant_name, naics, state, broker_name, broker_org,
			model_version, evaluated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (decision_id) DO NOTHING`

const insertAuditSQL = `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`

// Indexer stores a document in the search cluster.
// *database.ElasticsearchClient satisfies it.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) error
}

type Handler struct {
	config       *Config
	db           *sql.DB
	indexer      Indexer
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler needs a database; indexer may be nil.
func NewHandler(config *Config, db *sql.DB, indexer Indexer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		indexer:      indexer,
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
		logger:       log,
		now:          time.Now,
	}
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
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	res, err := h.db.ExecContext(ctx, insertDecisionSQL,
		rec.DecisionID,
		rec.SubmissionHash,
		rec.Decision,
		rec.Source,
		nullable(rec.ViolatedRule),
		rec.ApplicantName,
		rec.NAICS,
		rec.State,
		nullable(rec.BrokerName),
		nullable(rec.BrokerOrg),
		nullable(rec.ModelVersion),
		rec.EvaluatedAt,
	)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	now := h.now().UTC()
	out := &Output{DecisionID: rec.DecisionID, RecordedAt: now.Format(time.RFC3339)}

	// A retried job finds its row already present.
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		out.Duplicate = true
		h.logger.Info("decision already recorded", map[string]interface{}{"decisionId": rec.DecisionID})
	} else {
		out.Recorded = true
		h.audit(ctx, rec, now)
	}

	out.Indexed = h.index(ctx, rec)
	return out, nil
}

func validateRecord(rec *models.DecisionRecord) error {
	if _, err := uuid.Parse(rec.DecisionID); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("decisionId %q is not a UUID", rec.DecisionID))
	}
	switch rec.Decision {
	case models.DecisionAccept, models.DecisionReject:
	default:
		return apperrors.NewValidationError(fmt.Sprintf("decision %q is neither ACCEPT nor REJECT", rec.Decision))
	}
	if rec.SubmissionHash == "" {
		return apperrors.NewMissingFieldError("submissionHash")
	}
	if rec.EvaluatedAt.IsZero() {
		return apperrors.NewMissingFieldError("evaluatedAt")
	}
	return nil
}

func (h *Handler) audit(ctx context.Context, rec *models.DecisionRecord, at time.Time) {
	details, _ := json.Marshal(map[string]interface{}{
		"decision":       rec.Decision,
		"source":         rec.Source,
		"violatedRule":   rec.ViolatedRule,
		"modelVersion":   rec.ModelVersion,
		"submissionHash": rec.SubmissionHash,
	})

	_, err := h.db.ExecContext(ctx, insertAuditSQL,
		"underwriting_decision_recorded",
		"underwriting_decision",
		rec.DecisionID,
		details,
		at,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":      err.Error(),
			"decisionId": rec.DecisionID,
		})
	}
}

// index is best effort; the database row is the system of record.
func (h *Handler) index(ctx context.Context, rec *models.DecisionRecord) bool {
	if h.indexer == nil || h.config.Index == "" {
		return false
	}
	if err := h.indexer.IndexDocument(ctx, h.config.Index, rec.DecisionID, rec); err != nil {
		h.logger.Warn("decision indexing failed", map[string]interface{}{
			"decisionId": rec.DecisionID,
			"error":      apperrors.NewDecisionIndexFailedError(err).Error(),
		})
		return false
	}
	return true
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
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
	h.logger.Info("decision recorded", map[string]interface{}{
		"jobKey":     job.Key,
		"decisionId": output.DecisionID,
		"duplicate":  output.Duplicate,
		"indexed":    output.Indexed,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
