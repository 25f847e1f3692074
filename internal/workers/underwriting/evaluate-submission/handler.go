// internal/workers/underwriting/evaluate-submission/handler.go
package evaluatesubmission

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
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
	"underwriting-workers/internal/underwriting"
	"underwriting-workers/internal/underwriting/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType       = "evaluate-submission"
	cacheKeyPrefix = "underwriting:decision:"
)

// Evaluator runs the model pipeline. *underwriting.DecisionService satisfies it.
type Evaluator interface {
	Evaluate(sub *models.Submission) (*underwriting.Evaluation, error)
	ModelVersion() string
}

// EligibilityChecker is satisfied by *eligibility.Gate.
type EligibilityChecker interface {
	Check(sub *models.Submission) (eligibility.Verdict, error)
}

type Handler struct {
	config       *Config
	validator    *validation.Validator
	evaluator    Evaluator
	gate         EligibilityChecker
	redis        *redis.Client
	keyPrefix    string
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler wires the evaluator. gate may be nil when eligibility is not
// enforced; redisClient may be nil to run without the decision cache.
func NewHandler(
	config *Config,
	evaluator Evaluator,
	gate EligibilityChecker,
	redisClient *redis.Client,
	obs *observability.Observability,
	log logger.Logger,
) (*Handler, error) {
	if evaluator == nil {
		return nil, apperrors.NewServiceUnavailableError("decision service is not available")
	}
	if config.EnforceEligibility && gate == nil {
		return nil, fmt.Errorf("%s: eligibility is enforced but no gate was provided", TaskType)
	}
	validator, err := validation.NewSubmissionValidator()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TaskType, err)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    validator,
		evaluator:    evaluator,
		gate:         gate,
		redis:        redisClient,
		keyPrefix:    CacheKey(evaluator.ModelVersion(), config.EnforceEligibility, ""),
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
		logger:       log,
		now:          time.Now,
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

// Execute is the job body without the Zeebe plumbing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
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

	hash, err := SubmissionHash(&sub)
	if err != nil {
		return nil, apperrors.NewUnexpectedError("hash", err)
	}

	cached, cacheUsable := h.lookup(ctx, hash)
	if cached != nil {
		return cached, nil
	}

	out, err := h.decide(&sub, hash)
	if err != nil {
		return nil, err
	}

	if cacheUsable {
		h.store(ctx, out)
	}

	metrics.UnderwritingDecisions.WithLabelValues(out.Decision, out.DecisionSource).Inc()
	h.obs.RecordDecision(ctx, out.Decision, out.DecisionSource, out.ModelVersion)

	h.logger.Info("submission evaluated", map[string]interface{}{
		"decisionId":     out.DecisionID,
		"decision":       out.Decision,
		"source":         out.DecisionSource,
		"violatedRule":   out.ViolatedRule,
		"modelVersion":   out.ModelVersion,
		"submissionHash": hash,
	})
	return out, nil
}

func (h *Handler) decide(sub *models.Submission, hash string) (*Output, error) {
	now := h.now().UTC()
	record := models.DecisionRecord{
		DecisionID:     uuid.New().String(),
		SubmissionHash: hash,
		ApplicantName:  sub.Applicant.Name,
		NAICS:          sub.Applicant.NAICS,
		State:          string(sub.Applicant.State),
		BrokerName:     sub.Broker.Name,
		BrokerOrg:      sub.Broker.Organization,
		EvaluatedAt:    now,
	}
	out := &Output{
		DecisionID:     record.DecisionID,
		SubmissionHash: hash,
		EvaluatedAt:    now.Format(time.RFC3339),
	}

	if h.config.EnforceEligibility {
		verdict, err := h.gate.Check(sub)
		if err != nil {
			return nil, err
		}
		metrics.EligibilityVerdicts.WithLabelValues(strconv.FormatBool(verdict.Eligible), string(verdict.Rule)).Inc()
		if !verdict.Eligible {
			record.Decision = models.DecisionReject
			record.Source = models.SourceEligibility
			record.ViolatedRule = string(verdict.Rule)
			out.Reason = verdict.Reason
			return fill(out, record), nil
		}
	}

	start := time.Now()
	eval, err := h.evaluator.Evaluate(sub)
	metrics.DecisionPipelineDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	record.Decision = eval.Decision
	record.Source = models.SourceModel
	record.ModelVersion = eval.ModelVersion
	return fill(out, record), nil
}

func fill(out *Output, record models.DecisionRecord) *Output {
	out.Decision = record.Decision
	out.DecisionSource = record.Source
	out.ViolatedRule = record.ViolatedRule
	out.ModelVersion = record.ModelVersion
	out.DecisionRecord = record
	return out
}

// lookup returns a cached output on a hit. The second result reports whether
// the cache answered at all; after a cache error the fresh decision is not
// written back.
func (h *Handler) lookup(ctx context.Context, hash string) (*Output, bool) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return nil, false
	}

	val, err := h.redis.Get(ctx, h.cacheKey(hash)).Result()
	switch {
	case err == redis.Nil:
		metrics.DecisionCacheLookups.WithLabelValues("miss").Inc()
		return nil, true
	case err != nil:
		metrics.DecisionCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("decision cache unavailable", map[string]interface{}{
			"error": apperrors.NewDecisionCacheFailedError(err).Error(),
		})
		return nil, false
	}

	var out Output
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		metrics.DecisionCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("discarding unreadable cached decision", map[string]interface{}{
			"submissionHash": hash,
			"error":          err.Error(),
		})
		return nil, true
	}

	metrics.DecisionCacheLookups.WithLabelValues("hit").Inc()
	out.Cached = true
	return &out, true
}

func (h *Handler) store(ctx context.Context, out *Output) {
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, h.cacheKey(out.SubmissionHash), data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache decision", map[string]interface{}{
			"decisionId": out.DecisionID,
			"error":      apperrors.NewDecisionCacheFailedError(err).Error(),
		})
	}
}

// SubmissionHash fingerprints the decoded submission so that documents that
// differ only in key order or whitespace share a cache entry.
func SubmissionHash(sub *models.Submission) (string, error) {
	canonical, err := json.Marshal(sub)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// CacheKey scopes a submission hash by model version and by whether the
// eligibility gate runs first, so neither a new model nor a gate switch is
// answered from entries written under the old setup.
func CacheKey(modelVersion string, enforceEligibility bool, hash string) string {
	mode := "model"
	if enforceEligibility {
		mode = "gated"
	}
	return cacheKeyPrefix + modelVersion + ":" + mode + ":" + hash
}

func (h *Handler) cacheKey(hash string) string {
	return h.keyPrefix + hash
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
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"decision": output.Decision,
		"cached":   output.Cached,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	code := string(apperrors.Normalize(err).Code)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
