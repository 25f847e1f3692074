package underwriting

import (
	"fmt"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/common/logger"
	"underwriting-workers/internal/models"
	"underwriting-workers/internal/underwriting/artifacts"
)

// acceptLabel is the classifier label that means the submission is accepted.
const acceptLabel = 1

// Evaluation is the outcome of one submission with the intermediate values
// kept for logging and persistence.
type Evaluation struct {
	Decision     string
	Label        int
	Derived      DerivedFinancials
	Input        ModelInputRow
	ModelVersion string
}

// DecisionService runs the feature pipeline and the classifier. It holds only
// the read-only artifact set and is safe for concurrent use.
type DecisionService struct {
	set         *artifacts.Set
	transformer *Transformer
	logger      logger.Logger
}

func NewDecisionService(set *artifacts.Set, log logger.Logger) (*DecisionService, error) {
	if set == nil || set.Encoder == nil || set.Scaler == nil || set.Classifier == nil {
		return nil, apperrors.NewServiceUnavailableError("model artifacts are not loaded")
	}
	return &DecisionService{
		set:         set,
		transformer: NewTransformer(set.Encoder, set.Scaler),
		logger:      log.WithFields(map[string]interface{}{"component": "decision-service"}),
	}, nil
}

// Decide returns ACCEPT or REJECT for the submission.
func (s *DecisionService) Decide(sub *models.Submission) (string, error) {
	eval, err := s.Evaluate(sub)
	if err != nil {
		return "", err
	}
	return eval.Decision, nil
}

// Evaluate runs every stage and classifies the resulting row. Errors carry a
// StandardError code; anything else is reported as UNEXPECTED_ERROR.
func (s *DecisionService) Evaluate(sub *models.Submission) (eval *Evaluation, err error) {
	defer func() {
		if r := recover(); r != nil {
			eval = nil
			err = apperrors.NewUnexpectedError("decision", fmt.Errorf("panic: %v", r))
		}
	}()

	if sub == nil {
		return nil, apperrors.NewValidationError("submission is required")
	}

	input, derived, err := s.BuildModelInput(sub)
	if err != nil {
		return nil, asStandard("feature pipeline", err)
	}

	label, err := s.set.Classifier.Predict(input.Values)
	if err != nil {
		return nil, asStandard("classifier", err)
	}

	decision := models.DecisionReject
	if label == acceptLabel {
		decision = models.DecisionAccept
	}

	s.logger.Debug("Submission classified", map[string]interface{}{
		"label":        label,
		"decision":     decision,
		"runway":       derived.Runway.String(),
		"modelVersion": s.set.Version(),
	})

	return &Evaluation{
		Decision:     decision,
		Label:        label,
		Derived:      derived,
		Input:        input,
		ModelVersion: s.set.Version(),
	}, nil
}

// ModelVersion identifies the classifier export this service decides with.
func (s *DecisionService) ModelVersion() string {
	return s.set.Version()
}

// BuildModelInput runs the financial calculator, feature assembler, row
// projector, geo encoder and transformer in order.
func (s *DecisionService) BuildModelInput(sub *models.Submission) (ModelInputRow, DerivedFinancials, error) {
	derived, err := DeriveFinancials(sub.Financial)
	if err != nil {
		return ModelInputRow{}, DerivedFinancials{}, err
	}

	record, err := AssembleFeatures(sub.Applicant, sub.Financial, derived)
	if err != nil {
		return ModelInputRow{}, derived, err
	}

	projected, err := ProjectModelFields(record)
	if err != nil {
		return ModelInputRow{}, derived, err
	}

	encoded, err := EncodeGeo(projected)
	if err != nil {
		return ModelInputRow{}, derived, err
	}

	input, err := s.transformer.Transform(encoded)
	if err != nil {
		return ModelInputRow{}, derived, err
	}
	return input, derived, nil
}

func asStandard(stage string, err error) error {
	if _, ok := apperrors.AsStandard(err); ok {
		return err
	}
	return apperrors.NewUnexpectedError(stage, err)
}
