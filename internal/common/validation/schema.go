package validation

import (
	"fmt"
	"strings"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator checks documents against one compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a schema given as a Go value (map or struct).
func NewValidator(schema interface{}) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// NewSubmissionValidator compiles the underwriting submission schema.
func NewSubmissionValidator() (*Validator, error) {
	return NewValidator(SubmissionSchema())
}

// ValidateJSON validates a raw JSON document. The error is non-nil only when
// the document cannot be parsed at all.
func (v *Validator) ValidateJSON(document []byte) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

// Validate validates an already decoded document.
func (v *Validator) Validate(document interface{}) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}
}

// Err converts a failed result into a VALIDATION_ERROR listing every violation.
func (vr *ValidationResult) Err() error {
	if vr == nil || vr.Valid {
		return nil
	}
	return apperrors.NewValidationError(strings.Join(vr.GetErrorMessages(), "; "))
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// SubmissionSchema returns the JSON schema of an underwriting submission.
func SubmissionSchema() map[string]interface{} {
	states := models.States()
	stateNames := make([]interface{}, len(states))
	for i, s := range states {
		stateNames[i] = string(s)
	}

	str := map[string]interface{}{"type": "string"}
	integer := map[string]interface{}{"type": "integer"}
	optionalInteger := map[string]interface{}{"type": []interface{}{"integer", "null"}}
	state := map[string]interface{}{"type": "string", "enum": stateNames}
	zipcode := map[string]interface{}{"type": "string", "maxLength": 5}

	return map[string]interface{}{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []interface{}{"broker", "applicant", "financial"},
		"properties": map[string]interface{}{
			"broker": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"name", "organization", "address", "city", "state", "zipcode", "delegate"},
				"properties": map[string]interface{}{
					"name":         str,
					"organization": str,
					"address":      str,
					"city":         str,
					"state":        state,
					"zipcode":      zipcode,
					"delegate":     str,
				},
			},
			"applicant": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"name", "address", "city", "state", "zipcode", "naics"},
				"properties": map[string]interface{}{
					"name":    str,
					"address": str,
					"city":    str,
					"state":   state,
					"zipcode": zipcode,
					"naics":   map[string]interface{}{"type": "string", "minLength": 6, "maxLength": 6},
				},
			},
			"financial": map[string]interface{}{
				"type": "object",
				"required": []interface{}{
					"NAML_eligible", "employee_count", "revenue", "current_assets",
					"current_liabilities", "total_assets", "total_liabilities",
					"net_income_loss", "coverage",
				},
				"properties": map[string]interface{}{
					"NAML_eligible": map[string]interface{}{
						"type": "string",
						"enum": []interface{}{
							string(models.NAMLEligibleYes),
							string(models.NAMLEligibleNo),
							string(models.NAMLEligibleUnclear),
						},
					},
					"employee_count":      map[string]interface{}{"type": "integer", "exclusiveMinimum": 0},
					"revenue":             integer,
					"current_assets":      integer,
					"current_liabilities": integer,
					"total_assets":        integer,
					"total_liabilities":   integer,
					"net_income_loss":     integer,
					"coverage": map[string]interface{}{
						"type":        "array",
						"minItems":    1,
						"uniqueItems": true,
						"items": map[string]interface{}{
							"type": "string",
							"enum": []interface{}{
								string(models.CoverageD),
								string(models.CoverageE),
								string(models.CoverageF),
							},
						},
					},
					"retained_earning": optionalInteger,
					"end_ebit":         optionalInteger,
					"total_claims":     optionalInteger,
				},
			},
			"claims": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"do_claims", "epl_claims", "fiduciary_claims", "total_claims"},
				"properties": map[string]interface{}{
					"do_claims":        map[string]interface{}{"type": "integer", "minimum": 0},
					"epl_claims":       map[string]interface{}{"type": "integer", "minimum": 0},
					"fiduciary_claims": map[string]interface{}{"type": "integer", "minimum": 0},
					"total_claims":     map[string]interface{}{"type": "integer", "minimum": 0},
				},
			},
		},
	}
}
