// Package artifacts loads the pre-fitted label encoder, scaler and classifier
// exports. A Set is read-only after Load and safe for concurrent use.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"

	"underwriting-workers/internal/common/config"
	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/common/logger"
)

// Set is the process-wide model context.
type Set struct {
	Encoder    *LabelEncoder
	Scaler     *Scaler
	Classifier Classifier
}

// Load reads all three artifacts. Any missing or malformed file yields
// ARTIFACT_LOAD_FAILED naming the path.
func Load(cfg config.ArtifactsConfig, log logger.Logger) (*Set, error) {
	encoderPath := cfg.ArtifactPath(cfg.LabelEncoder)
	scalerPath := cfg.ArtifactPath(cfg.Scaler)
	classifierPath := cfg.ArtifactPath(cfg.Classifier)

	var encFile labelEncoderFile
	if err := readJSON(encoderPath, &encFile); err != nil {
		return nil, apperrors.NewArtifactLoadError(encoderPath, err)
	}
	encoder, err := newLabelEncoder(encFile)
	if err != nil {
		return nil, apperrors.NewArtifactLoadError(encoderPath, err)
	}

	var scFile scalerFile
	if err := readJSON(scalerPath, &scFile); err != nil {
		return nil, apperrors.NewArtifactLoadError(scalerPath, err)
	}
	scaler, err := newScaler(scFile)
	if err != nil {
		return nil, apperrors.NewArtifactLoadError(scalerPath, err)
	}

	data, err := os.ReadFile(classifierPath)
	if err != nil {
		return nil, apperrors.NewArtifactLoadError(classifierPath, err)
	}
	classifier, err := decodeClassifier(data)
	if err != nil {
		return nil, apperrors.NewArtifactLoadError(classifierPath, err)
	}

	if classifier.NumFeatures() != len(scaler.featureNames) {
		return nil, apperrors.NewArtifactLoadError(classifierPath, fmt.Errorf(
			"classifier expects %d features but scaler was fitted on %d",
			classifier.NumFeatures(), len(scaler.featureNames)))
	}

	set := &Set{Encoder: encoder, Scaler: scaler, Classifier: classifier}

	log.Info("Model artifacts loaded", map[string]interface{}{
		"dir":               cfg.Dir,
		"encoderVersion":    encoder.Version(),
		"scalerVersion":     scaler.Version(),
		"classifierVersion": classifier.Version(),
		"features":          len(scaler.featureNames),
	})

	return set, nil
}

// Version identifies the classifier export used for a decision.
func (s *Set) Version() string {
	if s == nil || s.Classifier == nil {
		return ""
	}
	return s.Classifier.Version()
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
