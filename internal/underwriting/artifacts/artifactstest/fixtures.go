// Package artifactstest writes small, deterministic artifact exports for tests.
//
// The fixture scaler is the identity over the eight model columns and the
// fixture classifier accepts exactly when book value of equity is >= 0.
package artifactstest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"underwriting-workers/internal/common/config"
	"underwriting-workers/internal/common/logger"
	"underwriting-workers/internal/underwriting/artifacts"

	"github.com/stretchr/testify/require"
)

const (
	LabelEncoderFile = "label_encoder.json"
	ScalerFile       = "scaler.json"
	ClassifierFile   = "classifier.json"
	Version          = "test-1"
)

// FeatureNames is the fitted model column order.
var FeatureNames = []string{
	"NAICS/NOPS",
	"Zip Code",
	"NAML Eligible?",
	"Most Recent Year End Working Capital",
	"Book Value of Equity",
	"Most Recent Year End Net Income/Loss",
	"Total Employee Count",
	"Debt to Equity Ratio",
}

func LabelEncoder() map[string]interface{} {
	return map[string]interface{}{
		"version": Version,
		"encoders": map[string]interface{}{
			"NAML Eligible?": map[string]interface{}{"classes": []string{"N", "U", "Y"}},
		},
	}
}

func IdentityScaler() map[string]interface{} {
	n := len(FeatureNames)
	mins := make([]float64, n)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	return map[string]interface{}{
		"version":       Version,
		"kind":          "minmax",
		"feature_names": FeatureNames,
		"min":           mins,
		"scale":         scale,
	}
}

// EquityClassifier is a logistic model driven only by book value of equity.
func EquityClassifier() map[string]interface{} {
	coef := make([]float64, len(FeatureNames))
	coef[4] = 1e-6
	return map[string]interface{}{
		"version":   Version,
		"kind":      "logistic",
		"classes":   []int{0, 1},
		"coef":      coef,
		"intercept": 0,
	}
}

// WriteJSON marshals v into dir/name.
func WriteJSON(t testing.TB, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// Write stores the default fixtures in dir and returns the matching config.
func Write(t testing.TB, dir string) config.ArtifactsConfig {
	t.Helper()
	WriteJSON(t, dir, LabelEncoderFile, LabelEncoder())
	WriteJSON(t, dir, ScalerFile, IdentityScaler())
	WriteJSON(t, dir, ClassifierFile, EquityClassifier())
	return Config(dir)
}

func Config(dir string) config.ArtifactsConfig {
	return config.ArtifactsConfig{
		Dir:          dir,
		LabelEncoder: LabelEncoderFile,
		Scaler:       ScalerFile,
		Classifier:   ClassifierFile,
	}
}

// Load writes the default fixtures to a temp dir and loads them.
func Load(t testing.TB) *artifacts.Set {
	t.Helper()
	set, err := artifacts.Load(Write(t, t.TempDir()), logger.NewNoOpLogger())
	require.NoError(t, err)
	return set
}
