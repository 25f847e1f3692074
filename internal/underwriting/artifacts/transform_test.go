package artifacts

import (
	"testing"

	apperrors "underwriting-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Label Encoder
// ==========================

func namlEncoder(t *testing.T) *LabelEncoder {
	t.Helper()
	f := labelEncoderFile{Version: "v1"}
	f.Encoders = map[string]struct {
		Classes []string `json:"classes"`
	}{
		"NAML Eligible?": {Classes: []string{"N", "U", "Y"}},
	}
	enc, err := newLabelEncoder(f)
	require.NoError(t, err)
	return enc
}

func TestLabelEncoder_Transform(t *testing.T) {
	enc := namlEncoder(t)

	tests := []struct {
		value string
		want  int
	}{
		{"N", 0},
		{"U", 1},
		{"Y", 2},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := enc.Transform("NAML Eligible?", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelEncoder_UnseenCategory(t *testing.T) {
	enc := namlEncoder(t)

	_, err := enc.Transform("NAML Eligible?", "Maybe")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnseenCategory))
}

func TestLabelEncoder_UnknownColumn(t *testing.T) {
	enc := namlEncoder(t)

	_, err := enc.Transform("Coverage(s)", "D")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStructural))
}

func TestLabelEncoder_RejectsBadFits(t *testing.T) {
	empty := labelEncoderFile{}
	_, err := newLabelEncoder(empty)
	assert.Error(t, err)

	dup := labelEncoderFile{Encoders: map[string]struct {
		Classes []string `json:"classes"`
	}{"NAML Eligible?": {Classes: []string{"N", "N"}}}}
	_, err = newLabelEncoder(dup)
	assert.ErrorContains(t, err, "repeats class")
}

func TestLabelEncoder_ClassesIsACopy(t *testing.T) {
	enc := namlEncoder(t)

	classes := enc.Classes("NAML Eligible?")
	classes[0] = "changed"

	assert.Equal(t, []string{"N", "U", "Y"}, enc.Classes("NAML Eligible?"))
	assert.Nil(t, enc.Classes("missing"))
}

// ==========================
// Scaler
// ==========================

func TestScaler_MinMax(t *testing.T) {
	s, err := newScaler(scalerFile{
		Kind:         ScalerMinMax,
		FeatureNames: []string{"a", "b"},
		Min:          []float64{-1, 0},
		Scale:        []float64{0.5, 2},
	})
	require.NoError(t, err)

	out, err := s.Transform([]string{"a", "b"}, []float64{4, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 6}, out)
}

func TestScaler_StandardTreatsZeroScaleAsOne(t *testing.T) {
	s, err := newScaler(scalerFile{
		Kind:         ScalerStandard,
		FeatureNames: []string{"a", "b"},
		Mean:         []float64{10, 5},
		Scale:        []float64{2, 0},
	})
	require.NoError(t, err)

	out, err := s.Transform([]string{"a", "b"}, []float64{14, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, out)
}

func TestScaler_ColumnMismatch(t *testing.T) {
	s, err := newScaler(scalerFile{
		Kind:         ScalerMinMax,
		FeatureNames: []string{"a", "b"},
		Min:          []float64{0, 0},
		Scale:        []float64{1, 1},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		columns []string
		values  []float64
	}{
		{"reordered", []string{"b", "a"}, []float64{1, 2}},
		{"extra column", []string{"a", "b", "c"}, []float64{1, 2, 3}},
		{"missing column", []string{"a"}, []float64{1}},
		{"length mismatch", []string{"a", "b"}, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Transform(tt.columns, tt.values)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStructural))
		})
	}
}

func TestScaler_InvalidFits(t *testing.T) {
	tests := []struct {
		name string
		file scalerFile
	}{
		{"no features", scalerFile{Kind: ScalerMinMax}},
		{"scale length", scalerFile{Kind: ScalerMinMax, FeatureNames: []string{"a"}, Min: []float64{0}}},
		{"min length", scalerFile{Kind: ScalerMinMax, FeatureNames: []string{"a"}, Scale: []float64{1}}},
		{"mean length", scalerFile{Kind: ScalerStandard, FeatureNames: []string{"a"}, Scale: []float64{1}}},
		{"unknown kind", scalerFile{Kind: "robust", FeatureNames: []string{"a"}, Scale: []float64{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newScaler(tt.file)
			assert.Error(t, err)
		})
	}
}

// ==========================
// Classifiers
// ==========================

func TestLogisticRegression_Predict(t *testing.T) {
	m, err := newLogisticRegression(logisticFile{
		Classes:   []int{0, 1},
		Coef:      []float64{1, -1},
		Intercept: 0,
	})
	require.NoError(t, err)

	label, err := m.Predict([]float64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	label, err = m.Predict([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	// p == 0.5 goes to the positive class
	label, err = m.Predict([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	assert.InDelta(t, 0.5, m.Probability([]float64{3, 3}), 1e-12)
}

func TestLogisticRegression_WrongWidth(t *testing.T) {
	m, err := newLogisticRegression(logisticFile{Classes: []int{0, 1}, Coef: []float64{1, 1}})
	require.NoError(t, err)

	_, err = m.Predict([]float64{1})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStructural))
}

func TestLogisticRegression_InvalidFits(t *testing.T) {
	_, err := newLogisticRegression(logisticFile{Classes: []int{0, 1, 2}, Coef: []float64{1}})
	assert.Error(t, err)

	_, err = newLogisticRegression(logisticFile{Classes: []int{0, 1}})
	assert.Error(t, err)
}

// stump splits on feature 0 at threshold; the left leaf votes for class 0.
func stump(threshold float64, left, right []float64) treeFile {
	return treeFile{
		ChildrenLeft:  []int{1, leafNode, leafNode},
		ChildrenRight: []int{2, leafNode, leafNode},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{threshold, -2, -2},
		Value:         [][]float64{{0, 0}, left, right},
	}
}

func TestTreeEnsemble_Predict(t *testing.T) {
	m, err := newTreeEnsemble(treeEnsembleFile{
		Classes:     []int{0, 1},
		NumFeatures: 2,
		Trees: []treeFile{
			stump(0, []float64{10, 0}, []float64{0, 10}),
			stump(5, []float64{6, 4}, []float64{1, 9}),
		},
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		features  []float64
		want      int
		wantProba []float64
	}{
		{"both left", []float64{-1, 0}, 0, []float64{0.8, 0.2}},
		{"split vote", []float64{1, 0}, 1, []float64{0.3, 0.7}},
		{"both right", []float64{6, 0}, 1, []float64{0.05, 0.95}},
		{"threshold goes left", []float64{0, 0}, 0, []float64{0.8, 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := m.Predict(tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.want, label)
			assert.InDeltaSlice(t, tt.wantProba, m.Probabilities(tt.features), 1e-9)
		})
	}
}

func TestTreeEnsemble_InvalidFits(t *testing.T) {
	good := stump(0, []float64{1, 0}, []float64{0, 1})

	cycle := stump(0, []float64{1, 0}, []float64{0, 1})
	cycle.ChildrenLeft = []int{0, leafNode, leafNode}

	badFeature := stump(0, []float64{1, 0}, []float64{0, 1})
	badFeature.Feature = []int{7, -2, -2}

	badValues := stump(0, []float64{1}, []float64{0, 1})

	tests := []struct {
		name string
		file treeEnsembleFile
	}{
		{"one class", treeEnsembleFile{Classes: []int{1}, NumFeatures: 1, Trees: []treeFile{good}}},
		{"no features", treeEnsembleFile{Classes: []int{0, 1}, Trees: []treeFile{good}}},
		{"no trees", treeEnsembleFile{Classes: []int{0, 1}, NumFeatures: 1}},
		{"self loop", treeEnsembleFile{Classes: []int{0, 1}, NumFeatures: 1, Trees: []treeFile{cycle}}},
		{"feature out of range", treeEnsembleFile{Classes: []int{0, 1}, NumFeatures: 1, Trees: []treeFile{badFeature}}},
		{"class values", treeEnsembleFile{Classes: []int{0, 1}, NumFeatures: 1, Trees: []treeFile{badValues}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTreeEnsemble(tt.file)
			assert.Error(t, err)
		})
	}
}

func TestDecodeClassifier_UnknownKind(t *testing.T) {
	_, err := decodeClassifier([]byte(`{"kind":"svm"}`))
	assert.ErrorContains(t, err, "unsupported classifier kind")

	_, err = decodeClassifier([]byte(`not json`))
	assert.Error(t, err)
}
