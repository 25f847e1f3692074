package artifacts

import (
	"encoding/json"
	"fmt"
	"math"

	apperrors "underwriting-workers/internal/common/errors"
)

const (
	ClassifierLogistic     = "logistic"
	ClassifierTreeEnsemble = "tree_ensemble"
)

// Classifier predicts a class label for one scaled feature row.
type Classifier interface {
	Predict(features []float64) (int, error)
	NumFeatures() int
	Version() string
}

type classifierHeader struct {
	Version string `json:"version"`
	Kind    string `json:"kind"`
}

func decodeClassifier(data []byte) (Classifier, error) {
	var header classifierHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, err
	}

	switch header.Kind {
	case ClassifierLogistic:
		var f logisticFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return newLogisticRegression(f)
	case ClassifierTreeEnsemble:
		var f treeEnsembleFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return newTreeEnsemble(f)
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q", header.Kind)
	}
}

// ==========================
// Logistic regression
// ==========================

type logisticFile struct {
	Version   string    `json:"version"`
	Classes   []int     `json:"classes"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// LogisticRegression is a binary logistic model.
type LogisticRegression struct {
	version   string
	classes   [2]int
	coef      []float64
	intercept float64
}

func newLogisticRegression(f logisticFile) (*LogisticRegression, error) {
	if len(f.Classes) != 2 {
		return nil, fmt.Errorf("logistic classifier needs 2 classes, got %d", len(f.Classes))
	}
	if len(f.Coef) == 0 {
		return nil, fmt.Errorf("logistic classifier has no coefficients")
	}
	return &LogisticRegression{
		version:   f.Version,
		classes:   [2]int{f.Classes[0], f.Classes[1]},
		coef:      f.Coef,
		intercept: f.Intercept,
	}, nil
}

func (m *LogisticRegression) Predict(features []float64) (int, error) {
	if len(features) != len(m.coef) {
		return 0, apperrors.NewStructuralError(fmt.Sprintf("classifier expects %d features, got %d", len(m.coef), len(features)))
	}
	if m.Probability(features) >= 0.5 {
		return m.classes[1], nil
	}
	return m.classes[0], nil
}

// Probability returns P(classes[1] | features). The caller checks the length.
func (m *LogisticRegression) Probability(features []float64) float64 {
	z := m.intercept
	for i, w := range m.coef {
		z += w * features[i]
	}
	return 1 / (1 + math.Exp(-z))
}

func (m *LogisticRegression) NumFeatures() int { return len(m.coef) }
func (m *LogisticRegression) Version() string  { return m.version }

// ==========================
// Tree ensemble
// ==========================

const leafNode = -1

type treeFile struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

type treeEnsembleFile struct {
	Version     string     `json:"version"`
	Classes     []int      `json:"classes"`
	NumFeatures int        `json:"n_features"`
	Trees       []treeFile `json:"trees"`
}

// TreeEnsemble is a forest of binary decision trees in the flat array layout,
// voting by averaged leaf class probabilities.
type TreeEnsemble struct {
	version   string
	classes   []int
	nFeatures int
	trees     []treeFile
}

func newTreeEnsemble(f treeEnsembleFile) (*TreeEnsemble, error) {
	if len(f.Classes) < 2 {
		return nil, fmt.Errorf("tree ensemble needs at least 2 classes, got %d", len(f.Classes))
	}
	if f.NumFeatures <= 0 {
		return nil, fmt.Errorf("tree ensemble n_features must be positive")
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("tree ensemble has no trees")
	}
	for i, t := range f.Trees {
		if err := validateTree(t, len(f.Classes), f.NumFeatures); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &TreeEnsemble{
		version:   f.Version,
		classes:   f.Classes,
		nFeatures: f.NumFeatures,
		trees:     f.Trees,
	}, nil
}

func validateTree(t treeFile, nClasses, nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays have different lengths")
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != nClasses {
			return fmt.Errorf("node %d has %d class values, want %d", i, len(t.Value[i]), nClasses)
		}
		if t.ChildrenLeft[i] == leafNode {
			continue
		}
		// Children always come after their parent, which also rules out cycles.
		if t.ChildrenLeft[i] <= i || t.ChildrenLeft[i] >= n || t.ChildrenRight[i] <= i || t.ChildrenRight[i] >= n {
			return fmt.Errorf("node %d has out of range children", i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d", i, t.Feature[i])
		}
	}
	return nil
}

func (m *TreeEnsemble) Predict(features []float64) (int, error) {
	if len(features) != m.nFeatures {
		return 0, apperrors.NewStructuralError(fmt.Sprintf("classifier expects %d features, got %d", m.nFeatures, len(features)))
	}

	proba := m.Probabilities(features)
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return m.classes[best], nil
}

// Probabilities returns the averaged class probabilities in class order.
func (m *TreeEnsemble) Probabilities(features []float64) []float64 {
	proba := make([]float64, len(m.classes))
	for _, t := range m.trees {
		leaf := walk(t, features)
		var total float64
		for _, v := range t.Value[leaf] {
			total += v
		}
		if total == 0 {
			continue
		}
		for c, v := range t.Value[leaf] {
			proba[c] += v / total
		}
	}
	for c := range proba {
		proba[c] /= float64(len(m.trees))
	}
	return proba
}

func walk(t treeFile, features []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if features[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

func (m *TreeEnsemble) NumFeatures() int { return m.nFeatures }
func (m *TreeEnsemble) Version() string  { return m.version }
