package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"heater-inference/models"
)

// Objectives whose prediction is the raw margin, so base score plus leaf values is the prediction
var identityObjectives = map[string]bool{
	"reg:squarederror":     true,
	"reg:linear":           true,
	"reg:pseudohubererror": true,
	"reg:absoluteerror":    true,
	"reg:quantileerror":    true,
}

type xgbFile struct {
	Learner struct {
		FeatureNames      []string `json:"feature_names"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
	} `json:"learner"`
}

type xgbTree struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     flags     `json:"default_left"`
}

// flags reads default_left, stored as 0/1 by older XGBoost versions and as booleans by newer ones
type flags []bool

func (f *flags) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values := make([]bool, len(raw))
	for i, value := range raw {
		switch v := value.(type) {
		case bool:
			values[i] = v
		case float64:
			values[i] = v != 0
		default:
			return fmt.Errorf("unexpected default_left value %v", value)
		}
	}
	*f = values
	return nil
}

// XGBoostModel is a gradient boosted tree regressor loaded from an XGBoost json model
type XGBoostModel struct {
	BaseScore    float64
	FeatureNames []string
	NumFeature   int
	Objective    string
	trees        []xgbTree
	maxFeature   int // highest feature index used by a split, -1 without splits
}

// LoadXGBoostModel reads a model saved with Booster.save_model("<name>.json")
func LoadXGBoostModel(fileName string) (*XGBoostModel, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		log.Error(err)
		return nil, models.MissingFile(fileName, err)
	}
	return ParseXGBoostModel(fileName, data)
}

// ParseXGBoostModel parses the json of an XGBoost model
func ParseXGBoostModel(source string, data []byte) (*XGBoostModel, error) {
	var file xgbFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, models.ParseFailure(source, err)
	}
	learner := file.Learner

	if learner.GradientBooster.Name != "gbtree" {
		return nil, models.SchemaMismatch(source, "booster %q is not supported", learner.GradientBooster.Name)
	}
	if !identityObjectives[learner.Objective.Name] {
		return nil, models.SchemaMismatch(source, "objective %q is not supported", learner.Objective.Name)
	}

	baseScore, err := parseBaseScore(learner.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, models.ParseFailure(source, err)
	}
	numFeature := 0
	if learner.LearnerModelParam.NumFeature != "" {
		numFeature, err = strconv.Atoi(learner.LearnerModelParam.NumFeature)
		if err != nil {
			return nil, models.ParseFailure(source, err)
		}
	}

	maxFeature := -1
	for i, tree := range learner.GradientBooster.Model.Trees {
		if err = tree.validate(numFeature); err != nil {
			return nil, models.SchemaMismatch(source, "tree %d: %v", i, err)
		}
		for node, left := range tree.LeftChildren {
			if left != -1 && tree.SplitIndices[node] > maxFeature {
				maxFeature = tree.SplitIndices[node]
			}
		}
	}

	model := &XGBoostModel{
		BaseScore:    baseScore,
		FeatureNames: learner.FeatureNames,
		NumFeature:   numFeature,
		Objective:    learner.Objective.Name,
		trees:        learner.GradientBooster.Model.Trees,
		maxFeature:   maxFeature,
	}
	log.Info("Loaded XGBoost model with ", len(model.trees), " trees and ", numFeature, " features")
	return model, nil
}

// Base score is written as "5E-1" or, since XGBoost 3, as "[5E-1]"
func parseBaseScore(value string) (float64, error) {
	value = strings.Trim(strings.TrimSpace(value), "[]")
	if value == "" {
		return 0.5, nil
	}
	return strconv.ParseFloat(value, 64)
}

func (t xgbTree) validate(numFeature int) error {
	n := len(t.LeftChildren)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n || len(t.DefaultLeft) != n {
		return fmt.Errorf("node arrays have different lengths")
	}
	for node := 0; node < n; node++ {
		left, right := t.LeftChildren[node], t.RightChildren[node]
		if left == -1 {
			continue
		}
		if left <= node || left >= n || right <= node || right >= n {
			return fmt.Errorf("node %d has invalid children %d and %d", node, left, right)
		}
		if t.SplitIndices[node] < 0 || (numFeature > 0 && t.SplitIndices[node] >= numFeature) {
			return fmt.Errorf("node %d splits on unknown feature %d", node, t.SplitIndices[node])
		}
	}
	return nil
}

// Children always have a higher node id than their parent (checked by validate), so the walk ends.
// Features and split conditions are compared in single precision, as XGBoost stores them.
func (t xgbTree) leaf(row []float64) float32 {
	node := 0
	for t.LeftChildren[node] != -1 {
		value := row[t.SplitIndices[node]]
		switch {
		case math.IsNaN(value):
			if t.DefaultLeft[node] {
				node = t.LeftChildren[node]
			} else {
				node = t.RightChildren[node]
			}
		case float32(value) < float32(t.SplitConditions[node]):
			node = t.LeftChildren[node]
		default:
			node = t.RightChildren[node]
		}
	}
	return float32(t.SplitConditions[node])
}

// Predict scores every row of X. When the model knows its feature names the columns are matched by name,
// otherwise by position.
func (m *XGBoostModel) Predict(X mat.Matrix, names []string) ([]float64, error) {
	rows, cols := X.Dims()
	columns, err := m.featureColumns(cols, names)
	if err != nil {
		return nil, err
	}

	predictions := make([]float64, rows)
	row := make([]float64, len(columns))
	for i := 0; i < rows; i++ {
		for j, column := range columns {
			row[j] = X.At(i, column)
		}
		prediction := float32(m.BaseScore)
		for _, tree := range m.trees {
			prediction += tree.leaf(row)
		}
		predictions[i] = float64(prediction)
	}
	return predictions, nil
}

// featureColumns returns, for every model feature, the column of X holding it
func (m *XGBoostModel) featureColumns(cols int, names []string) ([]int, error) {
	if len(m.FeatureNames) > 0 {
		position := make(map[string]int, len(names))
		for j, name := range names {
			position[name] = j
		}
		columns := make([]int, len(m.FeatureNames))
		for i, name := range m.FeatureNames {
			j, ok := position[name]
			if !ok {
				return nil, models.ShapeMismatch("model", "feature %q missing from the feature table", name)
			}
			columns[i] = j
		}
		if len(m.FeatureNames) != cols {
			return nil, models.ShapeMismatch("model", "model expects %d features, feature table has %d", len(m.FeatureNames), cols)
		}
		if m.maxFeature >= len(m.FeatureNames) {
			return nil, models.ShapeMismatch("model", "model splits on feature %d but names %d features", m.maxFeature, len(m.FeatureNames))
		}
		return columns, nil
	}

	expected := m.NumFeature
	if expected == 0 {
		expected = cols
	}
	if expected != cols {
		return nil, models.ShapeMismatch("model", "model expects %d features, feature table has %d", expected, cols)
	}
	if m.maxFeature >= cols {
		return nil, models.ShapeMismatch("model", "model splits on feature %d, feature table has %d", m.maxFeature, cols)
	}
	columns := make([]int, cols)
	for j := range columns {
		columns[j] = j
	}
	return columns, nil
}
