package predictor

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"heater-inference/models"
)

// Regressor predicts one value per row of X. names holds the column names of X.
type Regressor interface {
	Predict(X mat.Matrix, names []string) ([]float64, error)
}

//Dataset is the feature table split into a feature matrix and the target vector
type Dataset struct {
	X     *mat.Dense
	Y     []float64
	Names []string
	Index []time.Time
}

// Split separates the target column from the features. The feature columns keep the frame order.
func Split(frame *models.Frame, target string) (*Dataset, error) {
	if !frame.HasColumn(target) {
		return nil, models.SchemaMismatch(target, "target column not found")
	}
	if frame.Nrow() == 0 {
		return nil, models.ShapeMismatch("feature table", "no rows left to score")
	}
	var names []string
	for _, column := range frame.Columns {
		if column != target {
			names = append(names, column)
		}
	}
	if len(names) == 0 {
		return nil, models.ShapeMismatch("feature table", "no feature columns")
	}

	X := mat.NewDense(frame.Nrow(), len(names), nil)
	for j, name := range names {
		X.SetCol(j, frame.Column(name))
	}
	y := make([]float64, frame.Nrow())
	copy(y, frame.Column(target))

	return &Dataset{X: X, Y: y, Names: names, Index: frame.Index}, nil
}

// ConstantRegressor predicts the same value for every row
type ConstantRegressor struct {
	Value float64
}

// NewMeanRegressor returns a regressor predicting the mean of y
func NewMeanRegressor(y []float64) ConstantRegressor {
	return ConstantRegressor{Value: stat.Mean(y, nil)}
}

func (c ConstantRegressor) Predict(X mat.Matrix, names []string) ([]float64, error) {
	rows, _ := X.Dims()
	predictions := make([]float64, rows)
	for i := range predictions {
		predictions[i] = c.Value
	}
	return predictions, nil
}

// RMSE returns the root mean squared error of yPred against yTrue
func RMSE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, models.ShapeMismatch("rmse", "%d true values but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, models.ShapeMismatch("rmse", "no values")
	}
	return floats.Distance(yTrue, yPred, 2) / math.Sqrt(float64(len(yTrue))), nil
}
