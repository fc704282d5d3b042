package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"heater-inference/models"
)

var (
	realColor      = color.RGBA{R: 255, A: 255}
	predictedColor = color.RGBA{B: 255, A: 255}
)

// PlotPredictions draws the real and the predicted temperatures against time and saves the chart.
// The image format follows the file extension (png, svg, pdf...).
func PlotPredictions(index []time.Time, yTrue, yPred []float64, rmse float64, fileName string) error {
	if len(index) != len(yTrue) || len(index) != len(yPred) {
		return models.ShapeMismatch("plot", "%d timestamps, %d real values and %d predictions", len(index), len(yTrue), len(yPred))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Heater temperature (RMSE %.3f)", rmse)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Temperature"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04"}
	p.Add(plotter.NewGrid())

	realLine, err := newLine(index, yTrue, realColor)
	if err != nil {
		return err
	}
	predictedLine, err := newLine(index, yPred, predictedColor)
	if err != nil {
		return err
	}
	p.Add(realLine, predictedLine)
	p.Legend.Add("Real values (red)", realLine)
	p.Legend.Add("Predicted values (blue)", predictedLine)
	p.Legend.Top = true

	if err = os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		log.Error(err)
		return err
	}
	if err = p.Save(14*vg.Inch, 5*vg.Inch, fileName); err != nil {
		log.Error(err)
		return err
	}
	log.Info("Chart written to ", fileName)
	return nil
}

func newLine(index []time.Time, values []float64, c color.Color) (*plotter.Line, error) {
	points := make(plotter.XYs, len(index))
	for i, t := range index {
		points[i].X = float64(t.Unix())
		points[i].Y = values[i]
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	line.Color = c
	return line, nil
}
