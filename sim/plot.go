package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewWeightPlot creates new plot of weight over time from the data sources:
// measure:  measured weights
// filter:   filtered weights
// smooth:   smoothed weights, may be nil
// Each data source stores day index in its first and weight in its second column.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * measure or filter is nil
// * either of the supplied data matrices does not have at least 2 columns
// * gonum plot fails to be created
func NewWeightPlot(measure, filter, smooth *mat.Dense) (*plot.Plot, error) {
	if measure == nil || filter == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	for _, m := range []*mat.Dense{measure, filter, smooth} {
		if m == nil {
			continue
		}
		if _, c := m.Dims(); c < 2 {
			return nil, fmt.Errorf("invalid data dimensions")
		}
	}

	p := plot.New()

	p.Title.Text = "Weight"
	p.X.Label.Text = "Day"
	p.Y.Label.Text = "Weight"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// Make a scatter plotter for measurement data
	measScatter, err := plotter.NewScatter(makePoints(measure))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	measScatter.GlyphStyle.Color = color.RGBA{G: 128, A: 128}
	measScatter.Shape = draw.CircleGlyph{}
	measScatter.GlyphStyle.Radius = vg.Points(2)

	p.Add(measScatter)
	p.Legend.Add("measurement", measScatter)

	// Make a line plotter for filter data
	filterLine, err := plotter.NewLine(makePoints(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	filterLine.LineStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	filterLine.LineStyle.Width = vg.Points(1.5)

	p.Add(filterLine)
	p.Legend.Add("filtered", filterLine)

	if smooth != nil {
		smoothLine, err := plotter.NewLine(makePoints(smooth))
		if err != nil {
			return nil, fmt.Errorf("failed to create line: %v", err)
		}
		smoothLine.LineStyle.Color = color.RGBA{R: 64, G: 64, B: 64, A: 255}
		smoothLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

		p.Add(smoothLine)
		p.Legend.Add("smoothed", smoothLine)
	}

	return p, nil
}

// Series returns a two column matrix of day index and value for plotting.
func Series(vals []float64) *mat.Dense {
	if len(vals) == 0 {
		return nil
	}

	m := mat.NewDense(len(vals), 2, nil)
	for i, v := range vals {
		m.Set(i, 0, float64(i))
		m.Set(i, 1, v)
	}

	return m
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
