// Package render exports the cells of a space as a static plot.
package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/gravitas-games/tetracoords/pkg/tspace"
)

// Plot draws every cell of s with levels digits as a polygon in display
// coordinates, labelled with its address at the centroid. Cells pointing up
// and down get different fill colors.
func Plot(s *tspace.Space, levels int) (*plot.Plot, error) {
	grid, err := tspace.NewGrid(s, levels)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d-level cells, %s", levels, s)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, grid.Len()),
		Labels: make([]string, 0, grid.Len()),
	}
	for _, c := range grid.Cells() {
		pts := c.PointsTransformed()
		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell %s: %w", c.Tcoord().Text(), err)
		}
		if c.Flip() {
			poly.Color = plotutil.Color(1)
		} else {
			poly.Color = plotutil.Color(2)
		}
		poly.LineStyle.Width = vg.Points(0.5)
		p.Add(poly)

		centroid := c.CentroidTransformed()
		labels.XYs = append(labels.XYs, plotter.XY{X: centroid.X, Y: centroid.Y})
		labels.Labels = append(labels.Labels, c.Tcoord().Text())
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to build labels: %w", err)
	}
	p.Add(l)
	return p, nil
}

// Write renders the plot of s to w. width and height are in inches; format
// is any format gonum/plot supports (png, svg, pdf, ...).
func Write(w io.Writer, s *tspace.Space, levels int, width, height float64, format string) error {
	p, err := Plot(s, levels)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}
