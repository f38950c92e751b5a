package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gravitas-games/tetracoords/internal/config"
	"github.com/gravitas-games/tetracoords/internal/logger"
	"github.com/gravitas-games/tetracoords/internal/render"
	"github.com/gravitas-games/tetracoords/pkg/engine"
	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/tspace"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

var errUsage = errors.New("usage")

const usage = `commands:
  convert [-order h|l] <digits>        cartesian position of an address
  cell [-order h|l] <digits>           cell geometry of an address
  locate <x> <y>                       cell under a display point
  nearest [-levels n] <x> <y>          grid cell whose centroid is closest
  plot [-levels n] [-o file]           write the cells to png, svg or pdf
  space                                describe the space
  repl                                 interactive prompt
  help                                 this text
`

// runner executes commands against one engine
type runner struct {
	engine *engine.Engine
	plot   config.PlotConfig
	out    io.Writer
}

func newRunner(cfg *config.Config, out io.Writer) (*runner, error) {
	spaceCfg, err := cfg.Space.TspaceConfig()
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(spaceCfg)
	if err != nil {
		return nil, err
	}
	return &runner{engine: eng, plot: cfg.Plot, out: out}, nil
}

// run executes a single command line, already split into words
func (r *runner) run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	logger.Sugar.Debugf("command %q", args)

	switch args[0] {
	case "convert":
		return r.convert(args[1:])
	case "cell":
		return r.cell(args[1:])
	case "locate":
		return r.locate(args[1:])
	case "nearest":
		return r.nearest(args[1:])
	case "plot":
		return r.plotCells(args[1:])
	case "space":
		fmt.Fprintln(r.out, r.engine)
		return nil
	case "help":
		fmt.Fprint(r.out, usage)
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (r *runner) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.out)
	return fs
}

// parseAddress handles "[-order h|l] <digits>"
func (r *runner) parseAddress(name string, args []string) (tetracoord.Tetracoordinate, error) {
	fs := r.flagSet(name)
	order := fs.String("order", r.engine.Space().Order().String(), "digit order, h or l")
	if err := fs.Parse(args); err != nil {
		return tetracoord.Tetracoordinate{}, err
	}
	if fs.NArg() != 1 {
		return tetracoord.Tetracoordinate{}, fmt.Errorf("%w: %s takes one address", errUsage, name)
	}
	o, err := tetracoord.ParseDigitOrder(*order)
	if err != nil {
		return tetracoord.Tetracoordinate{}, err
	}
	return tetracoord.FromDigitString(fs.Arg(0), tetracoord.WithOrder(o))
}

func (r *runner) convert(args []string) error {
	t, err := r.parseAddress("convert", args)
	if err != nil {
		return err
	}
	p := t.ToCartesian(tetracoord.WithOrientation(r.engine.Space().Orientation()))
	fmt.Fprintf(r.out, "%s -> %s\n", t.Text(), p)
	return nil
}

func (r *runner) cell(args []string) error {
	t, err := r.parseAddress("cell", args)
	if err != nil {
		return err
	}
	r.printCell(r.engine.Space().TcoordToCell(t))
	return nil
}

func parsePoint(name string, args []string) (vector2d.Vector2D, error) {
	if len(args) != 2 {
		return vector2d.Vector2D{}, fmt.Errorf("%w: %s takes x and y", errUsage, name)
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return vector2d.Vector2D{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return vector2d.Vector2D{}, fmt.Errorf("invalid y: %w", err)
	}
	return vector2d.New(x, y), nil
}

func (r *runner) locate(args []string) error {
	p, err := parsePoint("locate", args)
	if err != nil {
		return err
	}
	r.printCell(r.engine.Space().CcoordToCell(p))
	return nil
}

func (r *runner) nearest(args []string) error {
	fs := r.flagSet("nearest")
	levels := fs.Int("levels", r.plot.Levels, "address depth")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := parsePoint("nearest", fs.Args())
	if err != nil {
		return err
	}
	grid, err := tspace.NewGrid(r.engine.Space(), *levels)
	if err != nil {
		return err
	}
	r.printCell(grid.Nearest(p))
	return nil
}

func (r *runner) printCell(c tspace.Cell) {
	pts := c.PointsTransformed()
	fmt.Fprintf(r.out, "tcoord    %s\n", c.Tcoord().Text())
	fmt.Fprintf(r.out, "packed    %s\n", c.Tcoord())
	fmt.Fprintf(r.out, "flip      %t\n", c.Flip())
	fmt.Fprintf(r.out, "size      %g\n", c.Size())
	fmt.Fprintf(r.out, "ccoord    %s\n", c.Ccoord())
	fmt.Fprintf(r.out, "centroid  %s\n", c.CentroidTransformed())
	fmt.Fprintf(r.out, "bounds    %s\n", c.BoundsCenterTransformed())
	fmt.Fprintf(r.out, "points    %s %s %s\n", pts[0], pts[1], pts[2])
}

func (r *runner) plotCells(args []string) error {
	fs := r.flagSet("plot")
	levels := fs.Int("levels", r.plot.Levels, "address depth")
	out := fs.String("o", "tetracoords.png", "output file; the extension picks the format")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format := strings.TrimPrefix(filepath.Ext(*out), ".")
	if format == "" {
		return fmt.Errorf("%w: output file %q needs an extension", errUsage, *out)
	}

	// render fully before touching the output file
	var buf bytes.Buffer
	if err := render.Write(&buf, r.engine.Space(), *levels, r.plot.Width, r.plot.Height, format); err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	fmt.Fprintf(r.out, "wrote %d-level plot to %s\n", *levels, *out)
	return nil
}
