package layout

import (
	"context"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beavr/pkg/decompose"
	"github.com/matzehuels/beavr/pkg/errors"
)

// Engine names a layout algorithm.
type Engine string

// Supported engines.
const (
	EngineRadial Engine = "radial"
	EngineTwopi  Engine = "twopi"
	EngineSpring Engine = "spring"
)

// Engines lists the supported engines, default first.
var Engines = []Engine{EngineRadial, EngineTwopi, EngineSpring}

// Defaults.
const (
	DefaultMargin     = 0.05
	DefaultIterations = 200
	DefaultSeed       = 1
)

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout maps vertex ids to positions.
type Layout map[int]Point

// Options configures [Tree] and [Trees].
type Options struct {
	Engine     Engine      // Layout algorithm (default radial)
	Margin     float64     // Distance kept from the cell border (default 0.05)
	Seed       uint64      // Seed for the spring engine (default 1)
	Iterations int         // Spring iterations (default 200)
	Logger     *log.Logger // Receives fallback warnings (default discard)

	// KeepMargin makes a zero Margin mean "no margin" instead of the default.
	KeepMargin bool
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.Engine == "" {
		o.Engine = EngineRadial
	}
	if o.Margin == 0 && !o.KeepMargin {
		o.Margin = DefaultMargin
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Validate checks the engine name and the margin range.
func (o Options) Validate() error {
	switch o.Engine {
	case EngineRadial, EngineTwopi, EngineSpring, "":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q", o.Engine)
	}
	if o.Margin < 0 || o.Margin >= 0.5 || math.IsNaN(o.Margin) {
		return errors.New(errors.ErrCodeInvalidInput, "margin %v outside [0, 0.5)", o.Margin)
	}
	return nil
}

// Tree lays out a single tree and normalizes the result into
// [margin, 1-margin]². The empty tree yields an empty layout.
func Tree(ctx context.Context, t *decompose.Tree, opts Options) (Layout, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return Layout{}, nil
	}

	var raw Layout
	switch opts.Engine {
	case EngineTwopi:
		var err error
		raw, err = Twopi(ctx, t)
		if err != nil {
			opts.Logger.Warn("twopi layout failed, using spring layout", "root", t.Root, "err", err)
			raw = Spring(t, opts.Seed, opts.Iterations)
		}
	case EngineSpring:
		raw = Spring(t, opts.Seed, opts.Iterations)
	default:
		raw = Radial(t)
	}
	return Normalize(raw, opts.Margin)
}

// Trees lays out every tree and packs the results into a grid.
func Trees(ctx context.Context, trees []*decompose.Tree, opts Options) ([]Layout, error) {
	layouts := make([]Layout, 0, len(trees))
	for _, t := range trees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l, err := Tree(ctx, t, opts)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return Pack(layouts), nil
}
