package nodes

import (
	"context"
	"image"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/plugin"
)

// pattern emits a diagonal gradient that shifts by step every frame.
type pattern struct {
	width, height int
	step          int
	frame         int
}

func newPattern(deps plugin.Deps) (graph.Processor, error) {
	p := &pattern{}
	var err error
	if p.width, err = deps.Int("width", 64); err != nil {
		return nil, err
	}
	if p.height, err = deps.Int("height", 48); err != nil {
		return nil, err
	}
	if p.step, err = deps.Int("step", 4); err != nil {
		return nil, err
	}
	if p.width <= 0 || p.height <= 0 {
		return nil, errors.InvalidInput("size", "width and height must be positive")
	}
	return p, nil
}

func (p *pattern) Start(context.Context, *graph.Node) error {
	p.frame = 0
	return nil
}

func (p *pattern) Process(_ context.Context, n *graph.Node) error {
	img := image.NewGray(image.Rect(0, 0, p.width, p.height))
	shift := p.frame * p.step
	for y := 0; y < p.height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < p.width; x++ {
			row[x] = uint8((x + y + shift) % 256)
		}
	}
	p.frame++
	n.SetOutput(img)
	return nil
}

func (p *pattern) Stop(_ context.Context, n *graph.Node) error {
	n.SetOutput(nil)
	return nil
}
