package nodes

import (
	"context"
	"image"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/plugin"
)

// blur is a box blur; edge pixels average the part of the window inside
// the frame.
type blur struct {
	radius int
}

func newBlur(deps plugin.Deps) (graph.Processor, error) {
	radius, err := deps.Int("radius", 1)
	if err != nil {
		return nil, err
	}
	if radius < 1 {
		return nil, errors.InvalidInput("radius", "must be at least 1")
	}
	return &blur{radius: radius}, nil
}

func (b *blur) Start(context.Context, *graph.Node) error { return nil }

func (b *blur) Process(_ context.Context, n *graph.Node) error {
	src, err := input(n)
	if err != nil {
		return err
	}
	r := src.Rect
	dst := image.NewGray(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sum, count := 0, 0
			for dy := -b.radius; dy <= b.radius; dy++ {
				for dx := -b.radius; dx <= b.radius; dx++ {
					p := image.Pt(x+dx, y+dy)
					if !p.In(r) {
						continue
					}
					sum += int(src.Pix[src.PixOffset(p.X, p.Y)])
					count++
				}
			}
			dst.Pix[dst.PixOffset(x, y)] = uint8(sum / count)
		}
	}
	n.SetOutput(dst)
	return nil
}

func (b *blur) Stop(_ context.Context, n *graph.Node) error {
	n.SetOutput(nil)
	return nil
}
