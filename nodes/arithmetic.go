package nodes

import (
	"context"
	"image"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/plugin"
)

// arithmetic combines two source frames pixel by pixel with saturation.
// An optional third source is a mask: pixels where it is zero come out
// black.
type arithmetic func(a, b uint8) uint8

func newAdd(plugin.Deps) (graph.Processor, error) {
	return arithmetic(func(a, b uint8) uint8 {
		if s := int(a) + int(b); s < 255 {
			return uint8(s)
		}
		return 255
	}), nil
}

func newSubtract(plugin.Deps) (graph.Processor, error) {
	return arithmetic(func(a, b uint8) uint8 {
		if a > b {
			return a - b
		}
		return 0
	}), nil
}

func (f arithmetic) Start(context.Context, *graph.Node) error { return nil }

func (f arithmetic) Process(_ context.Context, n *graph.Node) error {
	in, err := inputs(n, 2, 3)
	if err != nil {
		return err
	}
	src1, src2 := in[0], in[1]
	var mask *image.Gray
	if len(in) == 3 {
		mask = in[2]
	}
	r := src1.Rect
	for _, img := range in[1:] {
		if img.Rect.Dx() != r.Dx() || img.Rect.Dy() != r.Dy() {
			return errors.ProcessingFailedf("size mismatch: %dx%d and %dx%d",
				r.Dx(), r.Dy(), img.Rect.Dx(), img.Rect.Dy())
		}
	}

	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		o1 := src1.PixOffset(src1.Rect.Min.X, src1.Rect.Min.Y+y)
		o2 := src2.PixOffset(src2.Rect.Min.X, src2.Rect.Min.Y+y)
		od := dst.PixOffset(0, y)
		om := 0
		if mask != nil {
			om = mask.PixOffset(mask.Rect.Min.X, mask.Rect.Min.Y+y)
		}
		for x := 0; x < r.Dx(); x++ {
			if mask != nil && mask.Pix[om+x] == 0 {
				continue
			}
			dst.Pix[od+x] = f(src1.Pix[o1+x], src2.Pix[o2+x])
		}
	}
	n.SetOutput(dst)
	return nil
}

func (f arithmetic) Stop(_ context.Context, n *graph.Node) error {
	n.SetOutput(nil)
	return nil
}

// inputs returns the frames of the node's sources in edge order, requiring
// between lo and hi of them.
func inputs(n *graph.Node, lo, hi int) ([]*image.Gray, error) {
	outs := n.SourceOutputs()
	if len(outs) < lo {
		return nil, errors.ProcessingFailedf("needs %d sources, %d connected", lo, len(outs))
	}
	if len(outs) > hi {
		return nil, errors.ProcessingFailedf("accepts at most %d sources, %d connected", hi, len(outs))
	}
	frames := make([]*image.Gray, len(outs))
	for i, out := range outs {
		img, ok := out.(*image.Gray)
		if !ok || img == nil {
			return nil, errors.ProcessingFailedf("source %d produced %T, want a gray frame", i+1, out)
		}
		frames[i] = img
	}
	return frames, nil
}
