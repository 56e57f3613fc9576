// Package nodes provides the built-in image stages: a synthetic source,
// per-pixel and two-input arithmetic processors and a histogram tool, all
// over *image.Gray frames.
package nodes

import (
	"context"
	"image"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/plugin"
)

// Component names.
const (
	KindPattern   = "source.pattern"
	KindThreshold = "processor.threshold"
	KindInvert    = "processor.invert"
	KindBlur      = "processor.blur"
	KindAdd       = "processor.add"
	KindSubtract  = "processor.subtract"
	KindHistogram = "tools.histogram"
)

// Plugin returns the built-in components.
func Plugin() plugin.Plugin {
	return plugin.New("builtin",
		plugin.Component{
			Name:        KindPattern,
			ToolBar:     plugin.Sources,
			Description: "Moving gradient test pattern",
			New:         newPattern,
		},
		plugin.Component{
			Name:        KindThreshold,
			ToolBar:     plugin.Processors,
			Description: "Binary threshold at a fixed level",
			New:         newThreshold,
		},
		plugin.Component{
			Name:        KindInvert,
			ToolBar:     plugin.Processors,
			Description: "Invert intensities",
			New:         newInvert,
		},
		plugin.Component{
			Name:        KindBlur,
			ToolBar:     plugin.Processors,
			Description: "Box blur",
			New:         newBlur,
		},
		plugin.Component{
			Name:        KindAdd,
			ToolBar:     plugin.Processors,
			Description: "Saturating sum of two sources, optional third source as mask",
			New:         newAdd,
		},
		plugin.Component{
			Name:        KindSubtract,
			ToolBar:     plugin.Processors,
			Description: "Saturating difference of two sources, optional third source as mask",
			New:         newSubtract,
		},
		plugin.Component{
			Name:        KindHistogram,
			ToolBar:     plugin.Window,
			Description: "256-bin intensity histogram",
			New:         newHistogram,
		},
	)
}

// input returns the frame produced by the node's first source.
func input(n *graph.Node) (*image.Gray, error) {
	outs := n.SourceOutputs()
	if len(outs) == 0 {
		return nil, errors.ProcessingFailed("no source connected")
	}
	img, ok := outs[0].(*image.Gray)
	if !ok || img == nil {
		return nil, errors.ProcessingFailedf("source produced %T, want a gray frame", outs[0])
	}
	return img, nil
}

// pixelFunc is a processor applying f to every pixel of the input frame.
type pixelFunc func(v uint8) uint8

func (f pixelFunc) Process(_ context.Context, n *graph.Node) error {
	src, err := input(n)
	if err != nil {
		return err
	}
	dst := image.NewGray(src.Rect)
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		si := src.PixOffset(src.Rect.Min.X, y)
		di := dst.PixOffset(dst.Rect.Min.X, y)
		for x := 0; x < src.Rect.Dx(); x++ {
			dst.Pix[di+x] = f(src.Pix[si+x])
		}
	}
	n.SetOutput(dst)
	return nil
}

func (pixelFunc) Start(context.Context, *graph.Node) error { return nil }

func (pixelFunc) Stop(_ context.Context, n *graph.Node) error {
	n.SetOutput(nil)
	return nil
}

func newThreshold(deps plugin.Deps) (graph.Processor, error) {
	level, err := deps.Int("level", 128)
	if err != nil {
		return nil, err
	}
	if level < 0 || level > 255 {
		return nil, errors.InvalidInput("level", "must be between 0 and 255")
	}
	return pixelFunc(func(v uint8) uint8 {
		if int(v) >= level {
			return 255
		}
		return 0
	}), nil
}

func newInvert(plugin.Deps) (graph.Processor, error) {
	return pixelFunc(func(v uint8) uint8 { return 255 - v }), nil
}
