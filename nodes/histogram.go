package nodes

import (
	"context"

	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/plugin"
)

// Histogram attribute keys set on refresh.
const (
	PeakData = "histogram.peak"
	MeanData = "histogram.mean"
)

// Histogram is the output of a tools.histogram node.
type Histogram [256]int

// Peak returns the most frequent intensity.
func (h *Histogram) Peak() int {
	peak := 0
	for i, c := range h {
		if c > h[peak] {
			peak = i
		}
	}
	return peak
}

// Mean returns the average intensity, 0 for an empty histogram.
func (h *Histogram) Mean() float64 {
	total, weighted := 0, 0
	for i, c := range h {
		total += c
		weighted += i * c
	}
	if total == 0 {
		return 0
	}
	return float64(weighted) / float64(total)
}

type histogram struct{}

func newHistogram(plugin.Deps) (graph.Processor, error) {
	return histogram{}, nil
}

func (histogram) Start(context.Context, *graph.Node) error { return nil }

func (histogram) Process(_ context.Context, n *graph.Node) error {
	src, err := input(n)
	if err != nil {
		return err
	}
	h := new(Histogram)
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		off := src.PixOffset(src.Rect.Min.X, y)
		for _, v := range src.Pix[off : off+src.Rect.Dx()] {
			h[v]++
		}
	}
	n.SetOutput(h)
	return nil
}

// Update publishes the summary a chart would show; it runs on refresh
// ticks only.
func (histogram) Update(n *graph.Node) {
	h, ok := n.Output().(*Histogram)
	if !ok {
		return
	}
	n.SetData(PeakData, h.Peak())
	n.SetData(MeanData, h.Mean())
}

func (histogram) Stop(_ context.Context, n *graph.Node) error {
	n.SetOutput(nil)
	return nil
}
