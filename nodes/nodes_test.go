package nodes

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	pipelinepkg "github.com/kbukum/ocvflow/pipeline"
	"github.com/kbukum/ocvflow/plugin"
	"github.com/kbukum/ocvflow/runner"
)

func newCatalog(t *testing.T) *plugin.Catalog {
	t.Helper()
	c := plugin.NewCatalog()
	if err := c.Install(Plugin()); err != nil {
		t.Fatal(err)
	}
	return c
}

// pipeline creates the named components in a chain and returns them.
func pipeline(t *testing.T, c *plugin.Catalog, params map[string]map[string]any, kinds ...string) (*graph.Scene, []*graph.Node) {
	t.Helper()
	s := graph.NewScene()
	nodes := make([]*graph.Node, len(kinds))
	for i, kind := range kinds {
		n, err := c.NewNode(kind, "", plugin.Deps{Params: params[kind]})
		if err != nil {
			t.Fatalf("NewNode(%s): %v", kind, err)
		}
		_ = s.AddNode(n)
		if i > 0 {
			if _, err := s.Connect(nodes[i-1], n); err != nil {
				t.Fatal(err)
			}
		}
		nodes[i] = n
	}
	return s, nodes
}

// step runs one iteration over nodes in order.
func step(t *testing.T, nodes []*graph.Node) {
	t.Helper()
	for _, n := range nodes {
		if err := n.Process(context.Background()); err != nil {
			t.Fatalf("%s: %v", n.Name(), err)
		}
	}
}

func gray(w, h int, fill func(x, y int) uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, colorGray(fill(x, y)))
		}
	}
	return img
}

func TestPluginComponents(t *testing.T) {
	c := newCatalog(t)
	if got := len(c.Names()); got != 7 {
		t.Errorf("expected 7 components, got %d", got)
	}
	if got := c.ByToolBar(plugin.Sources); len(got) != 1 || got[0].Name != KindPattern {
		t.Errorf("unexpected sources %v", got)
	}
}

func TestPatternMoves(t *testing.T) {
	c := newCatalog(t)
	_, nodes := pipeline(t, c, map[string]map[string]any{KindPattern: {"width": 8, "height": 4, "step": 1}}, KindPattern)

	step(t, nodes)
	first := nodes[0].Output().(*image.Gray)
	if first.Rect.Dx() != 8 || first.Rect.Dy() != 4 {
		t.Fatalf("unexpected size %v", first.Rect)
	}
	if first.GrayAt(3, 2).Y != 5 {
		t.Errorf("expected gradient value 5, got %d", first.GrayAt(3, 2).Y)
	}
	step(t, nodes)
	second := nodes[0].Output().(*image.Gray)
	if second.GrayAt(3, 2).Y != 6 {
		t.Errorf("expected shifted value 6, got %d", second.GrayAt(3, 2).Y)
	}
	if first == second {
		t.Error("expected a fresh frame per call")
	}
}

func TestThresholdAndInvert(t *testing.T) {
	c := newCatalog(t)
	_, nodes := pipeline(t, c,
		map[string]map[string]any{
			KindPattern:   {"width": 16, "height": 1, "step": 0},
			KindThreshold: {"level": 8},
		},
		KindPattern, KindThreshold, KindInvert)

	step(t, nodes)
	thr := nodes[1].Output().(*image.Gray)
	inv := nodes[2].Output().(*image.Gray)
	for x := 0; x < 16; x++ {
		want := uint8(0)
		if x >= 8 {
			want = 255
		}
		if got := thr.GrayAt(x, 0).Y; got != want {
			t.Errorf("threshold x=%d: got %d want %d", x, got, want)
		}
		if got := inv.GrayAt(x, 0).Y; got != 255-want {
			t.Errorf("invert x=%d: got %d want %d", x, got, 255-want)
		}
	}
}

func TestBlurAverages(t *testing.T) {
	n := graph.NewNode("blur", KindBlur, mustProc(t, newBlur, nil))
	src := graph.NewNode("src", "test", nil)
	s := graph.NewScene()
	_ = s.AddNode(src)
	_ = s.AddNode(n)
	_, _ = s.Connect(src, n)

	// single bright pixel in the middle of a 3x3 frame
	src.SetOutput(gray(3, 3, func(x, y int) uint8 {
		if x == 1 && y == 1 {
			return 90
		}
		return 0
	}))
	if err := n.Process(context.Background()); err != nil {
		t.Fatal(err)
	}
	out := n.Output().(*image.Gray)
	if got := out.GrayAt(1, 1).Y; got != 10 {
		t.Errorf("center: expected 90/9=10, got %d", got)
	}
	if got := out.GrayAt(0, 0).Y; got != 22 {
		t.Errorf("corner: expected 90/4=22, got %d", got)
	}
}

func TestHistogramUpdate(t *testing.T) {
	c := newCatalog(t)
	_, nodes := pipeline(t, c, map[string]map[string]any{KindPattern: {"width": 4, "height": 1, "step": 0}},
		KindPattern, KindHistogram)

	step(t, nodes)
	h := nodes[1].Output().(*Histogram)
	for v := 0; v < 4; v++ {
		if h[v] != 1 {
			t.Errorf("bin %d: expected 1, got %d", v, h[v])
		}
	}
	if _, ok := nodes[1].Data(PeakData); ok {
		t.Error("summary must wait for a refresh")
	}
	nodes[1].Update()
	if mean, _ := nodes[1].Data(MeanData); mean != 1.5 {
		t.Errorf("expected mean 1.5, got %v", mean)
	}
	if peak, _ := nodes[1].Data(PeakData); peak != 0 {
		t.Errorf("expected first peak bin 0, got %v", peak)
	}
}

func TestProcessorsReportMissingInput(t *testing.T) {
	c := newCatalog(t)
	for _, kind := range []string{KindThreshold, KindInvert, KindBlur, KindHistogram} {
		n, err := c.NewNode(kind, "", plugin.Deps{})
		if err != nil {
			t.Fatal(err)
		}
		err = n.Process(context.Background())
		if !errors.IsProcessingFailure(err) {
			t.Errorf("%s: expected recoverable failure, got %v", kind, err)
		}
	}

	// wrong upstream type
	s := graph.NewScene()
	src := graph.NewNode("src", "test", nil)
	src.SetOutput("not a frame")
	inv, _ := c.NewNode(KindInvert, "", plugin.Deps{})
	_ = s.AddNode(src)
	_ = s.AddNode(inv)
	_, _ = s.Connect(src, inv)
	if err := inv.Process(context.Background()); !errors.IsProcessingFailure(err) {
		t.Errorf("expected recoverable failure for wrong type, got %v", err)
	}
}

func TestFactoryParamValidation(t *testing.T) {
	tests := []struct {
		name    string
		factory plugin.Factory
		params  map[string]any
	}{
		{"threshold level", newThreshold, map[string]any{"level": 300}},
		{"blur radius", newBlur, map[string]any{"radius": 0}},
		{"pattern size", newPattern, map[string]any{"width": 0}},
		{"pattern type", newPattern, map[string]any{"height": "tall"}},
	}
	for _, tc := range tests {
		if _, err := tc.factory(plugin.Deps{Params: tc.params}); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestPipelineUnderRunner(t *testing.T) {
	c := newCatalog(t)
	s, nodes := pipeline(t, c, nil, KindPattern, KindBlur, KindThreshold, KindHistogram)

	r := runner.New(s, runner.Config{
		RefreshInterval: 5 * time.Millisecond,
		BaseDelay:       time.Millisecond,
		StopTimeout:     time.Second,
	}, runner.WithLogger(logger.Nop()))
	_ = r.Start(context.Background())

	hist := nodes[3]
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := hist.Data(PeakData); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("histogram never refreshed")
		}
		time.Sleep(2 * time.Millisecond)
	}
	_ = r.Stop(context.Background())

	for _, n := range nodes {
		if msg, ok := n.Error(); ok {
			t.Errorf("%s: unexpected error %s", n.Name(), msg)
		}
		if n.Output() != nil {
			t.Errorf("%s: expected Stop to release the output", n.Name())
		}
	}
}

// join connects the given frames, in order, into a new node of kind.
func join(t *testing.T, kind string, frames ...*image.Gray) *graph.Node {
	t.Helper()
	c := newCatalog(t)
	s := graph.NewScene()
	n, err := c.NewNode(kind, "", plugin.Deps{})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.AddNode(n)
	for i, f := range frames {
		src := graph.NewNode(string(rune('a'+i)), "test", nil)
		src.SetOutput(f)
		_ = s.AddNode(src)
		if _, err := s.Connect(src, n); err != nil {
			t.Fatal(err)
		}
	}
	return n
}

func fill(v uint8) func(x, y int) uint8 { return func(int, int) uint8 { return v } }

func TestArithmetic(t *testing.T) {
	leftHalf := gray(4, 1, func(x, _ int) uint8 {
		if x < 2 {
			return 1
		}
		return 0
	})
	tests := []struct {
		name   string
		kind   string
		frames []*image.Gray
		want   []uint8
	}{
		{"add", KindAdd, []*image.Gray{gray(4, 1, fill(100)), gray(4, 1, fill(50))}, []uint8{150, 150, 150, 150}},
		{"add saturates", KindAdd, []*image.Gray{gray(4, 1, fill(200)), gray(4, 1, fill(100))}, []uint8{255, 255, 255, 255}},
		{"subtract", KindSubtract, []*image.Gray{gray(4, 1, fill(100)), gray(4, 1, fill(30))}, []uint8{70, 70, 70, 70}},
		{"subtract clamps at zero", KindSubtract, []*image.Gray{gray(4, 1, fill(30)), gray(4, 1, fill(100))}, []uint8{0, 0, 0, 0}},
		{"masked add", KindAdd, []*image.Gray{gray(4, 1, fill(10)), gray(4, 1, fill(20)), leftHalf}, []uint8{30, 30, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := join(t, tc.kind, tc.frames...)
			if err := n.Process(context.Background()); err != nil {
				t.Fatal(err)
			}
			out := n.Output().(*image.Gray)
			for x, want := range tc.want {
				if got := out.GrayAt(x, 0).Y; got != want {
					t.Errorf("x=%d: got %d want %d", x, got, want)
				}
			}
		})
	}
}

func TestArithmeticFailures(t *testing.T) {
	tests := []struct {
		name   string
		frames []*image.Gray
	}{
		{"one source", []*image.Gray{gray(2, 2, fill(1))}},
		{"size mismatch", []*image.Gray{gray(2, 2, fill(1)), gray(3, 2, fill(1))}},
		{"mask size mismatch", []*image.Gray{gray(2, 2, fill(1)), gray(2, 2, fill(1)), gray(2, 1, fill(1))}},
		{"missing frame", []*image.Gray{gray(2, 2, fill(1)), nil}},
		{"too many sources", []*image.Gray{gray(1, 1, fill(1)), gray(1, 1, fill(1)), gray(1, 1, fill(1)), gray(1, 1, fill(1))}},
	}
	for _, tc := range tests {
		for _, kind := range []string{KindAdd, KindSubtract} {
			t.Run(kind+"/"+tc.name, func(t *testing.T) {
				n := join(t, kind, tc.frames...)
				if err := n.Process(context.Background()); !errors.IsProcessingFailure(err) {
					t.Errorf("expected recoverable failure, got %v", err)
				}
				if n.Output() != nil {
					t.Error("expected no output on failure")
				}
			})
		}
	}
}

func TestDiamondPipelineUnderRunner(t *testing.T) {
	c := newCatalog(t)
	def, err := pipelinepkg.Parse([]byte(`
name: diamond
nodes:
  - name: camera
    component: source.pattern
    params: {width: 8, height: 4}
  - name: soft
    component: processor.blur
    sources: [camera]
  - name: negative
    component: processor.invert
    sources: [camera]
  - name: sum
    component: processor.add
    sources: [soft, negative]
  - name: diff
    component: processor.subtract
    sources: [soft, negative, camera]
`))
	if err != nil {
		t.Fatal(err)
	}
	s := graph.NewScene()
	b := &pipelinepkg.Builder{Catalog: c, Loader: pipelinepkg.MapLoader{}}
	built, err := b.Build(def, s)
	if err != nil {
		t.Fatal(err)
	}

	order := graph.Resolve(s.Items()).Order
	pos := map[string]int{}
	for i, n := range order {
		pos[n.Name()] = i
	}
	for _, sink := range []string{"sum", "diff"} {
		for _, src := range []string{"camera", "soft", "negative"} {
			if pos[src] > pos[sink] {
				t.Errorf("%s must run before %s: %v", src, sink, pos)
			}
		}
	}

	r := runner.New(s, runner.Config{
		RefreshInterval: 5 * time.Millisecond,
		BaseDelay:       time.Millisecond,
		StopTimeout:     time.Second,
	}, runner.WithLogger(logger.Nop()))
	_ = r.Start(context.Background())

	sum := built["sum"]
	deadline := time.Now().Add(2 * time.Second)
	for {
		sum.Acquire()
		out, _ := sum.Output().(*image.Gray)
		sum.Release()
		if out != nil {
			if out.Rect.Dx() != 8 || out.Rect.Dy() != 4 {
				t.Errorf("unexpected sum size %v", out.Rect)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("sum never produced a frame")
		}
		time.Sleep(2 * time.Millisecond)
	}
	_ = r.Stop(context.Background())

	for name, n := range built {
		if msg, ok := n.Error(); ok {
			t.Errorf("%s: unexpected error %s", name, msg)
		}
	}
}

func mustProc(t *testing.T, f plugin.Factory, params map[string]any) graph.Processor {
	t.Helper()
	p, err := f(plugin.Deps{Params: params})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func colorGray(v uint8) color.Gray { return color.Gray{Y: v} }
