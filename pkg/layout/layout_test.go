package layout

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

const eps = 1e-9

func build(t *testing.T, raw string) *mindmap.Model {
	t.Helper()
	m, err := mindmap.BuildJSON("Tree", []byte(raw))
	if err != nil {
		t.Fatalf("BuildJSON: %v", err)
	}
	return m
}

// angleFrom returns the direction from (ox, oy) to p.
func angleFrom(ox, oy float64, p Placement) float64 {
	return math.Atan2(p.Y-oy, p.X-ox)
}

// sameAngle compares angles modulo 2π.
func sameAngle(a, b float64) bool {
	d := math.Mod(a-b, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d < 1e-9 || 2*math.Pi-d < 1e-9
}

func TestCategoryAnglesEvenlySpaced(t *testing.T) {
	for n := 1; n <= 12; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			cm := catmap.New()
			for i := range n {
				cm.Set(fmt.Sprintf("c%d", i), catmap.List("x"))
			}
			m, err := mindmap.Build("root", cm)
			if err != nil {
				t.Fatal(err)
			}
			l := Compute(m)

			cats := m.Categories()
			for i, c := range cats {
				p := l.Placements[c.ID]
				want := 2 * math.Pi * float64(i) / float64(n)
				if math.Abs(p.Angle-want) > eps {
					t.Errorf("category %d angle = %v, want %v", i, p.Angle, want)
				}
				if !sameAngle(angleFrom(0, 0, p), want) {
					t.Errorf("category %d position direction = %v, want %v", i, angleFrom(0, 0, p), want)
				}
				if r := math.Hypot(p.X, p.Y); math.Abs(r-DefaultCategoryRadius) > eps {
					t.Errorf("category %d radius = %v", i, r)
				}
				for j := range i {
					if sameAngle(p.Angle, l.Placements[cats[j].ID].Angle) {
						t.Errorf("categories %d and %d share an angle", i, j)
					}
				}
			}
		})
	}
}

func TestSingleLeafAlignedWithCategory(t *testing.T) {
	m := build(t, `{"A": ["x"], "B": "y", "C": ["p", "q"]}`)
	l := Compute(m)

	for _, cat := range m.Categories()[:2] {
		cp := l.Placements[cat.ID]
		lp := l.Placements[cat.Children[0]]
		if math.Abs(lp.Angle-cp.Angle) > eps {
			t.Errorf("%s leaf angle = %v, category angle = %v", cat.Label, lp.Angle, cp.Angle)
		}
		if !sameAngle(angleFrom(cp.X, cp.Y, lp), cp.Angle) {
			t.Errorf("%s leaf not radially outward", cat.Label)
		}
		if d := math.Hypot(lp.X-cp.X, lp.Y-cp.Y); math.Abs(d-DefaultLeafRadius) > eps {
			t.Errorf("%s leaf distance from category = %v", cat.Label, d)
		}
		if r := math.Hypot(lp.X, lp.Y); math.Abs(r-(DefaultCategoryRadius+DefaultLeafRadius)) > eps {
			t.Errorf("%s leaf distance from origin = %v", cat.Label, r)
		}
	}
}

func TestLeafFanSymmetricWithExactSpan(t *testing.T) {
	for k := 2; k <= 9; k++ {
		t.Run(fmt.Sprintf("m=%d", k), func(t *testing.T) {
			items := make([]string, k)
			for j := range items {
				items[j] = fmt.Sprintf("leaf%d", j)
			}
			cm := catmap.New().Set("first", catmap.List("a")).Set("fan", catmap.List(items...)).Set("third", catmap.List())
			m, err := mindmap.Build("root", cm)
			if err != nil {
				t.Fatal(err)
			}
			l := Compute(m)

			cat := m.Categories()[1]
			theta := l.Placements[cat.ID].Angle
			kids := cat.Children

			first := l.Placements[kids[0]].Angle
			last := l.Placements[kids[k-1]].Angle
			if math.Abs(first-(theta-DefaultLeafSpan/2)) > eps || math.Abs(last-(theta+DefaultLeafSpan/2)) > eps {
				t.Errorf("endpoints = %v, %v, want θ∓S/2 around %v", first, last, theta)
			}
			if math.Abs((last-first)-DefaultLeafSpan) > eps {
				t.Errorf("span = %v, want %v", last-first, DefaultLeafSpan)
			}
			for j := range k {
				a := l.Placements[kids[j]].Angle - theta
				b := l.Placements[kids[k-1-j]].Angle - theta
				if math.Abs(a+b) > eps {
					t.Errorf("leaves %d and %d not symmetric: %v, %v", j, k-1-j, a, b)
				}
				cp := l.Placements[cat.ID]
				if !sameAngle(angleFrom(cp.X, cp.Y, l.Placements[kids[j]]), l.Placements[kids[j]].Angle) {
					t.Errorf("leaf %d position does not match its angle", j)
				}
			}
		})
	}
}

func TestCustomOptions(t *testing.T) {
	m := build(t, `{"A": ["x", "y"]}`)
	l := Compute(m, WithCategoryRadius(10), WithLeafRadius(3), WithLeafSpan(math.Pi/2))

	cat := m.Categories()[0]
	cp := l.Placements[cat.ID]
	if math.Abs(cp.X-10) > eps || math.Abs(cp.Y) > eps {
		t.Errorf("category at (%v, %v), want (10, 0)", cp.X, cp.Y)
	}
	x := l.Placements[cat.Children[0]]
	wantX := 10 + 3*math.Cos(-math.Pi/4)
	wantY := 3 * math.Sin(-math.Pi/4)
	if math.Abs(x.X-wantX) > eps || math.Abs(x.Y-wantY) > eps {
		t.Errorf("leaf at (%v, %v), want (%v, %v)", x.X, x.Y, wantX, wantY)
	}
	if l.Options.CategoryRadius != 10 {
		t.Errorf("Options not recorded: %+v", l.Options)
	}
}

func TestTreeExample(t *testing.T) {
	m := build(t, `{"Nature": ["roots","leaves"], "Cycle": "growth"}`)
	l := Compute(m)

	if len(l.Placements) != 6 || len(l.Edges) != 5 {
		t.Fatalf("got %d placements, %d edges", len(l.Placements), len(l.Edges))
	}
	c, _ := l.Lookup("Tree")
	if c.X != 0 || c.Y != 0 {
		t.Errorf("central at (%v, %v)", c.X, c.Y)
	}
	nature, _ := l.Lookup("Tree\x00Nature")
	cycle, _ := l.Lookup("Tree\x00Cycle")
	if nature.Angle != 0 || math.Abs(cycle.Angle-math.Pi) > eps {
		t.Errorf("category angles = %v, %v, want 0, π", nature.Angle, cycle.Angle)
	}
	growth, ok := l.Lookup("Tree\x00Cycle\x00growth")
	if !ok {
		t.Fatal("growth leaf missing")
	}
	if math.Abs(growth.Angle-math.Pi) > eps {
		t.Errorf("growth angle = %v, want π", growth.Angle)
	}
	if math.Abs(growth.X-(-6)) > eps || math.Abs(growth.Y) > 1e-9 {
		t.Errorf("growth at (%v, %v), want (-6, 0)", growth.X, growth.Y)
	}
	if growth.Kind != mindmap.Leaf || growth.ColorIndex != 1 || growth.Label != "growth" {
		t.Errorf("growth placement = %+v", growth)
	}
}

func TestEmptyMapSinglePoint(t *testing.T) {
	m := build(t, `{}`)
	l := Compute(m)

	if len(l.Placements) != 1 {
		t.Fatalf("placements = %d, want 1", len(l.Placements))
	}
	p := l.Placements[0]
	if p.X != 0 || p.Y != 0 || p.Kind != mindmap.Central {
		t.Errorf("placement = %+v", p)
	}
	if len(l.Edges) != 0 {
		t.Errorf("edges = %v", l.Edges)
	}
	v := l.Viewport
	if v.MinX != -1 || v.MaxX != 1 || v.MinY != -1 || v.MaxY != 1 {
		t.Errorf("viewport = %+v, want ±1", v)
	}
}

func TestCategoryWithoutLeaves(t *testing.T) {
	m := build(t, `{"Lonely": []}`)
	l := Compute(m)
	if len(l.Placements) != 2 || len(l.Edges) != 1 {
		t.Fatalf("got %d placements, %d edges", len(l.Placements), len(l.Edges))
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	raw := `{"Science": ["physics", "chemistry", "biology"], "Art": ["music"], "Sport": [], "Life": "joy"}`
	a := Compute(build(t, raw))
	b := Compute(build(t, raw))
	if !reflect.DeepEqual(a, b) {
		t.Error("layouts of identical maps differ")
	}

	m := build(t, raw)
	if !reflect.DeepEqual(Compute(m), Compute(m)) {
		t.Error("repeated Compute on one model differs")
	}
}

func TestViewportEnclosesNodes(t *testing.T) {
	m := build(t, `{"A": ["1", "2", "3"], "B": ["4"], "C": ["5", "6"]}`)
	l := Compute(m)

	minX, maxX, minY, maxY := math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	for _, p := range l.Placements {
		if !l.Viewport.Contains(p.X, p.Y) {
			t.Errorf("%q at (%v, %v) outside viewport", p.Label, p.X, p.Y)
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	mx := 0.2*(maxX-minX) + 1
	my := 0.2*(maxY-minY) + 1
	v := l.Viewport
	if math.Abs(v.MinX-(minX-mx)) > eps || math.Abs(v.MaxX-(maxX+mx)) > eps ||
		math.Abs(v.MinY-(minY-my)) > eps || math.Abs(v.MaxY-(maxY+my)) > eps {
		t.Errorf("viewport = %+v", v)
	}
}

func TestBoxSizesIndependentOfPosition(t *testing.T) {
	short := Compute(build(t, `{"A": ["x"]}`))
	long := Compute(build(t, `{"A": ["an extraordinarily long leaf label that wraps"]}`))
	if short.Placements[2].X != long.Placements[2].X || short.Placements[2].Y != long.Placements[2].Y {
		t.Error("label length moved the leaf")
	}
	if long.Placements[2].Width <= short.Placements[2].Width || long.Placements[2].Height <= short.Placements[2].Height {
		t.Error("long label box not larger")
	}
	if len(long.Placements[2].Lines) < 2 {
		t.Errorf("long label lines = %q", long.Placements[2].Lines)
	}
}

func TestExport(t *testing.T) {
	m := build(t, `{"Nature": ["roots","leaves"], "Cycle": "growth"}`)
	l := Compute(m)
	g := l.Export()

	if err := g.Validate(); err != nil {
		t.Fatalf("exported layout invalid: %v", err)
	}
	if g.Central != "Tree" || len(g.Nodes) != 6 || len(g.Edges) != 5 {
		t.Errorf("export = central %q, %d nodes, %d edges", g.Central, len(g.Nodes), len(g.Edges))
	}
	kinds := []string{"central", "category", "leaf", "leaf", "category", "leaf"}
	for i, n := range g.Nodes {
		if n.Kind != kinds[i] {
			t.Errorf("node %d kind = %q, want %q", i, n.Kind, kinds[i])
		}
		if n.X != l.Placements[i].X || n.Width != l.Placements[i].Width {
			t.Errorf("node %d geometry not carried over", i)
		}
	}
	if g.Edges[0].From != "Tree" || g.Edges[0].To != "Tree\x00Nature" {
		t.Errorf("first edge = %+v", g.Edges[0])
	}
	if g.Viewport != l.Viewport {
		t.Error("viewport not carried over")
	}

	empty := Compute(build(t, `{}`)).Export()
	if empty.Edges == nil {
		t.Error("empty export has nil edges")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"Defaults", DefaultOptions(), false},
		{"ZeroSpan", Options{CategoryRadius: 1, LeafRadius: 1, LeafSpan: 0}, false},
		{"FullCircle", Options{CategoryRadius: 1, LeafRadius: 1, LeafSpan: 2 * math.Pi}, false},
		{"ZeroCategoryRadius", Options{CategoryRadius: 0, LeafRadius: 1, LeafSpan: 1}, true},
		{"NegativeLeafRadius", Options{CategoryRadius: 1, LeafRadius: -1, LeafSpan: 1}, true},
		{"NaNRadius", Options{CategoryRadius: math.NaN(), LeafRadius: 1, LeafSpan: 1}, true},
		{"SpanTooWide", Options{CategoryRadius: 1, LeafRadius: 1, LeafSpan: 7}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithOptionsKeepsDefaultsForZero(t *testing.T) {
	o := DefaultOptions()
	WithOptions(Options{LeafRadius: 5})(&o)
	if o.CategoryRadius != DefaultCategoryRadius || o.LeafRadius != 5 || o.LeafSpan != DefaultLeafSpan {
		t.Errorf("options = %+v", o)
	}
}
