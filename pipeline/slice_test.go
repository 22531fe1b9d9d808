/*
 * slice_test.go, part of molvis.
 *
 * Copyright 2024 The molvis authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package pipeline

import (
	"math"
	"testing"

	molvis "github.com/molvis/molvis"
)

// xFrame builds a frame with atoms at the given x positions, y=z=0.
func xFrame(xs ...float32) *molvis.Frame {
	at := molvis.NewBlock(len(xs))
	at.SetF32(molvis.ColX, append([]float32{}, xs...))
	at.SetF32(molvis.ColY, make([]float32, len(xs)))
	at.SetF32(molvis.ColZ, make([]float32, len(xs)))
	f := molvis.NewFrame()
	f.SetBlock(molvis.AtomsBlock, at)
	return f
}

func TestSliceHalfSpace(Te *testing.T) {
	f := xFrame(-5, 0, 5, 10)
	s := NewSlice("s")
	s.SetNormal([3]float64{1, 0, 0})
	s.SetOffset(3)
	out, err := s.Apply(f, DefaultContext(f, 0))
	if err != nil {
		Te.Fatal(err)
	}
	if out != f {
		Te.Error("Slice must return its input frame unchanged")
	}
	want := []bool{false, false, true, true}
	for i, w := range want {
		if s.VisibilityMask[i] != w {
			Te.Errorf("Visibility of atom %d: got %v want %v", i, s.VisibilityMask[i], w)
		}
	}
}

func TestSliceOnPlaneIsHidden(Te *testing.T) {
	//distance 0 must be hidden in half-space mode: the rule is dist > 0,
	//not >= 0
	f := xFrame(3, 3.5)
	s := NewSlice("s")
	s.SetNormal([3]float64{1, 0, 0})
	s.SetOffset(3)
	if _, err := s.Apply(f, DefaultContext(f, 0)); err != nil {
		Te.Fatal(err)
	}
	if s.VisibilityMask[0] || !s.VisibilityMask[1] {
		Te.Error("On-plane atom visible, or off-plane atom hidden:", s.VisibilityMask)
	}
}

func TestSliceSlabAutoInit(Te *testing.T) {
	f := xFrame(-10, -1, 0, 1, 10)
	s := NewSlice("s")
	s.SetNormal([3]float64{1, 0, 0})
	s.SetSlab(true)
	if _, err := s.Apply(f, DefaultContext(f, 0)); err != nil {
		Te.Fatal(err)
	}
	p := s.Params()
	if p.Offset != 0 {
		Te.Error("Auto offset should center on the structure, got", p.Offset)
	}
	wantT := math.Ceil(0.1 * 20) //bounding diagonal is 20, all along x
	if p.SlabThickness != wantT {
		Te.Error("Auto thickness: got", p.SlabThickness, "want", wantT)
	}
	for i, x := range []float64{-10, -1, 0, 1, 10} {
		want := math.Abs(x) <= wantT/2
		if s.VisibilityMask[i] != want {
			Te.Errorf("Slab visibility of atom %d (x=%g): got %v want %v", i, x, s.VisibilityMask[i], want)
		}
	}
}

func TestSliceSlabBoundaryIsVisible(Te *testing.T) {
	//|dist| == thickness/2 is visible: the slab boundary is inclusive,
	//unlike the half-space plane
	f := xFrame(-1, 1, 1.5)
	s := NewSlice("s")
	s.SetNormal([3]float64{1, 0, 0})
	s.SetParams(SliceParams{Normal: [3]float64{1, 0, 0}, IsSlab: true, SlabThickness: 2})
	if _, err := s.Apply(f, DefaultContext(f, 0)); err != nil {
		Te.Fatal(err)
	}
	if !s.VisibilityMask[0] || !s.VisibilityMask[1] || s.VisibilityMask[2] {
		Te.Error("Wrong slab boundary semantics:", s.VisibilityMask)
	}
}

func TestSliceInvert(Te *testing.T) {
	f := xFrame(-2, 7)
	plain := NewSlice("p")
	plain.SetNormal([3]float64{1, 0, 0})
	plain.SetOffset(3)
	plain.Apply(f, DefaultContext(f, 0))
	inv := NewSlice("i")
	inv.SetNormal([3]float64{1, 0, 0})
	inv.SetOffset(3)
	inv.SetInvert(true)
	inv.Apply(f, DefaultContext(f, 0))
	for i := range plain.VisibilityMask {
		if inv.VisibilityMask[i] == plain.VisibilityMask[i] {
			Te.Errorf("Invert did not flip atom %d", i)
		}
	}
}

func TestSliceDegenerateNormal(Te *testing.T) {
	f := xFrame(0, 1)
	s := NewSlice("s")
	s.SetNormal([3]float64{0, 0, 0})
	s.SetOffset(0.5)
	//must not panic or divide by zero; the zero normal acts as length 1
	if _, err := s.Apply(f, DefaultContext(f, 0)); err != nil {
		Te.Fatal(err)
	}
	if len(s.VisibilityMask) != 2 {
		Te.Error("No visibility computed for a degenerate normal")
	}
	//and nothing non-finite may reach the renderer read surface
	for _, g := range s.GuideLines {
		for _, p := range g.Points {
			for c := 0; c < 3; c++ {
				if math.IsNaN(p[c]) || math.IsInf(p[c], 0) {
					Te.Fatal("Guide point is not finite:", p)
				}
			}
		}
	}
	//a nearly-zero but orientable normal still gets a wireframe
	s2 := NewSlice("s2")
	s2.SetNormal([3]float64{1e-3, 0, 0})
	s2.SetOffset(0.5)
	if _, err := s2.Apply(f, DefaultContext(f, 0)); err != nil {
		Te.Fatal(err)
	}
	if len(s2.GuideLines) != 4 {
		Te.Error("A small but valid normal should still produce guides, got", len(s2.GuideLines))
	}
}

func TestSliceGuideGeometry(Te *testing.T) {
	f := xFrame(-5, 5)
	s := NewSlice("s")
	s.SetNormal([3]float64{1, 0, 0})
	s.SetOffset(0)
	s.Apply(f, DefaultContext(f, 0))
	if len(s.GuideLines) != 4 {
		Te.Fatal("A plane is one rectangle of 4 segments, got", len(s.GuideLines))
	}
	for _, g := range s.GuideLines {
		if len(g.Points) != 2 {
			Te.Fatal("Each guide segment has 2 points")
		}
		for _, p := range g.Points {
			if math.Abs(p[0]) > 1e-9 {
				Te.Error("Guide rectangle must lie in the x=0 plane, got x =", p[0])
			}
		}
	}
	if s.Bounds == nil || s.Bounds.Min[0] != -5 || s.Bounds.Max[0] != 5 {
		Te.Error("Wrong bounds:", s.Bounds)
	}

	slab := NewSlice("s2")
	slab.SetParams(SliceParams{Normal: [3]float64{1, 0, 0}, IsSlab: true, SlabThickness: 4})
	slab.Apply(f, DefaultContext(f, 0))
	if len(slab.GuideLines) != 8 {
		Te.Fatal("A slab is two rectangles of 4 segments each, got", len(slab.GuideLines))
	}
	//the two rectangles sit at offset +- thickness/2
	seen := map[float64]bool{}
	for _, g := range slab.GuideLines {
		seen[g.Points[0][0]] = true
	}
	if !seen[-2] || !seen[2] {
		Te.Error("Slab faces are not at +-thickness/2:", seen)
	}
}

func TestSliceGuideFloorOnFlatStructure(Te *testing.T) {
	//a single point has a degenerate bounding box; the guide rectangle
	//must still have the minimum half extent of 1 per axis
	f := xFrame(0)
	s := NewSlice("s")
	s.SetNormal([3]float64{1, 0, 0})
	s.SetOffset(0)
	s.Apply(f, DefaultContext(f, 0))
	var maxAbs float64
	for _, g := range s.GuideLines {
		for _, p := range g.Points {
			for _, c := range p[1:] {
				if math.Abs(c) > maxAbs {
					maxAbs = math.Abs(c)
				}
			}
		}
	}
	if maxAbs < 1 {
		Te.Error("Guide rectangle collapsed on a flat structure, extent", maxAbs)
	}
}

func TestSliceMissingStructurePassesThrough(Te *testing.T) {
	f := molvis.NewFrame()
	s := NewSlice("s")
	out, err := s.Apply(f, DefaultContext(f, 0))
	if err != nil || out != f {
		Te.Error("A frame without atoms must pass through without error")
	}
}
