/*
 * slice.go, part of molvis.
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
	"fmt"
	"log"
	"math"

	molvis "github.com/molvis/molvis"
)

// SliceParams are the tunable parameters of a SliceModifier. Normal need not
// be pre-normalized.
type SliceParams struct {
	Offset        float64
	Normal        [3]float64
	Invert        bool
	IsSlab        bool
	SlabThickness float64
}

// GuideLine is one wireframe segment for the renderer, as a short polyline.
type GuideLine struct {
	Points [][3]float64
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// SliceModifier hides the atoms on one side of a cutting plane, or outside a
// slab around it. It never alters the frame it is given: visibility is cheap
// per-frame GPU state, not a structural edit, so it is published on the
// instance (VisibilityMask, GuideLines, Bounds) for the renderer to read
// after Apply returns.
//
// Boundary semantics are asymmetric, and intentionally so: in half-space
// mode an atom exactly on the plane (distance 0) is hidden, while in slab
// mode an atom exactly on a slab face (|distance| == thickness/2) is
// visible. Downstream fixtures depend on both rules; do not "fix" one to
// match the other.
type SliceModifier struct {
	Base
	params        SliceParams
	autoOffset    bool
	autoThickness bool
	initialized   bool

	//Renderer read surface. Valid after Apply has run at least once.
	VisibilityMask []bool
	GuideLines     []GuideLine
	Bounds         *Bounds
}

// NewSlice returns a slice modifier cutting along +x. Offset and slab
// thickness start in automatic mode: the first Apply centers the plane on
// the structure and picks a slab 10% of the bounding diagonal, rounded up.
// Setting either parameter explicitly takes it out of automatic mode.
func NewSlice(id string) *SliceModifier {
	return &SliceModifier{
		Base:          NewBase(id, "Slice", SelectionInsensitive),
		params:        SliceParams{Normal: [3]float64{1, 0, 0}},
		autoOffset:    true,
		autoThickness: true,
	}
}

// Params returns the current parameters. In automatic mode Offset and
// SlabThickness hold whatever the last Apply computed.
func (S *SliceModifier) Params() SliceParams { return S.params }

// SetOffset sets the signed plane distance along the normal.
func (S *SliceModifier) SetOffset(v float64) {
	S.params.Offset = v
	S.autoOffset = false
}

// SetNormal sets the plane normal. It need not be normalized.
func (S *SliceModifier) SetNormal(n [3]float64) {
	S.params.Normal = n
}

// SetInvert flips the visible side (or the visible band, in slab mode).
func (S *SliceModifier) SetInvert(v bool) {
	S.params.Invert = v
}

// SetSlab switches between half-space and slab mode.
func (S *SliceModifier) SetSlab(v bool) {
	S.params.IsSlab = v
}

// SetSlabThickness sets the full thickness of the slab.
func (S *SliceModifier) SetSlabThickness(t float64) {
	S.params.SlabThickness = t
	S.autoThickness = false
}

// SetParams sets every parameter at once, disabling automatic offset and
// thickness.
func (S *SliceModifier) SetParams(p SliceParams) {
	S.params = p
	S.autoOffset = false
	S.autoThickness = false
}

// CacheKey appends every slice parameter to the base key.
func (S *SliceModifier) CacheKey() string {
	p := S.params
	return fmt.Sprintf("%s:o=%g:n=%g,%g,%g:inv=%t:slab=%t:t=%g",
		S.Base.CacheKey(), p.Offset, p.Normal[0], p.Normal[1], p.Normal[2], p.Invert, p.IsSlab, p.SlabThickness)
}

// Apply computes the visibility mask and guide geometry for the frame and
// returns the frame unchanged. A frame without coordinate columns passes
// through with a logged notice.
func (S *SliceModifier) Apply(f *molvis.Frame, ctx *Context) (*molvis.Frame, error) {
	at := f.Block(molvis.AtomsBlock)
	if at == nil {
		log.Printf("molvis: slice %s: frame has no atoms block, passing through", S.ID())
		return f, nil
	}
	x := at.ColumnF32(molvis.ColX)
	y := at.ColumnF32(molvis.ColY)
	z := at.ColumnF32(molvis.ColZ)
	if x == nil || y == nil || z == nil {
		log.Printf("molvis: slice %s: frame lacks x/y/z columns, passing through", S.ID())
		return f, nil
	}
	n := at.Rows()
	bounds := boundingBox(x, y, z)
	S.Bounds = &bounds

	nrm := S.params.Normal
	length := math.Sqrt(nrm[0]*nrm[0] + nrm[1]*nrm[1] + nrm[2]*nrm[2])
	if length < 1e-6 {
		length = 1 //degenerate normals are used as-is rather than dividing by ~0
	}
	un := [3]float64{nrm[0] / length, nrm[1] / length, nrm[2] / length}

	if !S.initialized {
		center := bounds.center()
		if S.autoOffset {
			S.params.Offset = center[0]*un[0] + center[1]*un[1] + center[2]*un[2]
		}
		if S.autoThickness {
			S.params.SlabThickness = math.Ceil(0.1 * bounds.diagonal())
		}
		S.initialized = true
	}

	vis := make([]bool, n)
	half := S.params.SlabThickness / 2
	for i := 0; i < n; i++ {
		dist := float64(x[i])*un[0] + float64(y[i])*un[1] + float64(z[i])*un[2] - S.params.Offset
		var v bool
		if S.params.IsSlab {
			v = math.Abs(dist) <= half
		} else {
			v = dist > 0 //strictly: an atom exactly on the plane is hidden
		}
		if S.params.Invert {
			v = !v
		}
		vis[i] = v
	}
	S.VisibilityMask = vis
	S.GuideLines = S.guides(bounds, un)
	return f, nil
}

// guides builds the wireframe rectangles showing where the plane (or the two
// slab faces) cuts the structure. The rectangles are sized against a box 10%
// larger than the structure's bounding box, with a half-extent floor of one
// unit per axis so tiny or flat structures still get a visible wireframe.
func (S *SliceModifier) guides(b Bounds, un [3]float64) []GuideLine {
	center := b.center()
	var half [3]float64
	for c := 0; c < 3; c++ {
		half[c] = (b.Max[c] - b.Min[c]) / 2 * 1.1
		if half[c] < 1 {
			half[c] = 1
		}
	}
	//plane-local basis; pick an up vector away from the normal to keep the
	//cross products well conditioned
	up := [3]float64{0, 1, 0}
	if math.Abs(un[1]) > 0.9 {
		up = [3]float64{0, 0, 1}
	}
	u := cross(up, un)
	ul := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
	if ul < 1e-9 {
		//a degenerate normal gives no orientable plane, and dividing by ul
		//would fill the corners with NaN. No wireframe then.
		return nil
	}
	for c := 0; c < 3; c++ {
		u[c] /= ul
	}
	v := cross(un, u)
	//support of the scaled box along u and v
	hu := math.Abs(half[0]*u[0]) + math.Abs(half[1]*u[1]) + math.Abs(half[2]*u[2])
	hv := math.Abs(half[0]*v[0]) + math.Abs(half[1]*v[1]) + math.Abs(half[2]*v[2])

	offsets := []float64{S.params.Offset}
	if S.params.IsSlab {
		offsets = []float64{S.params.Offset - S.params.SlabThickness/2, S.params.Offset + S.params.SlabThickness/2}
	}
	lines := make([]GuideLine, 0, 4*len(offsets))
	for _, d := range offsets {
		//project the box center onto the plane at distance d
		cd := center[0]*un[0] + center[1]*un[1] + center[2]*un[2]
		var pc [3]float64
		for c := 0; c < 3; c++ {
			pc[c] = center[c] + (d-cd)*un[c]
		}
		corner := func(su, sv float64) [3]float64 {
			var p [3]float64
			for c := 0; c < 3; c++ {
				p[c] = pc[c] + su*hu*u[c] + sv*hv*v[c]
			}
			return p
		}
		c1 := corner(-1, -1)
		c2 := corner(1, -1)
		c3 := corner(1, 1)
		c4 := corner(-1, 1)
		lines = append(lines,
			GuideLine{Points: [][3]float64{c1, c2}},
			GuideLine{Points: [][3]float64{c2, c3}},
			GuideLine{Points: [][3]float64{c3, c4}},
			GuideLine{Points: [][3]float64{c4, c1}},
		)
	}
	return lines
}

func (b Bounds) center() [3]float64 {
	return [3]float64{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

func (b Bounds) diagonal() float64 {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	dz := b.Max[2] - b.Min[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func boundingBox(x, y, z []float32) Bounds {
	if len(x) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: [3]float64{float64(x[0]), float64(y[0]), float64(z[0])},
		Max: [3]float64{float64(x[0]), float64(y[0]), float64(z[0])},
	}
	for i := 1; i < len(x); i++ {
		p := [3]float64{float64(x[i]), float64(y[i]), float64(z[i])}
		for c := 0; c < 3; c++ {
			if p[c] < b.Min[c] {
				b.Min[c] = p[c]
			}
			if p[c] > b.Max[c] {
				b.Max[c] = p[c]
			}
		}
	}
	return b
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
