/*
 * wrap.go, part of molvis.
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
	"log"

	molvis "github.com/molvis/molvis"
)

// WrapPBCModifier wraps atom coordinates into the primary cell of the
// frame's simulation box. The wrap math itself belongs to the box; this
// modifier's job is buffer orchestration: interleave the coordinate columns
// into an arena buffer, hand it to the box, and read the wrapped values back
// into fresh columns. The arena buffer is a scoped resource, released via
// defer on every exit path, success or failure.
//
// Bonds are topological, not coordinate-dependent, so the bonds block passes
// through unchanged, as does the box reference itself.
type WrapPBCModifier struct {
	Base
	arena *molvis.XYZArena
}

// NewWrapPBC returns a wrap modifier using the given arena for coordinate
// buffers. A nil arena gets a private one.
func NewWrapPBC(id string, arena *molvis.XYZArena) *WrapPBCModifier {
	if arena == nil {
		arena = molvis.NewXYZArena()
	}
	return &WrapPBCModifier{
		Base:  NewBase(id, "Wrap periodic boundaries", SelectionInsensitive),
		arena: arena,
	}
}

// Apply returns a new frame with wrapped coordinates. Frames without a box
// or without coordinate columns pass through with a logged notice.
func (W *WrapPBCModifier) Apply(f *molvis.Frame, ctx *Context) (*molvis.Frame, error) {
	box := f.Box()
	if box == nil {
		log.Printf("molvis: wrap %s: frame has no simulation box, passing through", W.ID())
		return f, nil
	}
	at := f.Block(molvis.AtomsBlock)
	if at == nil {
		log.Printf("molvis: wrap %s: frame has no atoms block, passing through", W.ID())
		return f, nil
	}
	x := at.ColumnF32(molvis.ColX)
	y := at.ColumnF32(molvis.ColY)
	z := at.ColumnF32(molvis.ColZ)
	if x == nil || y == nil || z == nil {
		log.Printf("molvis: wrap %s: frame lacks x/y/z columns, passing through", W.ID())
		return f, nil
	}
	n := at.Rows()

	buf := W.arena.Get(3 * n)
	defer W.arena.Put(buf)
	for i := 0; i < n; i++ {
		buf[3*i] = float64(x[i])
		buf[3*i+1] = float64(y[i])
		buf[3*i+2] = float64(z[i])
	}
	if err := box.Wrap(buf); err != nil {
		return nil, errDecorate(err, "WrapPBC.Apply")
	}
	nx := make([]float32, n)
	ny := make([]float32, n)
	nz := make([]float32, n)
	for i := 0; i < n; i++ {
		nx[i] = float32(buf[3*i])
		ny[i] = float32(buf[3*i+1])
		nz[i] = float32(buf[3*i+2])
	}

	newAt := at.Clone()
	newAt.SetF32(molvis.ColX, nx)
	newAt.SetF32(molvis.ColY, ny)
	newAt.SetF32(molvis.ColZ, nz)
	out := molvis.NewFrame()
	out.SetBlock(molvis.AtomsBlock, newAt)
	if bo := f.Block(molvis.BondsBlock); bo != nil {
		out.SetBlock(molvis.BondsBlock, bo)
	}
	out.SetBox(box)
	return out, nil
}
