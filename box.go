/*
 * box.go, part of molvis.
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

package molvis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Box is a periodic simulation cell. The lattice matrix H follows the
// common MD convention: each row is one lattice vector, so a row vector of
// fractional coordinates f maps to cartesian as p = f*H. The inverse is
// computed once, at construction.
type Box struct {
	h    *mat.Dense // 3x3, rows are lattice vectors
	hinv *mat.Dense
}

// NewBox builds a box from 9 values, row-major, the same flat layout used
// for box vectors in trajectory formats. It returns an error if the matrix
// is singular, as a degenerate cell cannot wrap anything.
func NewBox(h []float64) (*Box, error) {
	if len(h) != 9 {
		return nil, CError{fmt.Sprintf("A box takes 9 lattice values, got %d", len(h)), []string{"NewBox"}}
	}
	H := mat.NewDense(3, 3, append([]float64{}, h...))
	var inv mat.Dense
	if err := inv.Inverse(H); err != nil {
		return nil, CError{"Singular lattice matrix: " + err.Error(), []string{"NewBox"}}
	}
	return &Box{h: H, hinv: &inv}, nil
}

// Orthorhombic returns a box with mutually perpendicular lattice vectors of
// the given lengths.
func Orthorhombic(lx, ly, lz float64) (*Box, error) {
	b, err := NewBox([]float64{lx, 0, 0, 0, ly, 0, 0, 0, lz})
	if err != nil {
		return nil, errDecorate(err, "Orthorhombic")
	}
	return b, nil
}

// Vectors returns a fresh flat copy of the 9 lattice values, row-major.
func (B *Box) Vectors() []float64 {
	ret := make([]float64, 9)
	copy(ret, B.h.RawMatrix().Data)
	return ret
}

// Wrap maps every cartesian coordinate in buf into the primary cell, in
// place. buf holds interleaved x,y,z triplets; its length must be a multiple
// of 3. Each point goes to fractional space, each fractional component is
// brought into [0,1), and the point goes back to cartesian.
func (B *Box) Wrap(buf []float64) error {
	if len(buf)%3 != 0 {
		return CError{fmt.Sprintf("Interleaved buffer length %d is not a multiple of 3", len(buf)), []string{"Wrap"}}
	}
	var f [3]float64
	for i := 0; i < len(buf); i += 3 {
		p := buf[i : i+3]
		for c := 0; c < 3; c++ {
			f[c] = p[0]*B.hinv.At(0, c) + p[1]*B.hinv.At(1, c) + p[2]*B.hinv.At(2, c)
			f[c] -= math.Floor(f[c])
		}
		for c := 0; c < 3; c++ {
			p[c] = f[0]*B.h.At(0, c) + f[1]*B.h.At(1, c) + f[2]*B.h.At(2, c)
		}
	}
	return nil
}
