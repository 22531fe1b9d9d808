/*
 * mask.go, part of molvis.
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

// SelectionMask is a fixed-size boolean membership vector over atom indices.
// The size is set at construction and never changes. Out-of-range index
// operations are no-ops, not errors: selections are routinely applied to
// frames other than the one they were built from, and must stay harmless.
//
// The set algebra is deliberately not same-size-strict. Union grows to the
// larger operand (missing entries count as unselected) and Intersection
// shrinks to the smaller, so selections over different frame snapshots still
// compose without throwing. No operation mutates its operands; every algebra
// method returns a new mask.
type SelectionMask struct {
	bits []bool
}

// AllMask returns a mask of the given size with every index selected.
func AllMask(n int) *SelectionMask {
	m := &SelectionMask{bits: make([]bool, n)}
	for i := range m.bits {
		m.bits[i] = true
	}
	return m
}

// NoneMask returns a mask of the given size with no index selected.
func NoneMask(n int) *SelectionMask {
	return &SelectionMask{bits: make([]bool, n)}
}

// MaskFromIndices returns a mask of the given size with exactly the listed
// indices selected. Out-of-range indices are ignored.
func MaskFromIndices(n int, idxs []int) *SelectionMask {
	m := NoneMask(n)
	for _, i := range idxs {
		m.SetSelected(i, true)
	}
	return m
}

// Size returns the fixed size of the mask.
func (M *SelectionMask) Size() int {
	return len(M.bits)
}

// IsSelected reports whether index i is selected. Out-of-range indices are
// simply not selected.
func (M *SelectionMask) IsSelected(i int) bool {
	if i < 0 || i >= len(M.bits) {
		return false
	}
	return M.bits[i]
}

// SetSelected sets the membership of index i. Out of range, it does nothing.
func (M *SelectionMask) SetSelected(i int, v bool) {
	if i < 0 || i >= len(M.bits) {
		return
	}
	M.bits[i] = v
}

// Count returns the number of selected indices.
func (M *SelectionMask) Count() int {
	n := 0
	for _, b := range M.bits {
		if b {
			n++
		}
	}
	return n
}

// Indices returns the selected indices in increasing order.
func (M *SelectionMask) Indices() []int {
	ret := make([]int, 0, 8)
	for i, b := range M.bits {
		if b {
			ret = append(ret, i)
		}
	}
	return ret
}

// IsAll reports whether every index of the mask is selected.
func (M *SelectionMask) IsAll() bool {
	for _, b := range M.bits {
		if !b {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no index is selected.
func (M *SelectionMask) IsEmpty() bool {
	for _, b := range M.bits {
		if b {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the mask.
func (M *SelectionMask) Clone() *SelectionMask {
	N := &SelectionMask{bits: make([]bool, len(M.bits))}
	copy(N.bits, M.bits)
	return N
}

// Union returns a new mask selecting every index selected in either operand.
// The result has the size of the larger operand.
func (M *SelectionMask) Union(o *SelectionMask) *SelectionMask {
	size := len(M.bits)
	if len(o.bits) > size {
		size = len(o.bits)
	}
	N := NoneMask(size)
	for i := 0; i < size; i++ {
		N.bits[i] = M.IsSelected(i) || o.IsSelected(i)
	}
	return N
}

// Intersection returns a new mask selecting every index selected in both
// operands. The result has the size of the smaller operand.
func (M *SelectionMask) Intersection(o *SelectionMask) *SelectionMask {
	size := len(M.bits)
	if len(o.bits) < size {
		size = len(o.bits)
	}
	N := NoneMask(size)
	for i := 0; i < size; i++ {
		N.bits[i] = M.bits[i] && o.bits[i]
	}
	return N
}

// Invert returns a new mask of the same size with every membership flipped.
func (M *SelectionMask) Invert() *SelectionMask {
	N := &SelectionMask{bits: make([]bool, len(M.bits))}
	for i, b := range M.bits {
		N.bits[i] = !b
	}
	return N
}
