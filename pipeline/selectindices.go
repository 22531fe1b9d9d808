/*
 * selectindices.go, part of molvis.
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
	"sort"
	"strconv"
	"strings"

	molvis "github.com/molvis/molvis"
)

// SelectByIndicesModifier makes an explicit list of atom indices the current
// selection of the run, for downstream selection-sensitive modifiers to
// consume. It does not touch the frame. Selection producers like this one
// must come before their consumers in the chain; that ordering belongs to
// the user.
type SelectByIndicesModifier struct {
	Base
	indices []int
	storeAs string
}

// NewSelectByIndices returns a modifier selecting the given indices.
func NewSelectByIndices(id string, indices []int) *SelectByIndicesModifier {
	s := &SelectByIndicesModifier{
		Base:    NewBase(id, "Select by indices", SelectionInsensitive),
		indices: append([]int{}, indices...),
	}
	sort.Ints(s.indices)
	return s
}

// SetIndices replaces the selected index list.
func (S *SelectByIndicesModifier) SetIndices(indices []int) {
	S.indices = append([]int{}, indices...)
	sort.Ints(S.indices)
}

// StoreAs makes Apply also record the produced mask in the context's
// selection set under the given name. An empty name disables storing.
func (S *SelectByIndicesModifier) StoreAs(name string) {
	S.storeAs = name
}

// Validate rejects indices outside the frame's atom range: an out-of-range
// selection is a configuration error, and the pipeline will skip this stage
// for the run rather than guess.
func (S *SelectByIndicesModifier) Validate(f *molvis.Frame, ctx *Context) Validation {
	n := f.AtomCount()
	if n == 0 {
		return Invalid("frame has no atoms block to select from")
	}
	for _, i := range S.indices {
		if i < 0 || i >= n {
			return Invalid(fmt.Sprintf("selection index %d out of range [0, %d)", i, n))
		}
	}
	return OK()
}

// Apply sets the context's current selection. The frame passes through
// untouched.
func (S *SelectByIndicesModifier) Apply(f *molvis.Frame, ctx *Context) (*molvis.Frame, error) {
	mask := molvis.MaskFromIndices(f.AtomCount(), S.indices)
	ctx.Current = mask
	if S.storeAs != "" {
		ctx.SelectionSet[S.storeAs] = mask
	}
	return f, nil
}

// CacheKey appends the index list and the storage name to the base key.
func (S *SelectByIndicesModifier) CacheKey() string {
	parts := make([]string, len(S.indices))
	for i, v := range S.indices {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s:idx=%s:as=%s", S.Base.CacheKey(), strings.Join(parts, ","), S.storeAs)
}
