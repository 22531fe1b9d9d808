/*
 * hide.go, part of molvis.
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

// HideSelectionModifier deletes atoms from the frame: survivors are
// compacted in their original relative order, bonds that reference a hidden
// atom are dropped, and surviving bond endpoints are rewritten through the
// index remap. This is the one modifier of the set that performs genuine
// structural mutation, and it always does so on a freshly built Frame.
//
// The hidden-index set is the modifier's persistent state, mutated through
// HideIndices and ShowAll between runs; given that state, Apply is a pure
// projection of its input frame. With consume mode on, Apply additionally
// hides the context's current selection, which is how a selection producer
// earlier in the chain drives deletion.
type HideSelectionModifier struct {
	Base
	hidden  map[int]struct{}
	consume bool
}

// NewHideSelection returns a modifier with an empty hidden set.
func NewHideSelection(id string) *HideSelectionModifier {
	return &HideSelectionModifier{
		Base:   NewBase(id, "Hide selection", SelectionSensitive),
		hidden: make(map[int]struct{}),
	}
}

// SetConsumeSelection makes Apply hide the context's current selection in
// addition to the persistent hidden set.
func (H *HideSelectionModifier) SetConsumeSelection(v bool) {
	H.consume = v
}

// HideIndices adds indices to the hidden set. It reports whether the set
// changed; hiding an already hidden index is idempotent.
func (H *HideSelectionModifier) HideIndices(indices []int) bool {
	changed := false
	for _, i := range indices {
		if _, ok := H.hidden[i]; !ok {
			H.hidden[i] = struct{}{}
			changed = true
		}
	}
	return changed
}

// ShowAll empties the hidden set, reporting whether it held anything.
func (H *HideSelectionModifier) ShowAll() bool {
	if len(H.hidden) == 0 {
		return false
	}
	H.hidden = make(map[int]struct{})
	return true
}

// HiddenCount returns the size of the persistent hidden set.
func (H *HideSelectionModifier) HiddenCount() int {
	return len(H.hidden)
}

// CacheKey appends the sorted hidden set and the consume flag to the base
// key.
func (H *HideSelectionModifier) CacheKey() string {
	idxs := make([]int, 0, len(H.hidden))
	for i := range H.hidden {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	parts := make([]string, len(idxs))
	for i, v := range idxs {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s:hide=%s:consume=%t", H.Base.CacheKey(), strings.Join(parts, ","), H.consume)
}

// Apply returns a compacted frame without the hidden atoms. When nothing
// relevant is hidden the input frame itself is returned, with no allocation.
func (H *HideSelectionModifier) Apply(f *molvis.Frame, ctx *Context) (*molvis.Frame, error) {
	at := f.Block(molvis.AtomsBlock)
	if at == nil {
		return f, nil
	}
	n := at.Rows()

	hidden := H.hidden
	if H.consume && ctx != nil && ctx.Current != nil && !ctx.Current.IsEmpty() {
		hidden = make(map[int]struct{}, len(H.hidden))
		for i := range H.hidden {
			hidden[i] = struct{}{}
		}
		for _, i := range ctx.Current.Indices() {
			hidden[i] = struct{}{}
		}
	}
	relevant := false
	for i := range hidden {
		if i >= 0 && i < n {
			relevant = true
			break
		}
	}
	if !relevant {
		return f, nil
	}

	//one pass building the old->new remap; -1 marks a hidden atom
	indexMap := make([]int, n)
	newCount := 0
	for i := 0; i < n; i++ {
		if _, hid := hidden[i]; hid {
			indexMap[i] = -1
			continue
		}
		indexMap[i] = newCount
		newCount++
	}
	out := molvis.NewFrame()
	out.SetBox(f.Box())
	if newCount == 0 {
		return out, nil
	}

	newAt := molvis.NewBlock(newCount)
	for _, name := range molvis.AtomF32Cols {
		col := at.ColumnF32(name)
		if col == nil {
			continue
		}
		dst := make([]float32, newCount)
		for old, nw := range indexMap {
			if nw >= 0 {
				dst[nw] = col[old]
			}
		}
		if err := newAt.SetF32(name, dst); err != nil {
			return nil, errDecorate(err, "HideSelection.Apply")
		}
	}
	if el := at.ColumnStrings(molvis.ColElement); el != nil {
		dst := make([]string, newCount)
		for old, nw := range indexMap {
			if nw >= 0 {
				dst[nw] = el[old]
			}
		}
		if err := newAt.SetStrings(molvis.ColElement, dst); err != nil {
			return nil, errDecorate(err, "HideSelection.Apply")
		}
	}
	out.SetBlock(molvis.AtomsBlock, newAt)

	if bo := f.Block(molvis.BondsBlock); bo != nil {
		if nb := remapBonds(bo, indexMap, n); nb != nil {
			out.SetBlock(molvis.BondsBlock, nb)
		}
	}
	return out, nil
}

// remapBonds keeps the bonds whose both endpoints survive, rewriting their
// endpoints through indexMap. It returns nil when no bond survives, or when
// the block lacks endpoint columns. No bond may reference a hidden atom
// after compaction.
func remapBonds(bo *molvis.Block, indexMap []int, natoms int) *molvis.Block {
	bi := bo.ColumnU32(molvis.ColBondI)
	bj := bo.ColumnU32(molvis.ColBondJ)
	if bi == nil || bj == nil {
		return nil
	}
	order := bo.ColumnU8(molvis.ColBondOrder)
	var ni, nj []uint32
	var norder []uint8
	for k := 0; k < bo.Rows(); k++ {
		i, j := int(bi[k]), int(bj[k])
		if i >= natoms || j >= natoms {
			continue //malformed bond, silently dropped with its atoms
		}
		if indexMap[i] < 0 || indexMap[j] < 0 {
			continue
		}
		ni = append(ni, uint32(indexMap[i]))
		nj = append(nj, uint32(indexMap[j]))
		if order != nil {
			norder = append(norder, order[k])
		} else {
			norder = append(norder, 1)
		}
	}
	if len(ni) == 0 {
		return nil
	}
	nb := molvis.NewBlock(len(ni))
	nb.SetU32(molvis.ColBondI, ni)
	nb.SetU32(molvis.ColBondJ, nj)
	nb.SetU8(molvis.ColBondOrder, norder)
	return nb
}
