/*
 * frame.go, part of molvis.
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

import "fmt"

/**Note: Functions here return errors for things that can go wrong with user data
 * (mismatched column lenghts, say) but panic when asked something of a nil block
 * or frame. These are "fundamental" objects: if one of them is nil the program is
 * way-most likely wrong already and should crash.**/

// Names of the blocks a Frame can carry.
const (
	AtomsBlock = "atoms"
	BondsBlock = "bonds"
)

// Column names of the atoms block. Only X, Y and Z are required for
// geometric work; everything else is optional.
const (
	ColX          = "x"
	ColY          = "y"
	ColZ          = "z"
	ColElement    = "element"
	ColVX         = "vx"
	ColVY         = "vy"
	ColVZ         = "vz"
	ColOccupancy  = "occupancy"
	ColTempFactor = "tempFactor"
	ColCharge     = "charge"
)

// Column names of the bonds block.
const (
	ColBondI     = "i"
	ColBondJ     = "j"
	ColBondOrder = "order"
)

// AtomF32Cols lists every float32 column an atoms block may carry, in the
// order in which they are copied during compaction.
var AtomF32Cols = []string{ColX, ColY, ColZ, ColVX, ColVY, ColVZ, ColOccupancy, ColTempFactor, ColCharge}

// Block is a named columnar table inside a Frame. Each column is typed and
// has exactly Rows() entries. Asking for an absent column returns nil, never
// panics: a pipeline must tolerate heterogeneous frames across a trajectory.
type Block struct {
	rows int
	f32  map[string][]float32
	u32  map[string][]uint32
	u8   map[string][]uint8
	str  map[string][]string
}

// NewBlock returns an empty block with the given number of rows.
func NewBlock(rows int) *Block {
	if rows < 0 {
		panic("molvis: negative row count for a Block")
	}
	return &Block{
		rows: rows,
		f32:  make(map[string][]float32),
		u32:  make(map[string][]uint32),
		u8:   make(map[string][]uint8),
		str:  make(map[string][]string),
	}
}

// Rows returns the number of rows in the block.
func (B *Block) Rows() int {
	if B == nil {
		panic("molvis: Rows called on a nil Block")
	}
	return B.rows
}

// ColumnF32 returns the named float32 column, or nil if the block does not
// have it.
func (B *Block) ColumnF32(name string) []float32 {
	return B.f32[name]
}

// ColumnU32 returns the named uint32 column, or nil if the block does not
// have it.
func (B *Block) ColumnU32(name string) []uint32 {
	return B.u32[name]
}

// ColumnU8 returns the named uint8 column, or nil if the block does not
// have it.
func (B *Block) ColumnU8(name string) []uint8 {
	return B.u8[name]
}

// ColumnStrings returns the named string column, or nil if the block does
// not have it.
func (B *Block) ColumnStrings(name string) []string {
	return B.str[name]
}

// SetF32 sets the named float32 column. The column must have exactly as many
// entries as the block has rows.
func (B *Block) SetF32(name string, data []float32) error {
	if len(data) != B.rows {
		return CError{fmt.Sprintf("Column %s: %d values given but the block has %d rows", name, len(data), B.rows), []string{"SetF32"}}
	}
	B.f32[name] = data
	return nil
}

// SetU32 sets the named uint32 column, which must match the block's row count.
func (B *Block) SetU32(name string, data []uint32) error {
	if len(data) != B.rows {
		return CError{fmt.Sprintf("Column %s: %d values given but the block has %d rows", name, len(data), B.rows), []string{"SetU32"}}
	}
	B.u32[name] = data
	return nil
}

// SetU8 sets the named uint8 column, which must match the block's row count.
func (B *Block) SetU8(name string, data []uint8) error {
	if len(data) != B.rows {
		return CError{fmt.Sprintf("Column %s: %d values given but the block has %d rows", name, len(data), B.rows), []string{"SetU8"}}
	}
	B.u8[name] = data
	return nil
}

// SetStrings sets the named string column, which must match the block's row count.
func (B *Block) SetStrings(name string, data []string) error {
	if len(data) != B.rows {
		return CError{fmt.Sprintf("Column %s: %d values given but the block has %d rows", name, len(data), B.rows), []string{"SetStrings"}}
	}
	B.str[name] = data
	return nil
}

// Clone returns a deep copy of the block. Modifiers that need to replace a
// column clone the block first, so the frame they were given stays untouched.
func (B *Block) Clone() *Block {
	if B == nil {
		panic("molvis: attempted to clone a nil Block")
	}
	N := NewBlock(B.rows)
	for k, v := range B.f32 {
		N.f32[k] = append([]float32{}, v...)
	}
	for k, v := range B.u32 {
		N.u32[k] = append([]uint32{}, v...)
	}
	for k, v := range B.u8 {
		N.u8[k] = append([]uint8{}, v...)
	}
	for k, v := range B.str {
		N.str[k] = append([]string{}, v...)
	}
	return N
}

// Frame is a columnar snapshot of a molecular structure at one trajectory
// step: at most one atoms block, one optional bonds block, and an optional
// periodic simulation box. Frames are immutable by convention. A modifier
// that changes structure must construct and return a new Frame, never touch
// the one it received. This is the central invariant of the whole pipeline.
type Frame struct {
	blocks map[string]*Block
	box    *Box
}

// NewFrame returns an empty frame, with no blocks and no box.
func NewFrame() *Frame {
	return &Frame{blocks: make(map[string]*Block)}
}

// Block returns the named block, or nil if the frame does not have it.
func (F *Frame) Block(name string) *Block {
	if F == nil {
		panic("molvis: Block called on a nil Frame")
	}
	return F.blocks[name]
}

// SetBlock sets the named block. A nil block removes the entry.
func (F *Frame) SetBlock(name string, b *Block) {
	if b == nil {
		delete(F.blocks, name)
		return
	}
	F.blocks[name] = b
}

// Box returns the frame's simulation box, or nil if the frame is not periodic.
func (F *Frame) Box() *Box {
	return F.box
}

// SetBox associates a simulation box with the frame.
func (F *Frame) SetBox(b *Box) {
	F.box = b
}

// AtomCount returns the number of rows of the atoms block, or 0 if the frame
// has no atoms block.
func (F *Frame) AtomCount() int {
	at := F.Block(AtomsBlock)
	if at == nil {
		return 0
	}
	return at.Rows()
}

// Clone returns a deep copy of the frame. The box is shared, not copied:
// boxes are read-only collaborators whose identity the pipeline preserves.
func (F *Frame) Clone() *Frame {
	if F == nil {
		panic("molvis: attempted to clone a nil Frame")
	}
	N := NewFrame()
	for name, b := range F.blocks {
		N.blocks[name] = b.Clone()
	}
	N.box = F.box
	return N
}
