/*
 * json.go, part of molvis.
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

package molvisjson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	molvis "github.com/molvis/molvis"
	"github.com/molvis/molvis/pipeline"
)

// A ready-to-serialize container for a block. Only the column families the
// block actually has are present in the output.
type Block struct {
	Rows    int                  `json:"rows"`
	F32     map[string][]float32 `json:"f32,omitempty"`
	U32     map[string][]uint32  `json:"u32,omitempty"`
	U8      map[string][]uint8   `json:"u8,omitempty"`
	Strings map[string][]string  `json:"str,omitempty"`
}

// A ready-to-serialize container for a frame.
type Frame struct {
	Blocks map[string]*Block `json:"blocks"`
	Box    []float64         `json:"box,omitempty"`
}

// A ready-to-serialize container for a computed pipeline result: the frame
// plus whatever non-destructive visualization state the modifiers published.
type Result struct {
	Frame      *Frame         `json:"frame"`
	Visibility []bool         `json:"visibility,omitempty"`
	GuideLines [][][3]float64 `json:"guidelines,omitempty"`
	FrameIndex int            `json:"frameindex"`
}

// An easily JSON-serializable error type.
type Error struct {
	deco      []string
	IsError   bool //If this is false (no error) all the other fields will be at their zero-values.
	InDecode  bool //If error, was it in decoding the input?
	InEncode  bool //Was it in preparing the output?
	InProcess bool
	Function  string //which go function gave the error
	Message   string //the error itself
}

// Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

// Decorate will add the dec string to the decoration slice of strings of the
// error, and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}

// Takes an error and some additional info to create a json-marshal-able error
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "decode":
		jerr.InDecode = true
	case "encode":
		jerr.InEncode = true
	default:
		jerr.InProcess = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}

func blockOut(b *molvis.Block, cols []string, strcols []string, u32cols []string, u8cols []string) *Block {
	J := &Block{Rows: b.Rows()}
	for _, c := range cols {
		if v := b.ColumnF32(c); v != nil {
			if J.F32 == nil {
				J.F32 = make(map[string][]float32)
			}
			J.F32[c] = v
		}
	}
	for _, c := range u32cols {
		if v := b.ColumnU32(c); v != nil {
			if J.U32 == nil {
				J.U32 = make(map[string][]uint32)
			}
			J.U32[c] = v
		}
	}
	for _, c := range u8cols {
		if v := b.ColumnU8(c); v != nil {
			if J.U8 == nil {
				J.U8 = make(map[string][]uint8)
			}
			J.U8[c] = v
		}
	}
	for _, c := range strcols {
		if v := b.ColumnStrings(c); v != nil {
			if J.Strings == nil {
				J.Strings = make(map[string][]string)
			}
			J.Strings[c] = v
		}
	}
	return J
}

// FrameOut builds the serializable view of a frame. The column slices of the
// original blocks are shared, not copied, so the frame should not be modified
// until the view has been encoded.
func FrameOut(f *molvis.Frame) *Frame {
	J := &Frame{Blocks: make(map[string]*Block)}
	if at := f.Block(molvis.AtomsBlock); at != nil {
		J.Blocks[molvis.AtomsBlock] = blockOut(at, molvis.AtomF32Cols,
			[]string{molvis.ColElement}, nil, nil)
	}
	if bo := f.Block(molvis.BondsBlock); bo != nil {
		J.Blocks[molvis.BondsBlock] = blockOut(bo, nil, nil,
			[]string{molvis.ColBondI, molvis.ColBondJ}, []string{molvis.ColBondOrder})
	}
	if box := f.Box(); box != nil {
		J.Box = box.Vectors()
	}
	return J
}

// SendFrame encodes a frame and writes it to out as a single line.
func SendFrame(f *molvis.Frame, out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(FrameOut(f)); err != nil {
		return NewError("encode", "SendFrame", err)
	}
	return nil
}

// SendResult encodes a computed pipeline result: the frame, plus the
// visibility mask and guide lines of a slice modifier if one is given.
func SendResult(f *molvis.Frame, frameIndex int, slice *pipeline.SliceModifier, out io.Writer) *Error {
	J := &Result{Frame: FrameOut(f), FrameIndex: frameIndex}
	if slice != nil {
		J.Visibility = slice.VisibilityMask
		for _, g := range slice.GuideLines {
			J.GuideLines = append(J.GuideLines, g.Points)
		}
	}
	enc := json.NewEncoder(out)
	if err := enc.Encode(J); err != nil {
		return NewError("encode", "SendResult", err)
	}
	return nil
}

// DecodeFrame reads one line from the stream and rebuilds a molvis Frame
// from it. Column lengths are validated against the block's row count.
func DecodeFrame(stream *bufio.Reader) (*molvis.Frame, *Error) {
	const funcname = "DecodeFrame"
	line, err := stream.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, NewError("decode", funcname, err)
	}
	J := new(Frame)
	if err := json.Unmarshal(line, J); err != nil {
		return nil, NewError("decode", funcname, err)
	}
	f := molvis.NewFrame()
	for name, jb := range J.Blocks {
		if jb == nil {
			return nil, NewError("decode", funcname, fmt.Errorf("block %q is null", name))
		}
		if jb.Rows < 0 {
			return nil, NewError("decode", funcname, fmt.Errorf("block %q has a negative row count (%d)", name, jb.Rows))
		}
		b := molvis.NewBlock(jb.Rows)
		for c, v := range jb.F32 {
			if err := b.SetF32(c, v); err != nil {
				return nil, NewError("decode", funcname, err)
			}
		}
		for c, v := range jb.U32 {
			if err := b.SetU32(c, v); err != nil {
				return nil, NewError("decode", funcname, err)
			}
		}
		for c, v := range jb.U8 {
			if err := b.SetU8(c, v); err != nil {
				return nil, NewError("decode", funcname, err)
			}
		}
		for c, v := range jb.Strings {
			if err := b.SetStrings(c, v); err != nil {
				return nil, NewError("decode", funcname, err)
			}
		}
		f.SetBlock(name, b)
	}
	if J.Box != nil {
		box, err := molvis.NewBox(J.Box)
		if err != nil {
			return nil, NewError("decode", funcname, err)
		}
		f.SetBox(box)
	}
	return f, nil
}
