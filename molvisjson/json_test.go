/*
 * json_test.go, part of molvis.
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
	"bytes"
	"encoding/json"
	"testing"

	molvis "github.com/molvis/molvis"
	"github.com/molvis/molvis/pipeline"
)

func testFrame() *molvis.Frame {
	at := molvis.NewBlock(3)
	at.SetF32(molvis.ColX, []float32{-1, 0, 1})
	at.SetF32(molvis.ColY, []float32{0, 0.5, 1})
	at.SetF32(molvis.ColZ, []float32{0, 0, 0})
	at.SetStrings(molvis.ColElement, []string{"O", "H", "H"})
	bo := molvis.NewBlock(2)
	bo.SetU32(molvis.ColBondI, []uint32{0, 0})
	bo.SetU32(molvis.ColBondJ, []uint32{1, 2})
	bo.SetU8(molvis.ColBondOrder, []uint8{1, 1})
	f := molvis.NewFrame()
	f.SetBlock(molvis.AtomsBlock, at)
	f.SetBlock(molvis.BondsBlock, bo)
	box, _ := molvis.Orthorhombic(20, 20, 20)
	f.SetBox(box)
	return f
}

func TestFrameRoundTrip(Te *testing.T) {
	f := testFrame()
	buf := new(bytes.Buffer)
	if jerr := SendFrame(f, buf); jerr != nil {
		Te.Fatal(jerr)
	}
	got, jerr := DecodeFrame(bufio.NewReader(buf))
	if jerr != nil {
		Te.Fatal(jerr)
	}
	at := got.Block(molvis.AtomsBlock)
	if at == nil || at.Rows() != 3 {
		Te.Fatal("Atoms block not recovered")
	}
	x := at.ColumnF32(molvis.ColX)
	if x[0] != -1 || x[2] != 1 {
		Te.Errorf("Coordinates not recovered: %v", x)
	}
	if el := at.ColumnStrings(molvis.ColElement); el[0] != "O" {
		Te.Errorf("Elements not recovered: %v", el)
	}
	bo := got.Block(molvis.BondsBlock)
	if bo == nil || bo.Rows() != 2 || bo.ColumnU32(molvis.ColBondJ)[1] != 2 {
		Te.Error("Bonds not recovered")
	}
	if got.Box() == nil {
		Te.Fatal("Box not recovered")
	}
	v := got.Box().Vectors()
	if v[0] != 20 || v[4] != 20 || v[8] != 20 {
		Te.Errorf("Box vectors not recovered: %v", v)
	}
}

func TestFrameNoBox(Te *testing.T) {
	f := testFrame()
	f.SetBox(nil)
	buf := new(bytes.Buffer)
	if jerr := SendFrame(f, buf); jerr != nil {
		Te.Fatal(jerr)
	}
	got, jerr := DecodeFrame(bufio.NewReader(buf))
	if jerr != nil {
		Te.Fatal(jerr)
	}
	if got.Box() != nil {
		Te.Error("A frame without a box should round trip without one")
	}
}

func TestSendResult(Te *testing.T) {
	f := testFrame()
	s := pipeline.NewSlice("s1")
	s.SetOffset(0)
	ctx := pipeline.DefaultContext(f, 0)
	if _, err := s.Apply(f, ctx); err != nil {
		Te.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if jerr := SendResult(f, 7, s, buf); jerr != nil {
		Te.Fatal(jerr)
	}
	var J Result
	if err := json.Unmarshal(buf.Bytes(), &J); err != nil {
		Te.Fatal(err)
	}
	if J.FrameIndex != 7 {
		Te.Errorf("Frame index not carried: %d", J.FrameIndex)
	}
	if len(J.Visibility) != 3 {
		Te.Fatalf("Visibility mask not carried: %v", J.Visibility)
	}
	//default normal is +x with the plane at offset 0, so only x=1 survives
	want := []bool{false, false, true}
	for i, v := range want {
		if J.Visibility[i] != v {
			Te.Errorf("Visibility[%d]: want %t, got %t", i, v, J.Visibility[i])
		}
	}
	if len(J.GuideLines) == 0 {
		Te.Error("Guide lines not carried")
	}
}

func TestDecodeMalformed(Te *testing.T) {
	//bad input from the other side of the pipe must come back as a
	//serializable Error, never take the bridge down
	for _, line := range []string{
		`{"blocks":{"atoms":null}}`,
		`{"blocks":{"atoms":{"rows":-1}}}`,
		`{"blocks":{"atoms":{"rows":2,"f32":{"x":[1,2,3]}}}}`,
		`{"box":[1,2,3]}`,
		`not json at all`,
	} {
		_, jerr := DecodeFrame(bufio.NewReader(bytes.NewBufferString(line + "\n")))
		if jerr == nil {
			Te.Errorf("Decoding %s should fail", line)
			continue
		}
		if !jerr.IsError || !jerr.InDecode {
			Te.Errorf("Decoding %s: error not marked as a decode error: %+v", line, jerr)
		}
	}
}

func TestErrorMarshal(Te *testing.T) {
	jerr := NewError("decode", "TestErrorMarshal", bytes.ErrTooLarge)
	b := jerr.Marshal()
	var back Error
	if err := json.Unmarshal(b, &back); err != nil {
		Te.Fatal(err)
	}
	if !back.IsError || !back.InDecode || back.Function != "TestErrorMarshal" {
		Te.Errorf("Error did not survive serialization: %+v", back)
	}
}
