package molvis

import (
	"math"
	"testing"
)

// testFrame builds a small frame with natoms atoms on the x axis and a single
// bond between the first two atoms, when there are at least two.
func testFrame(natoms int) *Frame {
	at := NewBlock(natoms)
	x := make([]float32, natoms)
	y := make([]float32, natoms)
	z := make([]float32, natoms)
	el := make([]string, natoms)
	for i := 0; i < natoms; i++ {
		x[i] = float32(i)
		el[i] = "C"
	}
	at.SetF32(ColX, x)
	at.SetF32(ColY, y)
	at.SetF32(ColZ, z)
	at.SetStrings(ColElement, el)
	f := NewFrame()
	f.SetBlock(AtomsBlock, at)
	if natoms >= 2 {
		bo := NewBlock(1)
		bo.SetU32(ColBondI, []uint32{0})
		bo.SetU32(ColBondJ, []uint32{1})
		bo.SetU8(ColBondOrder, []uint8{1})
		f.SetBlock(BondsBlock, bo)
	}
	return f
}

func TestBlockColumns(Te *testing.T) {
	b := NewBlock(3)
	if err := b.SetF32(ColX, []float32{1, 2}); err == nil {
		Te.Error("SetF32 accepted a short column")
	}
	if err := b.SetF32(ColX, []float32{1, 2, 3}); err != nil {
		Te.Error(err)
	}
	if b.ColumnF32(ColY) != nil {
		Te.Error("Absent column must come back nil")
	}
	if b.ColumnU32(ColBondI) != nil || b.ColumnU8(ColBondOrder) != nil || b.ColumnStrings(ColElement) != nil {
		Te.Error("Absent typed columns must come back nil")
	}
}

func TestFrameBlocks(Te *testing.T) {
	f := testFrame(4)
	if f.AtomCount() != 4 {
		Te.Error("Wrong atom count", f.AtomCount())
	}
	if f.Block("nonesuch") != nil {
		Te.Error("Unknown block must be nil")
	}
	empty := NewFrame()
	if empty.AtomCount() != 0 {
		Te.Error("A frame without atoms block has no atoms")
	}
}

func TestFrameClone(Te *testing.T) {
	f := testFrame(3)
	c := f.Clone()
	c.Block(AtomsBlock).ColumnF32(ColX)[0] = 42
	if f.Block(AtomsBlock).ColumnF32(ColX)[0] == 42 {
		Te.Error("Clone shares column storage with the original")
	}
}

func TestBoxWrapOrthorhombic(Te *testing.T) {
	b, err := Orthorhombic(10, 10, 10)
	if err != nil {
		Te.Fatal(err)
	}
	buf := []float64{12, -3, 0.5}
	if err := b.Wrap(buf); err != nil {
		Te.Fatal(err)
	}
	want := []float64{2, 7, 0.5}
	for i := range want {
		if math.Abs(buf[i]-want[i]) > 1e-9 {
			Te.Errorf("Wrap: coordinate %d is %f, want %f", i, buf[i], want[i])
		}
	}
	if err := b.Wrap([]float64{1, 2}); err == nil {
		Te.Error("Wrap accepted a buffer that is not a multiple of 3")
	}
}

func TestBoxTriclinicWrapStaysFractional(Te *testing.T) {
	//a slanted cell; wrapped points must land in [0,1) fractional space.
	b, err := NewBox([]float64{10, 0, 0, 3, 8, 0, 1, 2, 9})
	if err != nil {
		Te.Fatal(err)
	}
	buf := []float64{25, -14, 3, -100, 42, 7}
	if err := b.Wrap(buf); err != nil {
		Te.Fatal(err)
	}
	//back to fractional by hand to check the range
	vecs := b.Vectors()
	for i := 0; i < len(buf); i += 3 {
		f := solveFrac(vecs, buf[i:i+3])
		for c := 0; c < 3; c++ {
			if f[c] < -1e-9 || f[c] >= 1+1e-9 {
				Te.Errorf("Fractional component %f out of [0,1)", f[c])
			}
		}
	}
}

// solveFrac solves f*H = p for a 3x3 row-vector lattice by Cramer's rule.
func solveFrac(h []float64, p []float64) [3]float64 {
	det := func(m [9]float64) float64 {
		return m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
	}
	//f*H = p is H^T f^T = p^T
	ht := [9]float64{h[0], h[3], h[6], h[1], h[4], h[7], h[2], h[5], h[8]}
	d := det(ht)
	var out [3]float64
	for c := 0; c < 3; c++ {
		m := ht
		m[c] = p[0]
		m[c+3] = p[1]
		m[c+6] = p[2]
		out[c] = det(m) / d
	}
	return out
}

func TestNewBoxRejectsBadInput(Te *testing.T) {
	if _, err := NewBox([]float64{1, 2, 3}); err == nil {
		Te.Error("NewBox accepted a short lattice")
	}
	if _, err := NewBox(make([]float64, 9)); err == nil {
		Te.Error("NewBox accepted a singular lattice")
	}
}

func TestArenaRecyclesAndCounts(Te *testing.T) {
	a := NewXYZArena()
	b1 := a.Get(9)
	if len(b1) != 9 || a.Outstanding() != 1 {
		Te.Fatal("Get did not hand out a counted buffer")
	}
	b1[0] = 3.14
	a.Put(b1)
	if a.Outstanding() != 0 {
		Te.Error("Put did not release the buffer")
	}
	b2 := a.Get(6)
	if b2[0] != 0 {
		Te.Error("Recycled buffer was not zeroed")
	}
	a.Put(b2)
	a.Put(nil) //must be harmless
	if a.Outstanding() != 0 {
		Te.Error("nil Put changed the count")
	}
}
