package stz

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	molvis "github.com/molvis/molvis"
)

const (
	lzwLitwidth int = 8
)

//Write!

// StzW writes frames to a compressed stz trajectory.
type StzW struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

// NewWriter creates an stz trajectory for writing, with natoms atoms per
// frame. Only the first header map is written; a "prec" entry there sets the
// fixed-point precision (decimals) of the coordinates.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*StzW, error) {
	level := 9
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := new(StzW)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	S.h, err = anyNewWriter(name, S.f, level)
	if err != nil {
		return nil, Error{"Can't open compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.natoms = natoms
	S.filename = name
	S.writeable = true
	S.prec = 2 //the default
	if header != nil {
		if p, ok := header["prec"]; ok {
			if prec, err := strconv.Atoi(p); err == nil {
				S.prec = prec
			}
		}
		headerstr := ""
		for k, v := range header {
			headerstr += fmt.Sprintf("%s=%v\n", k, v)
		}
		S.h.Write([]byte(headerstr))
	}
	S.h.Write([]byte(fmt.Sprintf("** %d\n", S.natoms)))
	return S, nil
}

// Len returns the number of atoms per frame.
func (S *StzW) Len() int {
	return S.natoms
}

// WNext writes one frame: its atoms with elements and coordinates, its bonds
// if it has any, and its box if it has one.
func (S *StzW) WNext(frame *molvis.Frame) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if frame == nil {
		return Error{NilFrame, S.filename, []string{"WNext"}, true}
	}
	at := frame.Block(molvis.AtomsBlock)
	if at == nil {
		return Error{NilFrame, S.filename, []string{"WNext"}, true}
	}
	if at.Rows() != S.natoms {
		return Error{fmt.Sprintf("%d atoms given, but %d expected", at.Rows(), S.natoms), S.filename, []string{"WNext"}, true}
	}
	x := at.ColumnF32(molvis.ColX)
	y := at.ColumnF32(molvis.ColY)
	z := at.ColumnF32(molvis.ColZ)
	if x == nil || y == nil || z == nil {
		return Error{"Frame lacks coordinate columns", S.filename, []string{"WNext"}, true}
	}
	el := at.ColumnStrings(molvis.ColElement)
	p := math.Pow(10, float64(S.prec))
	for i := 0; i < S.natoms; i++ {
		sym := "X"
		if el != nil {
			sym = el[i]
		}
		S.h.Write([]byte(fmt.Sprintf("%s %d %d %d\n", sym,
			int(math.RoundToEven(float64(x[i])*p)),
			int(math.RoundToEven(float64(y[i])*p)),
			int(math.RoundToEven(float64(z[i])*p)))))
	}
	if bo := frame.Block(molvis.BondsBlock); bo != nil {
		bi := bo.ColumnU32(molvis.ColBondI)
		bj := bo.ColumnU32(molvis.ColBondJ)
		order := bo.ColumnU8(molvis.ColBondOrder)
		if bi != nil && bj != nil {
			for k := 0; k < bo.Rows(); k++ {
				o := uint8(1)
				if order != nil {
					o = order[k]
				}
				S.h.Write([]byte(fmt.Sprintf("b %d %d %d\n", bi[k], bj[k], o)))
			}
		}
	}
	if box := frame.Box(); box != nil {
		b := box.Vectors()
		S.h.Write([]byte(fmt.Sprintf("* %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f\n",
			b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])))
	} else {
		S.h.Write([]byte("*\n"))
	}
	return nil
}

// Close closes the writer. The object can not be used after this call.
func (S *StzW) Close() {
	if S == nil {
		return
	}
	if S.writeable {
		S.h.Close()
		S.f.Close()
	}
	S.writeable = false
}

//Read!

// StzR reads frames from a compressed stz trajectory. It implements
// pipeline.FrameSource for forward-only access, and the traditional
// Readable/Next/Close trajectory access as well.
type StzR struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
	current  int
}

// why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	closeql func()
	*zstd.Decoder
}

func (s stdql) Close() error {
	s.closeql()
	return nil
}

func anyNewWriter(name string, a io.Writer, level int) (io.WriteCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil
	case 'g':
		return gzip.NewWriterLevel(a, level)
	case 'r':
		return flate.NewWriter(a, level)
	default: // 'z' and anything else
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
}

func anyNewReader(name string, a io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil
	case 'g':
		return gzip.NewReader(a)
	case 'r':
		return flate.NewReader(a), nil
	default:
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &stdql{r.Close, r}, nil
	}
}

// New opens an stz trajectory for reading and returns a pointer to the
// handle, a map with the header metadata (or nil if there is none), and
// error or nil.
func New(name string) (*StzR, map[string]string, error) {
	S := new(StzR)
	S.natoms = -1 //just so we know if things don't work
	var m map[string]string
	var err error
	S.filename = name
	S.f, err = os.Open(S.filename)
	if err != nil {
		return nil, nil, err
	}
	S.z, err = anyNewReader(name, bufio.NewReader(S.f))
	if err != nil {
		return nil, nil, Error{"Can't open decompressor: " + err.Error(), S.filename, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.z)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read header: " + err.Error(), S.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s'", str), S.filename, []string{"New"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s': %s", nat[1], err.Error()), S.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{"Malformed header line: " + str, S.filename, []string{"New"}, true}
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[kv[0]] = kv[1]
	}
	S.prec = 2
	if p, ok := m["prec"]; ok {
		if prec, err := strconv.Atoi(p); err == nil {
			S.prec = prec
		}
	}
	S.readable = true
	return S, m, nil
}

// Readable returns true if it is possible to call Next on the handle.
func (S *StzR) Readable() bool {
	return S.readable
}

// Len returns the number of atoms per frame.
func (S *StzR) Len() int {
	return S.natoms
}

// Next reads and returns the next frame of the trajectory. At the end of the
// trajectory it closes the handle and returns an error implementing
// molvis-style last-frame detection; that error is harmless, the trajectory
// just ended.
func (S *StzR) Next() (*molvis.Frame, error) {
	if !S.readable {
		return nil, Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	mult := math.Pow(10, float64(S.prec))
	x := make([]float32, S.natoms)
	y := make([]float32, S.natoms)
	z := make([]float32, S.natoms)
	el := make([]string, S.natoms)
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadBytes('\n')
		if err != nil {
			//EOF when reading the first atom means a clean end
			if err == io.EOF && i == 0 {
				S.Close()
				return nil, newlastFrameError(S.filename, "Next")
			}
			return nil, Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(strings.TrimSuffix(string(b), "\n"))
		if len(fields) != 4 {
			return nil, Error{"Ill formatted atom line: " + string(b), S.filename, []string{"Next"}, true}
		}
		el[i] = fields[0]
		for c, dst := range []*float32{&x[i], &y[i], &z[i]} {
			v, err := strconv.Atoi(fields[c+1])
			if err != nil {
				return nil, Error{fmt.Sprintf("Can't parse coordinate %d (%s): %s", c, fields[c+1], err.Error()), S.filename, []string{"Next"}, true}
			}
			*dst = float32(float64(v) / mult)
		}
	}
	var bi, bj []uint32
	var order []uint8
	var box *molvis.Box
	for {
		s, err := S.h.ReadString('\n')
		if err != nil {
			return nil, Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(strings.TrimSpace(s))
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "b" {
			if len(fields) != 4 {
				return nil, Error{"Ill formatted bond line: " + s, S.filename, []string{"Next"}, true}
			}
			i, err1 := strconv.Atoi(fields[1])
			j, err2 := strconv.Atoi(fields[2])
			o, err3 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, Error{"Ill formatted bond line: " + s, S.filename, []string{"Next"}, true}
			}
			bi = append(bi, uint32(i))
			bj = append(bj, uint32(j))
			order = append(order, uint8(o))
			continue
		}
		if fields[0] == "*" {
			if len(fields) >= 10 {
				vals := make([]float64, 9)
				ok := true
				for c := 0; c < 9; c++ {
					vals[c], err = strconv.ParseFloat(fields[c+1], 64)
					if err != nil {
						ok = false
						break
					}
				}
				if ok {
					box, err = molvis.NewBox(vals)
					if err != nil {
						box = nil //a broken box is dropped, the frame survives
					}
				}
			}
			break
		}
		return nil, Error{"Wrong content in frame: " + s, S.filename, []string{"Next"}, true}
	}
	at := molvis.NewBlock(S.natoms)
	at.SetF32(molvis.ColX, x)
	at.SetF32(molvis.ColY, y)
	at.SetF32(molvis.ColZ, z)
	at.SetStrings(molvis.ColElement, el)
	frame := molvis.NewFrame()
	frame.SetBlock(molvis.AtomsBlock, at)
	if len(bi) > 0 {
		bo := molvis.NewBlock(len(bi))
		bo.SetU32(molvis.ColBondI, bi)
		bo.SetU32(molvis.ColBondJ, bj)
		bo.SetU8(molvis.ColBondOrder, order)
		frame.SetBlock(molvis.BondsBlock, bo)
	}
	if box != nil {
		frame.SetBox(box)
	}
	S.current++
	return frame, nil
}

// Frame implements pipeline.FrameSource. Access is forward-only: asking for
// an index before the current read position is an error, as compressed
// streams do not rewind.
func (S *StzR) Frame(ctx context.Context, i int) (*molvis.Frame, error) {
	if i < S.current {
		return nil, Error{fmt.Sprintf("Frame %d already read, stz streams do not rewind (at %d)", i, S.current), S.filename, []string{"Frame"}, true}
	}
	for {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		frame, err := S.Next()
		if err != nil {
			return nil, errDecorate(err, "Frame")
		}
		if S.current > i {
			return frame, nil
		}
	}
}

// FrameCount implements pipeline.FrameSource. The count of a compressed
// stream is not known up front.
func (S *StzR) FrameCount() int {
	return -1
}

// Close closes the handle and marks it unreadable.
func (S *StzR) Close() {
	if !S.readable {
		return
	}
	S.z.Close()
	S.f.Close()
	S.readable = false
}

//Errors

// errDecorate is a helper function that asserts that the error implements
// molvis.Error and decorates the error with the caller's name before returning it.
// if used with a non-molvis.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(molvis.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the general structure for stz trajectory errors. It fulfills
// molvis.Error and molvis.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stz file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "stz") associated to the error
func (err Error) Format() string { return "stz" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilFrame       = "Given nil or atomless frame"
	WrongFormat    = "Wrong format in the stz file or frame"
)

// lastFrameError implements molvis.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// lastFrameError does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "stz" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
