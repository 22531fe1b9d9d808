/*
 * plot_test.go, part of molvis.
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

package visplot

import (
	"math"
	"os"
	"testing"

	molvis "github.com/molvis/molvis"
)

func testFrame(xs ...float32) *molvis.Frame {
	at := molvis.NewBlock(len(xs))
	y := make([]float32, len(xs))
	z := make([]float32, len(xs))
	at.SetF32(molvis.ColX, xs)
	at.SetF32(molvis.ColY, y)
	at.SetF32(molvis.ColZ, z)
	f := molvis.NewFrame()
	f.SetBlock(molvis.AtomsBlock, at)
	return f
}

func TestPlaneDistances(Te *testing.T) {
	f := testFrame(-5, 0, 5)
	//a scaled normal must give the same distances as the unit one
	d, err := PlaneDistances(f, [3]float64{2, 0, 0}, 1)
	if err != nil {
		Te.Fatal(err)
	}
	want := []float64{-6, -1, 4}
	for i := range want {
		if math.Abs(d[i]-want[i]) > 1e-6 {
			Te.Errorf("Distance %d: want %f, got %f", i, want[i], d[i])
		}
	}
	if _, err := PlaneDistances(molvis.NewFrame(), [3]float64{1, 0, 0}, 0); err == nil {
		Te.Error("An atomless frame should be an error")
	}
}

func TestPlaneDistanceHistogram(Te *testing.T) {
	f := testFrame(-5, -1, 0, 1, 5, 5.5)
	name := Te.TempDir() + "/hist"
	err := PlaneDistanceHistogram(f, [3]float64{1, 0, 0}, 0, 8, "Test histogram", name)
	if err != nil {
		Te.Error(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Errorf("Plot file not produced: %v", err)
	}
}

func TestVisibilityProfile(Te *testing.T) {
	f := testFrame(-5, -1, 0, 1, 5)
	name := Te.TempDir() + "/profile"
	err := VisibilityProfile(f, [3]float64{1, 0, 0}, 2, 20, "Test profile", name)
	if err != nil {
		Te.Error(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Errorf("Plot file not produced: %v", err)
	}
}
