/*
 * plot.go, part of molvis.
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

// Package visplot produces quick diagnostic plots for frames and slices. It
// is meant for picking sensible slice parameters: look at the histogram of
// plane distances, then set the offset and thickness where the atoms are.
package visplot

import (
	"fmt"
	"math"

	molvis "github.com/molvis/molvis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlaneDistances returns the signed distance of every atom in the frame to
// the plane with the given (not necessarily unit) normal and offset. The
// offset is along the normalized normal, as in the slice modifier.
func PlaneDistances(f *molvis.Frame, normal [3]float64, offset float64) ([]float64, error) {
	at := f.Block(molvis.AtomsBlock)
	if at == nil || at.Rows() == 0 {
		return nil, Error{"Frame has no atoms", "", []string{"PlaneDistances"}}
	}
	x := at.ColumnF32(molvis.ColX)
	y := at.ColumnF32(molvis.ColY)
	z := at.ColumnF32(molvis.ColZ)
	if x == nil || y == nil || z == nil {
		return nil, Error{"Frame lacks coordinate columns", "", []string{"PlaneDistances"}}
	}
	norm := math.Sqrt(normal[0]*normal[0] + normal[1]*normal[1] + normal[2]*normal[2])
	if norm < 1e-6 {
		norm = 1
	}
	dists := make([]float64, at.Rows())
	for i := range dists {
		d := (float64(x[i])*normal[0] + float64(y[i])*normal[1] + float64(z[i])*normal[2]) / norm
		dists[i] = d - offset
	}
	return dists, nil
}

// PlaneDistanceHistogram plots the histogram of atom distances to a slice
// plane and saves it as plotname.png. nbins<=0 lets the plotter choose.
func PlaneDistanceHistogram(f *molvis.Frame, normal [3]float64, offset float64, nbins int, title, plotname string) error {
	dists, err := PlaneDistances(f, normal, offset)
	if err != nil {
		return errDecorate(err, "PlaneDistanceHistogram")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance to plane"
	p.Y.Label.Text = "Atoms"
	if nbins <= 0 {
		nbins = 16
	}
	h, err2 := plotter.NewHist(plotter.Values(dists), nbins)
	if err2 != nil {
		return Error{err2.Error(), plotname, []string{"PlaneDistanceHistogram"}}
	}
	p.Add(h)
	filename := fmt.Sprintf("%s.png", plotname)
	if err2 := p.Save(5*vg.Inch, 5*vg.Inch, filename); err2 != nil {
		return Error{err2.Error(), plotname, []string{"PlaneDistanceHistogram"}}
	}
	return nil
}

// VisibilityProfile plots, along the slice normal, how many atoms a slab of
// the given thickness would keep at each offset, over nsteps offsets spanning
// the data. It helps finding the slab that shows a feature of interest.
func VisibilityProfile(f *molvis.Frame, normal [3]float64, thickness float64, nsteps int, title, plotname string) error {
	dists, err := PlaneDistances(f, normal, 0)
	if err != nil {
		return errDecorate(err, "VisibilityProfile")
	}
	if nsteps < 2 {
		nsteps = 50
	}
	min, max := dists[0], dists[0]
	for _, d := range dists {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	pts := make(plotter.XYs, nsteps)
	for s := 0; s < nsteps; s++ {
		off := min + (max-min)*float64(s)/float64(nsteps-1)
		count := 0
		for _, d := range dists {
			if math.Abs(d-off) <= thickness/2 {
				count++
			}
		}
		pts[s].X = off
		pts[s].Y = float64(count)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Slab offset"
	p.Y.Label.Text = "Visible atoms"
	l, err2 := plotter.NewLine(pts)
	if err2 != nil {
		return Error{err2.Error(), plotname, []string{"VisibilityProfile"}}
	}
	p.Add(l)
	filename := fmt.Sprintf("%s.png", plotname)
	if err2 := p.Save(5*vg.Inch, 5*vg.Inch, filename); err2 != nil {
		return Error{err2.Error(), plotname, []string{"VisibilityProfile"}}
	}
	return nil
}

//Errors

// Error is the error type of the visplot package. It fulfills molvis.Error.
type Error struct {
	message  string
	plotname string //the plot being produced, or empty string if none.
	deco     []string
}

func (err Error) Error() string {
	if err.plotname == "" {
		return err.message
	}
	return fmt.Sprintf("plot %s error: %s", err.plotname, err.message)
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func errDecorate(err error, caller string) error {
	err2 := err.(molvis.Error)
	err2.Decorate(caller)
	return err2
}
