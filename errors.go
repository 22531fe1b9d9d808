/*
 * errors.go, part of molvis.
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

// Error is the interface for errors that all packages in this library implement.
// The Decorate method allows to add and retrieve info from the error, without
// changing its type or wrapping it around something else. The decorate slice
// should contain a list of the functions in the calling stack, plus, for each
// function, any relevant information, or nothing. If passed an empty string,
// Decorate should just return the current value, not add the empty string to
// the slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// TrajError is the interface for errors in frame sources and trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors
// (i.e. last frame) so they can be filtered in a typeswitch that looks for
// this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}

// CError is the concrete error type of the molvis package.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

// Decorate adds the dec string to the decoration slice of strings of the error,
// and returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// NewError returns a CError with the given message, already decorated with the
// name of the calling function.
func NewError(msg, caller string) CError {
	return CError{msg, []string{caller}}
}

// errDecorate asserts that err implements Error and decorates it with the
// caller's name before returning it. It panics when used with anything that is
// not a molvis Error, as that indicates the program itself is wrong.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
