/*
 * context.go, part of molvis.
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
	molvis "github.com/molvis/molvis"
)

// Context is the per-run mutable state threaded through a modifier chain.
// It is owned exclusively by one Compute invocation: successive modifiers
// read and may overwrite Current, and that is how selection-producing stages
// talk to selection-consuming ones downstream. A Context must never be shared
// between concurrent Compute calls.
type Context struct {
	//SelectionSet holds named selections. Insertion order is irrelevant.
	SelectionSet map[string]*molvis.SelectionMask
	//Current is the selection implicitly consumed by selection-sensitive
	//modifiers.
	Current *molvis.SelectionMask
	//FrameIndex is the trajectory position this run started from.
	FrameIndex int
}

// DefaultContext builds the context a Compute run starts with: an empty
// selection set and an all-selected current mask sized to the frame's atom
// count.
func DefaultContext(f *molvis.Frame, frameIndex int) *Context {
	return &Context{
		SelectionSet: make(map[string]*molvis.SelectionMask),
		Current:      molvis.AllMask(f.AtomCount()),
		FrameIndex:   frameIndex,
	}
}

// PushSelectionScope returns a shallow-derived context with Current replaced
// by the given mask. The receiver is not modified, so a caller can run some
// stages under a temporarily narrowed selection without losing the outer one.
// The selection set is shared, not copied.
func (C *Context) PushSelectionScope(m *molvis.SelectionMask) *Context {
	return &Context{
		SelectionSet: C.SelectionSet,
		Current:      m,
		FrameIndex:   C.FrameIndex,
	}
}
