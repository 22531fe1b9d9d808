/*
 * doc.go, part of molvis.
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

/*
Package molvis is the main package of the molvis library. It provides the columnar
Frame/Block snapshot model for molecular structures (atoms, bonds, periodic boxes),
boolean selection masks over atom indices, and the shared error scheme used by all
subpackages.

		**molvis Capabilities**


	    Columnar, immutable-by-convention Frame snapshots with typed columns
		(float32 coordinates and per-atom scalars, uint32 bond endpoints,
		uint8 bond orders, string element symbols).

	    Periodic simulation boxes with a full lattice matrix, including
		coordinate wrapping into the primary cell.

	    Fixed-size boolean selection masks with set algebra (union,
		intersection, inversion) that compose across frames of different
		sizes without errors.

	    A non-destructive modifier pipeline over Frames (subpackage pipeline):
		slicing planes/slabs with guide geometry, selection-driven atom and
		bond deletion with index remapping, and periodic-boundary wrapping.

	    Compressed columnar trajectory reading and writing (subpackage
		traj/stz) usable as a pipeline frame source.

	    JSON encoding of frames and pipeline output for widget frontends
		(subpackage molvisjson).

The whole subsystem is sequential on purpose: modifiers that produce selections
must observe the effects of the ones before them, so there is no reordering or
parallel application. The only suspension point is fetching a frame from a
FrameSource.
*/
package molvis
