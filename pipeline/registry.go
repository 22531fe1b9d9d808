/*
 * registry.go, part of molvis.
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
	"log"
	"sort"
	"sync"
)

// Kind names of the modifiers this package ships. The registry table is
// explicit and statically enumerable on purpose: nothing here depends on
// registration-order side effects at load time.
const (
	KindSlice         = "slice"
	KindHideSelection = "hide-selection"
	KindWrapPBC       = "wrap-pbc"
	KindSelectIndices = "select-indices"
)

// Params is the parameter bag a UI layer hands to a factory. Only the fields
// a given kind cares about need to be set; ID is used by every kind.
// Offset and SlabThickness are pointers because zero is a legal explicit
// value for both: nil leaves the slice in automatic mode, a non-nil value,
// zero included, takes it out of it.
type Params struct {
	ID string
	//Slice
	Offset        *float64
	Normal        [3]float64
	Invert        bool
	IsSlab        bool
	SlabThickness *float64
	//SelectIndices and HideSelection
	Indices []int
	//SelectIndices: store the produced mask under this name, besides
	//making it current. Empty means current-only.
	SelectionName string
	//HideSelection: also consume the context's current selection on Apply.
	ConsumeSelection bool
}

// Factory builds a modifier from a parameter bag.
type Factory func(p Params) Modifier

// Registry maps modifier kind names to factories, so a UI layer can
// instantiate modifiers dynamically by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every modifier kind of this
// package registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindSlice, func(p Params) Modifier {
		s := NewSlice(p.ID)
		if p.Normal != ([3]float64{}) {
			s.SetNormal(p.Normal)
		}
		if p.Offset != nil {
			s.SetOffset(*p.Offset)
		}
		s.SetInvert(p.Invert)
		s.SetSlab(p.IsSlab)
		if p.SlabThickness != nil {
			s.SetSlabThickness(*p.SlabThickness)
		}
		return s
	})
	r.Register(KindHideSelection, func(p Params) Modifier {
		h := NewHideSelection(p.ID)
		h.SetConsumeSelection(p.ConsumeSelection)
		if len(p.Indices) > 0 {
			h.HideIndices(p.Indices)
		}
		return h
	})
	r.Register(KindWrapPBC, func(p Params) Modifier {
		return NewWrapPBC(p.ID, nil)
	})
	r.Register(KindSelectIndices, func(p Params) Modifier {
		s := NewSelectByIndices(p.ID, p.Indices)
		s.StoreAs(p.SelectionName)
		return s
	})
	return r
}

// Register adds or replaces the factory for a kind.
func (R *Registry) Register(kind string, f Factory) {
	R.mu.Lock()
	R.factories[kind] = f
	R.mu.Unlock()
}

// Unregister removes the factory for a kind, reporting whether it existed.
func (R *Registry) Unregister(kind string) bool {
	R.mu.Lock()
	defer R.mu.Unlock()
	if _, ok := R.factories[kind]; !ok {
		return false
	}
	delete(R.factories, kind)
	return true
}

// Create builds a modifier of the given kind. Unknown kinds return nil with
// a logged warning rather than an error: it is the UI layer's job to decide
// how to report a bad kind name to the user.
func (R *Registry) Create(kind string, p Params) Modifier {
	R.mu.RLock()
	f, ok := R.factories[kind]
	R.mu.RUnlock()
	if !ok {
		log.Printf("molvis: unknown modifier kind %q requested from the registry", kind)
		return nil
	}
	return f(p)
}

// Kinds returns the registered kind names, sorted.
func (R *Registry) Kinds() []string {
	R.mu.RLock()
	defer R.mu.RUnlock()
	ret := make([]string, 0, len(R.factories))
	for k := range R.factories {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// IsRegistered reports whether a kind is known.
func (R *Registry) IsRegistered(kind string) bool {
	R.mu.RLock()
	defer R.mu.RUnlock()
	_, ok := R.factories[kind]
	return ok
}
