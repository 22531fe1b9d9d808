/*
 * modifier.go, part of molvis.
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
	"fmt"

	molvis "github.com/molvis/molvis"
)

// Category decides the default selection a modifier operates over when it has
// no explicit target of its own.
type Category int

const (
	//SelectionSensitive modifiers default to the context's current selection.
	SelectionSensitive Category = iota
	//SelectionInsensitive modifiers default to all atoms.
	SelectionInsensitive
	//Data modifiers ignore selections entirely and manipulate frame
	//structure or identity.
	Data
)

func (c Category) String() string {
	switch c {
	case SelectionSensitive:
		return "selection-sensitive"
	case SelectionInsensitive:
		return "selection-insensitive"
	case Data:
		return "data"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Validation is the result of a modifier's Validate. An invalid modifier is
// skipped for that run, never fatal: the pipeline must keep producing a
// usable frame even with a misconfigured stage in the chain.
type Validation struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// OK returns a passing validation.
func OK() Validation {
	return Validation{Valid: true}
}

// Invalid returns a failing validation carrying the given errors.
func Invalid(errs ...string) Validation {
	return Validation{Errors: errs}
}

// Modifier is one transformation stage of a pipeline. Apply is the sole
// mutation point and must not mutate the frame it receives; it may mutate the
// context's selections, which is how selection producers talk to consumers
// downstream. Apply must be idempotent for unchanged parameters and input, or
// cache-key based memoization by callers would be unsound. Validate must be a
// pure check with no side effects.
type Modifier interface {
	ID() string
	Name() string
	Category() Category
	Enabled() bool
	SetEnabled(bool)
	//CacheKey summarizes id, enabled and every tunable parameter, in a
	//deterministic order. Callers compare keys to skip recomputation.
	CacheKey() string
	Validate(f *molvis.Frame, ctx *Context) Validation
	Apply(f *molvis.Frame, ctx *Context) (*molvis.Frame, error)
}

// Base carries the metadata common to all modifiers and provides the default
// Validate (always passes) and CacheKey ("id:enabled"). Concrete modifiers
// embed it and append their own parameters to the key.
type Base struct {
	id       string
	name     string
	category Category
	enabled  bool
}

// NewBase returns a Base with the given identity, enabled.
func NewBase(id, name string, cat Category) Base {
	return Base{id: id, name: name, category: cat, enabled: true}
}

// ID returns the modifier's unique identifier, stable for the lifetime of
// the pipeline that holds it.
func (b *Base) ID() string { return b.id }

// Name returns the display name. It is not semantically load-bearing.
func (b *Base) Name() string { return b.name }

// Category returns the modifier's selection category.
func (b *Base) Category() Category { return b.category }

// Enabled reports whether the pipeline should apply this modifier.
func (b *Base) Enabled() bool { return b.enabled }

// SetEnabled gates the modifier on or off without removing it.
func (b *Base) SetEnabled(v bool) { b.enabled = v }

// Validate passes unconditionally. Modifiers with parameters that can go
// out of range override it.
func (b *Base) Validate(f *molvis.Frame, ctx *Context) Validation {
	return OK()
}

// CacheKey returns the base key. Every embedding modifier with tunable
// parameters must append them.
func (b *Base) CacheKey() string {
	return fmt.Sprintf("%s:%t", b.id, b.enabled)
}

// EffectiveSelection resolves the selection a modifier should operate over:
// the context's current selection for selection-sensitive modifiers, all
// atoms otherwise.
func (b *Base) EffectiveSelection(ctx *Context, frameSize int) *molvis.SelectionMask {
	if b.category == SelectionSensitive && ctx != nil && ctx.Current != nil {
		return ctx.Current
	}
	return molvis.AllMask(frameSize)
}
