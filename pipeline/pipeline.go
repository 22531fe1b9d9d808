/*
 * pipeline.go, part of molvis.
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
	"context"
	"fmt"
	"log"
	"sync"

	molvis "github.com/molvis/molvis"
)

// FrameSource produces the base frames a pipeline transforms. Frame may do
// I/O (decoding a trajectory step from storage); it is the only suspension
// point of the whole subsystem, which is why it takes a context.Context.
// FrameCount returns -1 when the number of frames is not known up front,
// e.g. for streaming sources.
type FrameSource interface {
	Frame(ctx context.Context, i int) (*molvis.Frame, error)
	FrameCount() int
}

// MemorySource is a FrameSource over frames already in memory.
type MemorySource []*molvis.Frame

// Frame returns the i-th stored frame.
func (s MemorySource) Frame(_ context.Context, i int) (*molvis.Frame, error) {
	if i < 0 || i >= len(s) {
		return nil, molvis.NewError(fmt.Sprintf("Frame %d requested from a source with %d frames", i, len(s)), "MemorySource.Frame")
	}
	return s[i], nil
}

// FrameCount returns the number of stored frames.
func (s MemorySource) FrameCount() int { return len(s) }

// Pipeline event names, as delivered to subscribers.
const (
	EventModifierAdded     = "modifier-added"
	EventModifierRemoved   = "modifier-removed"
	EventModifierReordered = "modifier-reordered"
	EventPipelineCleared   = "pipeline-cleared"
	EventComputed          = "computed"
)

// Event is a pipeline lifecycle notification. Which fields are meaningful
// depends on Kind: the modifier events carry Modifier and the indices, and
// the computed event carries the final Frame and Context of a run.
type Event struct {
	Kind     string
	Modifier Modifier
	Index    int
	OldIndex int
	NewIndex int
	Frame    *molvis.Frame
	Context  *Context
}

type subscriber struct {
	id int
	fn func(Event)
}

// Pipeline is an ordered, mutable list of modifiers. List mutations emit
// events synchronously and in order, so an observing UI layer sees them in
// the sequence they happened.
type Pipeline struct {
	mu     sync.RWMutex
	mods   []Modifier
	subs   []subscriber
	nextID int
}

// New returns an empty pipeline.
func New() *Pipeline {
	return new(Pipeline)
}

// Subscribe registers a listener for pipeline events and returns the function
// that unsubscribes it. Delivery is synchronous, on the goroutine performing
// the mutation or compute.
func (P *Pipeline) Subscribe(fn func(Event)) func() {
	P.mu.Lock()
	id := P.nextID
	P.nextID++
	P.subs = append(P.subs, subscriber{id: id, fn: fn})
	P.mu.Unlock()
	return func() {
		P.mu.Lock()
		defer P.mu.Unlock()
		for i, s := range P.subs {
			if s.id == id {
				P.subs = append(P.subs[:i], P.subs[i+1:]...)
				return
			}
		}
	}
}

func (P *Pipeline) emit(ev Event) {
	P.mu.RLock()
	subs := append([]subscriber{}, P.subs...)
	P.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

// Add appends a modifier to the end of the chain.
func (P *Pipeline) Add(m Modifier) {
	P.mu.Lock()
	P.mods = append(P.mods, m)
	index := len(P.mods) - 1
	P.mu.Unlock()
	P.emit(Event{Kind: EventModifierAdded, Modifier: m, Index: index})
}

// Remove removes the first modifier with the given id. It reports whether
// anything was removed.
func (P *Pipeline) Remove(id string) bool {
	P.mu.Lock()
	for i, m := range P.mods {
		if m.ID() == id {
			P.mods = append(P.mods[:i], P.mods[i+1:]...)
			P.mu.Unlock()
			P.emit(Event{Kind: EventModifierRemoved, Modifier: m, Index: i})
			return true
		}
	}
	P.mu.Unlock()
	return false
}

// Reorder moves the modifier with the given id to newIndex, shifting the
// others. It returns false, changing nothing, if the id is unknown or
// newIndex is outside [0, Len()).
func (P *Pipeline) Reorder(id string, newIndex int) bool {
	P.mu.Lock()
	if newIndex < 0 || newIndex >= len(P.mods) {
		P.mu.Unlock()
		return false
	}
	oldIndex := -1
	for i, m := range P.mods {
		if m.ID() == id {
			oldIndex = i
			break
		}
	}
	if oldIndex < 0 {
		P.mu.Unlock()
		return false
	}
	m := P.mods[oldIndex]
	P.mods = append(P.mods[:oldIndex], P.mods[oldIndex+1:]...)
	P.mods = append(P.mods[:newIndex], append([]Modifier{m}, P.mods[newIndex:]...)...)
	P.mu.Unlock()
	P.emit(Event{Kind: EventModifierReordered, Modifier: m, OldIndex: oldIndex, NewIndex: newIndex})
	return true
}

// Clear removes every modifier.
func (P *Pipeline) Clear() {
	P.mu.Lock()
	P.mods = nil
	P.mu.Unlock()
	P.emit(Event{Kind: EventPipelineCleared})
}

// Len returns the number of modifiers in the chain.
func (P *Pipeline) Len() int {
	P.mu.RLock()
	defer P.mu.RUnlock()
	return len(P.mods)
}

// Modifiers returns a copy of the chain in application order.
func (P *Pipeline) Modifiers() []Modifier {
	P.mu.RLock()
	defer P.mu.RUnlock()
	return append([]Modifier{}, P.mods...)
}

// Find returns the modifier with the given id, or nil.
func (P *Pipeline) Find(id string) Modifier {
	P.mu.RLock()
	defer P.mu.RUnlock()
	for _, m := range P.mods {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// Compute obtains the base frame from src, then applies every enabled
// modifier strictly in list order, each seeing the cumulative output of the
// ones before it. A modifier whose Validate fails is logged and skipped, the
// frame passing through that step unchanged; an Apply error is fatal for this
// run only and propagates. Every call builds its own fresh Context, so the
// same pipeline can compute different frame indices concurrently.
//
// The final frame and the context it was computed under are returned, and
// also delivered in a "computed" event.
func (P *Pipeline) Compute(ctx context.Context, src FrameSource, frameIndex int) (*molvis.Frame, *Context, error) {
	frame, err := src.Frame(ctx, frameIndex)
	if err != nil {
		return nil, nil, errDecorate(err, "Compute")
	}
	pctx := DefaultContext(frame, frameIndex)
	for _, m := range P.Modifiers() {
		if !m.Enabled() {
			continue
		}
		if v := m.Validate(frame, pctx); !v.Valid {
			log.Printf("molvis: modifier %s (%s) failed validation, skipping: %v", m.ID(), m.Name(), v.Errors)
			continue
		}
		next, err := m.Apply(frame, pctx)
		if err != nil {
			return nil, nil, errDecorate(err, fmt.Sprintf("Compute(modifier %s)", m.ID()))
		}
		frame = next
	}
	P.emit(Event{Kind: EventComputed, Frame: frame, Context: pctx})
	return frame, pctx, nil
}

// errDecorate decorates molvis errors with the caller's name and passes
// anything else through untouched. Frame sources are allowed to return plain
// errors.
func errDecorate(err error, caller string) error {
	if e, ok := err.(molvis.Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}
