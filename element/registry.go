// seehuhn.de/go/pdfoverlay - overlay generated content onto PDF templates
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package element

import (
	"errors"
	"maps"
	"slices"
	"strconv"
)

// Type tags of the built-in processors.
const (
	TypeText          = "example_text"
	TypeCornerMarkers = "example_corner_markers"
	TypeQRCode        = "qrcode"
	TypeCode128       = "code128"
)

// Registry maps type tags to element processors.
//
// A Registry is not safe for concurrent use.  Register all processors
// before the registry is used to render a document.
type Registry struct {
	procs map[string]Processor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		procs: make(map[string]Processor),
	}
}

// NewDefaultRegistry returns a registry which contains the built-in
// processors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.procs[TypeText] = NewText()
	r.procs[TypeCornerMarkers] = NewCornerMarkers()
	r.procs[TypeQRCode] = NewQRCode()
	r.procs[TypeCode128] = NewCode128()
	return r
}

// Register installs p as the processor for the given type tag.
// If a processor is already registered for tag, a *DuplicateTypeError is
// returned unless override is true.
func (r *Registry) Register(tag string, p Processor, override bool) error {
	if tag == "" {
		return errors.New("empty element type")
	}
	if p == nil {
		return errors.New("nil processor for element type " + strconv.Quote(tag))
	}
	if _, exists := r.procs[tag]; exists && !override {
		return &DuplicateTypeError{Type: tag}
	}
	r.procs[tag] = p
	return nil
}

// Resolve returns the processor registered for tag.
func (r *Registry) Resolve(tag string) (Processor, error) {
	p, ok := r.procs[tag]
	if !ok {
		return nil, &UnknownTypeError{Type: tag}
	}
	return p, nil
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.procs))
}

// UnknownTypeError is returned when an element type is not registered.
type UnknownTypeError struct {
	Type string
}

func (err *UnknownTypeError) Error() string {
	return "unknown element type " + strconv.Quote(err.Type)
}

// DuplicateTypeError is returned when a processor is registered for a
// type tag which is already in use.
type DuplicateTypeError struct {
	Type string
}

func (err *DuplicateTypeError) Error() string {
	return "element type " + strconv.Quote(err.Type) + " is already registered"
}
