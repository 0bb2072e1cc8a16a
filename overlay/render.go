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

package overlay

import (
	"fmt"
	"log/slog"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content"
	"seehuhn.de/go/pdf/graphics/content/builder"

	"seehuhn.de/go/pdfoverlay/config"
	"seehuhn.de/go/pdfoverlay/element"
)

// Fragment is a rendered overlay for a single page.
type Fragment struct {
	MediaBox  *pdf.Rectangle
	Resources *content.Resources
	Stream    content.Stream
}

// Renderer draws the elements of a page configuration.
// The zero value uses the default registry and A4 paper.
type Renderer struct {
	Registry *element.Registry
	Paper    *pdf.Rectangle
	Logger   *slog.Logger
}

// RenderPage draws the elements of cfg, in order, onto a new blank page.
// Later elements are drawn on top of earlier ones.  A page configuration
// without elements gives a blank fragment.
func (r *Renderer) RenderPage(cfg *config.Page) (*Fragment, error) {
	registry := r.Registry
	if registry == nil {
		// kept, so that font instances are shared between pages
		registry = element.NewDefaultRegistry()
		r.Registry = registry
	}
	paper := r.Paper
	if paper == nil {
		paper = A4
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res := &content.Resources{}
	b := builder.New(content.Page, res)
	s := &element.Surface{
		Builder: b,
		Paper:   paper,
	}

	for i, e := range cfg.Elements {
		p, err := registry.Resolve(e.Type)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		logger.Debug("drawing element", "index", i, "type", e.Type, "options", e.Options)

		// every element starts from the default graphics state
		b.PushGraphicsState()
		err = p.Draw(element.Options(e.Options), s)
		if err == nil {
			err = b.Err
		}
		if err != nil {
			return nil, fmt.Errorf("element %d (%s): %w", i, e.Type, err)
		}
		b.PopGraphicsState()
	}
	if b.Err != nil {
		return nil, b.Err
	}

	return &Fragment{
		MediaBox:  paper,
		Resources: b.Resources,
		Stream:    b.Stream,
	}, nil
}
