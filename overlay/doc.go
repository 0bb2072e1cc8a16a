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

// Package overlay draws generated content on top of the pages of a PDF
// template.
//
// A run is described by a [config.Config].  Every page set in the
// configuration is one pass over the template: the template is opened,
// and for every page index up to the larger of the template's page count
// and the number of configured pages, the template page and the rendered
// overlay (where present) are combined into one output page.  The pages of
// all passes are concatenated into a single output document.
//
// The main entry points are [Process] and [ProcessFile].  [Renderer],
// [Template] and [Writer] expose the individual steps.
package overlay
