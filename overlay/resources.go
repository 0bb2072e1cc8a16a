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
	"maps"
	"slices"
	"strconv"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content"
)

// resourceArg gives the resource category and argument position of the
// operators which refer to named resources.  A negative position counts
// from the end of the argument list.
var resourceArg = map[content.OpName]struct {
	cat pdf.Name
	pos int
}{
	content.OpTextSetFont:                      {"Font", 0},
	content.OpXObject:                          {"XObject", 0},
	content.OpSetExtGState:                     {"ExtGState", 0},
	content.OpShading:                          {"Shading", 0},
	content.OpSetStrokeColorSpace:              {"ColorSpace", 0},
	content.OpSetFillColorSpace:                {"ColorSpace", 0},
	content.OpSetStrokeColorN:                  {"Pattern", -1},
	content.OpSetFillColorN:                    {"Pattern", -1},
	content.OpBeginMarkedContentWithProperties: {"Properties", 1},
	content.OpMarkedContentPointWithProperties: {"Properties", 1},
}

// renameResources returns a copy of res in which every name listed in
// taken for the same category is replaced by an unused name, together with
// the operator stream rewritten to use the new names.  Neither res nor
// stream is modified.
func renameResources(res *content.Resources, stream content.Stream, taken map[pdf.Name]map[pdf.Name]bool) (*content.Resources, content.Stream) {
	ren := make(map[pdf.Name]map[pdf.Name]pdf.Name)
	out := &content.Resources{
		ExtGState:  renameCategory("ExtGState", res.ExtGState, taken, ren),
		ColorSpace: renameCategory("ColorSpace", res.ColorSpace, taken, ren),
		Pattern:    renameCategory("Pattern", res.Pattern, taken, ren),
		Shading:    renameCategory("Shading", res.Shading, taken, ren),
		XObject:    renameCategory("XObject", res.XObject, taken, ren),
		Font:       renameCategory("Font", res.Font, taken, ren),
		ProcSet:    res.ProcSet,
		Properties: renameCategory("Properties", res.Properties, taken, ren),
		SingleUse:  true,
	}
	if len(ren) == 0 {
		return out, stream
	}

	renamed := make(content.Stream, len(stream))
	for i, op := range stream {
		renamed[i] = op

		ra, ok := resourceArg[op.Name]
		if !ok || len(op.Args) == 0 {
			continue
		}
		pos := ra.pos
		if pos < 0 {
			pos += len(op.Args)
		}
		if pos < 0 || pos >= len(op.Args) {
			continue
		}
		name, ok := op.Args[pos].(pdf.Name)
		if !ok {
			continue
		}
		newName, ok := ren[ra.cat][name]
		if !ok {
			continue
		}

		args := slices.Clone(op.Args)
		args[pos] = newName
		renamed[i] = content.Operator{Name: op.Name, Args: args}
	}
	return out, renamed
}

func renameCategory[T any](cat pdf.Name, src map[pdf.Name]T, taken map[pdf.Name]map[pdf.Name]bool, ren map[pdf.Name]map[pdf.Name]pdf.Name) map[pdf.Name]T {
	if src == nil {
		return nil
	}

	used := taken[cat]
	dst := make(map[pdf.Name]T, len(src))
	for name, val := range src {
		if !used[name] {
			dst[name] = val
		}
	}

	// sorted, so that the output does not depend on map iteration order
	for _, name := range slices.Sorted(maps.Keys(src)) {
		if !used[name] {
			continue
		}
		var newName pdf.Name
		for i := 1; ; i++ {
			newName = name + pdf.Name("_"+strconv.Itoa(i))
			_, clash := dst[newName]
			if !used[newName] && !clash {
				break
			}
		}
		dst[newName] = src[name]
		if ren[cat] == nil {
			ren[cat] = make(map[pdf.Name]pdf.Name)
		}
		ren[cat][name] = newName
	}
	return dst
}
