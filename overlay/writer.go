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
	"errors"
	"io"
	"maps"
	"slices"
	"strconv"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content"
	"seehuhn.de/go/pdf/page"
	"seehuhn.de/go/pdf/pagetree"
)

// Writer assembles the output document, one page at a time.
type Writer struct {
	Out *pdf.Writer
	RM  *pdf.ResourceManager

	tree     *pagetree.Writer
	numPages int

	// copier for the template file pages are currently taken from
	src    pdf.Getter
	copier *pdf.Copier
}

// EmptyPageError is returned by [Writer.Compose] if neither a template
// page nor an overlay is given.
type EmptyPageError struct {
	// Page is the 0-based index of the page in the output document.
	Page int
}

func (err *EmptyPageError) Error() string {
	return "output page " + strconv.Itoa(err.Page) + ": neither template page nor overlay present"
}

// NewWriter starts a new PDF document which is written to w.
func NewWriter(w io.Writer, v pdf.Version) (*Writer, error) {
	out, err := pdf.NewWriter(w, v, nil)
	if err != nil {
		return nil, err
	}
	rm := pdf.NewResourceManager(out)
	return &Writer{
		Out:  out,
		RM:   rm,
		tree: pagetree.NewWriter(out, rm),
	}, nil
}

// NumPages returns the number of pages appended so far.
func (w *Writer) NumPages() int {
	return w.numPages
}

// Compose appends one page to the output.
//
// If both tp and frag are given, the overlay is drawn on top of the
// template page.  If only one of them is given, it is used unchanged.
// If both are nil, an *EmptyPageError is returned.
func (w *Writer) Compose(tp *TemplatePage, frag *Fragment) error {
	var err error
	switch {
	case tp != nil && frag != nil:
		err = w.appendMerged(tp, frag)
	case tp != nil:
		err = w.appendTemplate(tp)
	case frag != nil:
		err = w.appendFragment(frag)
	default:
		return &EmptyPageError{Page: w.numPages}
	}
	if err != nil {
		return err
	}
	w.numPages++
	return nil
}

// Close writes the page tree and closes the PDF file.
func (w *Writer) Close() error {
	ref, err := w.tree.Close()
	if err != nil {
		return err
	}
	w.Out.GetMeta().Catalog.Pages = ref

	err = w.RM.Close()
	if err != nil {
		return err
	}
	return w.Out.Close()
}

func (w *Writer) appendTemplate(tp *TemplatePage) error {
	ref, dict, err := w.copyPageDict(tp)
	if err != nil {
		return err
	}
	return w.tree.AppendPageDict(ref, dict)
}

func (w *Writer) appendFragment(frag *Fragment) error {
	p := &page.Page{
		MediaBox:  frag.MediaBox,
		Resources: frag.Resources,
		Contents:  []*page.Content{{Operators: frag.Stream}},
	}
	return w.tree.AppendPage(p)
}

// appendMerged flattens the overlay onto the template page.  The result
// has a single content stream: the template content, enclosed in q/Q,
// followed by the overlay operators.
func (w *Writer) appendMerged(tp *TemplatePage, frag *Fragment) error {
	ref, dict, err := w.copyPageDict(tp, "Resources", "Contents")
	if err != nil {
		return err
	}

	resDict, taken, err := w.copyResources(tp)
	if err != nil {
		return err
	}

	res, ops := renameResources(frag.Resources, frag.Stream, taken)
	obj, err := w.RM.Embed(res)
	if err != nil {
		return err
	}
	overlayRes, ok := obj.(pdf.Dict)
	if !ok {
		return errors.New("overlay resources not embedded as a direct dictionary")
	}
	for cat, val := range overlayRes {
		sub, isDict := val.(pdf.Dict)
		if !isDict {
			if _, exists := resDict[cat]; !exists {
				resDict[cat] = val
			}
			continue
		}
		target, _ := resDict[cat].(pdf.Dict)
		if target == nil {
			target = pdf.Dict{}
			resDict[cat] = target
		}
		for name, x := range sub {
			target[name] = x
		}
	}

	contentRef := w.Out.Alloc()
	stm, err := w.Out.OpenStream(contentRef, nil, pdf.FilterCompress{})
	if err != nil {
		return err
	}
	body, err := pagetree.ContentStream(tp.r, tp.Dict)
	if err != nil {
		stm.Close()
		return err
	}
	_, err = stm.Write([]byte("q\n"))
	if err == nil {
		_, err = io.Copy(stm, body)
	}
	if err == nil {
		_, err = stm.Write([]byte("\nQ\n"))
	}
	for _, op := range ops {
		if err != nil {
			break
		}
		err = content.WriteOperator(stm, op)
	}
	if err != nil {
		stm.Close()
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	dict["Contents"] = contentRef
	dict["Resources"] = resDict
	return w.tree.AppendPageDict(ref, dict)
}

// copyPageDict copies the page dictionary of tp into the output file,
// leaving out the parent pointer and the given keys.  References to the
// template page are redirected to the returned reference.
func (w *Writer) copyPageDict(tp *TemplatePage, omit ...pdf.Name) (pdf.Reference, pdf.Dict, error) {
	copier := w.copierFor(tp.r)

	ref := w.Out.Alloc()
	if tp.Ref != 0 {
		copier.Redirect(tp.Ref, ref)
	}

	dict := maps.Clone(tp.Dict)
	delete(dict, "Parent")
	for _, key := range omit {
		delete(dict, key)
	}

	copied, err := copier.CopyDict(dict)
	if err != nil {
		return 0, nil, err
	}
	return ref, copied, nil
}

// copyResources copies the resource dictionary of tp into the output
// file.  The sub-dictionaries for the resource categories are made direct
// objects, so that overlay resources can be added.  The second return
// value lists the resource names used by the template, by category.
func (w *Writer) copyResources(tp *TemplatePage) (pdf.Dict, map[pdf.Name]map[pdf.Name]bool, error) {
	copier := w.copierFor(tp.r)

	orig, err := pdf.GetDict(tp.r, tp.Dict["Resources"])
	if err != nil {
		return nil, nil, err
	}

	res := pdf.Dict{}
	taken := make(map[pdf.Name]map[pdf.Name]bool)
	// sorted, so that objects are allocated in the same order on every run
	for _, cat := range slices.Sorted(maps.Keys(orig)) {
		val, err := pdf.Resolve(tp.r, orig[cat])
		if err != nil {
			return nil, nil, err
		}
		if val == nil {
			continue
		}

		sub, ok := val.(pdf.Dict)
		if !ok {
			copied, err := copier.Copy(val)
			if err != nil {
				return nil, nil, err
			}
			res[cat] = copied
			continue
		}

		names := make(map[pdf.Name]bool, len(sub))
		for name := range sub {
			names[name] = true
		}
		taken[cat] = names

		copied, err := copier.CopyDict(sub)
		if err != nil {
			return nil, nil, err
		}
		res[cat] = copied
	}
	return res, taken, nil
}

func (w *Writer) copierFor(r pdf.Getter) *pdf.Copier {
	if w.copier == nil || w.src != r {
		w.src = r
		w.copier = pdf.NewCopier(w.Out, r)
	}
	return w.copier
}
