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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfoverlay/config"
	"seehuhn.de/go/pdfoverlay/element"
)

func TestOverlayOnlyPageEqualsFragment(t *testing.T) {
	tmpl := writeMarkedTemplate(t, 1)

	second := &config.Page{
		Elements: []*config.Element{
			markElement(7, 8),
			{
				Type:    element.TypeQRCode,
				Options: map[string]any{"data": "page 2", "x": 100.0, "y": 100.0},
			},
		},
	}
	cfg := config.Config{{Pages: []*config.Page{{}, second}}}

	r := &Renderer{Registry: testRegistry(t), Paper: Letter}
	frag, err := r.RenderPage(second)
	if err != nil {
		t.Fatal(err)
	}
	want := &bytes.Buffer{}
	for _, op := range frag.Stream {
		err := content.WriteOperator(want, op)
		if err != nil {
			t.Fatal(err)
		}
	}

	buf := &bytes.Buffer{}
	err = Process(buf, tmpl, cfg, &Options{Registry: testRegistry(t), Paper: Letter})
	if err != nil {
		t.Fatal(err)
	}

	out := readPages(t, buf.Bytes())
	if len(out) != 2 {
		t.Fatalf("got %d pages, want 2", len(out))
	}
	if d := cmp.Diff(want.String(), out[1]); d != "" {
		t.Errorf("content differs from the fragment (-want +got):\n%s", d)
	}

	pr, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()
	_, dict, err := pagetree.GetPage(pr, 1)
	if err != nil {
		t.Fatal(err)
	}
	box, err := pdf.GetRectangle(pr, dict["MediaBox"])
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(frag.MediaBox, box); d != "" {
		t.Errorf("wrong media box (-want +got):\n%s", d)
	}
}

func TestZeroRenderer(t *testing.T) {
	r := &Renderer{}
	frag, err := r.RenderPage(&config.Page{
		Elements: []*config.Element{{Type: element.TypeText}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(A4, frag.MediaBox); d != "" {
		t.Errorf("wrong media box (-want +got):\n%s", d)
	}
	if len(frag.Stream) == 0 {
		t.Error("nothing drawn")
	}

	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Compose(nil, frag)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
	if n := len(readPages(t, buf.Bytes())); n != 1 {
		t.Errorf("got %d pages, want 1", n)
	}
}

func TestOutputVersion(t *testing.T) {
	cases := []struct {
		template pdf.Version
		want     pdf.Version
	}{
		{pdf.V1_4, pdf.V1_7},
		{pdf.V1_7, pdf.V1_7},
		{pdf.V2_0, pdf.V2_0},
	}
	for _, c := range cases {
		tmpl := writeTemplateVersion(t, c.template, &config.Page{
			Elements: []*config.Element{markElement(10, 500)},
		})
		cfg := config.Config{{Pages: []*config.Page{{
			Elements: []*config.Element{markElement(1, 1)},
		}}}}

		buf := &bytes.Buffer{}
		err := Process(buf, tmpl, cfg, &Options{Registry: testRegistry(t)})
		if err != nil {
			t.Fatal(err)
		}

		r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), nil)
		if err != nil {
			t.Fatal(err)
		}
		got := r.GetMeta().Version
		r.Close()
		if got != c.want {
			t.Errorf("template %s: output version %s, want %s", c.template, got, c.want)
		}
	}
}

func TestOutputVersionOverride(t *testing.T) {
	tmpl := writeTemplateVersion(t, pdf.V2_0, &config.Page{})

	buf := &bytes.Buffer{}
	err := Process(buf, tmpl, config.Config{{}}, &Options{Version: pdf.V1_7})
	if err != nil {
		t.Fatal(err)
	}
	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if v := r.GetMeta().Version; v != pdf.V1_7 {
		t.Errorf("output version %s, want %s", v, pdf.V1_7)
	}
}

// resourceTemplate returns a template page with one indirect resource in
// each of three categories.
func resourceTemplate(t *testing.T) *TemplatePage {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	objects := []pdf.Dict{
		{"Type": pdf.Name("Font"), "Subtype": pdf.Name("Type1"), "BaseFont": pdf.Name("Helvetica")},
		{"Type": pdf.Name("ExtGState"), "CA": pdf.Number(0.5)},
		{"Type": pdf.Name("OCG"), "Name": pdf.String("layer")},
	}
	refs := make([]pdf.Reference, len(objects))
	for i, obj := range objects {
		refs[i] = w.Out.Alloc()
		err := w.Out.Put(refs[i], obj)
		if err != nil {
			t.Fatal(err)
		}
	}
	pageDict := pdf.Dict{
		"Type":     pdf.Name("Page"),
		"MediaBox": pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(595), pdf.Integer(842)},
		"Resources": pdf.Dict{
			"Font":       pdf.Dict{"F": refs[0]},
			"ExtGState":  pdf.Dict{"G": refs[1]},
			"Properties": pdf.Dict{"P": refs[2]},
		},
	}
	err = w.tree.AppendPageDict(w.Out.Alloc(), pageDict)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	ref, dict, err := pagetree.GetPage(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	return &TemplatePage{r: r, Ref: ref, Dict: dict}
}

func TestCopyResourcesStable(t *testing.T) {
	tp := resourceTemplate(t)

	var first pdf.Dict
	for i := range 5 {
		w, err := NewWriter(&bytes.Buffer{}, pdf.V1_7)
		if err != nil {
			t.Fatal(err)
		}
		res, taken, err := w.copyResources(tp)
		if err != nil {
			t.Fatal(err)
		}

		wantTaken := map[pdf.Name]map[pdf.Name]bool{
			"Font":       {"F": true},
			"ExtGState":  {"G": true},
			"Properties": {"P": true},
		}
		if d := cmp.Diff(wantTaken, taken); d != "" {
			t.Fatalf("wrong resource names (-want +got):\n%s", d)
		}

		// objects are copied in the order of the category names
		var prev uint32
		for _, cat := range []pdf.Name{"ExtGState", "Font", "Properties"} {
			sub, _ := res[cat].(pdf.Dict)
			var ref pdf.Reference
			for _, obj := range sub {
				ref, _ = obj.(pdf.Reference)
			}
			if ref == 0 {
				t.Fatalf("%s: resource not copied as a reference: %v", cat, res[cat])
			}
			if ref.Number() <= prev {
				t.Errorf("%s copied out of order", cat)
			}
			prev = ref.Number()
		}

		if i == 0 {
			first = res
		} else if d := cmp.Diff(first, res); d != "" {
			t.Errorf("run %d differs (-first +got):\n%s", i, d)
		}
	}
}
