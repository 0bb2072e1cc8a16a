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
	"fmt"
	"io"
	"log/slog"
	"os"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfoverlay/config"
	"seehuhn.de/go/pdfoverlay/element"
)

// Options controls a run of [Process].  The zero value is ready to use.
type Options struct {
	// Registry is used to look up element processors.
	// If nil, [element.NewDefaultRegistry] is used.
	Registry *element.Registry

	// Paper is the page area of all overlays.  If nil, A4 is used.
	Paper *pdf.Rectangle

	// Version is the PDF version of the output file.  If zero, the version
	// of the template is used, but at least PDF 1.7.
	Version pdf.Version

	// ReaderOptions is used when opening the template, for example to
	// supply a password.
	ReaderOptions *pdf.ReaderOptions

	// Logger receives progress and debug messages.
	// If nil, messages are discarded.
	Logger *slog.Logger
}

func (opt *Options) withDefaults() *Options {
	res := &Options{}
	if opt != nil {
		*res = *opt
	}
	if res.Registry == nil {
		res.Registry = element.NewDefaultRegistry()
	}
	if res.Paper == nil {
		res.Paper = A4
	}
	if res.Logger == nil {
		res.Logger = slog.New(slog.DiscardHandler)
	}
	return res
}

// ProcessFile reads the configuration from configPath, applies it to the
// template at templatePath and writes the result to outPath.  The output
// file is only created once all pages have been generated; if an error
// occurs, outPath is left untouched.
func ProcessFile(outPath, templatePath, configPath string, opt *Options) error {
	cfg, err := config.ReadFile(configPath)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	err = Process(buf, templatePath, cfg, opt)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o666)
}

// Process applies cfg to the template at templatePath and writes the
// resulting PDF document to w.
//
// The template is opened once for every page set in cfg, and once more
// to find its PDF version if opt.Version is zero.  Processing stops at the
// first error.
func Process(w io.Writer, templatePath string, cfg config.Config, opt *Options) error {
	opt = opt.withDefaults()

	v := opt.Version
	if v == 0 {
		tv, err := templateVersion(templatePath, opt.ReaderOptions)
		if err != nil {
			return err
		}
		v = max(pdf.V1_7, tv)
	}
	opt.Logger.Debug("writing output", "version", v.String())

	out, err := NewWriter(w, v)
	if err != nil {
		return err
	}
	r := &Renderer{
		Registry: opt.Registry,
		Paper:    opt.Paper,
		Logger:   opt.Logger,
	}

	for i, ps := range cfg {
		err := processPass(out, r, templatePath, ps, opt)
		if err != nil {
			if len(cfg) > 1 {
				err = fmt.Errorf("pass %d: %w", i, err)
			}
			return err
		}
		opt.Logger.Info("pass complete", "pass", i, "output pages", out.NumPages())
	}

	return out.Close()
}

func processPass(out *Writer, r *Renderer, templatePath string, ps *config.PageSet, opt *Options) error {
	tmpl, err := OpenTemplate(templatePath, opt.ReaderOptions)
	if err != nil {
		return err
	}
	defer tmpl.Close()

	numPages := max(tmpl.NumPages, ps.NumPages())
	opt.Logger.Debug("template opened",
		"template pages", tmpl.NumPages,
		"configured pages", ps.NumPages())

	for i := range numPages {
		var tp *TemplatePage
		if i < tmpl.NumPages {
			tp, err = tmpl.Page(i)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
		}

		var frag *Fragment
		if pageCfg := ps.Page(i); pageCfg != nil {
			frag, err = r.RenderPage(pageCfg)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
		}

		err = out.Compose(tp, frag)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
	}
	return nil
}

func templateVersion(templatePath string, opt *pdf.ReaderOptions) (pdf.Version, error) {
	tmpl, err := OpenTemplate(templatePath, opt)
	if err != nil {
		return 0, err
	}
	defer tmpl.Close()
	return tmpl.R.GetMeta().Version, nil
}
