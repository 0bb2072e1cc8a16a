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

// Pdf-overlay draws generated content, like text, QR codes and barcodes,
// on top of the pages of a PDF template.
//
// The elements to draw are described by a JSON configuration file.  Every
// page set in the configuration file gives one pass over the template; the
// output document contains the pages of all passes in order.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/term"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfoverlay/config"
	"seehuhn.de/go/pdfoverlay/element"
	"seehuhn.de/go/pdfoverlay/overlay"
	"seehuhn.de/go/pdfoverlay/tools/internal/buildinfo"
	"seehuhn.de/go/pdfoverlay/tools/internal/profile"
)

const toolName = "pdf-overlay"

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	code := exitCode(err)
	if code != 0 {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}

// exitCode maps the result of run to the exit status of the tool.
func exitCode(err error) int {
	var usageErr *usageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &usageErr):
		return 2
	default:
		return 1
	}
}

// usageError indicates invalid command line arguments.
type usageError struct {
	msg string
}

func (err *usageError) Error() string {
	return "usage error: " + err.msg
}

type options struct {
	templatePath string
	configPath   string
	outputPath   string
	paper        string
	password     string
	verbose      bool
	validate     bool
	list         bool
	version      bool
	cpuprofile   string
	memprofile   string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opt := &options{}

	flags := flag.NewFlagSet(toolName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	for _, name := range []string{"template_path", "t"} {
		flags.StringVar(&opt.templatePath, name, "", "template PDF `file`")
	}
	for _, name := range []string{"config_path", "c"} {
		flags.StringVar(&opt.configPath, name, "", "JSON configuration `file`")
	}
	for _, name := range []string{"output_path", "o"} {
		flags.StringVar(&opt.outputPath, name, "", "output PDF `file`, or \"-\" for stdout")
	}
	flags.StringVar(&opt.paper, "paper", "A4", "paper size for overlay pages (A3, A4, A5, Letter, Legal or WxH)")
	flags.StringVar(&opt.password, "password", "", "password for an encrypted template")
	flags.BoolVar(&opt.verbose, "v", false, "log every element drawn")
	flags.BoolVar(&opt.validate, "validate", false, "validate the output before writing it")
	flags.BoolVar(&opt.list, "list", false, "list the available element types and exit")
	flags.BoolVar(&opt.version, "version", false, "print version information and exit")
	flags.StringVar(&opt.cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	flags.StringVar(&opt.memprofile, "memprofile", "", "write memory profile to `file`")

	flags.Usage = func() {
		out := flags.Output()
		fmt.Fprintf(out, "%s - overlay generated content onto a PDF template\n", toolName)
		fmt.Fprintf(out, "%s\n\n", buildinfo.Short(toolName))
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  %s -t template.pdf -c config.json -o out.pdf\n\n", toolName)
		fmt.Fprintf(out, "Options:\n")
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil, err
	} else if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	if flags.NArg() > 0 {
		return nil, &usageError{msg: "unexpected arguments: " + strings.Join(flags.Args(), " ")}
	}
	if opt.list || opt.version {
		return opt, nil
	}

	var missing []string
	if opt.templatePath == "" {
		missing = append(missing, "--template_path")
	}
	if opt.configPath == "" {
		missing = append(missing, "--config_path")
	}
	if opt.outputPath == "" {
		missing = append(missing, "--output_path")
	}
	if len(missing) > 0 {
		return nil, &usageError{msg: "missing " + strings.Join(missing, ", ")}
	}
	return opt, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opt, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	registry := element.NewDefaultRegistry()
	switch {
	case opt.version:
		fmt.Fprintln(stdout, buildinfo.Short(toolName))
		return nil
	case opt.list:
		for _, tag := range registry.Types() {
			fmt.Fprintln(stdout, tag)
		}
		return nil
	}

	paper, err := overlay.ParsePaper(opt.paper)
	if err != nil {
		return &usageError{msg: err.Error()}
	}
	if opt.outputPath == "-" && isTerminal(stdout) {
		return errors.New("refusing to write PDF data to a terminal")
	}

	level := slog.LevelInfo
	if opt.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	stop, err := profile.Start(opt.cpuprofile, opt.memprofile, logger)
	if err != nil {
		return err
	}
	defer stop()

	cfg, err := config.ReadFile(opt.configPath)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	err = overlay.Process(buf, opt.templatePath, cfg, &overlay.Options{
		Registry:      registry,
		Paper:         paper,
		ReaderOptions: readerOptions(opt.password, stderr),
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	if opt.validate {
		err = validate(bytes.NewReader(buf.Bytes()))
		if err != nil {
			return fmt.Errorf("output validation failed: %w", err)
		}
		logger.Debug("output validated")
	}

	if opt.outputPath == "-" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	err = os.WriteFile(opt.outputPath, buf.Bytes(), 0o666)
	if err != nil {
		return err
	}
	logger.Info("output written", "file", opt.outputPath, "bytes", buf.Len())
	return nil
}

// validate checks the generated document before it is written.
var validate = func(rs io.ReadSeeker) error {
	return api.Validate(rs, model.NewDefaultConfiguration())
}

// readerOptions returns the options for opening the template.  If no
// password is given on the command line, the user is asked for one when
// stdin is a terminal.  The template is opened once per pass; a password
// entered at the prompt is tried first on later passes.
func readerOptions(password string, prompt io.Writer) *pdf.ReaderOptions {
	fromFlag := password != ""
	tryPasswd := func(_ []byte, try int) string {
		if try == 0 && password != "" {
			return password
		}
		if fromFlag || !term.IsTerminal(int(os.Stdin.Fd())) {
			return ""
		}
		fmt.Fprint(prompt, "template password: ")
		passwd, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return ""
		}
		password = string(passwd)
		return password
	}
	return &pdf.ReaderOptions{
		ReadPassword: tryPasswd,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
