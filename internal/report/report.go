package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/vk/fibbench/internal/bench"
)

// Writer emits one measurement at a time.
type Writer interface {
	Write(m bench.Measurement) error
}

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ColorMode controls whether text titles are coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid format %q: must be 'text' or 'json'", s)
}

// New returns the writer for format. useColor only affects text output.
func New(format Format, w io.Writer, useColor bool) (Writer, error) {
	switch format {
	case FormatText, "":
		return &TextWriter{w: w, color: useColor}, nil
	case FormatJSON:
		return &JSONWriter{enc: json.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// ParseColorMode validates a colour mode name.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case ColorAuto, ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("invalid color mode %q: must be 'auto', 'always', or 'never'", s)
}

// ResolveColor decides whether to colour output written to w. Auto enables
// colour for terminals unless noColor (the NO_COLOR convention) is set.
func ResolveColor(mode ColorMode, w io.Writer, noColor bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0 && color.SupportColor()
}

// TextWriter writes the historical block format.
type TextWriter struct {
	w       io.Writer
	color   bool
	written int
}

var titleStyle = color.New(color.FgCyan, color.OpBold)

// Write implements Writer.
func (t *TextWriter) Write(m bench.Measurement) error {
	title := m.Title
	if title == "" {
		title = m.Name
	}
	if t.color {
		title = titleStyle.Sprint(title)
	}

	var sep string
	if t.written > 0 {
		sep = "\n"
	}
	_, err := fmt.Fprintf(t.w, "%s%s\nresult: %d\nms: %d\nus: %d\nns: %d\n",
		sep, title, m.Result, m.Millis(), m.Micros(), m.Nanos())
	if err != nil {
		return err
	}
	t.written++
	return nil
}

// record is the JSON shape of a measurement.
type record struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	N      int    `json:"n"`
	Result uint64 `json:"result"`
	MS     int64  `json:"ms"`
	US     int64  `json:"us"`
	NS     int64  `json:"ns"`
}

func toRecord(m bench.Measurement) record {
	return record{
		Name:   m.Name,
		Title:  m.Title,
		N:      m.N,
		Result: m.Result,
		MS:     m.Millis(),
		US:     m.Micros(),
		NS:     m.Nanos(),
	}
}

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	enc *json.Encoder
}

// Write implements Writer.
func (j *JSONWriter) Write(m bench.Measurement) error {
	return j.enc.Encode(toRecord(m))
}
