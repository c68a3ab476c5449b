// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fuseplane

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Plane2D is a (width, height) rectangle of fuse bits, origin top-left,
// optionally annotated with a device name. It is the physical ("crbit")
// counterpart of Plane1D.
type Plane2D struct {
	w, h    int
	bits    []bool
	DevName string
	hasDev  bool
}

// NewPlane2D allocates a w*h plane, all bits cleared.
func NewPlane2D(w, h int) *Plane2D {
	return &Plane2D{w: w, h: h, bits: make([]bool, w*h)}
}

func (p *Plane2D) Dim() (w, h int) { return p.w, p.h }

func (p *Plane2D) Get(x, y int) bool {
	return p.bits[y*p.w+x]
}

func (p *Plane2D) Set(x, y int, v bool) {
	p.bits[y*p.w+x] = v
}

// HasDevName reports whether a "// DEVICE ..." annotation was present
// (on parse) or has been set (on construction).
func (p *Plane2D) HasDevName() bool { return p.hasDev }

func (p *Plane2D) SetDevName(name string) {
	p.DevName = name
	p.hasDev = true
}

type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("fuseplane: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("fuseplane: %s", e.Msg)
}

// ParseText reads the crbit ASCII-grid text format: comment lines begin
// with "//", a "// DEVICE <name>" comment records the device-name
// annotation, blank lines are ignored, and all other lines are rows of
// '0'/'1' characters. The width is taken from the first data row; every
// subsequent data row must match it.
func ParseText(r io.Reader) (*Plane2D, error) {
	var rows [][]bool
	var devName string
	var hasDev bool
	width := -1

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.Trim(scanner.Text(), " \r\n")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "// DEVICE ") {
			devName = strings.TrimPrefix(line, "// DEVICE ")
			hasDev = true
			continue
		}
		if strings.HasPrefix(line, "//") {
			continue
		}
		if width == -1 {
			width = len(line)
		} else if len(line) != width {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("row has %d columns, want %d", len(line), width)}
		}
		row := make([]bool, width)
		for i, c := range line {
			switch c {
			case '0':
				row[i] = false
			case '1':
				row[i] = true
			default:
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid character %q", c)}
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if width == -1 {
		return nil, &ParseError{Msg: "contained no fuse data"}
	}

	p := &Plane2D{w: width, h: len(rows), bits: make([]bool, width*len(rows))}
	for y, row := range rows {
		copy(p.bits[y*width:(y+1)*width], row)
	}
	if hasDev {
		p.SetDevName(devName)
	}
	return p, nil
}

// WriteText writes the crbit ASCII-grid text format: a fixed two-line
// header comment, an optional "// DEVICE <name>" comment, then one line
// of '0'/'1' per row.
func WriteText(w io.Writer, p *Plane2D) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprint(bw, "// crbit native bitstream file\n// https://github.com/azonenberg/openfpga\n\n"); err != nil {
		return err
	}
	if p.hasDev {
		if _, err := fmt.Fprintf(bw, "// DEVICE %s\n\n", p.DevName); err != nil {
			return err
		}
	}
	buf := make([]byte, p.w)
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			if p.Get(x, y) {
				buf[x] = '1'
			} else {
				buf[x] = '0'
			}
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}
