// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2jed is the ".jed" textual framing around pkg/xc2bitstream's
// logical fuse vector: the reference source's encode_logical/
// decode_logical produce and consume a bare Plane1D plus a device-speed-
// package triple (spec §6.1); everything about how that becomes a file -
// the JESD3-C-style STX/ETX container, the device-name header comment,
// the QF/L/C fields, the transmission checksum, and the line-break
// placement - is this package's job, external to the core per spec §1.
package xc2jed

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

const (
	stx = 0x02
	etx = 0x03
)

// FormatError reports a malformed ".jed" container: a missing/garbled
// STX, ETX, checksum, header, or fuse field.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "xc2jed: " + e.Msg
}

// Checksum is the 16-bit unsigned sum of every byte in data, the
// transmission checksum a JEDEC-style file carries as 4 hex digits
// right after its ETX byte.
func Checksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// Encode renders bs as a ".jed" file: a device-name header comment, a
// QF (fuse count) field, an F0 (unprogrammed-fuse default) field, the
// fuse vector itself split into L-fields at LineBreaks(bs.Device), all
// bracketed by STX/ETX and followed by the transmission checksum.
func Encode(bs *xc2bitstream.Bitstream) ([]byte, error) {
	plane := bs.EncodeLogical()

	var body bytes.Buffer
	fmt.Fprintf(&body, "\nN DEVICE %s-%s-%s*\n", bs.Device, bs.Speed, bs.Pkg)
	fmt.Fprintf(&body, "QF%d*\n", plane.Len())
	fmt.Fprintf(&body, "F0*\n")
	writeFuseLines(&body, plane, LineBreaks(bs.Device))

	var out bytes.Buffer
	out.WriteByte(stx)
	out.Write(body.Bytes())
	out.WriteByte(etx)
	fmt.Fprintf(&out, "%04X\n", Checksum(out.Bytes()))
	return out.Bytes(), nil
}

// writeFuseLines splits plane's fuses into "L<offset> <bits>*" lines at
// every offset in breaks (plus 0 and plane.Len(), the implicit start and
// end), one line per [start,end) span.
func writeFuseLines(w *bytes.Buffer, plane *fuseplane.Plane1D, breaks []int) {
	n := plane.Len()
	cuts := make([]int, 0, len(breaks)+2)
	cuts = append(cuts, 0)
	cuts = append(cuts, breaks...)
	cuts = append(cuts, n)

	seen := make(map[int]bool, len(cuts))
	uniq := cuts[:0]
	for _, c := range cuts {
		if c < 0 || c > n || seen[c] {
			continue
		}
		seen[c] = true
		uniq = append(uniq, c)
	}
	for i := 1; i < len(uniq); i++ {
		for j := i; j > 0 && uniq[j-1] > uniq[j]; j-- {
			uniq[j-1], uniq[j] = uniq[j], uniq[j-1]
		}
	}

	for i := 0; i+1 < len(uniq); i++ {
		start, end := uniq[i], uniq[i+1]
		if start == end {
			continue
		}
		fmt.Fprintf(w, "L%05d ", start)
		for k := start; k < end; k++ {
			if plane.Get(k) {
				w.WriteByte('1')
			} else {
				w.WriteByte('0')
			}
		}
		w.WriteString("*\n")
	}
}

// Decode parses a ".jed" file produced by Encode (or any file following
// the same STX/QF/L/ETX/checksum conventions) into a Bitstream.
func Decode(data []byte) (*xc2bitstream.Bitstream, error) {
	if len(data) == 0 || data[0] != stx {
		return nil, &FormatError{Msg: "missing STX header byte"}
	}
	etxIdx := bytes.IndexByte(data, etx)
	if etxIdx < 0 {
		return nil, &FormatError{Msg: "missing ETX trailer byte"}
	}
	want := Checksum(data[:etxIdx+1])
	if trailer := strings.TrimSpace(string(data[etxIdx+1:])); trailer != "" {
		got, err := strconv.ParseUint(trailer, 16, 16)
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("malformed transmission checksum %q", trailer)}
		}
		if uint16(got) != want {
			return nil, &FormatError{Msg: fmt.Sprintf("transmission checksum mismatch: file says %04X, computed %04X", got, want)}
		}
	}

	var (
		triple    xc2device.Triple
		haveDev   bool
		fuseCount int
		haveCount bool
		plane     *fuseplane.Plane1D
	)

	scanner := bufio.NewScanner(bytes.NewReader(data[1:etxIdx]))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(strings.TrimSpace(scanner.Text()), "*")
		switch {
		case line == "":
			// blank separator line
		case strings.HasPrefix(line, "N DEVICE "):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "N DEVICE "))
			t, err := parseTripleCached(raw)
			if err != nil {
				return nil, err
			}
			triple, haveDev = t, true
		case strings.HasPrefix(line, "QF"):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "QF"))
			if err != nil {
				return nil, &FormatError{Msg: fmt.Sprintf("malformed QF field %q", line)}
			}
			fuseCount, haveCount = n, true
			plane = fuseplane.NewPlane1D(n)
		case strings.HasPrefix(line, "L"):
			if plane == nil {
				return nil, &FormatError{Msg: "L field appears before QF field"}
			}
			rest := strings.TrimPrefix(line, "L")
			sp := strings.IndexByte(rest, ' ')
			if sp < 0 {
				return nil, &FormatError{Msg: fmt.Sprintf("malformed L field %q", line)}
			}
			addr, err := strconv.Atoi(rest[:sp])
			if err != nil {
				return nil, &FormatError{Msg: fmt.Sprintf("malformed L field address %q", line)}
			}
			bits := strings.TrimSpace(rest[sp+1:])
			for i, c := range bits {
				pos := addr + i
				if pos < 0 || pos >= fuseCount {
					return nil, &FormatError{Msg: fmt.Sprintf("L field at offset %d overruns QF%d", addr, fuseCount)}
				}
				plane.Set(pos, c == '1')
			}
		default:
			// F<n> default-state field, C<checksum> field, and any other
			// comment line this encoder doesn't emit: ignored on read.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveDev {
		return nil, &FormatError{Msg: `missing "N DEVICE ..." header comment`}
	}
	if !haveCount {
		return nil, &FormatError{Msg: "missing QF field"}
	}

	return xc2bitstream.DecodeLogical(plane, triple.Device,
		xc2bitstream.SpeedGrade(triple.Speed), xc2bitstream.Package(triple.Package))
}
