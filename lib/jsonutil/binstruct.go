// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package jsonutil

import (
	"encoding"
	"fmt"
	"io"

	"git.lukeshu.com/go/lowmemjson"
)

// Binary wraps a value that implements encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler (every fuse-bearing record in this module does)
// so that it round-trips through JSON as a hex string rather than as an
// array of small integers.
type Binary[T encoding.BinaryMarshaler] struct {
	Val T
}

var (
	_ lowmemjson.Encodable = Binary[encoding.BinaryMarshaler]{}
	_ lowmemjson.Decodable = (*Binary[encoding.BinaryMarshaler])(nil)
)

func (o Binary[T]) EncodeJSON(w io.Writer) error {
	bs, err := o.Val.MarshalBinary()
	if err != nil {
		return err
	}
	return EncodeHexString(w, bs)
}

func (o *Binary[T]) DecodeJSON(r io.RuneScanner) error {
	var buf []byte
	if err := DecodeHexString(r, byteSliceWriter{&buf}); err != nil {
		return err
	}
	unmarshaler, ok := any(&o.Val).(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("jsonutil: %T does not implement encoding.BinaryUnmarshaler", o.Val)
	}
	return unmarshaler.UnmarshalBinary(buf)
}

// byteSliceWriter adapts a *[]byte to io.ByteWriter, for use with
// DecodeHexString's push-style interface.
type byteSliceWriter struct {
	buf *[]byte
}

func (w byteSliceWriter) WriteByte(c byte) error {
	*w.buf = append(*w.buf, c)
	return nil
}
