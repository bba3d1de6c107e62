/*
   Copyright (c) 2020, btnmasher
   All rights reserved.

   Redistribution and use in source and binary forms, with or without modification, are permitted provided that
   the following conditions are met:

   1. Redistributions of source code must retain the above copyright notice, this list of conditions and the
      following disclaimer.

   2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and
      the following disclaimer in the documentation and/or other materials provided with the distribution.

   3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or
      promote products derived from this software without specific prior written permission.

   THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED
   WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
   PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR
   ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
   TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
   HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
   NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
   POSSIBILITY OF SUCH DAMAGE.
*/

// Package ircconn implements the framed line transport over a TCP-or-TLS
// stream: a \n-delimited, max-length-bounded codec with UTF-8-then-Latin-1
// fallback decoding, plus the cooperative Client session driver and its
// autoresponders.
package ircconn

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MaxLineLengthExceeded reports that an inbound line exceeded the codec's
// configured max_length before a newline was found; the codec discards
// bytes until the next newline and resumes normal framing.
type MaxLineLengthExceeded struct {
	MaxLength int
}

func (e *MaxLineLengthExceeded) Error() string {
	return "line exceeded max length"
}

// LineCodec splits an io.Reader's byte stream into CRLF- or LF-terminated
// lines, decoding each as UTF-8 with a Latin-1 fallback. max_length
// includes the terminating line ending: a line that reaches max_length
// bytes without a trailing \n enters a discard-until-next-newline state
// until the next \n is found, at which point normal framing resumes.
// Decoding never fails; MaxLineLengthExceeded is returned exactly once per
// over-length line, after which ReadLine continues scanning.
type LineCodec struct {
	r          *bufio.Reader
	maxLength  int
	discarding bool
	eof        bool
}

// NewLineCodec wraps r with the framing/decoding rules above. maxLength <=
// 0 uses irc.DefaultMaxLineLength.
func NewLineCodec(r io.Reader, maxLength int) *LineCodec {
	if maxLength <= 0 {
		maxLength = 8191
	}
	return &LineCodec{r: bufio.NewReaderSize(r, maxLength), maxLength: maxLength}
}

// ReadLine returns the next decoded line (with the line ending stripped),
// or io.EOF when the stream ends cleanly. A returned *MaxLineLengthExceeded
// is non-fatal: callers should continue calling ReadLine to resume framing
// on the next line.
func (c *LineCodec) ReadLine() (string, error) {
	for {
		raw, err := c.readRawLine()
		if err != nil {
			return "", err
		}
		if raw == nil {
			continue // empty line: skip it and read the next one
		}
		return decodeLine(raw), nil
	}
}

// readRawLine accumulates bytes up to the next \n, stripping a trailing \r.
// If the accumulator reaches max_length before a \n is seen, it enters the
// discard state: bytes are read and thrown away (without counting toward
// max_length again) until the next \n, and (nil, *MaxLineLengthExceeded) is
// returned so the caller can report the event once before retrying.
func (c *LineCodec) readRawLine() ([]byte, error) {
	if c.eof {
		return nil, io.EOF
	}
	if c.discarding {
		if err := c.discardUntilNewline(); err != nil {
			c.eof = true
			return nil, err
		}
		c.discarding = false
	}

	var buf []byte
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			c.eof = true
			if err == io.EOF && len(buf) == 0 {
				return nil, io.EOF
			}
			if err == io.EOF {
				return trimCR(buf), nil
			}
			return nil, err
		}
		if b == '\n' {
			return trimCR(buf), nil
		}
		buf = append(buf, b)
		if len(buf) >= c.maxLength {
			if err := c.discardUntilNewline(); err != nil {
				c.eof = (err == io.EOF)
				if !c.eof {
					return nil, err
				}
			}
			return nil, &MaxLineLengthExceeded{MaxLength: c.maxLength}
		}
	}
}

// discardUntilNewline reads and discards bytes until a \n is found.
func (c *LineCodec) discardUntilNewline() error {
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' {
			return nil
		}
	}
}

func trimCR(b []byte) []byte {
	return bytes.TrimSuffix(b, []byte("\r"))
}

// decodeLine attempts UTF-8 first; on invalid UTF-8 it reinterprets every
// byte as its Latin-1 (ISO-8859-1) code point via golang.org/x/text, which
// never fails since Latin-1 maps every byte to a Unicode code point 1:1.
func decodeLine(raw []byte) string {
	if isValidUTF8(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// charmap's Latin-1 decoder cannot fail in practice; fall back to the
		// raw bytes reinterpreted as runes if it somehow does.
		return string(raw)
	}
	return string(decoded)
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}

// WriteLine emits line verbatim followed by \r\n. The caller is responsible
// for not including \r or \n inside line.
func WriteLine(w io.Writer, line string) error {
	_, err := w.Write(append([]byte(line), '\r', '\n'))
	return err
}
