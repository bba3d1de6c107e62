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

package irc

// Error is a workaround to allow for immutable error strings which satisfy
// the error interface, the same way a sentinel condition with no payload
// is represented throughout this package.
type Error string

func (err Error) Error() string {
	return string(err)
}

func (err Error) String() string {
	return string(err)
}

// Sentinel errors with no associated payload.
const (
	ErrEmptyLine       Error = "empty line"
	ErrMissingVerb     Error = "missing verb"
	ErrTrailingGarbage Error = "unexpected data after trailing parameter"
	ErrTooManyParams   Error = "too many parameters"
	ErrUnknownVerb     Error = "unrecognized client message verb"
	ErrUnknownNumeric  Error = "unrecognized numeric reply code"
	ErrSaslNonceReuse  Error = "server nonce does not extend client nonce"
	ErrSaslSignature   Error = "server signature verification failed"
)

// ParseError reports a failed newtype or grammar parse, retaining the
// offending input so the caller can log or recover it, mirroring the
// "return the error plus the original string" contract every primitive
// newtype's fallible constructor follows.
type ParseError struct {
	Kind  string
	Input string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return "parse " + e.Kind + " " + quoteForError(e.Input) + ": " + e.Cause.Error()
	}
	return "parse " + e.Kind + ": invalid value " + quoteForError(e.Input)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func quoteForError(s string) string {
	if len(s) > 64 {
		s = s[:64] + "..."
	}
	return "\"" + s + "\""
}

func newParseError(kind, input string) error {
	return &ParseError{Kind: kind, Input: input}
}
