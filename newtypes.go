package irc

import "strings"

// Nickname is a validated IRC nickname: it starts with a letter or one of
// "[]\^_{|}`" and continues with letters, digits, '-', or the same special
// set, bounded by NICKLEN (default DefaultNickLength if the server has not
// advertised one).
type Nickname struct {
	value string
}

func isNickSpecial(b byte) bool {
	switch b {
	case '[', ']', '\\', '^', '_', '{', '|', '}', '`':
		return true
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ParseNickname validates s against the strict NICKLEN-bounded grammar.
// maxLen <= 0 uses DefaultNickLength.
func ParseNickname(s string, maxLen int) (Nickname, error) {
	if maxLen <= 0 {
		maxLen = DefaultNickLength
	}
	if len(s) == 0 || len(s) > maxLen {
		return Nickname{}, newParseError("Nickname", s)
	}
	if !isLetter(s[0]) && !isNickSpecial(s[0]) {
		return Nickname{}, newParseError("Nickname", s)
	}
	for i := 1; i < len(s); i++ {
		b := s[i]
		if !isLetter(b) && !isDigit(b) && b != '-' && !isNickSpecial(b) {
			return Nickname{}, newParseError("Nickname", s)
		}
	}
	return Nickname{value: s}, nil
}

// ParseNicknameLax accepts any non-empty byte sequence free of space, NUL,
// CR, and LF, for servers advertising UTF8ONLY that permit nicknames
// outside the strict RFC grammar. See the "Open question" design note.
func ParseNicknameLax(s string) (Nickname, error) {
	if len(s) == 0 {
		return Nickname{}, newParseError("Nickname", s)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', 0, '\r', '\n':
			return Nickname{}, newParseError("Nickname", s)
		}
	}
	return Nickname{value: s}, nil
}

func (n Nickname) String() string { return n.value }
func (n Nickname) IsZero() bool   { return n.value == "" }

// Username is a validated IRC username (the "ident" in nick!user@host): it
// must be non-empty and free of space, NUL, CR, LF, and '@'.
type Username struct {
	value string
}

func ParseUsername(s string) (Username, error) {
	if len(s) == 0 {
		return Username{}, newParseError("Username", s)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', 0, '\r', '\n', '@':
			return Username{}, newParseError("Username", s)
		}
	}
	return Username{value: s}, nil
}

func (u Username) String() string { return u.value }
func (u Username) IsZero() bool   { return u.value == "" }

// Channel is a validated channel name: starts with one of "#&+!" and
// contains no space, NUL, CR, LF, ',', or ':'.
type Channel struct {
	value string
}

func ParseChannel(s string) (Channel, error) {
	if len(s) == 0 {
		return Channel{}, newParseError("Channel", s)
	}
	switch s[0] {
	case '#', '&', '+', '!':
	default:
		return Channel{}, newParseError("Channel", s)
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case ' ', 0, '\r', '\n', ',', ':':
			return Channel{}, newParseError("Channel", s)
		}
	}
	return Channel{value: s}, nil
}

func (c Channel) String() string { return c.value }
func (c Channel) IsZero() bool   { return c.value == "" }

// Fold returns the case-mapped form of the channel name under m, for use as
// a canonicalization map key; the original server-provided form (String())
// must still be used whenever the name is echoed back to the user or wire.
func (c Channel) Fold(m CaseMapping) string { return m.Fold(c.value) }

// Key is a validated channel key (password): no space, NUL, CR, LF, or ','.
type Key struct {
	value string
}

func ParseKey(s string) (Key, error) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', 0, '\r', '\n', ',':
			return Key{}, newParseError("Key", s)
		}
	}
	return Key{value: s}, nil
}

func (k Key) String() string { return k.value }
func (k Key) IsZero() bool   { return k.value == "" }

// ModeString is a validated mode-change string: begins with '+' or '-' and
// is followed by mode letters with optional further '+'/'-' groups.
type ModeString struct {
	value string
}

func ParseModeString(s string) (ModeString, error) {
	if len(s) < 2 {
		return ModeString{}, newParseError("ModeString", s)
	}
	if s[0] != '+' && s[0] != '-' {
		return ModeString{}, newParseError("ModeString", s)
	}
	for i := 1; i < len(s); i++ {
		b := s[i]
		if b == '+' || b == '-' || isLetter(b) {
			continue
		}
		return ModeString{}, newParseError("ModeString", s)
	}
	return ModeString{value: s}, nil
}

func (m ModeString) String() string { return m.value }
func (m ModeString) IsZero() bool   { return m.value == "" }

// MedialParam is a non-trailing IRC parameter: non-empty, no space, NUL,
// CR, LF, and does not begin with ':'.
type MedialParam struct {
	value string
}

func ParseMedialParam(s string) (MedialParam, error) {
	if len(s) == 0 || s[0] == ':' {
		return MedialParam{}, newParseError("MedialParam", s)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', 0, '\r', '\n':
			return MedialParam{}, newParseError("MedialParam", s)
		}
	}
	return MedialParam{value: s}, nil
}

func (m MedialParam) String() string { return m.value }

// FinalParam (also called TrailingParam) may contain spaces and may begin
// with ':'; it excludes only NUL, CR, and LF.
type FinalParam struct {
	value string
}

func ParseFinalParam(s string) (FinalParam, error) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 0, '\r', '\n':
			return FinalParam{}, newParseError("FinalParam", s)
		}
	}
	return FinalParam{value: s}, nil
}

func (f FinalParam) String() string { return f.value }
func (f FinalParam) IsZero() bool   { return f.value == "" }

// TrailingParam is an alias kept for readers coming from the IRCv3/ircdocs
// vocabulary, where the last, colon-prefixed parameter is called trailing.
type TrailingParam = FinalParam

var ParseTrailingParam = ParseFinalParam

// IsMedialRepresentable reports whether s could be emitted as a medial
// parameter (no leading colon, no embedded space, non-empty), which governs
// whether a parameter must be forced to trailing form on serialization.
func IsMedialRepresentable(s string) bool {
	if len(s) == 0 || s[0] == ':' {
		return false
	}
	return !strings.ContainsRune(s, ' ')
}

// Verb identifies an IRC command name or a 3-digit numeric reply code.
// Known command names are canonicalized to uppercase; unknown verbs and
// all numerics are round-tripped as given.
type Verb struct {
	value    string
	numeric  bool
	numValue uint16
}

func ParseVerb(s string) (Verb, error) {
	if len(s) == 0 {
		return Verb{}, newParseError("Verb", s)
	}
	if len(s) == 3 && isDigit(s[0]) && isDigit(s[1]) && isDigit(s[2]) {
		n := uint16(s[0]-'0')*100 + uint16(s[1]-'0')*10 + uint16(s[2]-'0')
		return Verb{value: s, numeric: true, numValue: n}, nil
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return Verb{}, newParseError("Verb", s)
		}
	}
	return Verb{value: strings.ToUpper(s)}, nil
}

// VerbFromCommand builds a canonical command verb without validation, for
// internal construction of outbound ClientMessage values.
func VerbFromCommand(name string) Verb {
	return Verb{value: strings.ToUpper(name)}
}

// VerbFromNumeric builds a numeric verb from a reply code.
func VerbFromNumeric(code uint16) Verb {
	return Verb{value: padNumeric(code), numeric: true, numValue: code}
}

func padNumeric(code uint16) string {
	digits := [3]byte{'0', '0', '0'}
	for i := 2; i >= 0 && code > 0; i-- {
		digits[i] = byte('0' + code%10)
		code /= 10
	}
	return string(digits[:])
}

func (v Verb) String() string    { return v.value }
func (v Verb) IsNumeric() bool   { return v.numeric }
func (v Verb) Numeric() uint16   { return v.numValue }
func (v Verb) IsZero() bool      { return v.value == "" }

// CtcpParams is the payload of a CTCP message: no NUL, CR, LF, or 0x01.
type CtcpParams struct {
	value string
}

func ParseCtcpParams(s string) (CtcpParams, error) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 0, '\r', '\n', 0x01:
			return CtcpParams{}, newParseError("CtcpParams", s)
		}
	}
	return CtcpParams{value: s}, nil
}

func (c CtcpParams) String() string { return c.value }
