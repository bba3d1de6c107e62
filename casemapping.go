package irc

import "strings"

// CaseMapping defines the lowercasing and equality rule the server has
// advertised for nicknames and channel names via RPL_ISUPPORT CASEMAPPING.
type CaseMapping int

const (
	// CaseMappingRFC1459 folds '{', '|', '}', '~' onto '[', '\\', ']', '^'.
	CaseMappingRFC1459 CaseMapping = iota
	// CaseMappingRFC1459Strict is rfc1459 without the '~'<->'^' fold.
	CaseMappingRFC1459Strict
	// CaseMappingASCII folds only 'A'-'Z' onto 'a'-'z'.
	CaseMappingASCII
	// CaseMappingRFC7613 is the PRECIS-based casefold used by modern servers
	// advertising UTF8ONLY; approximated here with simple Unicode lowercasing
	// since the core does not implement full PRECIS profiles.
	CaseMappingRFC7613
)

// ParseCaseMapping maps an ISUPPORT CASEMAPPING token to a CaseMapping,
// defaulting to rfc1459 for unrecognized tokens, which is the historical
// IRC default absent any advertisement.
func ParseCaseMapping(token string) CaseMapping {
	switch strings.ToLower(token) {
	case "ascii":
		return CaseMappingASCII
	case "rfc1459-strict":
		return CaseMappingRFC1459Strict
	case "rfc7613":
		return CaseMappingRFC7613
	default:
		return CaseMappingRFC1459
	}
}

func (m CaseMapping) String() string {
	switch m {
	case CaseMappingASCII:
		return "ascii"
	case CaseMappingRFC1459Strict:
		return "rfc1459-strict"
	case CaseMappingRFC7613:
		return "rfc7613"
	default:
		return "rfc1459"
	}
}

// Fold lowercases s according to the receiver's rule.
func (m CaseMapping) Fold(s string) string {
	switch m {
	case CaseMappingASCII:
		return foldASCII(s)
	case CaseMappingRFC1459Strict:
		return foldRFC1459(s, false)
	case CaseMappingRFC7613:
		return strings.ToLower(s)
	default:
		return foldRFC1459(s, true)
	}
}

// Equal reports whether a and b are equivalent under the receiver's fold.
func (m CaseMapping) Equal(a, b string) bool {
	return m.Fold(a) == m.Fold(b)
}

func foldASCII(s string) string {
	buf := []byte(s)
	for i, b := range buf {
		if b >= 'A' && b <= 'Z' {
			buf[i] = b + ('a' - 'A')
		}
	}
	return string(buf)
}

func foldRFC1459(s string, includeTilde bool) string {
	buf := []byte(foldASCII(s))
	for i, b := range buf {
		switch b {
		case '{':
			buf[i] = '['
		case '}':
			buf[i] = ']'
		case '|':
			buf[i] = '\\'
		case '~':
			if includeTilde {
				buf[i] = '^'
			}
		}
	}
	return string(buf)
}
