package irc

import "strings"

const ctcpDelim = '\x01'

// CtcpKind classifies a CTCP message by its command token.
type CtcpKind int

const (
	CtcpPlain CtcpKind = iota // not a CTCP message at all
	CtcpAction
	CtcpClientInfo
	CtcpDcc
	CtcpFinger
	CtcpPing
	CtcpSource
	CtcpTime
	CtcpUserInfo
	CtcpVersion
	CtcpOther
)

// CtcpMessage is the result of parsing a FinalParam as a possible CTCP
// payload.
type CtcpMessage struct {
	Kind    CtcpKind
	Command string // uppercased command token, empty for CtcpPlain
	Params  string
	Text    string // original text, for CtcpPlain
}

// ParseCtcp inspects text for CTCP delimiters. Non-CTCP text yields
// {Kind: CtcpPlain, Text: text}.
func ParseCtcp(text string) CtcpMessage {
	if len(text) < 1 || text[0] != ctcpDelim {
		return CtcpMessage{Kind: CtcpPlain, Text: text}
	}
	inner := text[1:]
	if len(inner) > 0 && inner[len(inner)-1] == ctcpDelim {
		inner = inner[:len(inner)-1]
	}
	cmd := inner
	params := ""
	if sp := strings.IndexByte(inner, ' '); sp >= 0 {
		cmd, params = inner[:sp], inner[sp+1:]
	}
	upper := strings.ToUpper(cmd)
	return CtcpMessage{Kind: classifyCtcp(upper), Command: upper, Params: params}
}

func classifyCtcp(cmd string) CtcpKind {
	switch cmd {
	case "ACTION":
		return CtcpAction
	case "CLIENTINFO":
		return CtcpClientInfo
	case "DCC":
		return CtcpDcc
	case "FINGER":
		return CtcpFinger
	case "PING":
		return CtcpPing
	case "SOURCE":
		return CtcpSource
	case "TIME":
		return CtcpTime
	case "USERINFO":
		return CtcpUserInfo
	case "VERSION":
		return CtcpVersion
	default:
		return CtcpOther
	}
}

// EncodeCtcp wraps command/params in CTCP delimiters for an outbound
// PRIVMSG/NOTICE text parameter.
func EncodeCtcp(command, params string) string {
	var b strings.Builder
	b.WriteByte(ctcpDelim)
	b.WriteString(command)
	if params != "" {
		b.WriteByte(' ')
		b.WriteString(params)
	}
	b.WriteByte(ctcpDelim)
	return b.String()
}
