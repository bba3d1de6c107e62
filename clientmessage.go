package irc

import "strconv"

// ClientMessage is a typed, outbound-or-inbound client-command message.
// Every recognized verb has a ClientVerb() accessor; the handful of verbs
// the core does not need richer field access for still round-trip through
// GenericClientMessage so that ClientMessageFromParts never rejects a
// verb this library is supposed to know.
type ClientMessage interface {
	ClientVerb() string
	params() []Parameter
}

// ClientMessageError reports a verb the core does not recognize at all, or
// a known verb whose parameter list could not be typed.
type ClientMessageError struct {
	Verb   string
	Reason string
}

func (e *ClientMessageError) Error() string {
	if e.Reason == "" {
		return "unrecognized client message verb " + strconv.Quote(e.Verb)
	}
	return "client message " + strconv.Quote(e.Verb) + ": " + e.Reason
}

// knownClientVerbs is the ~40-verb inventory this core recognizes; a verb
// outside this set is ClientMessageError, not GenericClientMessage.
var knownClientVerbs = map[string]bool{
	"PASS": true, "NICK": true, "USER": true, "OPER": true, "MODE": true,
	"SERVICE": true, "QUIT": true, "SQUIT": true, "JOIN": true, "PART": true,
	"TOPIC": true, "NAMES": true, "LIST": true, "INVITE": true, "KICK": true,
	"PRIVMSG": true, "NOTICE": true, "MOTD": true, "LUSERS": true,
	"VERSION": true, "STATS": true, "LINKS": true, "TIME": true,
	"CONNECT": true, "TRACE": true, "ADMIN": true, "INFO": true,
	"SERVLIST": true, "SQUERY": true, "WHO": true, "WHOIS": true,
	"WHOWAS": true, "KILL": true, "PING": true, "PONG": true, "ERROR": true,
	"AWAY": true, "REHASH": true, "RESTART": true, "SUMMON": true,
	"USERS": true, "WALLOPS": true, "USERHOST": true, "ISON": true,
	"CAP": true, "AUTHENTICATE": true,
}

// ClientMessageFromParts dispatches a verb/parameter pair parsed off the
// wire to its typed ClientMessage, mirroring ReplyFromParts for numerics.
func ClientMessageFromParts(verb Verb, params []Parameter) (ClientMessage, error) {
	name := verb.String()
	if !knownClientVerbs[name] {
		return nil, &ClientMessageError{Verb: name, Reason: "unknown"}
	}
	vals := paramValues(params)
	switch name {
	case "CAP":
		return parseCap(params, vals)
	case "AUTHENTICATE":
		if len(vals) != 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected one parameter"}
		}
		return Authenticate{Payload: vals[0]}, nil
	case "PASS":
		if len(vals) != 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected one parameter"}
		}
		return Pass{Password: vals[0]}, nil
	case "NICK":
		if len(vals) != 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected one parameter"}
		}
		return Nick{Nickname: vals[0]}, nil
	case "USER":
		if len(vals) != 4 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected four parameters"}
		}
		return User{Username: vals[0], Mode: vals[1], Unused: vals[2], Realname: vals[3]}, nil
	case "PING":
		if len(vals) < 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "missing token"}
		}
		return Ping{Token: vals[0]}, nil
	case "PONG":
		if len(vals) < 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "missing token"}
		}
		return Pong{Token: vals[len(vals)-1]}, nil
	case "QUIT":
		reason := ""
		if len(vals) > 0 {
			reason = vals[0]
		}
		return Quit{Reason: reason}, nil
	case "JOIN":
		if len(vals) < 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "missing channel list"}
		}
		key := ""
		if len(vals) > 1 {
			key = vals[1]
		}
		return Join{Channels: vals[0], Keys: key}, nil
	case "PART":
		if len(vals) < 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "missing channel list"}
		}
		reason := ""
		if len(vals) > 1 {
			reason = vals[1]
		}
		return Part{Channels: vals[0], Reason: reason}, nil
	case "TOPIC":
		if len(vals) < 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "missing channel"}
		}
		topic := ""
		hasTopic := len(vals) > 1
		if hasTopic {
			topic = vals[1]
		}
		return Topic{Channel: vals[0], NewTopic: topic, HasNewTopic: hasTopic}, nil
	case "KICK":
		if len(vals) < 2 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected channel and nick"}
		}
		comment := ""
		if len(vals) > 2 {
			comment = vals[2]
		}
		return Kick{Channel: vals[0], Nickname: vals[1], Comment: comment}, nil
	case "PRIVMSG":
		if len(vals) != 2 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected target and text"}
		}
		return PrivMsg{Target: vals[0], Text: vals[1]}, nil
	case "NOTICE":
		if len(vals) != 2 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected target and text"}
		}
		return Notice{Target: vals[0], Text: vals[1]}, nil
	case "MODE":
		if len(vals) < 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "missing target"}
		}
		return Mode{Target: vals[0], Args: vals[1:]}, nil
	case "ERROR":
		if len(vals) < 1 {
			return nil, &ClientMessageError{Verb: name, Reason: "missing message"}
		}
		return ErrorMsg{Message: vals[0]}, nil
	case "AWAY":
		msg := ""
		if len(vals) > 0 {
			msg = vals[0]
		}
		return Away{Message: msg}, nil
	case "INVITE":
		if len(vals) != 2 {
			return nil, &ClientMessageError{Verb: name, Reason: "expected nick and channel"}
		}
		return Invite{Nickname: vals[0], Channel: vals[1]}, nil
	case "NAMES":
		ch := ""
		if len(vals) > 0 {
			ch = vals[0]
		}
		return Names{Channel: ch}, nil
	case "LIST":
		ch := ""
		if len(vals) > 0 {
			ch = vals[0]
		}
		return List{Channel: ch}, nil
	default:
		return GenericClientMessage{Verb: name, Values: vals}, nil
	}
}

func paramValues(params []Parameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Value
	}
	return out
}

func medialOrTrailing(value string, last bool) Parameter {
	p := Parameter{Value: value}
	if last && !IsMedialRepresentable(value) {
		p.Trailing = true
	}
	return p
}

// --- CAP ---

type CapSubcommand string

const (
	CapLS  CapSubcommand = "LS"
	CapReq CapSubcommand = "REQ"
	CapEnd CapSubcommand = "END"
	CapAck CapSubcommand = "ACK"
	CapNak CapSubcommand = "NAK"
)

// Cap is the CAP negotiation verb, supporting both the client-sent
// (REQ/END/LS) and server-sent (LS/ACK/NAK) shapes; Continuation is set
// when an LS listing spans multiple lines (trailing "*" before the
// capability list).
type Cap struct {
	Subcommand   CapSubcommand
	Continuation bool
	Capabilities string
}

func (c Cap) ClientVerb() string { return "CAP" }
func (c Cap) params() []Parameter {
	ps := []Parameter{{Value: string(c.Subcommand)}}
	if c.Subcommand == CapLS || c.Subcommand == CapReq {
		if c.Continuation {
			ps = append(ps, Parameter{Value: "*"})
		}
		if c.Capabilities != "" || c.Subcommand == CapReq {
			ps = append(ps, medialOrTrailing(c.Capabilities, true))
		}
	}
	return ps
}

func parseCap(raw []Parameter, vals []string) (ClientMessage, error) {
	if len(vals) < 1 {
		return nil, &ClientMessageError{Verb: "CAP", Reason: "missing subcommand"}
	}
	isSub := func(s string) bool {
		switch CapSubcommand(s) {
		case CapLS, CapReq, CapEnd, CapAck, CapNak:
			return true
		}
		return false
	}
	if len(vals) >= 2 && !isSub(vals[0]) && isSub(vals[1]) {
		vals = vals[1:] // server-sent form: leading client target ("*" or nick)
	}
	c := Cap{Subcommand: CapSubcommand(vals[0])}
	rest := vals[1:]
	if len(rest) > 0 && rest[0] == "*" {
		c.Continuation = true
		rest = rest[1:]
	}
	if len(rest) > 0 {
		c.Capabilities = rest[len(rest)-1]
	}
	return c, nil
}

// NewCapLS builds "CAP LS 302".
func NewCapLS() Cap { return Cap{Subcommand: CapLS, Capabilities: "302"} }

// NewCapReq builds "CAP REQ :<caps>".
func NewCapReq(caps string) Cap { return Cap{Subcommand: CapReq, Capabilities: caps} }

// NewCapEnd builds "CAP END".
func NewCapEnd() Cap { return Cap{Subcommand: CapEnd} }

// --- AUTHENTICATE ---

type Authenticate struct{ Payload string }

func (a Authenticate) ClientVerb() string   { return "AUTHENTICATE" }
func (a Authenticate) params() []Parameter  { return []Parameter{{Value: a.Payload}} }
func NewAuthenticate(payload string) Authenticate { return Authenticate{Payload: payload} }

// --- PASS / NICK / USER ---

type Pass struct{ Password string }

func (p Pass) ClientVerb() string  { return "PASS" }
func (p Pass) params() []Parameter { return []Parameter{medialOrTrailing(p.Password, true)} }

type Nick struct{ Nickname string }

func (n Nick) ClientVerb() string  { return "NICK" }
func (n Nick) params() []Parameter { return []Parameter{{Value: n.Nickname}} }

type User struct {
	Username string
	Mode     string
	Unused   string
	Realname string
}

func (u User) ClientVerb() string { return "USER" }
func (u User) params() []Parameter {
	return []Parameter{
		{Value: u.Username}, {Value: u.Mode}, {Value: "*"},
		medialOrTrailing(u.Realname, true),
	}
}

func NewUser(username, realname string) User {
	return User{Username: username, Mode: "0", Unused: "*", Realname: realname}
}

// --- PING / PONG / QUIT / ERROR ---

type Ping struct{ Token string }

func (p Ping) ClientVerb() string  { return "PING" }
func (p Ping) params() []Parameter { return []Parameter{medialOrTrailing(p.Token, true)} }

type Pong struct{ Token string }

func (p Pong) ClientVerb() string  { return "PONG" }
func (p Pong) params() []Parameter { return []Parameter{medialOrTrailing(p.Token, true)} }

type Quit struct{ Reason string }

func (q Quit) ClientVerb() string { return "QUIT" }
func (q Quit) params() []Parameter {
	if q.Reason == "" {
		return nil
	}
	return []Parameter{medialOrTrailing(q.Reason, true)}
}

type ErrorMsg struct{ Message string }

func (e ErrorMsg) ClientVerb() string  { return "ERROR" }
func (e ErrorMsg) params() []Parameter { return []Parameter{medialOrTrailing(e.Message, true)} }

// --- channel commands ---

type Join struct {
	Channels string
	Keys     string
}

func (j Join) ClientVerb() string { return "JOIN" }
func (j Join) params() []Parameter {
	ps := []Parameter{{Value: j.Channels}}
	if j.Keys != "" {
		ps = append(ps, Parameter{Value: j.Keys})
	}
	return ps
}

func NewJoin(channel Channel, key *Key) Join {
	j := Join{Channels: channel.String()}
	if key != nil {
		j.Keys = key.String()
	}
	return j
}

type Part struct {
	Channels string
	Reason   string
}

func (p Part) ClientVerb() string { return "PART" }
func (p Part) params() []Parameter {
	ps := []Parameter{{Value: p.Channels}}
	if p.Reason != "" {
		ps = append(ps, medialOrTrailing(p.Reason, true))
	}
	return ps
}

type Topic struct {
	Channel     string
	NewTopic    string
	HasNewTopic bool
}

func (t Topic) ClientVerb() string { return "TOPIC" }
func (t Topic) params() []Parameter {
	ps := []Parameter{{Value: t.Channel}}
	if t.HasNewTopic {
		ps = append(ps, medialOrTrailing(t.NewTopic, true))
	}
	return ps
}

type Kick struct {
	Channel  string
	Nickname string
	Comment  string
}

func (k Kick) ClientVerb() string { return "KICK" }
func (k Kick) params() []Parameter {
	ps := []Parameter{{Value: k.Channel}, {Value: k.Nickname}}
	if k.Comment != "" {
		ps = append(ps, medialOrTrailing(k.Comment, true))
	}
	return ps
}

type Invite struct {
	Nickname string
	Channel  string
}

func (i Invite) ClientVerb() string  { return "INVITE" }
func (i Invite) params() []Parameter { return []Parameter{{Value: i.Nickname}, {Value: i.Channel}} }

type Names struct{ Channel string }

func (n Names) ClientVerb() string { return "NAMES" }
func (n Names) params() []Parameter {
	if n.Channel == "" {
		return nil
	}
	return []Parameter{{Value: n.Channel}}
}

type List struct{ Channel string }

func (l List) ClientVerb() string { return "LIST" }
func (l List) params() []Parameter {
	if l.Channel == "" {
		return nil
	}
	return []Parameter{{Value: l.Channel}}
}

// --- messaging ---

type PrivMsg struct {
	Target string
	Text   string
}

func (p PrivMsg) ClientVerb() string { return "PRIVMSG" }
func (p PrivMsg) params() []Parameter {
	return []Parameter{{Value: p.Target}, medialOrTrailing(p.Text, true)}
}

func NewPrivMsg(target, text string) PrivMsg { return PrivMsg{Target: target, Text: text} }

type Notice struct {
	Target string
	Text   string
}

func (n Notice) ClientVerb() string { return "NOTICE" }
func (n Notice) params() []Parameter {
	return []Parameter{{Value: n.Target}, medialOrTrailing(n.Text, true)}
}

func NewNotice(target, text string) Notice { return Notice{Target: target, Text: text} }

type Mode struct {
	Target string
	Args   []string
}

func (m Mode) ClientVerb() string { return "MODE" }
func (m Mode) params() []Parameter {
	ps := make([]Parameter, 0, len(m.Args)+1)
	ps = append(ps, Parameter{Value: m.Target})
	for i, a := range m.Args {
		ps = append(ps, medialOrTrailing(a, i == len(m.Args)-1))
	}
	return ps
}

type Away struct{ Message string }

func (a Away) ClientVerb() string { return "AWAY" }
func (a Away) params() []Parameter {
	if a.Message == "" {
		return nil
	}
	return []Parameter{medialOrTrailing(a.Message, true)}
}

// GenericClientMessage covers the remaining verbs in the ~40-verb
// inventory (WHOIS, WHOWAS, OPER, KILL, REHASH, RESTART, SUMMON, USERS,
// WALLOPS, USERHOST, ISON, SQUIT, CONNECT, TRACE, ADMIN, INFO, STATS,
// LINKS, TIME, VERSION, SERVLIST, SQUERY, LUSERS, MOTD, SERVICE, WHO)
// whose sessions never need richer field access than "the verb and its
// ordered string parameters".
type GenericClientMessage struct {
	Verb   string
	Values []string
}

func (g GenericClientMessage) ClientVerb() string { return g.Verb }
func (g GenericClientMessage) params() []Parameter {
	ps := make([]Parameter, len(g.Values))
	for i, v := range g.Values {
		ps[i] = medialOrTrailing(v, i == len(g.Values)-1)
	}
	return ps
}

// ToRawMessage serializes a ClientMessage back to wire form.
func ToRawMessage(cm ClientMessage) RawMessage {
	return RawMessage{
		Verb:       VerbFromCommand(cm.ClientVerb()),
		Parameters: cm.params(),
	}
}
