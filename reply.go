package irc

import "strconv"

// Reply is a typed numeric server reply. Every code in the numerics table
// is "known"; codes with a dedicated contract pattern (welcome banners,
// ISUPPORT, NAMREPLY, MOTD, the 400-class errors the command state
// machines branch on, SASL 900-series) get a typed struct, the rest
// surface as GenericReply.
type Reply interface {
	Code() uint16
	params() []Parameter
}

// ReplyError reports a numeric outside the dispatch table, or a known
// numeric whose parameters didn't match its documented contract.
type ReplyError struct {
	Code   uint16
	Reason string
}

func (e *ReplyError) Error() string {
	name := NumericName(e.Code)
	if name == "" {
		name = "numeric " + strconv.Itoa(int(e.Code))
	}
	if e.Reason == "" {
		return "unrecognized " + name
	}
	return name + ": " + e.Reason
}

// ReplyFromParts dispatches a numeric code/parameter pair parsed off the
// wire to its typed Reply.
func ReplyFromParts(code uint16, params []Parameter) (Reply, error) {
	if !IsKnownNumeric(code) {
		return nil, &ReplyError{Code: code}
	}
	vals := paramValues(params)
	switch code {
	case RPL_WELCOME, RPL_YOURHOST, RPL_CREATED:
		return bannerReply(code, vals)
	case RPL_MYINFO:
		return MyInfo{Target: first(vals), Fields: rest(vals, 1)}, nil
	case RPL_ISUPPORT:
		return parseISupport(vals)
	case RPL_LUSERCLIENT, RPL_LUSERME:
		return bannerReply(code, vals)
	case RPL_LUSEROP, RPL_LUSERUNKNOWN, RPL_LUSERCHANNELS:
		return luserCount(code, vals)
	case RPL_LOCALUSERS, RPL_GLOBALUSERS:
		return bannerReply(code, vals)
	case RPL_UMODEIS:
		return UserModeIs{Target: first(vals), Modes: second(vals)}, nil
	case RPL_TOPIC:
		return Topic_(code, vals), nil
	case RPL_TOPICWHOTIME:
		return topicWhoTime(vals)
	case RPL_NAMREPLY:
		return nameReply(vals)
	case RPL_ENDOFNAMES:
		return EndOfNames{Target: first(vals), Channel: second(vals)}, nil
	case RPL_MOTDSTART, RPL_MOTD, RPL_ENDOFMOTD, ERR_NOMOTD:
		return bannerReply(code, vals)
	case RPL_LOGGEDIN:
		return loggedIn(vals)
	case RPL_LOGGEDOUT, RPL_SASLSUCCESS:
		return bannerReply(code, vals)
	case ERR_NICKLOCKED, ERR_SASLFAIL, ERR_SASLTOOLONG, ERR_SASLABORTED,
		ERR_SASLALREADY, RPL_SASLMECHS:
		return bannerReply(code, vals)
	case ERR_UNKNOWNCOMMAND:
		return UnknownCommand{Target: first(vals), Subject: second(vals)}, nil
	case ERR_ERRONEUSNICKNAME, ERR_NICKNAMEINUSE, ERR_NICKCOLLISION,
		ERR_UNAVAILRESOURCE, ERR_NONICKNAMEGIVEN:
		return nickError(code, vals)
	case ERR_NOSUCHCHANNEL, ERR_TOOMANYCHANNELS, ERR_CHANNELISFULL,
		ERR_INVITEONLYCHAN, ERR_BANNEDFROMCHAN, ERR_BADCHANNELKEY,
		ERR_BADCHANMASK, ERR_NOCHANMODES:
		return channelError(code, vals)
	case ERR_NOTREGISTERED, ERR_PASSWDMISMATCH, ERR_YOUREBANNEDCREEP,
		ERR_NEEDMOREPARAMS, ERR_ALREADYREGISTERED:
		return bannerReply(code, vals)
	default:
		return GenericReply{code: code, Values: vals}, nil
	}
}

func first(v []string) string {
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func second(v []string) string {
	if len(v) > 1 {
		return v[1]
	}
	return ""
}

func rest(v []string, from int) []string {
	if from >= len(v) {
		return nil
	}
	return v[from:]
}

// bannerReply covers the common "reply-target + message" contract pattern
// shared by 001-003, 251/255, 265/266, 372/375/376/422, the SASL 900-series
// banners, and the plain 4xx "target + message" errors.
type bannerReplyMsg struct {
	code    uint16
	Target  string
	Message string
}

func (b bannerReplyMsg) Code() uint16 { return b.code }
func (b bannerReplyMsg) params() []Parameter {
	return []Parameter{{Value: b.Target}, medialOrTrailing(b.Message, true)}
}

func bannerReply(code uint16, vals []string) (Reply, error) {
	if len(vals) < 2 {
		return nil, &ReplyError{Code: code, Reason: "expected target and message"}
	}
	return bannerReplyMsg{code: code, Target: vals[0], Message: vals[len(vals)-1]}, nil
}

// luserCount covers the "reply-target + datum + message" pattern (252-254).
type LuserCount struct {
	code    uint16
	Target  string
	Count   int
	Message string
}

func (l LuserCount) Code() uint16 { return l.code }
func (l LuserCount) params() []Parameter {
	return []Parameter{{Value: l.Target}, {Value: strconv.Itoa(l.Count)}, medialOrTrailing(l.Message, true)}
}

func luserCount(code uint16, vals []string) (Reply, error) {
	if len(vals) < 3 {
		return nil, &ReplyError{Code: code, Reason: "expected target, count, message"}
	}
	n, err := strconv.Atoi(vals[1])
	if err != nil {
		return nil, &ReplyError{Code: code, Reason: "non-numeric count"}
	}
	return LuserCount{code: code, Target: vals[0], Count: n, Message: vals[len(vals)-1]}, nil
}

// MyInfo is RPL_MYINFO (004): server name, version, user/chan modes.
type MyInfo struct {
	Target string
	Fields []string
}

func (m MyInfo) Code() uint16 { return RPL_MYINFO }
func (m MyInfo) params() []Parameter {
	ps := []Parameter{{Value: m.Target}}
	for _, f := range m.Fields {
		ps = append(ps, Parameter{Value: f})
	}
	return ps
}

// ISupport is RPL_ISUPPORT (005): target plus a list of ISupportParam
// tokens (the trailing "are supported by this server" message is dropped).
type ISupport struct {
	Target string
	Params []ISupportParam
}

func (i ISupport) Code() uint16 { return RPL_ISUPPORT }
func (i ISupport) params() []Parameter {
	ps := []Parameter{{Value: i.Target}}
	for _, p := range i.Params {
		ps = append(ps, Parameter{Value: p.String()})
	}
	ps = append(ps, medialOrTrailing("are supported by this server", true))
	return ps
}

func parseISupport(vals []string) (Reply, error) {
	if len(vals) < 1 {
		return nil, &ReplyError{Code: RPL_ISUPPORT, Reason: "missing target"}
	}
	target := vals[0]
	tokens := vals[1:]
	var params []ISupportParam
	for _, t := range tokens {
		if t == "" || containsSpace(t) {
			continue
		}
		params = append(params, ParseISupportParam(t))
	}
	return ISupport{Target: target, Params: params}, nil
}

func containsSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return true
		}
	}
	return false
}

// UserModeIs is RPL_UMODEIS (221).
type UserModeIs struct {
	Target string
	Modes  string
}

func (u UserModeIs) Code() uint16 { return RPL_UMODEIS }
func (u UserModeIs) params() []Parameter {
	return []Parameter{{Value: u.Target}, {Value: u.Modes}}
}

// TopicReply is RPL_TOPIC (332).
type TopicReply struct {
	Target  string
	Channel string
	Topic   string
}

func (t TopicReply) Code() uint16 { return RPL_TOPIC }
func (t TopicReply) params() []Parameter {
	return []Parameter{{Value: t.Target}, {Value: t.Channel}, medialOrTrailing(t.Topic, true)}
}

func Topic_(code uint16, vals []string) Reply {
	var t TopicReply
	if len(vals) > 0 {
		t.Target = vals[0]
	}
	if len(vals) > 1 {
		t.Channel = vals[1]
	}
	if len(vals) > 2 {
		t.Topic = vals[len(vals)-1]
	}
	return t
}

// TopicWhoTime is RPL_TOPICWHOTIME (333): who set the topic and when.
type TopicWhoTime struct {
	Target  string
	Channel string
	Who     string
	SetAt   int64
}

func (t TopicWhoTime) Code() uint16 { return RPL_TOPICWHOTIME }
func (t TopicWhoTime) params() []Parameter {
	return []Parameter{
		{Value: t.Target}, {Value: t.Channel}, {Value: t.Who},
		{Value: strconv.FormatInt(t.SetAt, 10)},
	}
}

func topicWhoTime(vals []string) (Reply, error) {
	if len(vals) < 4 {
		return nil, &ReplyError{Code: RPL_TOPICWHOTIME, Reason: "expected 4 parameters"}
	}
	ts, err := strconv.ParseInt(vals[3], 10, 64)
	if err != nil {
		return nil, &ReplyError{Code: RPL_TOPICWHOTIME, Reason: "non-numeric timestamp"}
	}
	return TopicWhoTime{Target: vals[0], Channel: vals[1], Who: vals[2], SetAt: ts}, nil
}

// NameReplyMember is one "[prefix]nick" entry inside RPL_NAMREPLY.
type NameReplyMember struct {
	Prefix byte // 0 if none
	Nick   string
}

// NameReply is RPL_NAMREPLY (353).
type NameReply struct {
	Target     string
	Visibility string // "=", "*", or "@"
	Channel    string
	Members    []NameReplyMember
}

func (n NameReply) Code() uint16 { return RPL_NAMREPLY }
func (n NameReply) params() []Parameter {
	names := make([]string, len(n.Members))
	for i, m := range n.Members {
		if m.Prefix != 0 {
			names[i] = string(m.Prefix) + m.Nick
		} else {
			names[i] = m.Nick
		}
	}
	return []Parameter{
		{Value: n.Target}, {Value: n.Visibility}, {Value: n.Channel},
		medialOrTrailing(joinSpace(names), true),
	}
}

func joinSpace(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

func nameReply(vals []string) (Reply, error) {
	if len(vals) < 4 {
		return nil, &ReplyError{Code: RPL_NAMREPLY, Reason: "expected 4 parameters"}
	}
	nr := NameReply{Target: vals[0], Visibility: vals[1], Channel: vals[2]}
	for _, tok := range splitSpace(vals[3]) {
		if tok == "" {
			continue
		}
		switch tok[0] {
		case '@', '+', '%', '&', '~':
			nr.Members = append(nr.Members, NameReplyMember{Prefix: tok[0], Nick: tok[1:]})
		default:
			nr.Members = append(nr.Members, NameReplyMember{Nick: tok})
		}
	}
	return nr, nil
}

func splitSpace(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// EndOfNames is RPL_ENDOFNAMES (366).
type EndOfNames struct {
	Target  string
	Channel string
}

func (e EndOfNames) Code() uint16 { return RPL_ENDOFNAMES }
func (e EndOfNames) params() []Parameter {
	return []Parameter{{Value: e.Target}, {Value: e.Channel}, medialOrTrailing("End of /NAMES list", true)}
}

// LoggedIn is RPL_LOGGEDIN (900).
type LoggedIn struct {
	Target   string
	Mask     string
	Account  string
	Message  string
}

func (l LoggedIn) Code() uint16 { return RPL_LOGGEDIN }
func (l LoggedIn) params() []Parameter {
	return []Parameter{{Value: l.Target}, {Value: l.Mask}, {Value: l.Account}, medialOrTrailing(l.Message, true)}
}

func loggedIn(vals []string) (Reply, error) {
	if len(vals) < 4 {
		return nil, &ReplyError{Code: RPL_LOGGEDIN, Reason: "expected 4 parameters"}
	}
	return LoggedIn{Target: vals[0], Mask: vals[1], Account: vals[2], Message: vals[len(vals)-1]}, nil
}

// UnknownCommand is ERR_UNKNOWNCOMMAND (421); Subject names the command
// the server didn't recognize — checked against "CAP" for the CAP-302
// fallback design note.
type UnknownCommand struct {
	Target  string
	Subject string
}

func (u UnknownCommand) Code() uint16 { return ERR_UNKNOWNCOMMAND }
func (u UnknownCommand) params() []Parameter {
	return []Parameter{{Value: u.Target}, {Value: u.Subject}, medialOrTrailing("Unknown command", true)}
}

// NickError covers the 431/432/433/436/437 family: target + bad nick + message.
type NickError struct {
	code    uint16
	Target  string
	Nick    string
	Message string
}

func (n NickError) Code() uint16 { return n.code }
func (n NickError) params() []Parameter {
	return []Parameter{{Value: n.Target}, {Value: n.Nick}, medialOrTrailing(n.Message, true)}
}

func nickError(code uint16, vals []string) (Reply, error) {
	if len(vals) < 2 {
		return nil, &ReplyError{Code: code, Reason: "expected target and nick"}
	}
	msg := ""
	if len(vals) > 2 {
		msg = vals[len(vals)-1]
	}
	nick := vals[1]
	if len(vals) == 2 {
		// ERR_NONICKNAMEGIVEN has no nick field, only target + message.
		nick, msg = "", vals[1]
	}
	return NickError{code: code, Target: vals[0], Nick: nick, Message: msg}, nil
}

// ChannelError covers the 403/405/471/473/474/475/476/477 family: target +
// channel + message.
type ChannelError struct {
	code    uint16
	Target  string
	Channel string
	Message string
}

func (c ChannelError) Code() uint16 { return c.code }
func (c ChannelError) params() []Parameter {
	return []Parameter{{Value: c.Target}, {Value: c.Channel}, medialOrTrailing(c.Message, true)}
}

func channelError(code uint16, vals []string) (Reply, error) {
	if len(vals) < 2 {
		return nil, &ReplyError{Code: code, Reason: "expected target and channel"}
	}
	msg := ""
	if len(vals) > 2 {
		msg = vals[len(vals)-1]
	}
	return ChannelError{code: code, Target: vals[0], Channel: vals[1], Message: msg}, nil
}

// GenericReply covers every known numeric without a dedicated contract
// struct above: its Values are the raw parameter strings in order.
type GenericReply struct {
	code   uint16
	Values []string
}

func (g GenericReply) Code() uint16 { return g.code }
func (g GenericReply) params() []Parameter {
	ps := make([]Parameter, len(g.Values))
	for i, v := range g.Values {
		ps[i] = medialOrTrailing(v, i == len(g.Values)-1)
	}
	return ps
}

// ReplyMessage extracts the trailing human-readable text carried by a
// Reply, for the numerics that carry one (banners, MOTD lines, LUSERS
// counts, the various named error structs). Returns "" for replies with no
// such field, including GenericReply.
func ReplyMessage(r Reply) string {
	switch v := r.(type) {
	case bannerReplyMsg:
		return v.Message
	case LuserCount:
		return v.Message
	case NickError:
		return v.Message
	case ChannelError:
		return v.Message
	case LoggedIn:
		return v.Message
	default:
		return ""
	}
}

// ReplyToRawMessage serializes a Reply back to wire form.
func ReplyToRawMessage(r Reply) RawMessage {
	return RawMessage{
		Verb:       VerbFromNumeric(r.Code()),
		Parameters: r.params(),
	}
}
