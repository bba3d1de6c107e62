package ircconn

import "github.com/btnmasher/irc"

// AutoResponder is a stateful handler presented with every inbound Message
// before it reaches Client.Recv. HandleMessage returns true to claim the
// message (it will not be returned to the caller); TakeOutgoing drains any
// outbound Messages synthesized in response.
type AutoResponder interface {
	HandleMessage(msg irc.Message) bool
	TakeOutgoing() []irc.Message
}

// PingResponder claims PING messages and queues the matching PONG.
type PingResponder struct {
	pending []irc.Message
}

func (p *PingResponder) HandleMessage(msg irc.Message) bool {
	cm, ok := msg.AsClientMessage()
	if !ok {
		return false
	}
	ping, ok := cm.(irc.Ping)
	if !ok {
		return false
	}
	p.pending = append(p.pending, irc.NewClientMessage(irc.Pong{Token: ping.Token}))
	return true
}

func (p *PingResponder) TakeOutgoing() []irc.Message {
	out := p.pending
	p.pending = nil
	return out
}

// CtcpResponses configures CtcpQueryResponder's canned replies. A blank
// value for a given command means "no reply, do not claim".
type CtcpResponses struct {
	Version    string
	Source     string
	ClientInfo string
	UserInfo   string
	Finger     string
}

// CtcpQueryResponder claims CTCP queries addressed to localNick for which a
// configured canned response exists; TIME replies with the current local
// time whenever Now is set, and PING echoes the client's own params
// unconditionally.
// Unknown commands or ones without a configured response are not claimed.
type CtcpQueryResponder struct {
	LocalNick string
	Responses CtcpResponses
	Now       func() string // formats the current time for CTCP TIME; required for a TIME reply

	pending []irc.Message
}

func (c *CtcpQueryResponder) HandleMessage(msg irc.Message) bool {
	cm, ok := msg.AsClientMessage()
	if !ok {
		return false
	}
	pm, ok := cm.(irc.PrivMsg)
	if !ok || !irc.CaseMappingRFC1459.Equal(pm.Target, c.LocalNick) {
		return false
	}
	ctcp := irc.ParseCtcp(pm.Text)
	if ctcp.Kind == irc.CtcpPlain {
		return false
	}
	reply, ok := c.reply(ctcp)
	if !ok {
		return false
	}
	target := c.replyTarget(msg)
	c.pending = append(c.pending, irc.NewClientMessage(irc.Notice{
		Target: target,
		Text:   irc.EncodeCtcp(ctcp.Command, reply),
	}))
	return true
}

func (c *CtcpQueryResponder) replyTarget(msg irc.Message) string {
	if msg.Source != nil && msg.Source.IsClient {
		return msg.Source.Nick
	}
	return ""
}

func (c *CtcpQueryResponder) reply(ctcp irc.CtcpMessage) (string, bool) {
	switch ctcp.Kind {
	case irc.CtcpVersion:
		return c.Responses.Version, c.Responses.Version != ""
	case irc.CtcpSource:
		return c.Responses.Source, c.Responses.Source != ""
	case irc.CtcpClientInfo:
		return c.Responses.ClientInfo, c.Responses.ClientInfo != ""
	case irc.CtcpUserInfo:
		return c.Responses.UserInfo, c.Responses.UserInfo != ""
	case irc.CtcpFinger:
		return c.Responses.Finger, c.Responses.Finger != ""
	case irc.CtcpPing:
		return ctcp.Params, true
	case irc.CtcpTime:
		if c.Now == nil {
			return "", false
		}
		return c.Now(), true
	default:
		return "", false
	}
}

func (c *CtcpQueryResponder) TakeOutgoing() []irc.Message {
	out := c.pending
	c.pending = nil
	return out
}
