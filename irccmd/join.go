package irccmd

import (
	"fmt"

	"github.com/btnmasher/irc"
)

// JoinParams configures a Join command.
type JoinParams struct {
	Channel irc.Channel
	Key     *irc.Key
}

// JoinOutput is Join's GetOutput result.
type JoinOutput struct {
	Channel    string
	Topic      string
	TopicSetBy string
	TopicSetAt int64
	Members    []irc.NameReplyMember
}

// JoinError reports a channel-join rejection numeric.
type JoinError struct {
	Code    uint16
	Channel string
	Reason  string
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join %s: %s: %s", e.Channel, irc.NumericName(e.Code), e.Reason)
}

type joinState interface {
	handleMessage(j *Join, msg irc.Message) (next joinState, claimed bool)
}

// Join drives a single JOIN through the topic/names sequence to 366
// RPL_ENDOFNAMES, or to a typed error on any of the channel-error numerics.
type Join struct {
	params JoinParams

	state  joinState
	out    JoinOutput
	err    error
	done   bool
	outbox []irc.Message
}

// NewJoin constructs a Join command and queues the initial JOIN line.
func NewJoin(params JoinParams) *Join {
	j := &Join{params: params, state: joinStart{}}
	j.out.Channel = params.Channel.String()
	j.emit(irc.NewClientMessage(irc.NewJoin(params.Channel, params.Key)))
	return j
}

func (j *Join) emit(msgs ...irc.Message) { j.outbox = append(j.outbox, msgs...) }

func (j *Join) finish(out JoinOutput) {
	j.out = out
	j.done = true
}

func (j *Join) fail(err error) {
	j.err = err
	j.done = true
}

func (j *Join) GetClientMessages() []irc.Message {
	out := j.outbox
	j.outbox = nil
	return out
}

func (j *Join) HandleMessage(msg irc.Message) bool {
	if j.done {
		return false
	}
	if next, claimed := failOnChannelError(j, msg); claimed {
		_ = next
		return true
	}
	next, claimed := j.state.handleMessage(j, msg)
	if next != nil {
		j.state = next
	}
	return claimed
}

// GetTimeout reports no deadline: Join only advances on received messages.
func (j *Join) GetTimeout() (int64, bool) { return 0, false }
func (j *Join) HandleTimeout()            {}
func (j *Join) IsDone() bool              { return j.done }

func (j *Join) GetOutput() (any, error) {
	if j.err != nil {
		return nil, j.err
	}
	return j.out, nil
}

func (j *Join) channelMatches(channel string) bool {
	return irc.CaseMappingRFC1459.Equal(channel, j.out.Channel)
}

type joinStart struct{}

func (joinStart) handleMessage(j *Join, msg irc.Message) (joinState, bool) {
	cm, ok := msg.AsClientMessage()
	if !ok {
		return nil, false
	}
	join, ok := cm.(irc.Join)
	if !ok || !j.channelMatches(join.Channels) {
		return nil, false
	}
	return joinGotJoin{}, true
}

type joinGotJoin struct{}

func (joinGotJoin) handleMessage(j *Join, msg irc.Message) (joinState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	switch rep := r.(type) {
	case irc.TopicReply:
		if !j.channelMatches(rep.Channel) {
			return nil, false
		}
		j.out.Topic = rep.Topic
		return joinGotTopic{}, true
	}
	if r.Code() == irc.RPL_NOTOPIC {
		return joinGotTopic{}, true
	}
	if nr, ok := r.(irc.NameReply); ok {
		// Server skipped topic entirely; go straight to the roster.
		if !j.channelMatches(nr.Channel) {
			return nil, false
		}
		return joinGotNamReply{members: append([]irc.NameReplyMember(nil), nr.Members...)}, true
	}
	if r.Code() == irc.RPL_ENDOFNAMES {
		// Server skipped topic entirely; treat as already past it.
		return handleEndOfNames(j, r)
	}
	return nil, false
}

type joinGotTopic struct{}

func (joinGotTopic) handleMessage(j *Join, msg irc.Message) (joinState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	if tw, ok := r.(irc.TopicWhoTime); ok {
		if !j.channelMatches(tw.Channel) {
			return nil, false
		}
		j.out.TopicSetBy = tw.Who
		j.out.TopicSetAt = tw.SetAt
		return joinGotTopicWho{}, true
	}
	if nr, ok := r.(irc.NameReply); ok {
		if !j.channelMatches(nr.Channel) {
			return nil, false
		}
		return joinGotNamReply{members: append([]irc.NameReplyMember(nil), nr.Members...)}, true
	}
	return nil, false
}

type joinGotTopicWho struct{}

func (joinGotTopicWho) handleMessage(j *Join, msg irc.Message) (joinState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	if nr, ok := r.(irc.NameReply); ok {
		if !j.channelMatches(nr.Channel) {
			return nil, false
		}
		return joinGotNamReply{members: append([]irc.NameReplyMember(nil), nr.Members...)}, true
	}
	if r.Code() == irc.RPL_ENDOFNAMES {
		return handleEndOfNames(j, r)
	}
	return nil, false
}

// joinGotNamReply accumulates members across however many 353 lines the
// server splits the channel roster into.
type joinGotNamReply struct{ members []irc.NameReplyMember }

func (s joinGotNamReply) handleMessage(j *Join, msg irc.Message) (joinState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	if nr, ok := r.(irc.NameReply); ok {
		if !j.channelMatches(nr.Channel) {
			return nil, false
		}
		return joinGotNamReply{members: append(s.members, nr.Members...)}, true
	}
	if r.Code() == irc.RPL_ENDOFNAMES {
		j.out.Members = s.members
		return handleEndOfNames(j, r)
	}
	return nil, false
}

func handleEndOfNames(j *Join, r irc.Reply) (joinState, bool) {
	eon, ok := r.(irc.EndOfNames)
	if !ok || !j.channelMatches(eon.Channel) {
		return nil, false
	}
	j.finish(j.out)
	return nil, true
}

// failOnChannelError checks for the join-rejection numerics (403/405/
// 471/473/474/475/476/477), plus 421/451 protocol-level rejections. 417
// is not among the numerics the reply table recognizes, so it is not
// handled here.
func failOnChannelError(j *Join, msg irc.Message) (joinState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	switch ce := r.(type) {
	case irc.ChannelError:
		if !j.channelMatches(ce.Channel) {
			return nil, false
		}
		j.fail(&JoinError{Code: ce.Code(), Channel: ce.Channel, Reason: ce.Message})
		return nil, true
	}
	switch r.Code() {
	case irc.ERR_UNKNOWNCOMMAND, irc.ERR_NOTREGISTERED:
		j.fail(&JoinError{Code: r.Code(), Channel: j.out.Channel, Reason: irc.ReplyMessage(r)})
		return nil, true
	}
	return nil, false
}
