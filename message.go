package irc

// Payload is the typed body of a Message: either a ClientMessage variant
// or a Reply variant, chosen by whether the verb is a command name or a
// 3-digit numeric.
type Payload interface {
	isPayload()
}

type clientPayload struct{ ClientMessage }
type replyPayload struct{ Reply }

func (clientPayload) isPayload() {}
func (replyPayload) isPayload()  {}

// Message is a RawMessage whose verb and parameters have been promoted to
// a typed Payload.
type Message struct {
	Tags    []Tag
	Source  *Source
	Payload Payload
}

// ParseMessage parses a wire line directly to a typed Message, surfacing
// parse errors from ParseRawMessage and typing errors from
// ClientMessageFromParts/ReplyFromParts uniformly as error; callers that
// need the untyped form should call ParseRawMessage directly.
func ParseMessage(line string) (Message, error) {
	raw, err := ParseRawMessage(line)
	if err != nil {
		return Message{}, err
	}
	return TypeMessage(raw)
}

// TypeMessage promotes an already-parsed RawMessage to a typed Message.
func TypeMessage(raw RawMessage) (Message, error) {
	var payload Payload
	if raw.Verb.IsNumeric() {
		r, err := ReplyFromParts(raw.Verb.Numeric(), raw.Parameters)
		if err != nil {
			return Message{}, err
		}
		payload = replyPayload{r}
	} else {
		cm, err := ClientMessageFromParts(raw.Verb, raw.Parameters)
		if err != nil {
			return Message{}, err
		}
		payload = clientPayload{cm}
	}
	return Message{Tags: raw.Tags, Source: raw.Source, Payload: payload}, nil
}

// AsClientMessage returns the ClientMessage payload and true, or the zero
// value and false if this Message carries a Reply instead.
func (m Message) AsClientMessage() (ClientMessage, bool) {
	if cp, ok := m.Payload.(clientPayload); ok {
		return cp.ClientMessage, true
	}
	return nil, false
}

// AsReply returns the Reply payload and true, or the zero value and false
// if this Message carries a ClientMessage instead.
func (m Message) AsReply() (Reply, bool) {
	if rp, ok := m.Payload.(replyPayload); ok {
		return rp.Reply, true
	}
	return nil, false
}

// NewClientMessage wraps an outbound ClientMessage as a Message with no
// tags or source, ready for Client.Send.
func NewClientMessage(cm ClientMessage) Message {
	return Message{Payload: clientPayload{cm}}
}

// ToRawMessage serializes a typed Message back to its untyped wire form,
// preserving tags and source.
func (m Message) ToRawMessage() RawMessage {
	var raw RawMessage
	switch p := m.Payload.(type) {
	case clientPayload:
		raw = ToRawMessage(p.ClientMessage)
	case replyPayload:
		raw = ReplyToRawMessage(p.Reply)
	}
	raw.Tags = m.Tags
	raw.Source = m.Source
	return raw
}

// String serializes the Message to wire form (without CRLF).
func (m Message) String() string {
	return m.ToRawMessage().String()
}
