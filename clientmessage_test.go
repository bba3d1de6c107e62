package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientRoundTrip(t *testing.T, line string) ClientMessage {
	t.Helper()
	raw, err := ParseRawMessage(line)
	require.NoError(t, err)
	cm, err := ClientMessageFromParts(raw.Verb, raw.Parameters)
	require.NoError(t, err)
	assert.Equal(t, line, ToRawMessage(cm).String())
	return cm
}

func TestClientMessageFromParts_Typed(t *testing.T) {
	cm := clientRoundTrip(t, "CAP LS 302")
	cap, ok := cm.(Cap)
	require.True(t, ok)
	assert.Equal(t, CapLS, cap.Subcommand)
	assert.Equal(t, "302", cap.Capabilities)

	cm = clientRoundTrip(t, "AUTHENTICATE +")
	assert.Equal(t, Authenticate{Payload: "+"}, cm)

	cm = clientRoundTrip(t, "NICK jwodder")
	assert.Equal(t, Nick{Nickname: "jwodder"}, cm)

	cm = clientRoundTrip(t, "USER jwodder 0 * :J. Wodder")
	assert.Equal(t, User{Username: "jwodder", Mode: "0", Unused: "*", Realname: "J. Wodder"}, cm)

	cm = clientRoundTrip(t, "JOIN #chan key")
	assert.Equal(t, Join{Channels: "#chan", Keys: "key"}, cm)

	cm = clientRoundTrip(t, "PRIVMSG #chan :hello there")
	assert.Equal(t, PrivMsg{Target: "#chan", Text: "hello there"}, cm)
}

func TestClientMessageFromParts_CapContinuation(t *testing.T) {
	raw, err := ParseRawMessage("CAP REQ * :sasl multi-prefix")
	require.NoError(t, err)
	cm, err := ClientMessageFromParts(raw.Verb, raw.Parameters)
	require.NoError(t, err)
	c := cm.(Cap)
	assert.True(t, c.Continuation)
	assert.Equal(t, "sasl multi-prefix", c.Capabilities)
}

func TestClientMessageFromParts_Generic(t *testing.T) {
	cm := clientRoundTrip(t, "WHOIS jwodder")
	g, ok := cm.(GenericClientMessage)
	require.True(t, ok)
	assert.Equal(t, "WHOIS", g.Verb)
	assert.Equal(t, []string{"jwodder"}, g.Values)
}

func TestClientMessageFromParts_Errors(t *testing.T) {
	raw, err := ParseRawMessage("NOTAREALCOMMAND foo")
	require.NoError(t, err)
	_, err = ClientMessageFromParts(raw.Verb, raw.Parameters)
	assert.Error(t, err)

	raw, err = ParseRawMessage("USER onlyone")
	require.NoError(t, err)
	_, err = ClientMessageFromParts(raw.Verb, raw.Parameters)
	assert.Error(t, err)
}

func TestNewJoin(t *testing.T) {
	ch, err := ParseChannel("#chan")
	require.NoError(t, err)
	k, err := ParseKey("secret")
	require.NoError(t, err)
	j := NewJoin(ch, &k)
	assert.Equal(t, "#chan", j.Channels)
	assert.Equal(t, "secret", j.Keys)

	j2 := NewJoin(ch, nil)
	assert.Empty(t, j2.Keys)
}
