package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCtcp_Action(t *testing.T) {
	c := ParseCtcp("\x01ACTION waves\x01")
	assert.Equal(t, CtcpAction, c.Kind)
	assert.Equal(t, "ACTION", c.Command)
	assert.Equal(t, "waves", c.Params)
}

func TestParseCtcp_NoParams(t *testing.T) {
	c := ParseCtcp("\x01VERSION\x01")
	assert.Equal(t, CtcpVersion, c.Kind)
	assert.Empty(t, c.Params)
}

func TestParseCtcp_UnterminatedStillParses(t *testing.T) {
	c := ParseCtcp("\x01PING 12345")
	assert.Equal(t, CtcpPing, c.Kind)
	assert.Equal(t, "12345", c.Params)
}

func TestParseCtcp_Unknown(t *testing.T) {
	c := ParseCtcp("\x01FROBNICATE\x01")
	assert.Equal(t, CtcpOther, c.Kind)
	assert.Equal(t, "FROBNICATE", c.Command)
}

func TestParseCtcp_Plain(t *testing.T) {
	c := ParseCtcp("just some text")
	assert.Equal(t, CtcpPlain, c.Kind)
	assert.Equal(t, "just some text", c.Text)
}

func TestEncodeCtcp(t *testing.T) {
	assert.Equal(t, "\x01ACTION waves\x01", EncodeCtcp("ACTION", "waves"))
	assert.Equal(t, "\x01VERSION\x01", EncodeCtcp("VERSION", ""))
}

func TestCtcp_RoundTrip(t *testing.T) {
	encoded := EncodeCtcp("PING", "98765")
	c := ParseCtcp(encoded)
	assert.Equal(t, CtcpPing, c.Kind)
	assert.Equal(t, "98765", c.Params)
}
