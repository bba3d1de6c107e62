package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNickname(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"jwodder", true},
		{"[test]", true},
		{"`backtick", true},
		{"9nope", false},
		{"", false},
		{"way-too-long-for-nicklen", false},
		{"has space", false},
	}
	for _, tc := range cases {
		_, err := ParseNickname(tc.in, 0)
		if tc.valid {
			assert.NoErrorf(t, err, "expected %q to be valid", tc.in)
		} else {
			assert.Errorf(t, err, "expected %q to be invalid", tc.in)
		}
	}
}

func TestParseNickname_CustomLength(t *testing.T) {
	_, err := ParseNickname("abcdefghij", 9)
	assert.Error(t, err)
	_, err = ParseNickname("abcdefghij", 10)
	assert.NoError(t, err)
}

func TestParseChannel(t *testing.T) {
	for _, c := range []string{"#foo", "&local", "+modeless", "!12345ref"} {
		_, err := ParseChannel(c)
		assert.NoErrorf(t, err, c)
	}
	for _, c := range []string{"foo", "#has space", "#has,comma", ""} {
		_, err := ParseChannel(c)
		assert.Errorf(t, err, c)
	}
}

func TestParseVerb(t *testing.T) {
	v, err := ParseVerb("privmsg")
	assert.NoError(t, err)
	assert.Equal(t, "PRIVMSG", v.String())
	assert.False(t, v.IsNumeric())

	v, err = ParseVerb("001")
	assert.NoError(t, err)
	assert.True(t, v.IsNumeric())
	assert.Equal(t, uint16(1), v.Numeric())

	_, err = ParseVerb("9a9")
	assert.Error(t, err)
}

func TestIsMedialRepresentable(t *testing.T) {
	assert.True(t, IsMedialRepresentable("abc"))
	assert.False(t, IsMedialRepresentable(""))
	assert.False(t, IsMedialRepresentable(":abc"))
	assert.False(t, IsMedialRepresentable("a b"))
}
