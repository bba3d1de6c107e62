package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Vectors below are ported from the ircdocs msg-split.yaml parser test
// suite (https://github.com/ircdocs/parser-tests), exercised here as plain
// Go table cases rather than the original YAML/Rust forms.
func TestParseRawMessage_Vectors(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		source string // "" if no source expected
		verb   string
		want   []string
	}{
		{"simple", "foo bar baz asdf", "", "FOO", []string{"bar", "baz", "asdf"}},
		{"with-source", ":coolguy foo bar baz asdf", "coolguy", "FOO", []string{"bar", "baz", "asdf"}},
		{"trailing", "foo bar baz :asdf quux", "", "FOO", []string{"bar", "baz", "asdf quux"}},
		{"empty-trailing", "foo bar baz :", "", "FOO", []string{"bar", "baz", ""}},
		{"double-colon-trailing", "foo bar baz ::asdf", "", "FOO", []string{"bar", "baz", ":asdf"}},
		{"colon-only-trailing", "foo bar baz :  sp  ", "", "FOO", []string{"bar", "baz", "  sp  "}},
		{"with-source-and-trailing1", ":coolguy foo bar baz :asdf quux", "coolguy", "FOO", []string{"bar", "baz", "asdf quux"}},
		{"with-source-and-trailing2", ":coolguy foo bar baz :  asdf quux ", "coolguy", "FOO", []string{"bar", "baz", "  asdf quux "}},
		{"with-source-and-trailing3", ":coolguy PRIVMSG bar :lol :) ", "coolguy", "PRIVMSG", []string{"bar", "lol :) "}},
		{"with-source-and-trailing4", ":coolguy foo bar baz :", "coolguy", "FOO", []string{"bar", "baz", ""}},
		{"with-source-and-trailing5", ":coolguy foo bar baz :  ", "coolguy", "FOO", []string{"bar", "baz", "  "}},
		{"last-param1", ":src JOIN #chan", "src", "JOIN", []string{"#chan"}},
		{"last-param2", ":src JOIN :#chan", "src", "JOIN", []string{"#chan"}},
		{"without-last-param", ":src AWAY", "src", "AWAY", []string{}},
		{"with-last-param", ":src AWAY ", "src", "AWAY", []string{}},
		{"misc01", ":irc.example.com COMMAND param1 param2 :param3 param3", "irc.example.com", "COMMAND", []string{"param1", "param2", "param3 param3"}},
		{"just-command", "COMMAND", "", "COMMAND", []string{}},
		{"unreal01", ":gravel.mozilla.org 432  #momo :Erroneous Nickname: Illegal characters", "gravel.mozilla.org", "432", []string{"#momo", "Erroneous Nickname: Illegal characters"}},
		{"unreal02", ":gravel.mozilla.org MODE #tckk +n ", "gravel.mozilla.org", "MODE", []string{"#tckk", "+n"}},
		{"unreal03", ":services.esper.net MODE #foo-bar +o foobar  ", "services.esper.net", "MODE", []string{"#foo-bar", "+o", "foobar"}},
		{"mode01", ":SomeOp MODE #channel :+i", "SomeOp", "MODE", []string{"#channel", "+i"}},
		{"mode02", ":SomeOp MODE #channel +oo SomeUser :AnotherUser", "SomeOp", "MODE", []string{"#channel", "+oo", "SomeUser", "AnotherUser"}},
		{"no-params", "foo", "", "FOO", []string{}},
		{"numeric", "351 target", "", "351", []string{"target"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := ParseRawMessage(tc.line)
			require.NoError(t, err)
			if tc.source == "" {
				assert.Nil(t, msg.Source)
			} else {
				require.NotNil(t, msg.Source)
				assert.Equal(t, tc.source, msg.Source.String())
			}
			assert.Equal(t, tc.verb, msg.Verb.String())
			vals := make([]string, len(msg.Parameters))
			for i, p := range msg.Parameters {
				vals[i] = p.Value
			}
			assert.Equal(t, tc.want, vals)
		})
	}
}

// tab_not_space, control_code_source1, control_code_source2 from the same
// suite: the source prefix ends at the first literal space, so embedded
// tabs and mIRC control bytes are part of the source, not delimiters.
func TestParseRawMessage_SourceWithControlBytes(t *testing.T) {
	msg, err := ParseRawMessage(":cool\tguy foo bar baz")
	require.NoError(t, err)
	require.NotNil(t, msg.Source)
	assert.Equal(t, "cool\tguy", msg.Source.String())
	assert.Equal(t, "FOO", msg.Verb.String())

	msg, err = ParseRawMessage(":coolguy!ag@net\x035w\x03ork.admin PRIVMSG foo :bar baz")
	require.NoError(t, err)
	require.NotNil(t, msg.Source)
	assert.Equal(t, "coolguy!ag@net\x035w\x03ork.admin", msg.Source.String())
	assert.Equal(t, []string{"foo", "bar baz"}, rawParamValues(msg))

	msg, err = ParseRawMessage(":coolguy!~ag@n\x02et\x0305w\x0fork.admin PRIVMSG foo :bar baz")
	require.NoError(t, err)
	require.NotNil(t, msg.Source)
	assert.Equal(t, "coolguy!~ag@n\x02et\x0305w\x0fork.admin", msg.Source.String())
	assert.Equal(t, []string{"foo", "bar baz"}, rawParamValues(msg))
}

func rawParamValues(msg RawMessage) []string {
	vals := make([]string, len(msg.Parameters))
	for i, p := range msg.Parameters {
		vals[i] = p.Value
	}
	return vals
}

func TestParseRawMessage_SourceAndTags(t *testing.T) {
	msg, err := ParseRawMessage("@id=123;draft=yes :dan!d@localhost PRIVMSG #chan :hey")
	require.NoError(t, err)
	require.Len(t, msg.Tags, 2)
	assert.Equal(t, "id", msg.Tags[0].Key)
	assert.Equal(t, "123", msg.Tags[0].Value)
	assert.Equal(t, "draft", msg.Tags[1].Key)
	assert.Equal(t, "yes", msg.Tags[1].Value)
	require.NotNil(t, msg.Source)
	assert.True(t, msg.Source.IsClient)
	assert.Equal(t, "dan", msg.Source.Nick)
	assert.Equal(t, "d", msg.Source.ClientUser)
	assert.Equal(t, "localhost", msg.Source.ClientHost)
	assert.Equal(t, "PRIVMSG", msg.Verb.String())
}

func TestParseRawMessage_BareHostSource(t *testing.T) {
	msg, err := ParseRawMessage(":irc.example.com 001 nick :Welcome")
	require.NoError(t, err)
	require.NotNil(t, msg.Source)
	assert.False(t, msg.Source.IsClient)
	assert.Equal(t, "irc.example.com", msg.Source.Host)
	assert.True(t, msg.Verb.IsNumeric())
	assert.Equal(t, uint16(1), msg.Verb.Numeric())
}

func TestParseRawMessage_Errors(t *testing.T) {
	_, err := ParseRawMessage("")
	assert.Error(t, err)

	_, err = ParseRawMessage(":onlysource")
	assert.Error(t, err)
}

func TestRawMessage_SerializeRoundTrip(t *testing.T) {
	line := "PRIVMSG #chan :hello there"
	msg, err := ParseRawMessage(line)
	require.NoError(t, err)
	assert.Equal(t, line, msg.String())
}

func TestRawMessage_MedialForcedToTrailing(t *testing.T) {
	// A final parameter containing a space must be serialized as trailing
	// even if the RawMessage was built directly rather than parsed.
	msg := RawMessage{
		Verb:       VerbFromCommand("PRIVMSG"),
		Parameters: []Parameter{{Value: "#chan"}, {Value: "hello there"}},
	}
	assert.Equal(t, "PRIVMSG #chan :hello there", msg.String())
}

func TestTagEscaping(t *testing.T) {
	msg, err := ParseRawMessage(`@a=b\:c\s\\d PING x`)
	require.NoError(t, err)
	require.Len(t, msg.Tags, 1)
	assert.Equal(t, "b;c \\d", msg.Tags[0].Value)
}
