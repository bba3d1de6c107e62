package irccmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btnmasher/irc"
)

func feedJoin(t *testing.T, j *Join, line string) bool {
	t.Helper()
	j.GetClientMessages()
	msg, err := irc.ParseMessage(line)
	require.NoError(t, err, "line: %s", line)
	return j.HandleMessage(msg)
}

func newJoinParams(t *testing.T, channel string) JoinParams {
	t.Helper()
	ch, err := irc.ParseChannel(channel)
	require.NoError(t, err)
	return JoinParams{Channel: ch}
}

func TestJoin_FullSequence(t *testing.T) {
	j := NewJoin(newJoinParams(t, "#go-nuts"))
	require.Len(t, j.GetClientMessages(), 1)

	claimed := feedJoin(t, j, ":nora!nora@host JOIN #go-nuts")
	assert.True(t, claimed)

	feedJoin(t, j, ":irc.example.net 332 nora #go-nuts :Welcome to #go-nuts")
	feedJoin(t, j, ":irc.example.net 333 nora #go-nuts topicsetter 1700000000")
	feedJoin(t, j, ":irc.example.net 353 nora = #go-nuts :nora @op +voiced")
	require.False(t, j.IsDone())

	feedJoin(t, j, ":irc.example.net 366 nora #go-nuts :End of /NAMES list")
	require.True(t, j.IsDone())

	out, err := j.GetOutput()
	require.NoError(t, err)
	jo := out.(JoinOutput)
	assert.Equal(t, "Welcome to #go-nuts", jo.Topic)
	assert.Equal(t, "topicsetter", jo.TopicSetBy)
	assert.EqualValues(t, 1700000000, jo.TopicSetAt)
	require.Len(t, jo.Members, 3)
	assert.Equal(t, byte('@'), jo.Members[1].Prefix)
}

func TestJoin_MultipleNamReplyLinesAccumulate(t *testing.T) {
	j := NewJoin(newJoinParams(t, "#busy"))
	j.GetClientMessages()
	feedJoin(t, j, ":nora!nora@host JOIN #busy")
	feedJoin(t, j, ":irc.example.net 331 nora #busy :No topic is set")
	feedJoin(t, j, ":irc.example.net 353 nora = #busy :a b c")
	feedJoin(t, j, ":irc.example.net 353 nora = #busy :d e f")
	require.False(t, j.IsDone())
	feedJoin(t, j, ":irc.example.net 366 nora #busy :End of /NAMES list")
	require.True(t, j.IsDone())

	out, _ := j.GetOutput()
	jo := out.(JoinOutput)
	require.Len(t, jo.Members, 6)
	assert.Equal(t, "a", jo.Members[0].Nick)
	assert.Equal(t, "f", jo.Members[5].Nick)
}

func TestJoin_BannedFails(t *testing.T) {
	j := NewJoin(newJoinParams(t, "#secret"))
	j.GetClientMessages()
	feedJoin(t, j, ":nora!nora@host JOIN #secret")
	feedJoin(t, j, ":irc.example.net 474 nora #secret :Cannot join channel (+b)")
	require.True(t, j.IsDone())

	_, err := j.GetOutput()
	require.Error(t, err)
	var joinErr *JoinError
	require.ErrorAs(t, err, &joinErr)
	assert.EqualValues(t, irc.ERR_BANNEDFROMCHAN, joinErr.Code)
}

func TestJoin_KeyedChannel(t *testing.T) {
	key, err := irc.ParseKey("sesame")
	require.NoError(t, err)
	ch, err := irc.ParseChannel("#vip")
	require.NoError(t, err)
	j := NewJoin(JoinParams{Channel: ch, Key: &key})
	msgs := j.GetClientMessages()
	require.Len(t, msgs, 1)
	cm, ok := msgs[0].AsClientMessage()
	require.True(t, ok)
	join, ok := cm.(irc.Join)
	require.True(t, ok)
	assert.Equal(t, "#vip", join.Channels)
	assert.Equal(t, "sesame", join.Keys)
}
