package ircsasl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainPayload(t *testing.T) {
	// jwodder/hunter2, a standard SASL PLAIN test vector.
	assert.Equal(t, "andvZGRlcgBqd29kZGVyAGh1bnRlcjI=", PlainPayload("jwodder", "hunter2"))
}

func TestChunkAuthenticate_ShortPayload(t *testing.T) {
	chunks := ChunkAuthenticate("andvZGRlcgBqd29kZGVyAGh1bnRlcjI=")
	require.Len(t, chunks, 1)
	assert.NotEqual(t, "+", chunks[0])
}

func TestChunkAuthenticate_EmptyPayload(t *testing.T) {
	assert.Equal(t, []string{"+"}, ChunkAuthenticate(""))
}

func TestChunkAuthenticate_ExactMultipleTerminates(t *testing.T) {
	payload := strings.Repeat("A", authenticateChunkSize)
	chunks := ChunkAuthenticate(payload)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], authenticateChunkSize)
	assert.Equal(t, "+", chunks[1])
}

func TestChunkAuthenticate_OverLong(t *testing.T) {
	payload := strings.Repeat("B", authenticateChunkSize+50)
	chunks := ChunkAuthenticate(payload)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], authenticateChunkSize)
	assert.Len(t, chunks[1], 50)
}

func TestJoinAuthenticateChunks(t *testing.T) {
	assert.Equal(t, "hello", JoinAuthenticateChunks([]string{"hello", "+"}))
	assert.Equal(t, "", JoinAuthenticateChunks([]string{"+"}))
}
