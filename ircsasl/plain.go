// Package ircsasl implements the two SASL mechanisms the session driver's
// Login command can negotiate: PLAIN and SCRAM (SHA-1/SHA-512), per RFC
// 4616 and RFC 5802.
package ircsasl

import (
	"encoding/base64"
	"strings"

	"github.com/btnmasher/irc/shared/stringutils"
)

const authenticateChunkSize = 400

// PlainPayload builds the base64 SASL PLAIN response:
// base64(authzid NUL authzid NUL password).
func PlainPayload(authzid, password string) string {
	raw := authzid + "\x00" + authzid + "\x00" + password
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ChunkAuthenticate splits an already-base64-encoded AUTHENTICATE payload
// into 400-byte wire chunks, appending a final empty ("+") chunk when the
// last real chunk is exactly 400 bytes, per the AUTHENTICATE chunking rule.
// Base64 is pure ASCII, so the payload is exploded to one-byte strings and
// reassembled with shared/stringutils.ChunkJoinStrings, which packs items
// into strings of at most a given byte budget.
func ChunkAuthenticate(payload string) []string {
	if payload == "" {
		return []string{"+"}
	}
	bytesAsStrings := make([]string, len(payload))
	for i := 0; i < len(payload); i++ {
		bytesAsStrings[i] = string(payload[i])
	}
	chunks := stringutils.ChunkJoinStrings(authenticateChunkSize, "", bytesAsStrings...)
	if len(chunks) == 0 {
		return []string{"+"}
	}
	if len(chunks[len(chunks)-1]) == authenticateChunkSize {
		chunks = append(chunks, "+")
	}
	return chunks
}

// JoinAuthenticateChunks reverses ChunkAuthenticate: concatenates a
// received group of AUTHENTICATE chunks, dropping a trailing lone "+".
func JoinAuthenticateChunks(chunks []string) string {
	if len(chunks) > 0 && chunks[len(chunks)-1] == "+" {
		chunks = chunks[:len(chunks)-1]
	}
	return strings.Join(chunks, "")
}
