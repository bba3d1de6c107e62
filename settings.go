package irc

// Protocol limits. These are defaults; servers may override NICKLEN and
// related lengths via RPL_ISUPPORT, which callers feed back into the
// newtype constructors that take an explicit limit.
const (
	// DefaultMaxLineLength is the default maximum line length including the
	// terminating CRLF and any leading IRCv3 tag block.
	DefaultMaxLineLength = 8191

	// DefaultNickLength is NICKLEN's fallback when the server has not
	// advertised one via RPL_ISUPPORT.
	DefaultNickLength = 9

	// DefaultPortPlain and DefaultPortTLS are the conventional IRC ports.
	DefaultPortPlain = 6667
	DefaultPortTLS   = 6697

	// MaxParams is the maximum number of parameters a single IRC line may
	// carry, per RFC 2812 section 2.3.1.
	MaxParams = 15

	// MaxTagsLength is the maximum length, in bytes, of the "@tags " block
	// prefixing a line, per IRCv3 message-tags.
	MaxTagsLength = 4096

	// saslChunkSize is the maximum length of a single AUTHENTICATE payload
	// chunk before the client must split across multiple lines.
	saslChunkSize = 400
)
