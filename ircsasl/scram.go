package ircsasl

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/btnmasher/irc"
	"github.com/btnmasher/random"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/secure/precis"
)

// HashAlgo selects the hash backing a SCRAM mechanism; HMAC and Hi
// (PBKDF2-HMAC) both use the same hash.
type HashAlgo int

const (
	SHA1 HashAlgo = iota
	SHA512
)

func (h HashAlgo) new() func() hash.Hash {
	if h == SHA512 {
		return sha512.New
	}
	return sha1.New
}

// Mechanism returns the IRCv3 SASL mechanism name for this hash.
func (h HashAlgo) Mechanism() string {
	if h == SHA512 {
		return "SCRAM-SHA-512"
	}
	return "SCRAM-SHA-1"
}

// scramState names the client's position in the RFC 5802 exchange.
type scramState int

const (
	stateStart scramState = iota
	stateAwaitingServerFirst
	stateAwaitingServerFinal
	stateDone
	stateError
)

// Engine drives one SCRAM authentication exchange (RFC 5802) for a single
// login attempt. Username/password are SASLprep-normalized at
// construction; a client nonce is generated once and never reused. The
// engine is not reusable across attempts — calling ServerFirst a second
// time returns an out-of-order error.
type Engine struct {
	hash     HashAlgo
	authzid  string
	username string
	password string
	nonce    string

	state         scramState
	clientFirstBare string
	serverFirst     string
	authMessage     string
	saltedPassword  []byte
	serverSignature []byte
}

// NewEngine SASLprep-normalizes username and password and generates a
// fresh 24-character alphanumeric client nonce. username is the
// authentication identity; the authzid is always empty (authenticate-as-self).
func NewEngine(hashAlgo HashAlgo, username, password string) (*Engine, error) {
	user, err := precis.UsernameCaseMapped.String(username)
	if err != nil || user == "" {
		return nil, fmt.Errorf("SASLprep username: %w", nonEmptyErr(err))
	}
	pass, err := precis.OpaqueString.String(password)
	if err != nil {
		return nil, fmt.Errorf("SASLprep password: %w", err)
	}
	return &Engine{
		hash:     hashAlgo,
		username: user,
		password: pass,
		nonce:    random.String(24),
	}, nil
}

func nonEmptyErr(err error) error {
	if err != nil {
		return err
	}
	return errors.New("empty result")
}

// gs2Header returns the GS2 header ("n,," with no channel binding and no
// authzid, or "n,a=<authzid>," when one is set) per RFC 5802 section 3. The
// authzid segment is omitted entirely rather than emitted empty, since an
// empty "a=" is a distinct (and wrong) GS2 header from no "a=" at all.
func (e *Engine) gs2Header() string {
	if e.authzid == "" {
		return "n,,"
	}
	return "n,a=" + gs2Escape(e.authzid) + ","
}

// ClientFirst returns the GS2 header followed by "n=<user>,r=<nonce>", the
// message to send as the first AUTHENTICATE payload.
func (e *Engine) ClientFirst() string {
	e.clientFirstBare = fmt.Sprintf("n=%s,r=%s", gs2Escape(e.username), e.nonce)
	e.state = stateAwaitingServerFirst
	return e.gs2Header() + e.clientFirstBare
}

// ServerFirst consumes the server's "r=...,s=...,i=..." message and
// returns the client's final message: "c=<b64 cbind>,r=<nonce>,p=<b64
// proof>". It verifies the server nonce extends the client nonce.
func (e *Engine) ServerFirst(msg string) (string, error) {
	if e.state != stateAwaitingServerFirst {
		return "", errors.New("SASL SCRAM: server-first message received out of order")
	}
	fields, err := parseScramFields(msg)
	if err != nil {
		return "", err
	}
	serverNonce, ok := fields["r"]
	if !ok || !strings.HasPrefix(serverNonce, e.nonce) {
		e.state = stateError
		return "", irc.ErrSaslNonceReuse
	}
	saltB64, ok := fields["s"]
	if !ok {
		return "", errors.New("SASL SCRAM: missing salt")
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("SASL SCRAM: bad salt: %w", err)
	}
	iterStr, ok := fields["i"]
	if !ok {
		return "", errors.New("SASL SCRAM: missing iteration count")
	}
	iterations, err := strconv.Atoi(iterStr)
	if err != nil || iterations <= 0 {
		return "", errors.New("SASL SCRAM: bad iteration count")
	}

	e.serverFirst = msg
	cbind := base64.StdEncoding.EncodeToString([]byte(e.gs2Header()))
	finalMessageWithoutProof := "c=" + cbind + ",r=" + serverNonce
	e.authMessage = e.clientFirstBare + "," + e.serverFirst + "," + finalMessageWithoutProof

	e.saltedPassword = hi(e.hash, []byte(e.password), salt, iterations)
	clientKey := hmacSum(e.hash, e.saltedPassword, []byte("Client Key"))
	storedKey := hashSum(e.hash, clientKey)
	clientSignature := hmacSum(e.hash, storedKey, []byte(e.authMessage))
	clientProof := xorBytes(clientKey, clientSignature)

	serverKey := hmacSum(e.hash, e.saltedPassword, []byte("Server Key"))
	e.serverSignature = hmacSum(e.hash, serverKey, []byte(e.authMessage))

	e.state = stateAwaitingServerFinal
	return finalMessageWithoutProof + ",p=" + base64.StdEncoding.EncodeToString(clientProof), nil
}

// ServerFinal consumes the server's "v=..." (success) or "e=..." (error)
// message and verifies the server signature. A mismatch or an explicit
// "e=" message both return an error; success sets the engine Done.
func (e *Engine) ServerFinal(msg string) error {
	if e.state != stateAwaitingServerFinal {
		return errors.New("SASL SCRAM: server-final message received out of order")
	}
	if strings.HasPrefix(msg, "e=") {
		e.state = stateError
		return fmt.Errorf("SASL SCRAM: server reported error: %s", msg[2:])
	}
	fields, err := parseScramFields(msg)
	if err != nil {
		e.state = stateError
		return err
	}
	vB64, ok := fields["v"]
	if !ok {
		e.state = stateError
		return errors.New("SASL SCRAM: missing server verifier")
	}
	v, err := base64.StdEncoding.DecodeString(vB64)
	if err != nil {
		e.state = stateError
		return fmt.Errorf("SASL SCRAM: bad server verifier: %w", err)
	}
	if !hmac.Equal(v, e.serverSignature) {
		e.state = stateError
		return irc.ErrSaslSignature
	}
	e.state = stateDone
	return nil
}

// Done reports whether the exchange completed successfully.
func (e *Engine) Done() bool { return e.state == stateDone }

// gs2Escape replaces ',' with "=2C" and '=' with "=3D", per RFC 5802 §3.
func gs2Escape(s string) string {
	s = strings.ReplaceAll(s, "=", "=3D")
	s = strings.ReplaceAll(s, ",", "=2C")
	return s
}

// parseScramFields splits a comma-separated "k=v" message into a map; RFC
// 5802 field values never contain a comma (it would be escaped upstream),
// so a plain split is sufficient.
func parseScramFields(msg string) (map[string]string, error) {
	fields := map[string]string{}
	for _, part := range strings.Split(msg, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("SASL SCRAM: malformed field %q", part)
		}
		fields[k] = v
	}
	return fields, nil
}

func hi(h HashAlgo, password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, h.new()().Size(), h.new())
}

func hmacSum(h HashAlgo, key, data []byte) []byte {
	mac := hmac.New(h.new(), key)
	mac.Write(data)
	return mac.Sum(nil)
}

func hashSum(h HashAlgo, data []byte) []byte {
	sum := h.new()()
	sum.Write(data)
	return sum.Sum(nil)
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
