// Package irccmd implements the Command state machines that drive a
// Client through multi-message exchanges: Login (CAP negotiation, optional
// SASL PLAIN/SCRAM, registration banners) and Join.
package irccmd

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/btnmasher/irc"
	"github.com/btnmasher/irc/ircsasl"
)

// LoginParams configures a Login command.
type LoginParams struct {
	Password string
	Nickname string
	Username string
	Realname string
	SASL     bool // negotiate SASL if the server advertises it and SASLUser is set
	SASLUser string
	SASLPass string
	SCRAM    HashPreference
}

// HashPreference selects which SCRAM hash to prefer when the server
// advertises both; zero value prefers SHA-512.
type HashPreference int

const (
	PreferSCRAMSHA512 HashPreference = iota
	PreferSCRAMSHA1
)

// ServerInfo carries the registration banner fields captured during Login.
type ServerInfo struct {
	Name   string
	Fields []string
}

// LoginOutput is Login's GetOutput result.
type LoginOutput struct {
	Capabilities []string
	SASLUsed     bool
	SASLMech     string
	Nickname     string
	ServerInfo   ServerInfo
	ISupport     []irc.ISupportParam
	Lusers       []string
	MOTD         []string
	UserModes    string
}

// LoginError is returned by GetOutput for every server-rejected or
// protocol-violating transition; Code is the numeric if the rejection came
// from a typed Reply, 0 for a driver-detected protocol violation.
type LoginError struct {
	Code   uint16
	Reason string
}

func (e *LoginError) Error() string {
	if e.Code == 0 {
		return "login: " + e.Reason
	}
	return fmt.Sprintf("login: %s: %s", irc.NumericName(e.Code), e.Reason)
}

// loginState is one node of the Login state machine; handleMessage returns
// the next state (Go value semantics replace the "take and replace"
// sentinel trick) plus whether the message was claimed.
type loginState interface {
	handleMessage(l *Login, msg irc.Message) (next loginState, claimed bool)
}

// Login drives CAP negotiation (with optional SASL), registration, and the
// banner/ISUPPORT/LUSERS/MOTD/MODE sequence to completion.
type Login struct {
	params LoginParams

	state  loginState
	out    LoginOutput
	err    error
	done   bool
	outbox []irc.Message

	deadlineMs  int64
	hasDeadline bool

	scram *ircsasl.Engine
}

// NewLogin constructs a Login command in its Start state and queues the
// initial CAP LS.
func NewLogin(params LoginParams) *Login {
	l := &Login{params: params, state: loginStart{}}
	l.emit(irc.NewClientMessage(irc.NewCapLS()))
	return l
}

func (l *Login) emit(msgs ...irc.Message) { l.outbox = append(l.outbox, msgs...) }

func (l *Login) finish(out LoginOutput) {
	l.out = out
	l.done = true
}

func (l *Login) fail(err error) {
	l.err = err
	l.done = true
}

func (l *Login) GetClientMessages() []irc.Message {
	out := l.outbox
	l.outbox = nil
	return out
}

func (l *Login) HandleMessage(msg irc.Message) bool {
	if l.done {
		return false
	}
	if cm, ok := msg.AsClientMessage(); ok {
		if em, ok := cm.(irc.ErrorMsg); ok {
			l.fail(&LoginError{Reason: "server sent ERROR: " + em.Message})
			return true
		}
	}
	if _, claimed := failOnServerError(l, msg); claimed {
		return true
	}
	next, claimed := l.state.handleMessage(l, msg)
	if next != nil {
		l.state = next
	}
	return claimed
}

func (l *Login) GetTimeout() (int64, bool) { return l.deadlineMs, l.hasDeadline }

func (l *Login) HandleTimeout() {
	if _, ok := l.state.(loginAwaitingMode); ok {
		l.hasDeadline = false
		l.finish(l.out)
	}
}

func (l *Login) IsDone() bool { return l.done }

func (l *Login) GetOutput() (any, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.out, nil
}

// --- CAP / registration states ---

type loginStart struct{}

func (loginStart) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	if cm, ok := msg.AsClientMessage(); ok {
		cap, isCap := cm.(irc.Cap)
		if !isCap || cap.Subcommand != irc.CapLS {
			return nil, false
		}
		if cap.Continuation {
			return loginListingCaps{acc: cap.Capabilities}, true
		}
		return startLoginFromCaps(l, cap.Capabilities), true
	}
	if r, ok := msg.AsReply(); ok {
		if uc, ok := r.(irc.UnknownCommand); ok && uc.Subject == "CAP" {
			// Server predates CAP entirely (RFC1459-only): fall straight
			// into plain registration without SASL.
			registerWithoutCaps(l)
			return loginAwaiting001{}, true
		}
	}
	return nil, false
}

type loginListingCaps struct{ acc string }

func (s loginListingCaps) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	cm, ok := msg.AsClientMessage()
	if !ok {
		return nil, false
	}
	cap, ok := cm.(irc.Cap)
	if !ok || cap.Subcommand != irc.CapLS {
		return nil, false
	}
	acc := s.acc + " " + cap.Capabilities
	if cap.Continuation {
		return loginListingCaps{acc: acc}, true
	}
	return startLoginFromCaps(l, acc), true
}

func registerWithoutCaps(l *Login) {
	if l.params.Password != "" {
		l.emit(irc.NewClientMessage(irc.Pass{Password: l.params.Password}))
	}
	l.emit(irc.NewClientMessage(irc.Nick{Nickname: l.params.Nickname}))
	l.emit(irc.NewClientMessage(irc.NewUser(l.params.Username, l.params.Realname)))
}

func startLoginFromCaps(l *Login, capsList string) loginState {
	l.out.Capabilities = splitFields(capsList)
	registerWithoutCaps(l)

	mechanisms := saslMechanisms(l.out.Capabilities)
	if l.params.SASL && l.params.SASLUser != "" && len(mechanisms) > 0 {
		l.emit(irc.NewClientMessage(irc.NewCapReq("sasl")))
		return loginAwaitingAck{mechanisms: mechanisms}
	}
	l.emit(irc.NewClientMessage(irc.NewCapEnd()))
	return loginAwaiting001{}
}

// saslMechanisms extracts the advertised SASL mechanism list from a CAP LS
// capability set: "sasl=PLAIN,SCRAM-SHA-512" or bare "sasl" (PLAIN only).
func saslMechanisms(caps []string) []string {
	for _, c := range caps {
		if c == "sasl" {
			return []string{"PLAIN"}
		}
		if strings.HasPrefix(c, "sasl=") {
			return strings.Split(c[len("sasl="):], ",")
		}
	}
	return nil
}

func hasMechanism(mechs []string, name string) bool {
	for _, m := range mechs {
		if m == name {
			return true
		}
	}
	return false
}

func splitFields(s string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if start >= 0 {
				out = append(out, s[start:i])
			}
			start = -1
		} else if start < 0 {
			start = i
		}
	}
	return out
}

type loginAwaitingAck struct{ mechanisms []string }

func (s loginAwaitingAck) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	cm, ok := msg.AsClientMessage()
	if !ok {
		return nil, false
	}
	cap, ok := cm.(irc.Cap)
	if !ok {
		return nil, false
	}
	switch cap.Subcommand {
	case irc.CapAck:
		return beginSaslExchange(l, s.mechanisms)
	case irc.CapNak:
		l.fail(&LoginError{Reason: "server NAKed sasl capability request"})
		return nil, true
	default:
		return nil, false
	}
}

func beginSaslExchange(l *Login, mechanisms []string) (loginState, bool) {
	scramSHA512 := hasMechanism(mechanisms, "SCRAM-SHA-512")
	scramSHA1 := hasMechanism(mechanisms, "SCRAM-SHA-1")
	hasPlain := hasMechanism(mechanisms, "PLAIN")

	useScram := (l.params.SCRAM == PreferSCRAMSHA512 && scramSHA512) ||
		(l.params.SCRAM == PreferSCRAMSHA1 && scramSHA1) ||
		(!hasPlain && (scramSHA512 || scramSHA1))

	if useScram {
		hashAlgo := ircsasl.SHA512
		if (l.params.SCRAM == PreferSCRAMSHA1 && scramSHA1) || (!scramSHA512 && scramSHA1) {
			hashAlgo = ircsasl.SHA1
		}
		eng, err := ircsasl.NewEngine(hashAlgo, l.params.SASLUser, l.params.SASLPass)
		if err != nil {
			l.fail(&LoginError{Reason: "SASL setup: " + err.Error()})
			return nil, true
		}
		l.scram = eng
		l.out.SASLUsed = true
		l.out.SASLMech = hashAlgo.Mechanism()
		l.emit(irc.NewClientMessage(irc.NewAuthenticate(hashAlgo.Mechanism())))
		return loginSentMechanismScram{}, true
	}

	l.out.SASLUsed = true
	l.out.SASLMech = "PLAIN"
	l.emit(irc.NewClientMessage(irc.NewAuthenticate("PLAIN")))
	return loginSentMechanismPlain{}, true
}

type loginSentMechanismPlain struct{}

func (loginSentMechanismPlain) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	if !isAuthenticatePrompt(msg) {
		return nil, false
	}
	payload := ircsasl.PlainPayload(l.params.SASLUser, l.params.SASLPass)
	for _, chunk := range ircsasl.ChunkAuthenticate(payload) {
		l.emit(irc.NewClientMessage(irc.NewAuthenticate(chunk)))
	}
	return loginSentAuth{}, true
}

type loginSentMechanismScram struct{}

func (loginSentMechanismScram) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	if !isAuthenticatePrompt(msg) {
		return nil, false
	}
	raw := l.scram.ClientFirst()
	sendAuthPayload(l, raw)
	return loginScramAwaitingServerFirst{}, true
}

type loginScramAwaitingServerFirst struct{ chunks []string }

func (s loginScramAwaitingServerFirst) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	payload, ok := authenticatePayload(msg)
	if !ok {
		return nil, false
	}
	acc, done := accumulateChunk(s.chunks, payload)
	if !done {
		return loginScramAwaitingServerFirst{chunks: acc}, true
	}
	raw, err := decodeAuthChunks(acc)
	if err != nil {
		l.fail(&LoginError{Reason: "SASL SCRAM: " + err.Error()})
		return nil, true
	}
	final, err := l.scram.ServerFirst(raw)
	if err != nil {
		l.fail(&LoginError{Reason: "SASL SCRAM: " + err.Error()})
		return nil, true
	}
	sendAuthPayload(l, final)
	return loginScramAwaitingServerFinal{}, true
}

type loginScramAwaitingServerFinal struct{ chunks []string }

func (s loginScramAwaitingServerFinal) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	payload, ok := authenticatePayload(msg)
	if !ok {
		return nil, false
	}
	acc, done := accumulateChunk(s.chunks, payload)
	if !done {
		return loginScramAwaitingServerFinal{chunks: acc}, true
	}
	raw, err := decodeAuthChunks(acc)
	if err != nil {
		l.fail(&LoginError{Reason: "SASL SCRAM: " + err.Error()})
		return nil, true
	}
	if err := l.scram.ServerFinal(raw); err != nil {
		l.fail(&LoginError{Reason: err.Error()})
		return nil, true
	}
	return loginSentAuth{}, true
}

func isAuthenticatePrompt(msg irc.Message) bool {
	cm, ok := msg.AsClientMessage()
	if !ok {
		return false
	}
	auth, ok := cm.(irc.Authenticate)
	return ok && auth.Payload == "+"
}

func authenticatePayload(msg irc.Message) (string, bool) {
	cm, ok := msg.AsClientMessage()
	if !ok {
		return "", false
	}
	auth, ok := cm.(irc.Authenticate)
	if !ok {
		return "", false
	}
	return auth.Payload, true
}

func accumulateChunk(acc []string, payload string) ([]string, bool) {
	acc = append(acc, payload)
	done := payload == "+" || len(payload) < 400
	return acc, done
}

func decodeAuthChunks(chunks []string) (string, error) {
	b64 := ircsasl.JoinAuthenticateChunks(chunks)
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func sendAuthPayload(l *Login, raw string) {
	b64 := base64.StdEncoding.EncodeToString([]byte(raw))
	for _, chunk := range ircsasl.ChunkAuthenticate(b64) {
		l.emit(irc.NewClientMessage(irc.NewAuthenticate(chunk)))
	}
}

type loginSentAuth struct{}

func (loginSentAuth) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	if _, ok := r.(irc.LoggedIn); ok {
		return loginGot900{}, true
	}
	return nil, false
}

type loginGot900 struct{}

func (loginGot900) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok || r.Code() != irc.RPL_SASLSUCCESS {
		return nil, false
	}
	l.emit(irc.NewClientMessage(irc.NewCapEnd()))
	return loginAwaiting001{}, true
}

// --- registration banner / ISUPPORT / LUSERS / MOTD states ---

type loginAwaiting001 struct{}

func (loginAwaiting001) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok || r.Code() != irc.RPL_WELCOME {
		return nil, false
	}
	l.out.Nickname = l.params.Nickname
	return loginGot001{}, true
}

type loginGot001 struct{}

func (loginGot001) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok || r.Code() != irc.RPL_YOURHOST {
		return nil, false
	}
	return loginGot002{}, true
}

type loginGot002 struct{}

func (loginGot002) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok || r.Code() != irc.RPL_CREATED {
		return nil, false
	}
	return loginGot003{}, true
}

type loginGot003 struct{}

func (loginGot003) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok || r.Code() != irc.RPL_MYINFO {
		return nil, false
	}
	if my, ok := r.(irc.MyInfo); ok && len(my.Fields) > 0 {
		l.out.ServerInfo.Name = my.Fields[0]
		l.out.ServerInfo.Fields = my.Fields[1:]
	}
	return loginGot004{}, true
}

type loginGot004 struct{}

func (loginGot004) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	return handleISupportThenLusers(l, msg)
}

type loginGot005 struct{}

func (loginGot005) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	return handleISupportThenLusers(l, msg)
}

func handleISupportThenLusers(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	if is, ok := r.(irc.ISupport); ok {
		l.out.ISupport = append(l.out.ISupport, is.Params...)
		return loginGot005{}, true
	}
	return handleLusersOrMotd(l, r)
}

type loginLusers struct{}

func (loginLusers) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	return handleLusersOrMotd(l, r)
}

func handleLusersOrMotd(l *Login, r irc.Reply) (loginState, bool) {
	switch r.Code() {
	case irc.RPL_LUSERCLIENT, irc.RPL_LUSEROP, irc.RPL_LUSERUNKNOWN,
		irc.RPL_LUSERCHANNELS, irc.RPL_LUSERME, irc.RPL_LOCALUSERS, irc.RPL_GLOBALUSERS:
		l.out.Lusers = append(l.out.Lusers, irc.ReplyMessage(r))
		return loginLusers{}, true
	case irc.RPL_MOTDSTART:
		l.out.MOTD = append(l.out.MOTD, irc.ReplyMessage(r))
		return loginMotd{}, true
	case irc.ERR_NOMOTD:
		l.deadlineMs, l.hasDeadline = 1000, true
		return loginAwaitingMode{}, true
	}
	return nil, false
}

type loginMotd struct{}

func (loginMotd) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	switch r.Code() {
	case irc.RPL_MOTD:
		l.out.MOTD = append(l.out.MOTD, irc.ReplyMessage(r))
		return loginMotd{}, true
	case irc.RPL_ENDOFMOTD:
		l.deadlineMs, l.hasDeadline = 1000, true
		return loginAwaitingMode{}, true
	}
	return nil, false
}

// loginAwaitingMode waits up to one second for the server's post-registration
// MODE line (or an explicit 221 RPL_UMODEIS); MODE is optional, so a timeout
// here still completes the login successfully.
type loginAwaitingMode struct{}

func (loginAwaitingMode) handleMessage(l *Login, msg irc.Message) (loginState, bool) {
	if cm, ok := msg.AsClientMessage(); ok {
		if mode, ok := cm.(irc.Mode); ok {
			l.out.UserModes = strings.Join(mode.Args, " ")
			l.finish(l.out)
			return nil, true
		}
	}
	if r, ok := msg.AsReply(); ok {
		if umi, ok := r.(irc.UserModeIs); ok {
			l.out.UserModes = umi.Modes
			l.finish(l.out)
			return nil, true
		}
	}
	return nil, false
}

// failOnServerError checks for the numerics that abort login outright from
// any state once registration has begun.
func failOnServerError(l *Login, msg irc.Message) (loginState, bool) {
	r, ok := msg.AsReply()
	if !ok {
		return nil, false
	}
	switch r.Code() {
	case irc.ERR_NOTREGISTERED, irc.ERR_PASSWDMISMATCH, irc.ERR_YOUREBANNEDCREEP,
		irc.ERR_NEEDMOREPARAMS, irc.ERR_ALREADYREGISTERED,
		irc.ERR_ERRONEUSNICKNAME, irc.ERR_NICKNAMEINUSE, irc.ERR_NICKCOLLISION,
		irc.ERR_UNAVAILRESOURCE, irc.ERR_NONICKNAMEGIVEN,
		irc.ERR_NICKLOCKED, irc.ERR_SASLFAIL, irc.ERR_SASLTOOLONG,
		irc.ERR_SASLABORTED, irc.ERR_SASLALREADY:
		l.fail(&LoginError{Code: r.Code(), Reason: irc.ReplyMessage(r)})
		return nil, true
	}
	return nil, false
}
