package ircconn

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/btnmasher/irc"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/panics"
)

// Command drives a single request/response exchange (login, join, ...)
// across a Client. Its contract mirrors a cooperative state machine: the
// driver asks for outbound messages, offers each inbound Message, and
// polls for completion after every event.
type Command interface {
	// GetClientMessages drains any outbound messages the command wants
	// sent right now. Called before the loop starts and after every
	// HandleMessage/timeout.
	GetClientMessages() []irc.Message
	// HandleMessage offers one inbound Message to the command. Returning
	// true claims it (it will not be added to Client's unhandled queue).
	HandleMessage(msg irc.Message) bool
	// GetTimeout returns the duration until the next deadline, or false
	// if the command should wait indefinitely.
	GetTimeout() (timeout int64, ok bool) // milliseconds
	// HandleTimeout is invoked when the current deadline elapses.
	HandleTimeout()
	// IsDone reports whether the command has finished (successfully or
	// with an error) and GetOutput is ready to be called.
	IsDone() bool
	// GetOutput returns the command's result. Called exactly once, after
	// IsDone first returns true.
	GetOutput() (any, error)
}

// ErrDisconnected reports that the underlying connection closed while a
// Command or a bare Recv was in progress.
type ErrDisconnected struct {
	Cause error
}

func (e *ErrDisconnected) Error() string {
	if e.Cause == nil {
		return "disconnected"
	}
	return "disconnected: " + e.Cause.Error()
}

func (e *ErrDisconnected) Unwrap() error { return e.Cause }

// DialOptions configures Client.Dial.
type DialOptions struct {
	UseTLS        bool
	TLSConfig     *tls.Config
	MaxLineLength int
	Logger        logrus.FieldLogger
}

// Client is the cooperative, single-threaded IRC session driver described
// by the session-driver component: it owns the framed connection, an
// outbound queue, a one-slot inbound buffer, and a FIFO of messages left
// unhandled by a prior command.
type Client struct {
	host   string
	conn   net.Conn
	codec  *LineCodec
	log    logrus.FieldLogger
	mu     sync.Mutex // guards queued/recved/unhandled against concurrent Send calls
	autoresp []AutoResponder

	queued    []irc.Message
	recved    *irc.Message
	unhandled []irc.Message
}

// Dial connects to addr ("host:port") and wraps the connection for framed
// line I/O. TLS is used when opts.UseTLS is set; SNI is derived from the
// host portion of addr.
func Dial(ctx context.Context, addr string, opts DialOptions) (*Client, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	if opts.UseTLS {
		cfg := opts.TLSConfig
		if cfg == nil {
			cfg = &tls.Config{ServerName: host}
		} else if cfg.ServerName == "" {
			cfg = cfg.Clone()
			cfg.ServerName = host
		}
		tlsConn := tls.Client(conn, cfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("tls handshake %s: %w", addr, err)
		}
		conn = tlsConn
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		host:  host,
		conn:  conn,
		codec: NewLineCodec(conn, opts.MaxLineLength),
		log:   log.WithField("host", host),
	}, nil
}

// NewClient wraps an already-established connection, for tests or
// non-TCP transports (e.g. a pipe to a mock server).
func NewClient(host string, conn net.Conn, maxLineLength int, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{host: host, conn: conn, codec: NewLineCodec(conn, maxLineLength), log: log.WithField("host", host)}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// AddAutoresponder installs ar; responders are consulted in installation
// order and a message is claimed if any responder claims it.
func (c *Client) AddAutoresponder(ar AutoResponder) {
	c.autoresp = append(c.autoresp, ar)
}

// Send enqueues msg and flushes the outbound queue. On a write error the
// message is considered lost; callers cannot assume it was or was not
// transmitted once an error is returned, only that it will not be resent.
func (c *Client) Send(msg irc.Message) error {
	c.mu.Lock()
	c.queued = append(c.queued, msg)
	c.mu.Unlock()
	return c.flush()
}

// flush writes every queued outbound Message to the wire in order.
func (c *Client) flush() error {
	c.mu.Lock()
	pending := c.queued
	c.queued = nil
	c.mu.Unlock()

	for _, msg := range pending {
		line := msg.String()
		c.log.WithField("line", line).Debug("send")
		if err := WriteLine(c.conn, line); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return nil
}

// Recv returns the next Message not claimed by any autoresponder, first
// draining Unhandled, then reading new frames. It follows the
// cancellation-safe loop: queued/recved/unhandled live on the Client, not
// the call stack, so a canceled Recv never loses a frame or a pending
// autoresponse — the next Recv call picks up exactly where this one left
// off.
func (c *Client) Recv(ctx context.Context) (irc.Message, error) {
	c.mu.Lock()
	if len(c.unhandled) > 0 {
		msg := c.unhandled[0]
		c.unhandled = c.unhandled[1:]
		c.mu.Unlock()
		return msg, nil
	}
	c.mu.Unlock()
	return c.recvNewOrStored(ctx)
}

// RecvNew behaves like Recv but bypasses the Unhandled queue, reading only
// fresh frames from the wire (used by Command drivers, which want their
// own claim semantics over Unhandled rather than Client's).
func (c *Client) RecvNew(ctx context.Context) (irc.Message, error) {
	return c.recvNewOrStored(ctx)
}

func (c *Client) recvNewOrStored(ctx context.Context) (irc.Message, error) {
	for {
		if err := c.flush(); err != nil {
			return irc.Message{}, &ErrDisconnected{Cause: err}
		}

		c.mu.Lock()
		if c.recved != nil {
			msg := *c.recved
			c.recved = nil
			c.mu.Unlock()
			return msg, nil
		}
		c.mu.Unlock()

		if err := ctx.Err(); err != nil {
			return irc.Message{}, err
		}

		line, err := c.codec.ReadLine()
		if err != nil {
			if _, ok := err.(*MaxLineLengthExceeded); ok {
				c.log.Warn("line exceeded max length, discarded")
				continue
			}
			if err == io.EOF {
				return irc.Message{}, &ErrDisconnected{}
			}
			return irc.Message{}, &ErrDisconnected{Cause: err}
		}

		msg, err := irc.ParseMessage(line)
		if err != nil {
			c.log.WithField("line", line).WithError(err).Warn("unparseable line")
			continue
		}
		c.log.WithField("line", line).Debug("recv")

		claimed := false
		for _, ar := range c.autoresp {
			ar := ar
			var pc panics.Catcher
			pc.Try(func() {
				if ar.HandleMessage(msg) {
					claimed = true
				}
			})
			if recovered := pc.Recovered(); recovered != nil {
				c.log.WithField("panic", recovered.Value).WithField("stack", recovered.Stack).
					Error("autoresponder panicked, message left unclaimed")
			}
		}
		if claimed {
			for _, ar := range c.autoresp {
				out := ar.TakeOutgoing()
				c.mu.Lock()
				c.queued = append(c.queued, out...)
				c.mu.Unlock()
			}
			continue
		}

		c.mu.Lock()
		c.recved = &msg
		c.mu.Unlock()

		if err := c.flush(); err != nil {
			return irc.Message{}, &ErrDisconnected{Cause: err}
		}
		c.mu.Lock()
		result := *c.recved
		c.recved = nil
		c.mu.Unlock()
		return result, nil
	}
}

// TakeUnhandled drains and returns the Unhandled queue.
func (c *Client) TakeUnhandled() []irc.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.unhandled
	c.unhandled = nil
	return out
}

func (c *Client) pushUnhandled(msg irc.Message) {
	c.mu.Lock()
	c.unhandled = append(c.unhandled, msg)
	c.mu.Unlock()
}

// Run drives cmd to completion: send its initial outbound, then loop
// reading fresh frames (bypassing Unhandled, like RecvNew) until IsDone,
// dispatching each to HandleMessage and re-arming the deadline after every
// event. Messages the command does not claim are appended to Unhandled so
// a later Recv/Run can observe them. A context cancellation or connection
// drop aborts the command and returns ErrDisconnected/ctx.Err().
func (c *Client) Run(ctx context.Context, cmd Command) (any, error) {
	if err := c.sendAll(cmd.GetClientMessages()); err != nil {
		return nil, err
	}

	for !cmd.IsDone() {
		deadline, hasDeadline := cmd.GetTimeout()
		recvCtx := ctx
		var cancel context.CancelFunc
		if hasDeadline {
			recvCtx, cancel = context.WithTimeout(ctx, time.Duration(deadline)*time.Millisecond)
		}

		msg, err := c.RecvNew(recvCtx)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			if hasDeadline && recvCtx.Err() != nil && ctx.Err() == nil {
				cmd.HandleTimeout()
				if err := c.sendAll(cmd.GetClientMessages()); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		if !cmd.HandleMessage(msg) {
			c.pushUnhandled(msg)
		}
		if err := c.sendAll(cmd.GetClientMessages()); err != nil {
			return nil, err
		}
	}

	return cmd.GetOutput()
}

func (c *Client) sendAll(msgs []irc.Message) error {
	for _, m := range msgs {
		if err := c.Send(m); err != nil {
			return err
		}
	}
	return nil
}

