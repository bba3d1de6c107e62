/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Command ircwatch is a minimal terminal dashboard: it logs in, joins a
// single channel, and renders the topic and live member roster with
// tcell, refreshing as JOIN/PART/QUIT/NICK/KICK traffic arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/btnmasher/irc"
	"github.com/btnmasher/irc/ircconn"
	"github.com/btnmasher/irc/irccmd"
	"github.com/btnmasher/irc/shared/logfmt"
)

func main() {
	addr := flag.String("addr", "", "server address, host:port")
	channel := flag.String("channel", "", "channel to watch")
	nick := flag.String("nick", "ircwatch", "nickname to register as")
	useTLS := flag.Bool("tls", false, "use TLS")
	flag.Parse()

	if *addr == "" || *channel == "" {
		fmt.Println("usage: ircwatch -addr host:port -channel \"#chan\" [-nick NAME] [-tls]")
		return
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel) // the dashboard owns the screen; keep logs quiet
	logger.SetFormatter(logfmt.New(logfmt.HideKeys(true)))

	ctx := context.Background()
	client, err := ircconn.Dial(ctx, *addr, ircconn.DialOptions{UseTLS: *useTLS, Logger: logger})
	if err != nil {
		fmt.Println("dial:", err)
		return
	}
	defer client.Close()
	client.AddAutoresponder(&ircconn.PingResponder{})

	ch, err := irc.ParseChannel(*channel)
	if err != nil {
		fmt.Println("channel:", err)
		return
	}

	login := irccmd.NewLogin(irccmd.LoginParams{Nickname: *nick, Username: *nick, Realname: *nick})
	loginResult, err := client.Run(ctx, login)
	if err != nil {
		fmt.Println("login:", err)
		return
	}
	casemap := irc.CaseMappingRFC1459
	for _, p := range loginResult.(irccmd.LoginOutput).ISupport {
		if p.Key == "CASEMAPPING" && p.Kind == irc.ISupportEq {
			casemap = irc.ParseCaseMapping(p.Value)
		}
	}

	join := irccmd.NewJoin(irccmd.JoinParams{Channel: ch})
	joinResult, err := client.Run(ctx, join)
	if err != nil {
		fmt.Println("join:", err)
		return
	}
	jo := joinResult.(irccmd.JoinOutput)

	roster := newRoster(jo, casemap)
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Println("tcell:", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Println("tcell init:", err)
		return
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)

	events := make(chan tcell.Event, 16)
	go screen.ChannelEvents(events, nil)

	redraw := make(chan struct{}, 1)
	redraw <- struct{}{}

	go watchTraffic(ctx, client, roster, redraw)

	for {
		select {
		case ev := <-events:
			switch tev := ev.(type) {
			case *tcell.EventKey:
				if tev.Key() == tcell.KeyEscape || tev.Rune() == 'q' {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-redraw:
			draw(screen, roster)
		}
	}
}

// member pairs a nick's display form (as last seen on the wire) with its
// channel prefix.
type member struct {
	nick   string
	prefix byte
}

// roster tracks a channel's live topic and member set as the dashboard
// observes JOIN/PART/QUIT/NICK/KICK traffic after the initial snapshot.
// Members are keyed by their case-mapped nick so that differently-cased
// forms of the same name (as the server's casemapping defines sameness)
// collide correctly, per the server's advertised casemapping.
type roster struct {
	channel string
	topic   string
	casemap irc.CaseMapping
	members map[string]member // folded nick -> member
}

func newRoster(jo irccmd.JoinOutput, casemap irc.CaseMapping) *roster {
	r := &roster{channel: jo.Channel, topic: jo.Topic, casemap: casemap, members: map[string]member{}}
	for _, m := range jo.Members {
		r.members[r.casemap.Fold(m.Nick)] = member{nick: m.Nick, prefix: m.Prefix}
	}
	return r
}

func (r *roster) sortedNicks() []string {
	nicks := make([]string, 0, len(r.members))
	for _, m := range r.members {
		nicks = append(nicks, m.nick)
	}
	sort.Strings(nicks)
	return nicks
}

// watchTraffic reads fresh frames from client and updates roster in place,
// signaling redraw after anything that changes the displayed state.
func watchTraffic(ctx context.Context, client *ircconn.Client, r *roster, redraw chan<- struct{}) {
	for {
		msg, err := client.Recv(ctx)
		if err != nil {
			return
		}
		cm, ok := msg.AsClientMessage()
		if !ok {
			continue
		}
		changed := false
		switch v := cm.(type) {
		case irc.Join:
			if msg.Source != nil && r.casemap.Equal(v.Channels, r.channel) {
				r.members[r.casemap.Fold(msg.Source.Nick)] = member{nick: msg.Source.Nick}
				changed = true
			}
		case irc.Part:
			if msg.Source != nil && r.casemap.Equal(v.Channels, r.channel) {
				delete(r.members, r.casemap.Fold(msg.Source.Nick))
				changed = true
			}
		case irc.Quit:
			if msg.Source != nil {
				key := r.casemap.Fold(msg.Source.Nick)
				if _, ok := r.members[key]; ok {
					delete(r.members, key)
					changed = true
				}
			}
		case irc.Kick:
			if r.casemap.Equal(v.Channel, r.channel) {
				key := r.casemap.Fold(v.Nickname)
				if _, ok := r.members[key]; ok {
					delete(r.members, key)
					changed = true
				}
			}
		case irc.Nick:
			if msg.Source != nil {
				oldKey := r.casemap.Fold(msg.Source.Nick)
				if m, ok := r.members[oldKey]; ok {
					delete(r.members, oldKey)
					m.nick = v.Nickname
					r.members[r.casemap.Fold(v.Nickname)] = m
					changed = true
				}
			}
		case irc.Topic:
			if v.HasNewTopic && r.casemap.Equal(v.Channel, r.channel) {
				r.topic = v.NewTopic
				changed = true
			}
		}
		if changed {
			select {
			case redraw <- struct{}{}:
			default:
			}
		}
	}
}

func draw(screen tcell.Screen, r *roster) {
	screen.Clear()
	headerStyle := tcell.StyleDefault.Bold(true)
	drawText(screen, 0, 0, headerStyle, fmt.Sprintf("%s — %s", r.channel, r.topic))
	drawText(screen, 0, 1, tcell.StyleDefault, fmt.Sprintf("%d users", len(r.members)))

	row := 3
	for _, nick := range r.sortedNicks() {
		m := r.members[r.casemap.Fold(nick)]
		label := nick
		if m.prefix != 0 {
			label = string(m.prefix) + nick
		}
		drawText(screen, 0, row, tcell.StyleDefault, label)
		row++
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
