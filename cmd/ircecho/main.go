/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Command ircecho is a minimal example client: it loads a TOML profile,
// logs in (with optional SASL), joins the configured channels, and logs
// every PRIVMSG it sees until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	nested "github.com/antonfisher/nested-logrus-formatter"

	"github.com/btnmasher/irc"
	"github.com/btnmasher/irc/ircconn"
	"github.com/btnmasher/irc/irccmd"
)

func main() {
	profilePath := flag.String("profile", "ircecho.toml", "path to a TOML connection profile")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&nested.Formatter{
		HideKeys:    true,
		FieldsOrder: []string{"component", "host"},
	})
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	log := logger.WithField("component", "ircecho")

	profile, err := LoadProfile(*profilePath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := conc.NewWaitGroup()
	defer wg.Wait()

	killSignals := make(chan os.Signal, 1)
	signal.Notify(killSignals, syscall.SIGINT, syscall.SIGTERM)
	wg.Go(func() {
		select {
		case sig := <-killSignals:
			log.Infof("shutting down, received signal: %s", sig)
			cancel()
		case <-ctx.Done():
		}
	})

	if err := run(ctx, log, profile); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func run(ctx context.Context, log logrus.FieldLogger, profile *Profile) error {
	client, err := ircconn.Dial(ctx, profile.Server.Address, ircconn.DialOptions{
		UseTLS: profile.Server.TLS,
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	client.AddAutoresponder(&ircconn.PingResponder{})

	loginParams := irccmd.LoginParams{
		Password: profile.Identity.Password,
		Nickname: profile.Identity.Nickname,
		Username: profile.Identity.Username,
		Realname: profile.Identity.Realname,
		SASL:     profile.SASL.Enabled,
		SASLUser: profile.SASL.User,
		SASLPass: profile.SASL.Password,
	}
	if profile.SASL.PreferSHA1 {
		loginParams.SCRAM = irccmd.PreferSCRAMSHA1
	}

	login := irccmd.NewLogin(loginParams)
	loginResult, err := client.Run(ctx, login)
	if err != nil {
		return err
	}
	lo := loginResult.(irccmd.LoginOutput)
	log.WithFields(logrus.Fields{
		"nick":       lo.Nickname,
		"sasl_used":  lo.SASLUsed,
		"sasl_mech":  lo.SASLMech,
		"server":     lo.ServerInfo.Name,
	}).Info("logged in")

	for _, channel := range profile.Channels {
		ch, err := irc.ParseChannel(channel)
		if err != nil {
			log.WithError(err).Warnf("skipping invalid channel %q", channel)
			continue
		}
		join := irccmd.NewJoin(irccmd.JoinParams{Channel: ch})
		joinResult, err := client.Run(ctx, join)
		if err != nil {
			log.WithError(err).Errorf("join %s failed", channel)
			continue
		}
		jo := joinResult.(irccmd.JoinOutput)
		log.WithFields(logrus.Fields{
			"channel": jo.Channel,
			"members": len(jo.Members),
			"topic":   jo.Topic,
		}).Info("joined")
	}

	for {
		msg, err := client.Recv(ctx)
		if err != nil {
			return err
		}
		cm, ok := msg.AsClientMessage()
		if !ok {
			continue
		}
		pm, ok := cm.(irc.PrivMsg)
		if !ok {
			continue
		}
		from := ""
		if msg.Source != nil {
			from = msg.Source.Nick
		}
		log.WithFields(logrus.Fields{
			"from":   from,
			"target": pm.Target,
		}).Info(pm.Text)
	}
}
