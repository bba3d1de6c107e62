/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Profile is an ircecho connection profile, loaded from a TOML file. It
// mirrors the fields irccmd.LoginParams and irccmd.JoinParams need, plus
// the dial-level settings ircecho itself owns.
type Profile struct {
	Server struct {
		Address string `toml:"address"`
		TLS     bool   `toml:"tls"`
	} `toml:"server"`

	Identity struct {
		Nickname string `toml:"nickname"`
		Username string `toml:"username"`
		Realname string `toml:"realname"`
		Password string `toml:"password"`
	} `toml:"identity"`

	SASL struct {
		Enabled  bool   `toml:"enabled"`
		User     string `toml:"user"`
		Password string `toml:"password"`
		PreferSHA1 bool `toml:"prefer_sha1"`
	} `toml:"sasl"`

	Channels []string `toml:"channels"`
}

// LoadProfile parses a TOML profile from path.
func LoadProfile(path string) (*Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("load profile %s: %w", path, err)
	}
	if p.Identity.Nickname == "" {
		return nil, fmt.Errorf("load profile %s: identity.nickname is required", path)
	}
	if p.Server.Address == "" {
		return nil, fmt.Errorf("load profile %s: server.address is required", path)
	}
	return &p, nil
}
