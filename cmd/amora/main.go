// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package main is the Amora command line client.
//
// The binary wraps the platform's REST and WebSocket APIs in subcommands:
//
//	amora signup <email> <password> <first> <last> <gender> <yyyy-mm-dd>
//	amora login <email> <password>
//	amora logout
//	amora whoami
//	amora browse
//	amora connect <userId> | cancel <userId> | accept <userId> | reject <userId>
//	amora requests
//	amora chats [filter]
//	amora chat <friendId>
//	amora gallery [all|images|videos]
//	amora upload <file> [caption] [privacy]
//	amora plans
//	amora upgrade <tier>
//
// Configuration is loaded from defaults, an optional amora.yaml, and
// AMORA_* environment variables, in that order of increasing priority.
// Session state persists under the user cache directory, so commands keep
// the login across invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/localstore"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
		Output:    os.Stderr,
	})

	store, err := localstore.Open(cfg.State.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "state store:", err)
		os.Exit(1)
	}
	defer store.Close()

	client, err := api.NewClient(&cfg.API, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "api client:", err)
		os.Exit(1)
	}

	app := &app{
		cfg:      cfg,
		store:    store,
		client:   client,
		sessions: session.NewManager(client, store, cfg.API.RestoreTimeout),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: amora <command> [args]

account:    signup, login, logout, whoami, profile
discovery:  browse, connect, cancel, accept, reject, requests
messaging:  chats, chat
media:      gallery, upload, delete, like, bookmark
premium:    plans, upgrade`)
}
