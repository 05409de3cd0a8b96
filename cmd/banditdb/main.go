// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// banditdb serves a persistent keyspace of multi-armed bandits over JSON-RPC
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/banditdb/api"
	"github.com/ava-labs/banditdb/banditstore"
	"github.com/ava-labs/banditdb/database"
	"github.com/ava-labs/banditdb/database/leveldb"
	"github.com/ava-labs/banditdb/database/memdb"
	"github.com/ava-labs/banditdb/utils/logging"
)

const version = "banditdb/1.0.0"

func main() {
	fs := buildFlagSet()
	c, err := getConfig(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't load config: %s\n", err)
		os.Exit(1)
	}
	if c.printVersion {
		fmt.Println(version)
		return
	}

	log := logging.NewLogger("banditdb", c.logLevel, os.Stderr)
	defer log.Stop()

	if err := run(log, c); err != nil {
		log.Fatal("exiting with error",
			zap.Error(err),
		)
		log.Stop()
		os.Exit(1)
	}
}

func run(log logging.Logger, c config) error {
	var (
		db  database.Database
		err error
	)
	switch c.dbBackend {
	case memDB:
		db = memdb.New()
	case levelDB:
		db, err = leveldb.New(c.dbDir)
		if err != nil {
			return fmt.Errorf("couldn't open database at %q: %w", c.dbDir, err)
		}
	}
	defer func() {
		_ = db.Close()
	}()

	registry := prometheus.NewRegistry()
	store, err := banditstore.New(log, "banditdb", registry, db)
	if err != nil {
		return err
	}
	// Snapshots already reflect every mutation; replaying the op log on top
	// reconstructs the same state and catches a log that no longer does.
	if err := store.ReplayLog(); err != nil {
		return fmt.Errorf("couldn't replay op log: %w", err)
	}

	server, err := api.New(
		log,
		store,
		registry,
		registry,
		c.httpHost,
		c.httpPort,
		c.allowedOrigins,
	)
	if err != nil {
		return err
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Dispatch()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		log.Info("shutting down",
			zap.Stringer("signal", sig),
		)
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	// Leave the smallest log that still reconstructs the keyspace.
	if err := store.CompactLog(); err != nil {
		log.Error("couldn't compact op log",
			zap.Error(err),
		)
	}
	return server.Shutdown()
}
