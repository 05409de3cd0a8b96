// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/banditdb/utils/logging"
)

const (
	httpHostKey           = "http-host"
	httpPortKey           = "http-port"
	httpAllowedOriginsKey = "http-allowed-origins"
	dbDirKey              = "db-dir"
	dbBackendKey          = "db-backend"
	logLevelKey           = "log-level"
	versionKey            = "version"

	memDB   = "memdb"
	levelDB = "leveldb"
)

type config struct {
	httpHost       string
	httpPort       uint16
	allowedOrigins []string

	dbDir     string
	dbBackend string

	logLevel logging.Level

	printVersion bool
}

func buildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("banditdb", pflag.ContinueOnError)
	fs.String(httpHostKey, "127.0.0.1", "Address the HTTP API listens on")
	fs.Uint16(httpPortKey, 9650, "Port the HTTP API listens on")
	fs.StringSlice(httpAllowedOriginsKey, []string{"*"}, "Origins allowed through CORS")
	fs.String(dbDirKey, defaultDBDir(), "Directory for the persistent database")
	fs.String(dbBackendKey, levelDB, fmt.Sprintf("Database backend, %q or %q", levelDB, memDB))
	fs.String(logLevelKey, "info", "Log level: fatal, error, warn, info, debug")
	fs.Bool(versionKey, false, "Print version and exit")
	return fs
}

func defaultDBDir() string {
	return filepath.Join(".", "db")
}

func getConfig(fs *pflag.FlagSet, args []string) (config, error) {
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return config{}, err
	}

	backend := v.GetString(dbBackendKey)
	switch backend {
	case memDB, levelDB:
	default:
		return config{}, fmt.Errorf("unknown database backend %q", backend)
	}

	level, err := logging.ToLevel(v.GetString(logLevelKey))
	if err != nil {
		return config{}, err
	}

	return config{
		httpHost:       v.GetString(httpHostKey),
		httpPort:       uint16(v.GetUint(httpPortKey)),
		allowedOrigins: v.GetStringSlice(httpAllowedOriginsKey),
		dbDir:          v.GetString(dbDirKey),
		dbBackend:      backend,
		logLevel:       level,
		printVersion:   v.GetBool(versionKey),
	}, nil
}
