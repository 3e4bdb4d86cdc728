// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// FlagSet holds the values of the configuration flags registered by
// [BindFlags]. Values are read after the owning flag set has been parsed.
type FlagSet struct {
	serverAddress  NetAddress
	databaseDSN    string
	dialect        string
	jsonConfigPath string
	resourcesPath  string
	requestTimeout time.Duration
	syncInterval   time.Duration
	handlers       []string
	concurrency    int
	logLevel       string
	logFile        string
}

// BindFlags registers the configuration flags on fs (typically the
// persistent flags of the root command).
//
// Flags:
//
//	-a, --address         HTTP server address in format [host]:[port]
//	-d, --dsn             database DSN
//	    --dialect         database dialect (sqlite|postgres)
//	-c, --config          JSON file path with configs
//	-r, --resources       YAML resource registry path
//	    --request-timeout inbound request timeout (e.g. "30s", "1m")
//	    --sync-interval   delay between scheduled passes
//	    --handlers        handlers run on schedule (comma separated)
//	    --concurrency     candidates processed at once
//	    --log-level       minimum log level
//	    --log-file        rotating log file path
func BindFlags(fs *pflag.FlagSet) *FlagSet {
	f := &FlagSet{}

	fs.VarP(&f.serverAddress, "address", "a", "Net address host:port")
	fs.StringVarP(&f.databaseDSN, "dsn", "d", "", "Database DSN")
	fs.StringVar(&f.dialect, "dialect", "", "Database dialect (sqlite|postgres)")
	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.StringVarP(&f.resourcesPath, "resources", "r", "", "Resource registry (YAML) path")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&f.syncInterval, "sync-interval", 0, "Delay between scheduled passes (e.g., 1m)")
	fs.StringSliceVar(&f.handlers, "handlers", nil, "Handlers run on schedule")
	fs.IntVar(&f.concurrency, "concurrency", 0, "Candidates processed at once")
	fs.StringVar(&f.logLevel, "log-level", "", "Minimum log level")
	fs.StringVar(&f.logFile, "log-file", "", "Rotating log file path")

	return f
}

// Config returns the flag values as a partial [StructuredConfig].
func (f *FlagSet) Config() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN:     f.databaseDSN,
				Dialect: f.dialect,
			},
		},
		Server: Server{
			HTTPAddress:    f.serverAddress.String(),
			RequestTimeout: f.requestTimeout,
		},
		Workers: Workers{
			SyncInterval: f.syncInterval,
			Handlers:     f.handlers,
		},
		Engine: Engine{
			Concurrency: f.concurrency,
		},
		Log: Log{
			Level: f.logLevel,
			File:  f.logFile,
		},
		ResourcesPath: f.resourcesPath,
		JSONFilePath:  f.jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number is an integer in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
