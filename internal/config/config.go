// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config builds the CLI's flag set and binds it to environment
// variables via viper, following the BuildFlagSet/BuildViper/BuildConfig
// split used by the simulator command: flags are declared once, parsed
// once, and only then turned into a validated Config the rest of the
// program consumes.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TRX"

// Flag names, exported so tests and main can refer to them without typos.
const (
	TopologyKey  = "topology"
	WorkersKey   = "workers"
	QueueSizeKey = "queue-size"
	LogLevelKey  = "log-level"
	MetricsKey   = "metrics"
)

// Topology is the closed set of dispatcher topologies the CLI can select.
type Topology string

const (
	TopologySerial  Topology = "serial"
	TopologySharded Topology = "sharded"
	TopologyActor   Topology = "actor"
)

// Config is the fully parsed, validated view of the CLI's flags.
type Config struct {
	InputPath string
	Topology  Topology
	Workers   int
	QueueSize int
	LogLevel  string
	Metrics   bool
}

// BuildFlagSet declares every flag the CLI accepts. It does not parse
// os.Args; that happens in BuildViper.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("trx", pflag.ContinueOnError)

	fs.String(TopologyKey, string(TopologySerial), "dispatcher topology: serial, sharded, or actor")
	fs.Int(WorkersKey, runtime.GOMAXPROCS(0), "worker count for the sharded topology")
	fs.Int(QueueSizeKey, 256, "per-worker/per-actor inbox capacity")
	fs.String(LogLevelKey, "info", "log level: debug, info, warn, error")
	fs.Bool(MetricsKey, false, "log a final metrics summary to stderr")

	return fs
}

// BuildViper parses args against fs, binds every flag to a TRX_-prefixed
// environment variable, and returns the resulting viper instance. It
// returns pflag.ErrHelp unmodified if args requested usage, so callers can
// special-case a clean exit without printing an error.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: binding flags: %w", err)
	}
	return v, nil
}

// BuildConfig validates v's bound values into a Config. inputPath is the
// positional CSV path argument, passed separately since it is not a flag.
func BuildConfig(v *viper.Viper, inputPath string) (Config, error) {
	if inputPath == "" {
		return Config{}, fmt.Errorf("config: missing input CSV path")
	}

	topology := Topology(strings.ToLower(v.GetString(TopologyKey)))
	switch topology {
	case TopologySerial, TopologySharded, TopologyActor:
	default:
		return Config{}, fmt.Errorf("config: unrecognized topology %q", topology)
	}

	workers := v.GetInt(WorkersKey)
	if workers <= 0 {
		return Config{}, fmt.Errorf("config: workers must be positive, got %d", workers)
	}

	queueSize := v.GetInt(QueueSizeKey)
	if queueSize <= 0 {
		return Config{}, fmt.Errorf("config: queue-size must be positive, got %d", queueSize)
	}

	return Config{
		InputPath: inputPath,
		Topology:  topology,
		Workers:   workers,
		QueueSize: queueSize,
		LogLevel:  v.GetString(LogLevelKey),
		Metrics:   v.GetBool(MetricsKey),
	}, nil
}
