package main

import "time"

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8000"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,default=./data/badger"`
	LogLevel             string        `env:"LOG_LEVEL,default=info"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	StatsInterval        time.Duration `env:"STATS_INTERVAL,default=30s"`
	GCInterval           time.Duration `env:"GC_INTERVAL,default=5m"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	SeedDemo             bool          `env:"SEED_DEMO,default=false"`
}
