package main

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// Config is read from the environment. Flags given on the command line win.
type Config struct {
	TPS       int    `env:"ARENA_TPS" envDefault:"60"`
	LogLevel  string `env:"ARENA_LOG_LEVEL" envDefault:"info"`
	PrefabDir string `env:"ARENA_PREFAB_DIR" envDefault:"prefabs"`
	Watch     bool   `env:"ARENA_WATCH" envDefault:"true"`
}

func loadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		Prefix:          "arena",
		ReportTimestamp: true,
	}), nil
}
