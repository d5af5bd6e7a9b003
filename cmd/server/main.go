package main

import (
	"marketmind/internal/config"
	"marketmind/internal/server"
	"marketmind/internal/util"
	"marketmind/pkg/logger"
	"marketmind/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	cfg := config.FromEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
	})
	logger.Init(consoleLogger)

	server.Init(cfg)
}
