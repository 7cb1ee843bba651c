package main

import (
	"github.com/caredx/genogram/internal/server"
	"github.com/caredx/genogram/internal/util"
	"github.com/caredx/genogram/pkg/logger"
	"github.com/caredx/genogram/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Format: util.GetEnvString("LOG_FORMAT", "text"),
	})
	logger.Init(consoleLogger)

	server.Init()
}
