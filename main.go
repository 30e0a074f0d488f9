package main

import (
	"log"
	"os"

	"apigateway/internal/bootstrap"
	"apigateway/internal/config"
	"apigateway/internal/logger"
	"apigateway/internal/version"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		log.SetFlags(0)
		log.Println(version.GetVersion())
		return
	}

	conf, err := config.MustLoad()
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err)
	}

	l, err := logger.New(conf.LogLevel(), conf.LogDevelopment())
	if err != nil {
		log.Fatalf("Failed to build logger: %s", err)
	}
	restore := logger.Install(l)
	defer restore()

	l.Info("Starting", zap.String("version", version.GetVersion()))

	if err = bootstrap.New(conf, l).Run(); err != nil {
		l.Error("Application error", zap.Error(err))
		restore()
		os.Exit(1)
	}
}
