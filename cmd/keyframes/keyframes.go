package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/keyframes/server"
	"github.com/cyclopcam/keyframes/server/config"
	"github.com/cyclopcam/logs"
)

func main() {
	parser := argparse.NewParser("keyframes", "Key frame detection query and overlay server")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Configuration file", Default: config.DefaultFilename})
	listen := parser.String("l", "listen", &argparse.Options{Help: "HTTP listen address (overrides config)", Default: ""})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	srv, err := server.NewServer(logger, cfg)
	if err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
	if srv.Renderer.UsingBuiltinFont() {
		logger.Infof("Labels will use the built-in font")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Infof("Received signal %v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warnf("Shutdown: %v", err)
		}
	}()

	if err := srv.ListenHTTP(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	logger.Infof("Exiting")
}
