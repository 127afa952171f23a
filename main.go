package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

var (
	addr        = flag.String("addr", defaultAddress, "Address to listen on.")
	connTimeout = flag.Duration("conn-timeout", 0, "Per-connection read/write deadline, 0 disables it.")
	wakeTimeout = flag.Duration("wake-timeout", defaultWakeTimeout, "Timeout of the shutdown wake connection.")
	logLevel    = flag.String("log-level", "info", "Minimum log level (trace, debug, info, warn, error, critical).")
	logConfig   = flag.String("log-config", "", "Path to a seelog XML config, overrides -log-level.")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	logger, err := newLogger(*logLevel, *logConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Flush()

	// repeated interrupts keep landing on this context and are ignored
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	server := NewServer(Config{
		Address:     *addr,
		ConnTimeout: *connTimeout,
		WakeTimeout: *wakeTimeout,
		Logger:      logger,
	})

	if err := server.Listen(); err != nil {
		logger.Criticalf("%v", err)
		return 1
	}

	if err := server.Serve(ctx); err != nil {
		logger.Criticalf("Server stopped: %v", err)
		return 1
	}

	logger.Info("Server exited cleanly.")
	return 0
}
