package main

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cihub/seelog"
)

type (
	Server interface {
		Listen() error
		Serve(ctx context.Context) error
		Start(ctx context.Context) error
		Stop()
		Addr() net.Addr
	}

	Config struct {
		Address     string
		ConnTimeout time.Duration // zero disables the per-connection deadline
		WakeTimeout time.Duration
		Logger      seelog.LoggerInterface
	}

	server struct {
		config   Config
		log      seelog.LoggerInterface
		listener net.Listener
		shutdown *shutdownCoordinator
		handled  int64 // atomic counter of served connections
	}

	// shutdownCoordinator flips the shutdown flag and wakes a pending Accept.
	shutdownCoordinator struct {
		requested atomic.Bool
		once      sync.Once
		target    string
		timeout   time.Duration
		fallback  net.Listener
		log       seelog.LoggerInterface
	}

	// request is the tokenized request line plus the raw header lines that followed it.
	request struct {
		Method  string
		Path    string
		Version string
		Headers []string
	}
)
