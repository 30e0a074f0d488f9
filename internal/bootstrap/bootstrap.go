package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apigateway/internal/config"
	"apigateway/internal/http/body"
	"apigateway/internal/transport"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Bootstrap struct {
	Config     config.Config
	Logger     *zap.Logger
	SignalChan chan os.Signal
}

func New(cfg config.Config, logger *zap.Logger) *Bootstrap {
	body.SetBufferSize(cfg.BufferSize())

	return &Bootstrap{
		Config:     cfg,
		Logger:     logger,
		SignalChan: make(chan os.Signal, 1),
	}
}

func listenPprof(pprofPort string) (net.Listener, error) {
	return net.Listen("tcp", fmt.Sprintf("localhost:%s", pprofPort))
}

// Run starts the gateway and, when enabled, the pprof endpoint. It returns
// once a termination signal arrives or one of the services fails.
func (b *Bootstrap) Run() error {
	signal.Notify(b.SignalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(b.SignalChan)

	gateway := transport.NewHTTPServer(b.Config, b.Logger)
	ln, err := gateway.Listen()
	if err != nil {
		return fmt.Errorf("failed to start http gateway: %w", err)
	}

	var pprofServer *http.Server
	var pprofLn net.Listener
	if b.Config.PprofEnabled() {
		pprofLn, err = listenPprof(b.Config.PprofPort())
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("failed to start pprof server: %w", err)
		}
		pprofServer = &http.Server{ReadHeaderTimeout: shutdownTimeout}
	}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		if err := gateway.Serve(ln); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("error when serving http gateway: %w", err)
		}
		return nil
	})

	if pprofServer != nil {
		b.Logger.Info("Starting pprof server", zap.String("url", fmt.Sprintf("http://%s/debug/pprof/", pprofLn.Addr())))
		g.Go(func() error {
			if err := pprofServer.Serve(pprofLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server error: %w", err)
			}
			return nil
		})
	}

	b.Logger.Info("All services started successfully")

	g.Go(func() error {
		select {
		case sig := <-b.SignalChan:
			b.Logger.Info("Received signal, initiating graceful shutdown", zap.Stringer("signal", sig))
		case <-ctx.Done():
		}

		err := ln.Close()
		if pprofServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if serr := pprofServer.Shutdown(shutdownCtx); serr != nil {
				b.Logger.Warn("error shutting down pprof server", zap.Error(serr))
			}
		}
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})

	if err = g.Wait(); err != nil {
		return fmt.Errorf("service error: %w", err)
	}
	return nil
}
