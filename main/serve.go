package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheFellow/fluid/pkg/emitter"
	"github.com/TheFellow/fluid/pkg/fluid"
	"github.com/TheFellow/fluid/pkg/stream"
)

// serve runs the solver headless and streams frames until interrupted.
func serve(opts options, f *fluid.Fluid, em *emitter.Emitter) error {
	logger := log.New(os.Stderr, "fluid: ", log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := stream.New(f, em, opts.tps, logger)
	httpServer := &http.Server{Addr: opts.addr, Handler: srv.Handler()}

	errc := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	logger.Printf("streaming %dx%d %s at %d tps on ws://%s/ws",
		opts.cfg.Width, opts.cfg.Height, opts.cfg.Scheme, opts.tps, opts.addr)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		// A listener failure stops the simulation too.
		if err := <-errc; err != nil {
			logger.Println("http server:", err)
			cancel()
		}
	}()
	if err := srv.Run(runCtx); err != nil {
		return err
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	return httpServer.Shutdown(shutdownCtx)
}
