package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/unkn0wn-root/odatacomplete/internal/mockserver"
)

func main() {
	var (
		addr    string
		latency time.Duration
		verbose bool
	)
	flag.StringVar(&addr, "addr", ":8089", "Listen address")
	flag.DurationVar(&latency, "latency", 0, "Artificial delay added to every collection response")
	flag.BoolVar(&verbose, "v", false, "Enable debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "odatamock",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	srv := mockserver.New(mockserver.Fixtures(),
		mockserver.WithLatency(latency),
		mockserver.WithLogger(logger),
	)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	}()

	logger.Info("serving Customers", "addr", addr, "latency", latency)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", "err", err)
	}
}
