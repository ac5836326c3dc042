package commands

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/KrolPaul/call-center/internal/cdr"
	"github.com/KrolPaul/call-center/internal/clock"
	"github.com/KrolPaul/call-center/internal/config"
	"github.com/KrolPaul/call-center/internal/dispatcher"
	"github.com/KrolPaul/call-center/internal/httpapi"
	"github.com/KrolPaul/call-center/internal/logger"
	"github.com/KrolPaul/call-center/internal/metrics"
	"github.com/KrolPaul/call-center/internal/operator"
	"github.com/KrolPaul/call-center/internal/queue"
	"github.com/KrolPaul/call-center/internal/randgen"
)

func runServe(cmd *cobra.Command, args []string) error {
	host := args[0]
	port, err := strconv.Atoi(args[1])
	if err != nil {
		return argError(fmt.Errorf("invalid port %q: %w", args[1], err))
	}

	var reloadInterval time.Duration
	if len(args) == 3 {
		seconds, err := strconv.Atoi(args[2])
		if err != nil {
			return argError(fmt.Errorf("invalid reloadIntervalSeconds %q: %w", args[2], err))
		}
		reloadInterval = time.Duration(seconds) * time.Second
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return argError(fmt.Errorf("loading configuration: %w", err))
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return argError(fmt.Errorf("initializing logger: %w", err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	q := queue.New[cdr.CDR, string](cfg.MaxCallQueueSize, cfg.RejectRepeatedCalls)
	pool := operator.New(cfg.NOperators)
	sysClock := clock.New()

	var sink cdr.Sink = cdr.NewLogSink()
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(prometheus.DefaultRegisterer)
		sink = metrics.NewMeteredSink(sink, collector)
	}

	d := dispatcher.New(cfg.DispatcherConfig(), q, pool, sysClock, randgen.New(), sink)
	d.SetObserver(collector)

	go d.Run(ctx)
	go config.NewWatcher(cfgFile, reloadInterval, d).Run(ctx)

	startTime := sysClock.Now()
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(d, sysClock, startTime),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return listenError(fmt.Errorf("listen on %s: %w", addr, err))
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	}
}
