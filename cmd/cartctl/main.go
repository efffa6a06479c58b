// cmd/cartctl/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/norun9/gomarketplace-cartstore/internal/config"
	"github.com/norun9/gomarketplace-cartstore/internal/logging"
	"github.com/norun9/gomarketplace-cartstore/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := realMain(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain(ctx context.Context, args []string) error {
	// ----------------------------------------------------------------
	// 1) configuration, global flags win over file and env
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("cartctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "durable store: memory, redis or sqlite")
	flags.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "key namespace; the cart lives at <namespace>:cart")
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// ----------------------------------------------------------------

	// ----------------------------------------------------------------
	// 2) logger
	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	// ----------------------------------------------------------------

	// ----------------------------------------------------------------
	// 3) OpenTelemetry TracerProvider
	tp, err := telemetry.InitTracerProvider(ctx, telemetry.Options{
		Exporter: cfg.Trace.Exporter,
		Endpoint: cfg.Trace.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("error shutting down tracer provider")
		}
	}()
	// ----------------------------------------------------------------

	// ----------------------------------------------------------------
	// 4) store + command
	log.WithField("backend", cfg.Backend).Debug("running command")
	return run(ctx, flags.Args(), cfg, log, os.Stdout)
	// ----------------------------------------------------------------
}
