package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/kv"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.GracefulShutdown(context.Background(), logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	store, err := backend.NewFactory(logger.Logger).CreateStore(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize store", err, "backend", cfg.DataBackend)
	}

	l, err := ledger.Load(ctx, store.Store, cfg.Categories)
	if err != nil {
		_ = store.Close()
		cli.Fatal(logger, "Failed to load ledger", err, "backend", cfg.DataBackend)
	}
	logger.Info("Ledger loaded", "transactions", l.Len(), "backend", cfg.DataBackend, log.FieldOperation, log.OpStartup)

	if err := ensureBankAmount(ctx, l, cfg, logger); err != nil {
		_ = store.Close()
		cli.Fatal(logger, "Failed to set bank amount", err)
	}

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Writes still work; the worker picks changes up on its periodic resync.
			logger.Warn("AMQP unavailable, change feed disabled", log.FieldError, err.Error())
		} else {
			publisher = client
			logger.Info("AMQP change feed enabled", "exchange", cfg.AMQPExchange)
		}
	}

	svc := services.NewLedgerService(l, publisher, logger)
	svc.OnClose(store.Close)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to release resources", log.FieldError, err.Error())
		}
	}()

	opts := []apphttp.Option{apphttp.WithLogger(logger)}
	if p, ok := store.Store.(kv.Pinger); ok {
		opts = append(opts, apphttp.WithPinger(p))
	}
	srv := apphttp.NewServer(":"+cfg.Port, svc, opts...)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// ensureBankAmount seeds the starting balance from BANK_AMOUNT, or asks for
// it on an interactive terminal. Otherwise it stays unset until set
// through the API.
func ensureBankAmount(ctx context.Context, l *ledger.Ledger, cfg *config.Config, logger *log.Logger) error {
	if _, ok := l.BankAmount(); ok {
		return nil
	}

	raw := cfg.BankAmount
	if raw == "" {
		if !cli.IsInteractive(os.Stdin) {
			logger.Info("Bank amount not set; set it from the page or PUT /api/settings/bank-amount")
			return nil
		}
		var err error
		if raw, err = cli.PromptBankAmount(os.Stdin, os.Stdout); err != nil {
			return err
		}
	}

	m, err := l.SetBankAmount(ctx, raw)
	if err != nil {
		return err
	}
	logger.Info("Bank amount set", log.FieldAmountCents, m.Cents, log.FieldOperation, log.OpSettings)
	return nil
}
