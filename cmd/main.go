// Command satchart serves and renders Bitcoin balance history charts.
//
// Usage:
//
//	satchart serve [--config config.yaml | flags]
//	satchart render --address ADDR [--api URL] [--currency sat|btc|local] [--out chart.svg]
//	satchart import --address ADDR --file deltas.json
//	satchart setup [--out config.gen.yaml]
//
// Exchange credentials are read from the environment or a .env file:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	For Hyperliquid: HYPERLIQUID_BASE_URL, optionally HYPERLIQUID_PRIVATE_KEY
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/satchart/config"
	"github.com/vadiminshakov/satchart/internal"
	"github.com/vadiminshakov/satchart/internal/chart"
	"github.com/vadiminshakov/satchart/internal/clients"
	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/events"
	"github.com/vadiminshakov/satchart/internal/services/history"
	"github.com/vadiminshakov/satchart/internal/setup"
	"github.com/vadiminshakov/satchart/internal/storage/balancehistory"
	"github.com/vadiminshakov/satchart/internal/surface/svg"
	"github.com/vadiminshakov/satchart/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		logger.Fatal("satchart failed", zap.Error(err))
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *zap.Logger) error {
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, args, logger)
	case "render":
		return render(ctx, args, stdout, logger)
	case "import":
		return importDeltas(args, logger)
	case "setup":
		fs := flag.NewFlagSet("setup", flag.ContinueOnError)
		out := fs.String("out", setup.DefaultConfigFile, "config file to write")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return setup.RunTUI(*out)
	default:
		return fmt.Errorf("unknown command %q, expected serve, render, import or setup", command)
	}
}

func newHistoryService(cfg config.Config, store *balancehistory.WALStore, logger *zap.Logger) (*history.Service, error) {
	client, err := internal.NewRateClient(cfg, internal.CredentialsFromEnv())
	if err != nil {
		return nil, err
	}
	rates, err := internal.NewPricer(cfg, client)
	if err != nil {
		return nil, err
	}
	return history.NewService(store, rates, cfg.LocalCurrency, logger), nil
}

func serve(ctx context.Context, args []string, logger *zap.Logger) error {
	cfg, err := config.Get(flag.NewFlagSet("serve", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	store, err := balancehistory.NewWALStore(cfg.WALDir)
	if err != nil {
		return err
	}
	defer store.Close()

	histories, err := newHistoryService(cfg, store, logger)
	if err != nil {
		return err
	}

	srv := web.NewServer(web.Config{
		Addr:         cfg.Addr,
		ChartOptions: cfg.ChartOptions(),
	}, store, histories, events.NewDeltaBroadcaster(256), logger)

	logger.Info("starting chart server",
		zap.String("rate_source", cfg.RateSource),
		zap.String("local_currency", cfg.LocalCurrency),
		zap.Uint64("stored_deltas", store.CurrentIndex()))

	if len(cfg.TLSDomains) > 0 {
		return srv.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.CertCacheDir)
	}
	return srv.Start(ctx)
}

func render(ctx context.Context, args []string, stdout io.Writer, logger *zap.Logger) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	address := fs.String("address", "", "bitcoin address to chart")
	api := fs.String("api", "", "chart API base URL, the local history is used when empty")
	currency := fs.String("currency", "", "currency charted: sat, btc or local")
	out := fs.String("out", "", "SVG file to write, stdout when empty")

	cfg, err := config.Get(fs, args)
	if err != nil {
		return err
	}
	if *address == "" {
		return errors.Wrap(domain.ErrInvalidInput, "--address is required")
	}

	opts := cfg.ChartOptions()
	if *currency != "" {
		c, err := domain.ParseCurrency(*currency)
		if err != nil {
			return err
		}
		opts = append(opts, chart.WithInitialCurrency(c))
	}

	deltas, meta, err := loadDeltas(ctx, cfg, *address, *api, logger)
	if err != nil {
		return err
	}
	if len(deltas) == 0 {
		return fmt.Errorf("no balance history for %s", *address)
	}

	doc := svg.NewChartDocument(meta.LocalCurrency)
	c, err := chart.New(doc, opts...)
	if err != nil {
		return err
	}
	frame, err := c.Render(deltas)
	if err != nil {
		return err
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer f.Close()
		w = f
	}
	if _, err := doc.WriteTo(w); err != nil {
		return errors.Wrap(err, "write chart")
	}

	logger.Info("chart rendered",
		zap.String("address", *address),
		zap.String("currency", string(frame.Currency)),
		zap.Int("deltas", len(deltas)))
	return nil
}

func loadDeltas(ctx context.Context, cfg config.Config, address, api string, logger *zap.Logger) ([]domain.BalanceDelta, domain.HistoryMeta, error) {
	if api != "" {
		return clients.NewHistoryClient(api, logger).FetchHistory(ctx, address)
	}

	store, err := balancehistory.NewWALStore(cfg.WALDir)
	if err != nil {
		return nil, domain.HistoryMeta{}, err
	}
	defer store.Close()

	histories, err := newHistoryService(cfg, store, logger)
	if err != nil {
		return nil, domain.HistoryMeta{}, err
	}
	h, err := histories.Load(ctx, address)
	if err != nil {
		return nil, domain.HistoryMeta{}, err
	}
	return h.Items, h.Meta, nil
}

func importDeltas(args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	address := fs.String("address", "", "bitcoin address the deltas belong to")
	file := fs.String("file", "", "JSON file with [[timestamp, satoshis], ...]")

	cfg, err := config.Get(fs, args)
	if err != nil {
		return err
	}
	if *address == "" || *file == "" {
		return errors.Wrap(domain.ErrInvalidInput, "--address and --file are required")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return errors.Wrap(err, "read deltas file")
	}
	var deltas []domain.SatoshiDelta
	if err := json.Unmarshal(raw, &deltas); err != nil {
		return errors.Wrapf(err, "decode deltas file %s", *file)
	}

	store, err := balancehistory.NewWALStore(cfg.WALDir)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.SaveAll(*address, deltas)
	if err != nil {
		return err
	}

	logger.Info("balance deltas imported",
		zap.String("address", *address),
		zap.Int("count", len(records)),
		zap.Uint64("last_index", store.CurrentIndex()))
	return nil
}
