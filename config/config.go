// Package config reads the chart service settings from a yaml file or command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/satchart/internal/chart"
	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/services/carousel"
	"github.com/vadiminshakov/satchart/internal/services/scale"
)

// Exchange rate sources.
const (
	RateSourceStatic      = "static"
	RateSourceBinance     = "binance"
	RateSourceBybit       = "bybit"
	RateSourceHyperliquid = "hyperliquid"
)

// Heading layouts.
const (
	LayoutNarrow = "narrow"
	LayoutWide   = "wide"
)

type Config struct {
	Addr            string
	WALDir          string
	Divisions       int
	Layout          carousel.Layout
	Location        *time.Location
	RateSource      string
	LocalCurrency   string
	ExchangeRate    decimal.Decimal
	TLSDomains      []string
	CertCacheDir    string
	InitialCurrency domain.Currency
}

// ConfigTmp raw yaml form of Config.
type ConfigTmp struct {
	Addr            string   `yaml:"addr"`
	WALDir          string   `yaml:"wal_dir"`
	DivisionsStr    string   `yaml:"divisions,omitempty"`
	Layout          string   `yaml:"layout,omitempty"`
	Timezone        string   `yaml:"timezone,omitempty"`
	RateSource      string   `yaml:"rate_source"`
	LocalCurrency   string   `yaml:"local_currency"`
	ExchangeRateStr string   `yaml:"exchange_rate,omitempty"`
	TLSDomains      []string `yaml:"tls_domains,omitempty"`
	CertCacheDir    string   `yaml:"cert_cache_dir,omitempty"`
	InitialCurrency string   `yaml:"initial_currency,omitempty"`
}

// Defaults returns the settings used for every field left empty.
func Defaults() ConfigTmp {
	return ConfigTmp{
		Addr:            ":8000",
		WALDir:          "./wal/balance",
		DivisionsStr:    strconv.Itoa(scale.DefaultDivisions),
		Layout:          LayoutNarrow,
		Timezone:        "UTC",
		RateSource:      RateSourceStatic,
		LocalCurrency:   "USDT",
		ExchangeRateStr: "0",
		CertCacheDir:    "cert-cache",
		InitialCurrency: string(domain.CurrencySatoshis),
	}
}

// Get parses args with fs. A --config yaml file takes precedence over the other flags.
func Get(fs *flag.FlagSet, args []string) (Config, error) {
	d := Defaults()

	path := fs.String("config", "", "path to yaml config")
	addr := fs.String("addr", d.Addr, "listen address")
	walDir := fs.String("wal-dir", d.WALDir, "balance history WAL directory")
	divisions := fs.String("divisions", d.DivisionsStr, "intervals per chart axis")
	layout := fs.String("layout", d.Layout, "heading layout: narrow or wide")
	timezone := fs.String("timezone", d.Timezone, "IANA time zone of time axis labels")
	rateSource := fs.String("rate-source", d.RateSource, "exchange rate source: static, binance, bybit or hyperliquid")
	localCurrency := fs.String("local-currency", d.LocalCurrency, "local currency code, example: USDT")
	exchangeRate := fs.String("exchange-rate", d.ExchangeRateStr, "BTC price in the local currency for the static source")
	tlsDomains := fs.String("tls-domains", "", "comma separated domains for automatic TLS")
	initial := fs.String("initial-currency", d.InitialCurrency, "currency charted first: btc, sat or local")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *path != "" {
		return Load(*path)
	}

	tmp := ConfigTmp{
		Addr:            *addr,
		WALDir:          *walDir,
		DivisionsStr:    *divisions,
		Layout:          *layout,
		Timezone:        *timezone,
		RateSource:      *rateSource,
		LocalCurrency:   *localCurrency,
		ExchangeRateStr: *exchangeRate,
		InitialCurrency: *initial,
	}
	for _, domainName := range strings.Split(*tlsDomains, ",") {
		if domainName = strings.TrimSpace(domainName); domainName != "" {
			tmp.TLSDomains = append(tmp.TLSDomains, domainName)
		}
	}
	return tmp.Parse()
}

// Load reads and parses a yaml config file.
func Load(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrapf(err, "parse yaml config %s", path)
	}
	return tmp.Parse()
}

// Parse validates the raw settings, filling empty fields from Defaults.
func (c ConfigTmp) Parse() (Config, error) {
	c = c.withDefaults()

	divisions, err := strconv.Atoi(c.DivisionsStr)
	if err != nil || divisions < 1 {
		return Config{}, fmt.Errorf("incorrect 'divisions' param in config (must be a positive integer): %s", c.DivisionsStr)
	}

	var layout carousel.Layout
	switch strings.ToLower(c.Layout) {
	case LayoutNarrow:
		layout = carousel.NarrowLayout
	case LayoutWide:
		layout = carousel.WideLayout
	default:
		return Config{}, fmt.Errorf("incorrect 'layout' param in config (narrow or wide): %s", c.Layout)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return Config{}, errors.Wrapf(err, "incorrect 'timezone' param in config: %s", c.Timezone)
	}

	source := strings.ToLower(c.RateSource)
	switch source {
	case RateSourceStatic, RateSourceBinance, RateSourceBybit, RateSourceHyperliquid:
	default:
		return Config{}, fmt.Errorf("incorrect 'rate_source' param in config: %s", c.RateSource)
	}

	rate, err := decimal.NewFromString(c.ExchangeRateStr)
	if err != nil || rate.IsNegative() {
		return Config{}, fmt.Errorf("incorrect 'exchange_rate' param in config (must be a non-negative decimal): %s", c.ExchangeRateStr)
	}

	initial, err := domain.ParseCurrency(c.InitialCurrency)
	if err != nil {
		return Config{}, errors.Wrap(err, "incorrect 'initial_currency' param in config")
	}

	return Config{
		Addr:            c.Addr,
		WALDir:          c.WALDir,
		Divisions:       divisions,
		Layout:          layout,
		Location:        loc,
		RateSource:      source,
		LocalCurrency:   strings.ToUpper(c.LocalCurrency),
		ExchangeRate:    rate,
		TLSDomains:      c.TLSDomains,
		CertCacheDir:    c.CertCacheDir,
		InitialCurrency: initial,
	}, nil
}

func (c ConfigTmp) withDefaults() ConfigTmp {
	d := Defaults()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&c.Addr, d.Addr)
	fill(&c.WALDir, d.WALDir)
	fill(&c.DivisionsStr, d.DivisionsStr)
	fill(&c.Layout, d.Layout)
	fill(&c.Timezone, d.Timezone)
	fill(&c.RateSource, d.RateSource)
	fill(&c.LocalCurrency, d.LocalCurrency)
	fill(&c.ExchangeRateStr, d.ExchangeRateStr)
	fill(&c.CertCacheDir, d.CertCacheDir)
	fill(&c.InitialCurrency, d.InitialCurrency)
	return c
}

// ChartOptions returns the chart settings derived from the config.
func (c Config) ChartOptions() []chart.Option {
	return []chart.Option{
		chart.WithDivisions(c.Divisions),
		chart.WithLayout(c.Layout),
		chart.WithLocation(c.Location),
		chart.WithInitialCurrency(c.InitialCurrency),
	}
}
