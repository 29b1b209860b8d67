package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/services/carousel"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("satchart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestGet_Defaults(t *testing.T) {
	cfg, err := Get(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "./wal/balance", cfg.WALDir)
	assert.Equal(t, 5, cfg.Divisions)
	assert.Equal(t, carousel.NarrowLayout, cfg.Layout)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, RateSourceStatic, cfg.RateSource)
	assert.Equal(t, "USDT", cfg.LocalCurrency)
	assert.True(t, cfg.ExchangeRate.IsZero())
	assert.Empty(t, cfg.TLSDomains)
	assert.Equal(t, domain.CurrencySatoshis, cfg.InitialCurrency)
	assert.Len(t, cfg.ChartOptions(), 4)
}

func TestGet_Flags(t *testing.T) {
	cfg, err := Get(newFlagSet(), []string{
		"--addr", ":9000",
		"--divisions", "4",
		"--layout", "wide",
		"--timezone", "Europe/Berlin",
		"--rate-source", "binance",
		"--local-currency", "eur",
		"--tls-domains", "chart.example.com, www.chart.example.com",
		"--initial-currency", "btc",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 4, cfg.Divisions)
	assert.Equal(t, carousel.WideLayout, cfg.Layout)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, RateSourceBinance, cfg.RateSource)
	assert.Equal(t, "EUR", cfg.LocalCurrency)
	assert.Equal(t, []string{"chart.example.com", "www.chart.example.com"}, cfg.TLSDomains)
	assert.Equal(t, domain.CurrencyBTC, cfg.InitialCurrency)
}

func TestLoad_Yaml(t *testing.T) {
	tmp := ConfigTmp{
		Addr:            ":8443",
		RateSource:      "static",
		LocalCurrency:   "USD",
		ExchangeRateStr: "37000.5",
		TLSDomains:      []string{"chart.example.com"},
		InitialCurrency: "local-currency",
	}
	data, err := yaml.Marshal(tmp)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Get(newFlagSet(), []string{"--config", path, "--addr", ":1"})
	require.NoError(t, err)

	assert.Equal(t, ":8443", cfg.Addr, "yaml wins over flags")
	assert.Equal(t, "./wal/balance", cfg.WALDir)
	assert.Equal(t, 5, cfg.Divisions)
	assert.True(t, cfg.ExchangeRate.Equal(decimal.RequireFromString("37000.5")))
	assert.Equal(t, []string{"chart.example.com"}, cfg.TLSDomains)
	assert.Equal(t, domain.CurrencyLocal, cfg.InitialCurrency)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		tmp  ConfigTmp
	}{
		{"zero divisions", ConfigTmp{DivisionsStr: "0"}},
		{"text divisions", ConfigTmp{DivisionsStr: "five"}},
		{"unknown layout", ConfigTmp{Layout: "huge"}},
		{"unknown timezone", ConfigTmp{Timezone: "Mars/Olympus"}},
		{"unknown rate source", ConfigTmp{RateSource: "kraken"}},
		{"negative rate", ConfigTmp{ExchangeRateStr: "-1"}},
		{"unknown currency", ConfigTmp{InitialCurrency: "eur"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tmp.Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
