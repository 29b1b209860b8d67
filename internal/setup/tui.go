// Package setup runs the interactive terminal wizard that writes the service config.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/satchart/config"
	"github.com/vadiminshakov/satchart/internal/domain"
)

// DefaultConfigFile file written by the wizard when no path is given.
const DefaultConfigFile = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

func screen(step string) {
	fmt.Print("\033[H\033[2J") // clear screen
	fmt.Println(headerStyle.Render("SATCHART CONFIG WIZARD"))
	fmt.Println(stepStyle.Render(step))
}

// RunTUI launches the terminal configuration wizard and writes the result to path.
func RunTUI(path string) error {
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := config.Defaults()
	var (
		tlsDomains string
		confirm    bool
	)

	screen("STEP 1: SERVER")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Where the chart API listens and keeps its history.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Value(&cfg.Addr),
			huh.NewInput().
				Title("Balance history directory").
				Value(&cfg.WALDir),
			huh.NewInput().
				Title("Automatic TLS domains").
				Description("Comma separated, leave empty for plain HTTP").
				Value(&tlsDomains),
		),
	).Run()
	if err != nil {
		return err
	}
	cfg.TLSDomains = splitDomains(tlsDomains)

	screen("STEP 2: EXCHANGE RATE")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should the BTC price come from?").
				Options(
					huh.NewOption("Fixed rate", config.RateSourceStatic),
					huh.NewOption("Binance", config.RateSourceBinance),
					huh.NewOption("Bybit", config.RateSourceBybit),
					huh.NewOption("Hyperliquid", config.RateSourceHyperliquid),
				).
				Value(&cfg.RateSource),
			huh.NewInput().
				Title("Local currency").
				Description("Quote currency code (e.g. USDT)").
				Value(&cfg.LocalCurrency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("local currency cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	if cfg.RateSource == config.RateSourceStatic {
		screen("STEP 3: FIXED RATE")
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("BTC price in " + cfg.LocalCurrency).
					Value(&cfg.ExchangeRateStr).
					Validate(validateRate),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	screen("STEP 4: CHART")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Axis divisions").
				Value(&cfg.DivisionsStr).
				Validate(validateDivisions),
			huh.NewSelect[string]().
				Title("Heading layout").
				Options(
					huh.NewOption("Narrow", config.LayoutNarrow),
					huh.NewOption("Wide (long local currency names)", config.LayoutWide),
				).
				Value(&cfg.Layout),
			huh.NewSelect[string]().
				Title("Currency shown first").
				Options(
					huh.NewOption(domain.CurrencySatoshis.Title(), string(domain.CurrencySatoshis)),
					huh.NewOption(domain.CurrencyBTC.Title(), string(domain.CurrencyBTC)),
					huh.NewOption(domain.CurrencyLocal.Title(), string(domain.CurrencyLocal)),
				).
				Value(&cfg.InitialCurrency),
			huh.NewInput().
				Title("Time zone").
				Description("IANA name (e.g. UTC, Europe/Berlin)").
				Value(&cfg.Timezone).
				Validate(func(s string) error {
					_, err := time.LoadLocation(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	screen("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Address: %s\nHistory: %s\nRate: %s (%s)\nDivisions: %s\nLayout: %s\n",
		cfg.Addr, cfg.WALDir, cfg.RateSource, cfg.LocalCurrency, cfg.DivisionsStr, cfg.Layout,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	if err := Write(path, cfg); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", path)))
	return nil
}

// Write validates cfg and stores it as yaml at path.
func Write(path string, cfg config.ConfigTmp) error {
	if _, err := cfg.Parse(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

func validateRate(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateDivisions(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func splitDomains(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
