package core

import (
	"fmt"

	"comptroller/pkg/number"

	"github.com/fox-one/pkg/store/db"
)

// Config comptroller config
type Config struct {
	App     App            `json:"app"`
	DB      db.Config      `json:"db"`
	Redis   Redis          `json:"redis"`
	Oracle  PriceOracle    `json:"price_oracle"`
	Risk    Risk           `json:"risk"`
	Markets []MarketConfig `json:"markets"`
	Admins  []string       `json:"admins"`
}

// IsAdmin check if the account is admin
func (c *Config) IsAdmin(account string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == account {
			return true
		}
	}

	return false
}

const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
)

// App app config
type App struct {
	// Genesis unix seconds of block 0
	Genesis         int64  `json:"genesis"`
	SecondsPerBlock int64  `json:"seconds_per_block"`
	Location        string `json:"location"`
	Store           string `json:"store" valid:"in(memory|sql)"`
}

// Redis redis config, liquidity caching is skipped when Addr is empty
type Redis struct {
	Addr string `json:"addr"`
	DB   int    `json:"db"`
}

// PriceOracle price oracle config. Prices are used when EndPoint is empty.
type PriceOracle struct {
	EndPoint string            `json:"end_point" valid:"url,optional"`
	CacheTTL int64             `json:"cache_ttl"`
	Prices   map[string]string `json:"prices"`
}

// Risk registry-wide parameters, decimal strings
type Risk struct {
	CloseFactor          string `json:"close_factor"`
	LiquidationIncentive string `json:"liquidation_incentive"`
	ProtocolSeizeShare   string `json:"protocol_seize_share"`
	MaxBorrowRate        string `json:"max_borrow_rate"`
}

// MarketConfig bootstrap listing, decimal strings
type MarketConfig struct {
	Asset                 string `json:"asset" valid:"required"`
	Symbol                string `json:"symbol"`
	CollateralFactor      string `json:"collateral_factor"`
	LiquidationThreshold  string `json:"liquidation_threshold"`
	SupplyCap             string `json:"supply_cap"`
	BorrowCap             string `json:"borrow_cap"`
	ReserveFactor         string `json:"reserve_factor"`
	InitialExchangeRate   string `json:"initial_exchange_rate"`
	RateModel             string `json:"rate_model"`
	BaseRatePerYear       string `json:"base_rate_per_year"`
	MultiplierPerYear     string `json:"multiplier_per_year"`
	JumpMultiplierPerYear string `json:"jump_multiplier_per_year"`
	Kink                  string `json:"kink"`
	Multiplier2PerYear    string `json:"multiplier2_per_year"`
	BaseRate2PerYear      string `json:"base_rate2_per_year"`
	Kink2                 string `json:"kink2"`
}

func parseExp(v string) (number.Exp, error) {
	if v == "" {
		return number.ExpZero, nil
	}

	return number.ParseExp(v)
}

// Params listing parameters described by the config, empty caps are unlimited
func (c MarketConfig) Params() (MarketParams, error) {
	params := MarketParams{
		Asset:  c.Asset,
		Symbol: c.Symbol,
		RateModel: RateModelConfig{
			Kind: RateModelKind(c.RateModel),
		},
	}

	if params.RateModel.Kind == "" {
		params.RateModel.Kind = RateModelWhitePaper
	}

	exps := []struct {
		v   string
		dst *number.Exp
	}{
		{c.CollateralFactor, &params.CollateralFactor},
		{c.LiquidationThreshold, &params.LiquidationThreshold},
		{c.ReserveFactor, &params.ReserveFactor},
		{c.InitialExchangeRate, &params.InitialExchangeRate},
		{c.BaseRatePerYear, &params.RateModel.BaseRatePerYear},
		{c.MultiplierPerYear, &params.RateModel.MultiplierPerYear},
		{c.JumpMultiplierPerYear, &params.RateModel.JumpMultiplierPerYear},
		{c.Kink, &params.RateModel.Kink},
		{c.Multiplier2PerYear, &params.RateModel.Multiplier2PerYear},
		{c.BaseRate2PerYear, &params.RateModel.BaseRate2PerYear},
		{c.Kink2, &params.RateModel.Kink2},
	}

	for _, e := range exps {
		v, err := parseExp(e.v)
		if err != nil {
			return params, fmt.Errorf("market %s: %w", c.Asset, err)
		}
		*e.dst = v
	}

	if c.SupplyCap != "" {
		v, err := number.ParseAmount(c.SupplyCap)
		if err != nil {
			return params, fmt.Errorf("market %s supply cap: %w", c.Asset, err)
		}
		params.SupplyCap = &v
	}

	if c.BorrowCap != "" {
		v, err := number.ParseAmount(c.BorrowCap)
		if err != nil {
			return params, fmt.Errorf("market %s borrow cap: %w", c.Asset, err)
		}
		params.BorrowCap = &v
	}

	return params, nil
}

// Parameters overlays the configured values on base, empty values keep base
func (r Risk) Parameters(base *RiskParameters) (*RiskParameters, error) {
	risk := base.Clone()
	exps := []struct {
		v   string
		dst *number.Exp
	}{
		{r.CloseFactor, &risk.CloseFactor},
		{r.LiquidationIncentive, &risk.LiquidationIncentive},
		{r.ProtocolSeizeShare, &risk.ProtocolSeizeShare},
		{r.MaxBorrowRate, &risk.MaxBorrowRate},
	}

	for _, e := range exps {
		if e.v == "" {
			continue
		}

		v, err := number.ParseExp(e.v)
		if err != nil {
			return nil, fmt.Errorf("risk: %w", err)
		}
		*e.dst = v
	}

	return risk, nil
}
