package views

import (
	"comptroller/core"

	"github.com/shopspring/decimal"
)

// Liquidity account liquidity view
type Liquidity struct {
	Account    string          `json:"account"`
	Block      int64           `json:"block"`
	Collateral decimal.Decimal `json:"collateral"`
	Borrows    decimal.Decimal `json:"borrows"`
	Liquidity  decimal.Decimal `json:"liquidity"`
	Shortfall  decimal.Decimal `json:"shortfall"`
}

func LiquidityView(account string, block int64, l *core.AccountLiquidity) Liquidity {
	return Liquidity{
		Account:    account,
		Block:      block,
		Collateral: l.Collateral.Decimal(),
		Borrows:    l.Borrows.Decimal(),
		Liquidity:  l.Liquidity.Decimal(),
		Shortfall:  l.Shortfall.Decimal(),
	}
}

// Position one market of an account
type Position struct {
	Asset         string          `json:"asset"`
	Entered       bool            `json:"entered"`
	Claims        decimal.Decimal `json:"claims"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	BorrowBalance decimal.Decimal `json:"borrow_balance"`
}

func PositionView(asset string, entered bool, snapshot *core.BorrowSnapshot) Position {
	return Position{
		Asset:         asset,
		Entered:       entered,
		Claims:        snapshot.Claims.Decimal(),
		ExchangeRate:  snapshot.ExchangeRate.Decimal(),
		BorrowBalance: snapshot.BorrowBalance.Decimal(),
	}
}

// Shortfalls accounts found in shortfall by the last liquidity scan
type Shortfalls struct {
	Block    int64    `json:"block"`
	Accounts []string `json:"accounts"`
}
