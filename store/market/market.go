package market

import (
	"context"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.IMarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Market{})
		if err := tx.AutoMigrate(core.Market{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *marketStore) Find(ctx context.Context, asset string) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Where("asset = ?", asset).First(&market).Error; err != nil {
		return nil, err
	}

	return &market, nil
}

func (s *marketStore) List(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := s.db.View().Order("asset").Find(&markets).Error; err != nil {
		return nil, err
	}

	return markets, nil
}

// Save creates the market or updates it guarded by its version
func (s *marketStore) Save(ctx context.Context, market *core.Market) error {
	if market.ID == 0 {
		market.Version = 1
		return s.db.Update().Create(market).Error
	}

	version := market.Version
	market.Version++
	tx := s.db.Update().Model(core.Market{}).Where("id = ? AND version = ?", market.ID, version).Updates(toUpdateParams(market))
	if tx.Error != nil {
		market.Version = version
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		market.Version = version
		return db.ErrOptimisticLock
	}

	return nil
}

func toUpdateParams(market *core.Market) map[string]interface{} {
	return map[string]interface{}{
		"symbol":                market.Symbol,
		"is_listed":             market.IsListed,
		"collateral_factor":     market.CollateralFactor,
		"liquidation_threshold": market.LiquidationThreshold,
		"supply_cap":            market.SupplyCap,
		"borrow_cap":            market.BorrowCap,
		"total_supply":          market.TotalSupply,
		"total_borrows":         market.TotalBorrows,
		"total_reserves":        market.TotalReserves,
		"cash":                  market.Cash,
		"borrow_index":          market.BorrowIndex,
		"accrual_block":         market.AccrualBlock,
		"reserve_factor":        market.ReserveFactor,
		"initial_exchange_rate": market.InitialExchangeRate,
		"rate_model":            market.RateModel,
		"mint_paused":           market.MintPaused,
		"borrow_paused":         market.BorrowPaused,
		"transfer_paused":       market.TransferPaused,
		"seize_paused":          market.SeizePaused,
		"version":               market.Version,
	}
}
