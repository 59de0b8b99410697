package risk

import (
	"context"

	"comptroller/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type riskStore struct {
	db *db.DB
}

// New new risk parameter store
func New(db *db.DB) core.IRiskStore {
	return &riskStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.RiskParameters{})
		if err := tx.AutoMigrate(core.RiskParameters{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *riskStore) Find(ctx context.Context) (*core.RiskParameters, error) {
	var risk core.RiskParameters
	if err := s.db.View().Where("id = ?", 1).First(&risk).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return &risk, nil
}

// Save the single parameter row, guarded by its version
func (s *riskStore) Save(ctx context.Context, risk *core.RiskParameters) error {
	risk.ID = 1
	version := risk.Version
	risk.Version++

	if version == 0 {
		return s.db.Update().Create(risk).Error
	}

	updates := map[string]interface{}{
		"close_factor":          risk.CloseFactor,
		"liquidation_incentive": risk.LiquidationIncentive,
		"protocol_seize_share":  risk.ProtocolSeizeShare,
		"max_borrow_rate":       risk.MaxBorrowRate,
		"version":               risk.Version,
	}

	tx := s.db.Update().Model(core.RiskParameters{}).Where("id = ? AND version = ?", risk.ID, version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
